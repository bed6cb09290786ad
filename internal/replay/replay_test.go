package replay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"ammosync/internal/config"
	"ammosync/internal/dispatch"
	"ammosync/internal/handler"
	"ammosync/internal/notify"
	"ammosync/internal/sheet"
	"ammosync/internal/store"
	"ammosync/internal/store/memory"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "empty script", data: "steps: []"},
		{name: "empty step", data: "steps:\n  - {}\n", wantErr: true},
		{name: "both kinds", data: "steps:\n  - roll: {who: a}\n    set: {character: a, attribute: b}\n", wantErr: true},
		{name: "set without attribute", data: "steps:\n  - set: {character: a}\n", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	if _, err := Parse([]byte("steps:\n  - {}\n")); !errors.Is(err, ErrEmptyStep) {
		t.Fatalf("expected ErrEmptyStep, got %v", err)
	}
}

func TestRun_Session(t *testing.T) {
	ctx := context.Background()
	layout := config.DefaultSheet()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	inner := memory.New()
	bus := dispatch.New(100, log)
	db := bus.Store(inner)
	h := handler.New(db, layout, notify.New(inner, "Ammo Tracker"), log)
	bus.OnRoll(h.HandleRoll)
	bus.OnAttributeChange(h.HandleAttributeChange)

	alice := store.Character{ID: "alice", Name: "Alice", SheetType: store.SheetTypePlayer}
	if err := inner.UpsertCharacter(ctx, alice); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	w, a := layout.Weapons, layout.Ammo
	rows := []struct {
		key   sheet.Key
		value string
	}{
		{sheet.Key{Section: w.Section, RowID: "-w1", Field: w.Name}, "10mm Pistol"},
		{sheet.Key{Section: w.Section, RowID: "-w1", Field: w.Ammo}, "10mm"},
		{sheet.Key{Section: w.Section, RowID: "-w1", Field: w.AmmoCount}, "20"},
		{sheet.Key{Section: w.Section, RowID: "-w1", Field: w.Damage}, "2"},
		{sheet.Key{Section: w.Section, RowID: "-w1", Field: w.FireRate}, "0"},
		{sheet.Key{Section: w.Section, RowID: "-w2", Field: w.Name}, "Assault Rifle"},
		{sheet.Key{Section: w.Section, RowID: "-w2", Field: w.Ammo}, "10mm"},
		{sheet.Key{Section: w.Section, RowID: "-w2", Field: w.AmmoCount}, "20"},
		{sheet.Key{Section: w.Section, RowID: "-w2", Field: w.Damage}, "2"},
		{sheet.Key{Section: w.Section, RowID: "-w2", Field: w.FireRate}, "2"},
		{sheet.Key{Section: a.Section, RowID: "-a1", Field: a.Name}, "10mm"},
		{sheet.Key{Section: a.Section, RowID: "-a1", Field: a.Quantity}, "20"},
	}
	for _, r := range rows {
		if err := inner.SetAttribute(ctx, alice.ID, r.key.String(), r.value); err != nil {
			t.Fatalf("seed %s: %v", r.key, err)
		}
	}

	script, err := Load(filepath.Join("testdata", "session.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	result, err := Run(ctx, script, bus, db)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Steps != 3 {
		t.Fatalf("steps = %d, want 3", result.Steps)
	}

	// 20 -> 19 from the pistol, edited to 12, then the rifle spends 1 + 2.
	for _, key := range []sheet.Key{
		{Section: a.Section, RowID: "-a1", Field: a.Quantity},
		{Section: w.Section, RowID: "-w1", Field: w.AmmoCount},
		{Section: w.Section, RowID: "-w2", Field: w.AmmoCount},
	} {
		attr, _ := inner.GetAttribute(ctx, alice.ID, key.String())
		if attr == nil || attr.Current != "9" {
			t.Fatalf("%s = %+v, want 9", key, attr)
		}
	}

	chat, _ := inner.ListChat(ctx, 0)
	if len(chat) != 2 {
		t.Fatalf("chat messages = %d, want 2", len(chat))
	}
}

func TestRun_UnknownCharacter(t *testing.T) {
	bus := dispatch.New(0, nil)
	db := bus.Store(memory.New())
	script := &Script{Steps: []Step{{Set: &SetStep{Character: "Nobody", Attribute: "x", Value: "1"}}}}

	result, err := Run(context.Background(), script, bus, db)
	if err == nil {
		t.Fatalf("expected error")
	}
	if result.Steps != 0 {
		t.Fatalf("steps = %d, want 0", result.Steps)
	}
}
