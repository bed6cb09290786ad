package handler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"ammosync/internal/config"
	"ammosync/internal/dispatch"
	"ammosync/internal/event"
	"ammosync/internal/notify"
	"ammosync/internal/sheet"
	"ammosync/internal/store"
	"ammosync/internal/store/memory"
)

type weaponRow struct {
	row, name, ammo, count, damage, fireRate, qualities string
}

type ammoRow struct {
	row, name, quantity string
}

type harness struct {
	t      *testing.T
	inner  *memory.Store
	bus    *dispatch.Bus
	db     *dispatch.ObservedStore
	h      *Handler
	layout *config.Sheet
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	inner := memory.New()
	bus := dispatch.New(200, quietLogger())
	db := bus.Store(inner)
	layout := config.DefaultSheet()
	h := New(db, layout, notify.New(inner, "Ammo Tracker"), quietLogger())
	bus.OnRoll(h.HandleRoll)
	bus.OnAttributeChange(h.HandleAttributeChange)
	return &harness{t: t, inner: inner, bus: bus, db: db, h: h, layout: layout}
}

// seed writes straight to the inner store so no events are queued.
func (hs *harness) seed(ch store.Character, weapons []weaponRow, ammo []ammoRow) {
	hs.t.Helper()
	ctx := context.Background()
	if err := hs.inner.UpsertCharacter(ctx, ch); err != nil {
		hs.t.Fatalf("UpsertCharacter: %v", err)
	}
	w, a := hs.layout.Weapons, hs.layout.Ammo
	for _, r := range weapons {
		for field, value := range map[string]string{
			w.Name: r.name, w.Ammo: r.ammo, w.AmmoCount: r.count,
			w.Damage: r.damage, w.FireRate: r.fireRate, w.Qualities: r.qualities,
		} {
			hs.setInner(ch.ID, sheet.Key{Section: w.Section, RowID: r.row, Field: field}, value)
		}
	}
	for _, r := range ammo {
		hs.setInner(ch.ID, sheet.Key{Section: a.Section, RowID: r.row, Field: a.Name}, r.name)
		hs.setInner(ch.ID, sheet.Key{Section: a.Section, RowID: r.row, Field: a.Quantity}, r.quantity)
	}
}

func (hs *harness) setInner(characterID string, key sheet.Key, value string) {
	hs.t.Helper()
	if err := hs.inner.SetAttribute(context.Background(), characterID, key.String(), value); err != nil {
		hs.t.Fatalf("SetAttribute(%s): %v", key, err)
	}
}

func (hs *harness) key(section, row, field string) sheet.Key {
	return sheet.Key{Section: section, RowID: row, Field: field}
}

func (hs *harness) drain() int {
	hs.t.Helper()
	n, err := hs.bus.Drain(context.Background())
	if err != nil {
		hs.t.Fatalf("Drain: %v", err)
	}
	return n
}

func (hs *harness) weaponCount(characterID, row string) string {
	hs.t.Helper()
	w := hs.layout.Weapons
	return hs.value(characterID, sheet.Key{Section: w.Section, RowID: row, Field: w.AmmoCount})
}

func (hs *harness) quantity(characterID, row string) string {
	hs.t.Helper()
	a := hs.layout.Ammo
	return hs.value(characterID, sheet.Key{Section: a.Section, RowID: row, Field: a.Quantity})
}

func (hs *harness) value(characterID string, key sheet.Key) string {
	hs.t.Helper()
	attr, err := hs.inner.GetAttribute(context.Background(), characterID, key.String())
	if err != nil {
		hs.t.Fatalf("GetAttribute(%s): %v", key, err)
	}
	if attr == nil {
		hs.t.Fatalf("attribute %s missing", key)
	}
	return attr.Current
}

func (hs *harness) cards() []*notify.Card {
	hs.t.Helper()
	msgs, err := hs.inner.ListChat(context.Background(), 0)
	if err != nil {
		hs.t.Fatalf("ListChat: %v", err)
	}
	var cards []*notify.Card
	for _, m := range msgs {
		card, err := notify.Parse(m.Body)
		if err != nil {
			hs.t.Fatalf("Parse(%q): %v", m.Body, err)
		}
		cards = append(cards, card)
	}
	return cards
}

var alice = store.Character{ID: "alice", Name: "Alice", SheetType: store.SheetTypePlayer}

func seedAlice(hs *harness) {
	hs.seed(alice,
		[]weaponRow{
			{"-w1", "10mm Pistol", "10mm", "20", "2", "0", "Close Quarters"},
			{"-w2", "Assault Rifle", "10mm", "20", "3", "2", "Two-Handed"},
			{"-w3", "Gatling Laser", "Fusion Core", "50", "2", "2", "Gatling, Two-Handed"},
			{"-w4", "Fists", "", "0", "1", "0", ""},
			{"-w5", "Hunting Rifle", ".308", "0", "2", "0", ""},
		},
		[]ammoRow{
			{"-a1", "10mm", "20"},
			{"-a2", "Fusion Cores", "50"},
			{"-a3", ".308", "0"},
		},
	)
}

func damageRoll(character, weapon string, combatDice int, extra string) event.Roll {
	r := event.Roll{
		Who:      character,
		Template: "damage",
		Content:  "&{template:damage} {{character_name=" + character + "}} {{weapon_name=" + weapon + "}}" + extra,
	}
	for i := 0; i < combatDice; i++ {
		r.Rolls = append(r.Rolls, event.SubRoll{Expression: "1d6cs", Result: 1})
	}
	return r
}

func attackRoll(character, weapon string) event.Roll {
	return event.Roll{
		Who:      character,
		Template: "attack",
		Content:  "&{template:attack} {{character_name=" + character + "}} {{weapon_name=" + weapon + "}}",
		Rolls:    []event.SubRoll{{Expression: "2d20<12", Result: 1}},
	}
}
