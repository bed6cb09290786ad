package ammo

import (
	"context"
	"testing"

	"ammosync/internal/config"
	"ammosync/internal/sheet"
	"ammosync/internal/store"
	"ammosync/internal/store/memory"
)

type weaponFixture struct {
	row, name, ammo, count string
}

type ammoFixture struct {
	row, name, quantity string
}

type recordingNotifier struct {
	calls []string
}

func (r *recordingNotifier) NotFound(ctx context.Context, playerName, term, section string) error {
	r.calls = append(r.calls, playerName+"|"+term+"|"+section)
	return nil
}

func seedCharacter(t *testing.T, db *memory.Store, weapons []weaponFixture, ammo []ammoFixture) store.Character {
	t.Helper()
	ctx := context.Background()
	layout := config.DefaultSheet()

	ch := store.Character{ID: "c1", Name: "Alice", SheetType: store.SheetTypePlayer}
	if err := db.UpsertCharacter(ctx, ch); err != nil {
		t.Fatalf("UpsertCharacter: %v", err)
	}

	set := func(section, row, field, value string) {
		key := sheet.Key{Section: section, RowID: row, Field: field}
		if err := db.SetAttribute(ctx, ch.ID, key.String(), value); err != nil {
			t.Fatalf("SetAttribute(%s): %v", key, err)
		}
	}
	w := layout.Weapons
	for _, f := range weapons {
		set(w.Section, f.row, w.Name, f.name)
		set(w.Section, f.row, w.Ammo, f.ammo)
		set(w.Section, f.row, w.AmmoCount, f.count)
	}
	a := layout.Ammo
	for _, f := range ammo {
		set(a.Section, f.row, a.Name, f.name)
		set(a.Section, f.row, a.Quantity, f.quantity)
	}
	return ch
}

func attr(t *testing.T, db store.Store, ch store.Character, section, row, field string) string {
	t.Helper()
	key := sheet.Key{Section: section, RowID: row, Field: field}
	a, err := db.GetAttribute(context.Background(), ch.ID, key.String())
	if err != nil {
		t.Fatalf("GetAttribute(%s): %v", key, err)
	}
	if a == nil {
		t.Fatalf("attribute %s missing", key)
	}
	return a.Current
}

// countingStore counts SetAttribute calls.
type countingStore struct {
	store.Store
	writes []string
}

func (c *countingStore) SetAttribute(ctx context.Context, characterID, name, current string) error {
	c.writes = append(c.writes, name+"="+current)
	return c.Store.SetAttribute(ctx, characterID, name, current)
}
