package ammo

import (
	"context"
	"fmt"
	"strings"

	"ammosync/internal/config"
	"ammosync/internal/sheet"
	"ammosync/internal/store"
)

// Engine propagates ammunition quantities between the inventory row (the
// hub) and the weapon rows that copy it (the spokes). Every write it makes
// is redelivered by the host as an attribute change, so the operations are
// written to be no-ops when re-applied with the value already in place.
type Engine struct {
	db      store.Store
	layout  *config.Sheet
	locator *Locator
}

func NewEngine(db store.Store, layout *config.Sheet, locator *Locator) *Engine {
	return &Engine{db: db, layout: layout, locator: locator}
}

func (e *Engine) Layout() *config.Sheet {
	return e.layout
}

func (e *Engine) Locator() *Locator {
	return e.locator
}

// FromCanonical writes quantity into the ammo count of every weapon whose
// ammo type has the same comparison key as ammoType. Candidates come from a
// snapshot; each one's ammo type is read again from the store before the
// write so a row edited in the meantime is not overwritten by mistake.
// Counts are written even when they already hold quantity.
func (e *Engine) FromCanonical(ctx context.Context, ch store.Character, ammoType string, quantity int) (int, error) {
	key := Key(ammoType)
	if key == "" {
		return 0, nil
	}

	view, err := sheet.Load(ctx, e.db, e.layout, ch)
	if err != nil {
		return 0, err
	}

	w := e.layout.Weapons
	written := 0
	for _, rowID := range view.RowIDs(w.Section) {
		candidate, _ := view.Value(w.Section, rowID, w.Ammo)
		if !strings.Contains(Key(candidate), key) {
			continue
		}

		attr, err := e.db.GetAttribute(ctx, ch.ID, view.Key(w.Section, rowID, w.Ammo).String())
		if err != nil {
			return written, fmt.Errorf("re-reading ammo type of %s: %w", rowID, err)
		}
		// Folded keys rather than raw strings, so "10mm" and "10MM " stay joined.
		if attr == nil || Key(attr.Current) != key {
			continue
		}

		if err := e.set(ctx, ch, view.Key(w.Section, rowID, w.AmmoCount), quantity); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// FromWeapon handles an edit to one weapon's ammo count: the inventory row
// is updated first and then fanned out to every weapon that uses it. If the
// inventory already holds target nothing is written, which is what ends the
// chain of change events started by a fan-out.
func (e *Engine) FromWeapon(ctx context.Context, ch store.Character, weaponRowID string, target int) (int, error) {
	view, err := sheet.Load(ctx, e.db, e.layout, ch)
	if err != nil {
		return 0, err
	}

	w := e.layout.Weapons
	ammoType, _ := view.Value(w.Section, weaponRowID, w.Ammo)
	ammoType = strings.TrimSpace(ammoType)
	if ammoType == "" {
		return 0, nil
	}

	ammoRowID, err := e.locator.Ammo(ctx, view, ammoType)
	if err != nil {
		return 0, err
	}

	a := e.layout.Ammo
	raw, _ := view.Value(a.Section, ammoRowID, a.Quantity)
	if current, err := sheet.ParseInt(raw); err == nil && current == target {
		return 0, nil
	}

	if err := e.set(ctx, ch, view.Key(a.Section, ammoRowID, a.Quantity), target); err != nil {
		return 0, err
	}

	fanned, err := e.FromCanonical(ctx, ch, ammoType, target)
	if err != nil {
		return 1 + fanned, err
	}
	swept, err := e.FromGear(ctx, ch, ammoRowID, target)
	return 1 + fanned + swept, err
}

// FromGear handles an edit to an inventory quantity: every weapon whose ammo
// type matches the row's name gets target, skipping those already there.
func (e *Engine) FromGear(ctx context.Context, ch store.Character, ammoRowID string, target int) (int, error) {
	view, err := sheet.Load(ctx, e.db, e.layout, ch)
	if err != nil {
		return 0, err
	}

	a := e.layout.Ammo
	name, ok := view.Value(a.Section, ammoRowID, a.Name)
	if !ok || strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: ammo row %s has no name", ErrNotFound, ammoRowID)
	}

	w := e.layout.Weapons
	written := 0
	for _, rowID := range view.RowIDs(w.Section) {
		ammoType, _ := view.Value(w.Section, rowID, w.Ammo)
		if strings.TrimSpace(ammoType) == "" || !Matches(ammoType, name) {
			continue
		}
		raw, _ := view.Value(w.Section, rowID, w.AmmoCount)
		if current, err := sheet.ParseInt(raw); err == nil && current == target {
			continue
		}
		if err := e.set(ctx, ch, view.Key(w.Section, rowID, w.AmmoCount), target); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// SetQuantity overwrites an inventory row's quantity.
func (e *Engine) SetQuantity(ctx context.Context, ch store.Character, ammoRowID string, quantity int) error {
	return e.set(ctx, ch, sheet.Key{Section: e.layout.Ammo.Section, RowID: ammoRowID, Field: e.layout.Ammo.Quantity}, quantity)
}

func (e *Engine) set(ctx context.Context, ch store.Character, key sheet.Key, value int) error {
	if err := e.db.SetAttribute(ctx, ch.ID, key.String(), sheet.FormatInt(value)); err != nil {
		return fmt.Errorf("writing %s for %s: %w", key, ch.Name, err)
	}
	return nil
}
