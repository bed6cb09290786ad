package ammo

import (
	"context"
	"errors"
	"testing"

	"ammosync/internal/config"
	"ammosync/internal/store/memory"
)

func newEngine(t *testing.T, weapons []weaponFixture, ammo []ammoFixture) (*Engine, *countingStore, *recordingNotifier, *config.Sheet) {
	t.Helper()
	db := memory.New()
	seedCharacter(t, db, weapons, ammo)
	counting := &countingStore{Store: db}
	n := &recordingNotifier{}
	layout := config.DefaultSheet()
	return NewEngine(counting, layout, NewLocator(n)), counting, n, layout
}

func TestFromCanonical(t *testing.T) {
	ctx := context.Background()
	engine, db, _, layout := newEngine(t,
		[]weaponFixture{
			{"-w1", "10mm Pistol", "10mm", "5"},
			{"-w2", "Assault Rifle", "10 MM ", "7"},
			{"-w3", "Hunting Rifle", ".308", "3"},
			{"-w4", "SMG", "10mm Ammo", "4"},
		},
		[]ammoFixture{{"-a1", "10mm", "19"}},
	)
	ch, _ := db.GetCharacter(ctx, "c1")
	w := layout.Weapons

	n, err := engine.FromCanonical(ctx, *ch, "10mm", 19)
	if err != nil {
		t.Fatalf("FromCanonical: %v", err)
	}
	if n != 2 {
		t.Fatalf("written = %d, want 2", n)
	}
	for row, want := range map[string]string{"-w1": "19", "-w2": "19", "-w3": "3", "-w4": "4"} {
		if got := attr(t, db, *ch, w.Section, row, w.AmmoCount); got != want {
			t.Errorf("%s count = %q, want %q", row, got, want)
		}
	}

	t.Run("idempotent", func(t *testing.T) {
		before := len(db.writes)
		n, err := engine.FromCanonical(ctx, *ch, "10mm", 19)
		if err != nil {
			t.Fatalf("FromCanonical: %v", err)
		}
		if n != 2 || len(db.writes)-before != 2 {
			t.Fatalf("second run wrote %d rows (%d calls), want 2", n, len(db.writes)-before)
		}
		for _, row := range []string{"-w1", "-w2"} {
			if got := attr(t, db, *ch, w.Section, row, w.AmmoCount); got != "19" {
				t.Errorf("%s count = %q, want 19", row, got)
			}
		}
	})

	t.Run("empty ammo type", func(t *testing.T) {
		n, err := engine.FromCanonical(ctx, *ch, "  ", 1)
		if err != nil || n != 0 {
			t.Fatalf("FromCanonical(empty) = %d, %v; want 0, nil", n, err)
		}
	})
}

func TestFromWeaponConverges(t *testing.T) {
	ctx := context.Background()
	engine, db, _, layout := newEngine(t,
		[]weaponFixture{
			{"-w1", "10mm Pistol", "10mm", "15"},
			{"-w2", "Assault Rifle", "10mm", "20"},
			{"-w3", "SMG", "10mm Round", "20"},
			{"-w4", "Laser Pistol", "Fusion Cell", "30"},
		},
		[]ammoFixture{
			{"-a1", "10mm Rounds", "20"},
			{"-a2", "Fusion Cell", "30"},
		},
	)
	ch, _ := db.GetCharacter(ctx, "c1")
	w, a := layout.Weapons, layout.Ammo

	n, err := engine.FromWeapon(ctx, *ch, "-w1", 15)
	if err != nil {
		t.Fatalf("FromWeapon: %v", err)
	}
	if n != 4 {
		t.Fatalf("written = %d, want 4 (writes %v)", n, db.writes)
	}
	if got := attr(t, db, *ch, a.Section, "-a1", a.Quantity); got != "15" {
		t.Fatalf("canonical = %q, want 15", got)
	}
	for _, row := range []string{"-w1", "-w2", "-w3"} {
		if got := attr(t, db, *ch, w.Section, row, w.AmmoCount); got != "15" {
			t.Errorf("%s count = %q, want 15", row, got)
		}
	}
	if got := attr(t, db, *ch, w.Section, "-w4", w.AmmoCount); got != "30" {
		t.Errorf("unrelated weapon count = %q, want 30", got)
	}

	t.Run("redelivery is a no-op", func(t *testing.T) {
		before := len(db.writes)
		for _, row := range []string{"-w1", "-w2", "-w3"} {
			n, err := engine.FromWeapon(ctx, *ch, row, 15)
			if err != nil {
				t.Fatalf("FromWeapon(%s): %v", row, err)
			}
			if n != 0 {
				t.Fatalf("FromWeapon(%s) wrote %d, want 0", row, n)
			}
		}
		if len(db.writes) != before {
			t.Fatalf("unexpected writes: %v", db.writes[before:])
		}
	})
}

func TestFromWeaponEdgeCases(t *testing.T) {
	ctx := context.Background()
	engine, db, notes, _ := newEngine(t,
		[]weaponFixture{
			{"-w1", "Baseball Bat", "", "0"},
			{"-w2", "Plasma Rifle", "Plasma Cartridge", "10"},
		},
		[]ammoFixture{{"-a1", "10mm", "20"}},
	)
	ch, _ := db.GetCharacter(ctx, "c1")

	t.Run("empty ammo type", func(t *testing.T) {
		n, err := engine.FromWeapon(ctx, *ch, "-w1", 3)
		if err != nil || n != 0 {
			t.Fatalf("FromWeapon = %d, %v; want 0, nil", n, err)
		}
	})

	t.Run("unknown ammo", func(t *testing.T) {
		_, err := engine.FromWeapon(ctx, *ch, "-w2", 3)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if len(notes.calls) != 1 {
			t.Fatalf("notifications = %v, want one", notes.calls)
		}
	})

	if len(db.writes) != 0 {
		t.Fatalf("unexpected writes: %v", db.writes)
	}
}

func TestFromGear(t *testing.T) {
	ctx := context.Background()
	engine, db, _, layout := newEngine(t,
		[]weaponFixture{
			{"-w1", "Combat Rifle", ".308", "12"},
			{"-w2", "Hunting Rifle", "0.308", "8"},
			{"-w3", "Knife", "", "0"},
			{"-w4", "Minigun", "5mm", "200"},
		},
		[]ammoFixture{
			{"-a1", ".308 Rounds", "8"},
			{"-a2", "5mm", "200"},
		},
	)
	ch, _ := db.GetCharacter(ctx, "c1")
	w := layout.Weapons

	n, err := engine.FromGear(ctx, *ch, "-a1", 8)
	if err != nil {
		t.Fatalf("FromGear: %v", err)
	}
	if n != 1 {
		t.Fatalf("written = %d, want 1 (writes %v)", n, db.writes)
	}
	if got := attr(t, db, *ch, w.Section, "-w1", w.AmmoCount); got != "8" {
		t.Fatalf("-w1 count = %q, want 8", got)
	}
	if got := attr(t, db, *ch, w.Section, "-w3", w.AmmoCount); got != "0" {
		t.Fatalf("weapon without ammo changed: %q", got)
	}

	n, err = engine.FromGear(ctx, *ch, "-a1", 8)
	if err != nil || n != 0 {
		t.Fatalf("second FromGear = %d, %v; want 0, nil", n, err)
	}

	if _, err := engine.FromGear(ctx, *ch, "-missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing row err = %v, want ErrNotFound", err)
	}
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	engine, db, _, layout := newEngine(t, nil, []ammoFixture{{"-a1", "Fusion Core", "3"}})
	ch, _ := db.GetCharacter(ctx, "c1")

	if err := engine.SetQuantity(ctx, *ch, "-a1", 2); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if got := attr(t, db, *ch, layout.Ammo.Section, "-a1", layout.Ammo.Quantity); got != "2" {
		t.Fatalf("quantity = %q, want 2", got)
	}
}
