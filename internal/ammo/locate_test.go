package ammo

import (
	"context"
	"errors"
	"testing"

	"ammosync/internal/config"
	"ammosync/internal/sheet"
	"ammosync/internal/store/memory"
)

func TestLocate(t *testing.T) {
	db := memory.New()
	ch := seedCharacter(t, db,
		[]weaponFixture{
			{"-w1", "Combat Rifle", ".308", "12"},
			{"-w2", "10mm Pistol", "10mm", "20"},
		},
		[]ammoFixture{
			{"-a1", "10mm", "20"},
			{"-a2", "0.308 Rounds", "12"},
			{"-a3", "Fusion Core", "3"},
		},
	)
	view, err := sheet.Load(context.Background(), db, config.DefaultSheet(), ch)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	t.Run("weapon exact ignores case", func(t *testing.T) {
		l := NewLocator(&recordingNotifier{})
		got, err := l.Weapon(context.Background(), view, "combat rifle")
		if err != nil {
			t.Fatalf("Weapon: %v", err)
		}
		if got != "-w1" {
			t.Fatalf("row = %q, want -w1", got)
		}
	})

	t.Run("weapon exact rejects partial", func(t *testing.T) {
		n := &recordingNotifier{}
		l := NewLocator(n)
		_, err := l.Weapon(context.Background(), view, "Combat")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if len(n.calls) != 1 || n.calls[0] != "Alice|Combat|repeating_weapons" {
			t.Fatalf("notifications = %v", n.calls)
		}
	})

	tests := []struct {
		ammoType string
		want     string
	}{
		{"10mm", "-a1"},
		{"10 mm", "-a1"},
		{".308", "-a2"},
		{"308 Round", "-a2"},
		{"fusion cores", "-a3"},
	}
	for _, tt := range tests {
		t.Run("ammo "+tt.ammoType, func(t *testing.T) {
			l := NewLocator(&recordingNotifier{})
			got, err := l.Ammo(context.Background(), view, tt.ammoType)
			if err != nil {
				t.Fatalf("Ammo: %v", err)
			}
			if got != tt.want {
				t.Fatalf("row = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("ammo not found notifies once", func(t *testing.T) {
		n := &recordingNotifier{}
		l := NewLocator(n)
		_, err := l.Ammo(context.Background(), view, "Plasma Cartridge")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if len(n.calls) != 1 {
			t.Fatalf("notifications = %d, want 1", len(n.calls))
		}
	})

	t.Run("nil notifier", func(t *testing.T) {
		_, err := NewLocator(nil).Ammo(context.Background(), view, "Plasma")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}
