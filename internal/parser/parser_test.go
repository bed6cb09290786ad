package parser

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("damage roll with markers", func(t *testing.T) {
		content := "&{template:damage} {{character_name=Alice}} {{weapon_name= 10mm Pistol }} {{damage=$[[0]]}} {{effects=Vicious}}"
		msg, err := Parse(content)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if msg.Template != "damage" {
			t.Fatalf("expected template damage, got %q", msg.Template)
		}
		want := map[string]string{
			"character_name": "Alice",
			"weapon_name":    "10mm Pistol",
			"damage":         "$[[0]]",
			"effects":        "Vicious",
		}
		if !reflect.DeepEqual(msg.Markers, want) {
			t.Fatalf("unexpected markers: %#v", msg.Markers)
		}
	})

	t.Run("value containing equals", func(t *testing.T) {
		msg, err := Parse("{{note=a=b}}")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if v, _ := msg.Marker("note"); v != "a=b" {
			t.Fatalf("expected a=b, got %q", v)
		}
	})

	t.Run("first value wins", func(t *testing.T) {
		msg, err := Parse("{{who=Alice}}{{who=Bob}}")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if v, _ := msg.Marker("who"); v != "Alice" {
			t.Fatalf("expected Alice, got %q", v)
		}
	})

	t.Run("flag marker without value", func(t *testing.T) {
		msg, err := Parse("{{reroll}}")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		v, ok := msg.Marker("reroll")
		if !ok || v != "" {
			t.Fatalf("expected present empty marker, got %q %v", v, ok)
		}
	})

	t.Run("no markers", func(t *testing.T) {
		msg, err := Parse("just chatting")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(msg.Markers) != 0 || msg.Template != "" {
			t.Fatalf("expected empty message, got %+v", msg)
		}
	})

	t.Run("unclosed marker keeps earlier markers", func(t *testing.T) {
		msg, err := Parse("{{a=1}} {{b=2")
		if !errors.Is(err, ErrUnclosedMark) {
			t.Fatalf("expected ErrUnclosedMark, got %v", err)
		}
		if v, _ := msg.Marker("a"); v != "1" {
			t.Fatalf("expected marker a, got %q", v)
		}
	})

	t.Run("empty key is skipped", func(t *testing.T) {
		msg, err := Parse("&{template:damage} {{=x}} {{character_name=Alice}} {{weapon_name=10mm Pistol}}")
		if !errors.Is(err, ErrEmptyMarker) {
			t.Fatalf("expected ErrEmptyMarker, got %v", err)
		}
		if v, _ := msg.Marker("character_name"); v != "Alice" {
			t.Fatalf("expected character after bad marker, got %q", v)
		}
		if v, _ := msg.Marker("weapon_name"); v != "10mm Pistol" {
			t.Fatalf("expected weapon after bad marker, got %q", v)
		}
		if msg.Template != "damage" || len(msg.Markers) != 2 {
			t.Fatalf("unexpected message: %+v", msg)
		}
	})
}

func TestTemplate(t *testing.T) {
	if _, err := Template("{{a=1}}"); !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("expected ErrNoTemplate, got %v", err)
	}
	if _, err := Template("&{template: }"); !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("expected ErrNoTemplate for blank name, got %v", err)
	}
	name, err := Template("&{template:attack} {{a=1}}")
	if err != nil || name != "attack" {
		t.Fatalf("expected attack, got %q %v", name, err)
	}
}

func TestMarkerNilMessage(t *testing.T) {
	var msg *Message
	if _, ok := msg.Marker("x"); ok {
		t.Fatalf("expected missing marker on nil message")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	body := Render("gear",
		Marker{Key: "playerName", Value: "Alice"},
		Marker{Key: "gearName", Value: "10mm reduced: 20 -> 19"},
		Marker{Key: "gearDescription", Value: "closes }} early"},
	)

	msg, err := Parse(body)
	if err != nil {
		t.Fatalf("Parse(%q): %v", body, err)
	}
	if msg.Template != "gear" {
		t.Fatalf("template = %q, want gear", msg.Template)
	}
	if got, _ := msg.Marker("gearName"); got != "10mm reduced: 20 -> 19" {
		t.Fatalf("gearName = %q", got)
	}
	if got, _ := msg.Marker("gearDescription"); got != "closes } } early" {
		t.Fatalf("gearDescription = %q", got)
	}
}
