// Package ammo interprets roll events and keeps a character's ammunition
// counters consistent between the inventory and the weapons that use it.
package ammo

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var (
	leadingZero = regexp.MustCompile(`(^|[^\d.])0\.(\d)`)
	spacedMM    = regexp.MustCompile(`(?i)(\d)\s+(mm)\b`)
)

// Normalize prepares a free-text ammunition name for fuzzy comparison.
// With exact set the name is returned untouched.
//
// The rules are heuristics for the two vocabularies that meet here, the
// weapon's ammo column and the inventory's item names:
// "0.308" and ".308" compare equal, "5 mm" and "5mm" compare equal, and a
// single trailing "s" is dropped so "Fusion Cores" meets "Fusion Core".
func Normalize(raw string, exact bool) string {
	if exact {
		return raw
	}
	s := strings.TrimSpace(raw)
	s = leadingZero.ReplaceAllString(s, "$1.$2")
	s = spacedMM.ReplaceAllString(s, "$1$2")
	if n := len(s); n > 0 && (s[n-1] == 's' || s[n-1] == 'S') {
		s = s[:n-1]
	}
	return s
}

// Key is the comparison key of a name: normalized, then case folded.
func Key(name string) string {
	return cases.Fold().String(Normalize(name, false))
}

// Matches reports whether a weapon's ammo type refers to the inventory item
// canonicalName. It is substring containment of the keys, so distinct items
// sharing a substring can collide; an empty ammo type matches nothing.
func Matches(ammoType, canonicalName string) bool {
	needle := Key(ammoType)
	if needle == "" {
		return false
	}
	return strings.Contains(Key(canonicalName), needle)
}

func matchName(query, stored string, exact bool) bool {
	if exact {
		return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(query))
	}
	return Matches(query, stored)
}
