package ammo

import (
	"strings"

	"ammosync/internal/config"
	"ammosync/internal/event"
	"ammosync/internal/parser"
)

// ShotsSpent returns how many rounds one damage roll used.
//
// Single-shot weapons (fire rate 0) always spend one round. Otherwise every
// combat die beyond the weapon's damage rating is a bonus shot, capped at the
// fire rate; Gatling-class weapons need two dice per shot. When a player asks
// for more dice the host re-renders the whole roll with a reroll marker, and
// the base shot was already paid for, so one round is taken off.
func ShotsSpent(roll event.Roll, rules *config.Sheet, damage, fireRate int, special bool) int {
	if fireRate == 0 {
		return 1
	}

	dice := 0
	for _, sub := range roll.Rolls {
		if rules.IsCombatDie(sub.Expression) {
			dice++
		}
	}

	extra := dice - damage
	if special {
		extra = floorDiv(extra, 2)
	}

	shots := 1 + min(extra, fireRate)
	if IsReroll(roll, rules) {
		shots--
	}
	return max(shots, 0)
}

// IsReroll reports whether the roll re-displays an already counted roll.
func IsReroll(roll event.Roll, rules *config.Sheet) bool {
	marker := rules.Rolls.RerollMarker
	if marker == "" {
		return false
	}
	msg, _ := parser.Parse(roll.Content)
	value, ok := msg.Marker(marker)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "no":
		return false
	}
	return true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
