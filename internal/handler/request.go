package handler

import (
	"strings"

	"ammosync/internal/config"
	"ammosync/internal/event"
	"ammosync/internal/parser"
)

// CombatDieExpression is the sub-roll recorded for each combat die when a
// roll is built from a dice count.
const CombatDieExpression = "1d6cs"

// RollRequest describes a roll posted by a tool rather than the sheet.
type RollRequest struct {
	Character  string
	Weapon     string
	Template   string
	CombatDice int
	Rolls      []event.SubRoll
	Reroll     bool
}

// BuildRoll renders req the way the sheet's roll templates would, so
// HandleRoll reads it back like any other chat roll. Explicit Rolls win
// over CombatDice; an empty Template means a damage roll.
func BuildRoll(rules config.Rolls, req RollRequest) event.Roll {
	template := strings.TrimSpace(req.Template)
	if template == "" {
		template = rules.DamageTemplate
	}

	markers := []parser.Marker{
		{Key: rules.CharacterMarker, Value: req.Character},
		{Key: rules.WeaponMarker, Value: req.Weapon},
	}
	if req.Reroll && rules.RerollMarker != "" {
		markers = append(markers, parser.Marker{Key: rules.RerollMarker, Value: "1"})
	}

	roll := event.Roll{
		Who:      req.Character,
		Template: template,
		Content:  parser.Render(template, markers...),
		Rolls:    append([]event.SubRoll(nil), req.Rolls...),
	}
	if len(roll.Rolls) == 0 {
		for i := 0; i < req.CombatDice; i++ {
			roll.Rolls = append(roll.Rolls, event.SubRoll{Expression: CombatDieExpression})
		}
	}
	return roll
}
