package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sheet describes how the character sheet lays out its repeating sections
// and how roll messages are tagged.
type Sheet struct {
	Version int           `yaml:"version"`
	Weapons WeaponSection `yaml:"weapons"`
	Ammo    AmmoSection   `yaml:"ammo"`
	Rolls   Rolls         `yaml:"rolls"`

	combatDie *regexp.Regexp
}

type WeaponSection struct {
	Section   string `yaml:"section"`
	Name      string `yaml:"name"`
	Ammo      string `yaml:"ammo"`
	AmmoCount string `yaml:"ammo_count"`
	Damage    string `yaml:"damage"`
	FireRate  string `yaml:"fire_rate"`
	Qualities string `yaml:"qualities"`
}

type AmmoSection struct {
	Section  string `yaml:"section"`
	Name     string `yaml:"name"`
	Quantity string `yaml:"quantity"`
}

type Rolls struct {
	AttackTemplate  string `yaml:"attack_template"`
	DamageTemplate  string `yaml:"damage_template"`
	CharacterMarker string `yaml:"character_marker"`
	WeaponMarker    string `yaml:"weapon_marker"`
	RerollMarker    string `yaml:"reroll_marker"`
	CombatDie       string `yaml:"combat_die"`
	SpecialQuality  string `yaml:"special_quality"`
}

func DefaultSheet() *Sheet {
	s := &Sheet{
		Version: 1,
		Weapons: WeaponSection{
			Section:   "repeating_weapons",
			Name:      "weapon_name",
			Ammo:      "weapon_ammo",
			AmmoCount: "weapon_ammo_count",
			Damage:    "weapon_damage",
			FireRate:  "weapon_fire_rate",
			Qualities: "weapon_qualities",
		},
		Ammo: AmmoSection{
			Section:  "repeating_ammo",
			Name:     "ammo_name",
			Quantity: "ammo_quantity",
		},
		Rolls: Rolls{
			AttackTemplate:  "attack",
			DamageTemplate:  "damage",
			CharacterMarker: "character_name",
			WeaponMarker:    "weapon_name",
			RerollMarker:    "reroll",
			CombatDie:       `(?i)^\s*\d*d6\s*(!|cs)`,
			SpecialQuality:  "Gatling",
		},
	}
	s.combatDie = regexp.MustCompile(s.Rolls.CombatDie)
	return s
}

// LoadSheet reads a sheet layout file on top of DefaultSheet, so a file only
// needs the keys it overrides.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading sheet: %w", err)
	}

	sheet := DefaultSheet()
	if err := yaml.Unmarshal(data, sheet); err != nil {
		return nil, fmt.Errorf("loading sheet: %w", err)
	}

	if err := sheet.compile(); err != nil {
		return nil, fmt.Errorf("loading sheet: %w", err)
	}

	return sheet, nil
}

func (s *Sheet) compile() error {
	if err := validateSheet(s); err != nil {
		return err
	}
	re, err := regexp.Compile(s.Rolls.CombatDie)
	if err != nil {
		return fmt.Errorf("compiling combat_die pattern: %w", err)
	}
	s.combatDie = re
	return nil
}

func validateSheet(s *Sheet) error {
	if s.Version != 1 {
		return fmt.Errorf("unsupported version: %d", s.Version)
	}

	required := map[string]string{
		"weapons.section":        s.Weapons.Section,
		"weapons.name":           s.Weapons.Name,
		"weapons.ammo":           s.Weapons.Ammo,
		"weapons.ammo_count":     s.Weapons.AmmoCount,
		"weapons.damage":         s.Weapons.Damage,
		"weapons.fire_rate":      s.Weapons.FireRate,
		"weapons.qualities":      s.Weapons.Qualities,
		"ammo.section":           s.Ammo.Section,
		"ammo.name":              s.Ammo.Name,
		"ammo.quantity":          s.Ammo.Quantity,
		"rolls.attack_template":  s.Rolls.AttackTemplate,
		"rolls.damage_template":  s.Rolls.DamageTemplate,
		"rolls.character_marker": s.Rolls.CharacterMarker,
		"rolls.weapon_marker":    s.Rolls.WeaponMarker,
		"rolls.combat_die":       s.Rolls.CombatDie,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", key)
		}
	}

	if strings.EqualFold(s.Weapons.Section, s.Ammo.Section) {
		return fmt.Errorf("weapons and ammo must use different sections: %s", s.Weapons.Section)
	}
	if strings.EqualFold(s.Weapons.Ammo, s.Weapons.AmmoCount) {
		return fmt.Errorf("weapons.ammo and weapons.ammo_count must differ")
	}

	seen := make(map[string]struct{})
	for _, field := range s.WeaponFields() {
		key := strings.ToLower(field)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate weapon field: %s", field)
		}
		seen[key] = struct{}{}
	}

	return nil
}

func (s *Sheet) WeaponFields() []string {
	return []string{
		s.Weapons.Name,
		s.Weapons.Ammo,
		s.Weapons.AmmoCount,
		s.Weapons.Damage,
		s.Weapons.FireRate,
		s.Weapons.Qualities,
	}
}

func (s *Sheet) AmmoFields() []string {
	return []string{s.Ammo.Name, s.Ammo.Quantity}
}

// Fields returns the known fields of a repeating section, or nil when the
// section is not part of the layout.
func (s *Sheet) Fields(section string) []string {
	switch section {
	case s.Weapons.Section:
		return s.WeaponFields()
	case s.Ammo.Section:
		return s.AmmoFields()
	default:
		return nil
	}
}

func (s *Sheet) Sections() []string {
	return []string{s.Weapons.Section, s.Ammo.Section}
}

func (s *Sheet) IsCombatDie(expression string) bool {
	if s == nil || s.combatDie == nil {
		return false
	}
	return s.combatDie.MatchString(expression)
}
