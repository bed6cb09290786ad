package sheet

import (
	"context"
	"fmt"
	"strings"

	"ammosync/internal/config"
	"ammosync/internal/store"
)

// Weapon is a typed weapon row. AmmoCount is a copy of the matching ammo
// row's quantity.
type Weapon struct {
	RowID     string
	Name      string
	AmmoType  string
	Damage    int
	FireRate  int
	Qualities string
	AmmoCount int

	// CountErr is set by WeaponStats when the ammo count did not parse;
	// AmmoCount is then 0.
	CountErr error
}

// HasQuality reports whether the free-text quality list mentions quality,
// ignoring case.
func (w Weapon) HasQuality(quality string) bool {
	if strings.TrimSpace(quality) == "" {
		return false
	}
	return strings.Contains(strings.ToLower(w.Qualities), strings.ToLower(quality))
}

// AmmoRow is the canonical inventory record for one ammunition type.
type AmmoRow struct {
	RowID    string
	Name     string
	Quantity int
}

// View is a snapshot of one character's repeating sections.
type View struct {
	Character store.Character
	Layout    *config.Sheet

	rows  map[string]map[string]map[string]string
	order map[string][]string
}

func Load(ctx context.Context, db store.Store, layout *config.Sheet, character store.Character) (*View, error) {
	attrs, err := db.ListAttributes(ctx, character.ID)
	if err != nil {
		return nil, fmt.Errorf("loading sheet for %s: %w", character.Name, err)
	}
	return NewView(layout, character, attrs), nil
}

func NewView(layout *config.Sheet, character store.Character, attrs []store.Attribute) *View {
	v := &View{
		Character: character,
		Layout:    layout,
		rows:      make(map[string]map[string]map[string]string),
		order:     make(map[string][]string),
	}
	for _, attr := range attrs {
		key, ok := ParseKey(layout, attr.Name)
		if !ok {
			continue
		}
		section := v.rows[key.Section]
		if section == nil {
			section = make(map[string]map[string]string)
			v.rows[key.Section] = section
		}
		row := section[key.RowID]
		if row == nil {
			row = make(map[string]string)
			section[key.RowID] = row
			v.order[key.Section] = append(v.order[key.Section], key.RowID)
		}
		row[key.Field] = attr.Current
	}
	return v
}

// RowIDs lists a section's rows in the order their first attribute appears.
func (v *View) RowIDs(section string) []string {
	return append([]string(nil), v.order[section]...)
}

func (v *View) Value(section, rowID, field string) (string, bool) {
	row, ok := v.rows[section][rowID]
	if !ok {
		return "", false
	}
	value, ok := row[field]
	return value, ok
}

func (v *View) Key(section, rowID, field string) Key {
	return Key{Section: section, RowID: rowID, Field: field}
}

func (v *View) Weapon(rowID string) (Weapon, error) {
	w, err := v.WeaponStats(rowID)
	if err != nil {
		return Weapon{}, err
	}
	if w.CountErr != nil {
		return Weapon{}, w.CountErr
	}
	return w, nil
}

// WeaponStats reads a weapon like Weapon but tolerates an unreadable ammo
// count, which is a copy the next sync overwrites. Damage and fire rate must
// still parse.
func (v *View) WeaponStats(rowID string) (Weapon, error) {
	l := v.Layout.Weapons
	if _, ok := v.rows[l.Section][rowID]; !ok {
		return Weapon{}, fmt.Errorf("weapon row %s not found", rowID)
	}

	w := Weapon{RowID: rowID}
	w.Name, _ = v.Value(l.Section, rowID, l.Name)
	w.AmmoType, _ = v.Value(l.Section, rowID, l.Ammo)
	w.AmmoType = strings.TrimSpace(w.AmmoType)
	w.Qualities, _ = v.Value(l.Section, rowID, l.Qualities)

	stats := []struct {
		field  string
		target *int
	}{
		{l.Damage, &w.Damage},
		{l.FireRate, &w.FireRate},
	}
	for _, stat := range stats {
		raw, _ := v.Value(l.Section, rowID, stat.field)
		n, err := ParseStat(raw)
		if err != nil {
			return Weapon{}, fmt.Errorf("weapon %q %s: %w", w.Name, stat.field, err)
		}
		*stat.target = n
	}

	raw, _ := v.Value(l.Section, rowID, l.AmmoCount)
	n, err := ParseStat(raw)
	if err != nil {
		w.CountErr = fmt.Errorf("weapon %q %s: %w", w.Name, l.AmmoCount, err)
	}
	w.AmmoCount = n
	return w, nil
}

func (v *View) AmmoRow(rowID string) (AmmoRow, error) {
	l := v.Layout.Ammo
	if _, ok := v.rows[l.Section][rowID]; !ok {
		return AmmoRow{}, fmt.Errorf("ammo row %s not found", rowID)
	}

	a := AmmoRow{RowID: rowID}
	a.Name, _ = v.Value(l.Section, rowID, l.Name)
	raw, _ := v.Value(l.Section, rowID, l.Quantity)
	n, err := ParseStat(raw)
	if err != nil {
		return AmmoRow{}, fmt.Errorf("ammo %q %s: %w", a.Name, l.Quantity, err)
	}
	a.Quantity = n
	return a, nil
}

// WeaponRows returns every weapon row that parses; rows with unreadable
// stats are reported in the error slice instead.
func (v *View) WeaponRows() ([]Weapon, []error) {
	var weapons []Weapon
	var errs []error
	for _, id := range v.RowIDs(v.Layout.Weapons.Section) {
		w, err := v.Weapon(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		weapons = append(weapons, w)
	}
	return weapons, errs
}

func (v *View) AmmoRows() ([]AmmoRow, []error) {
	var rows []AmmoRow
	var errs []error
	for _, id := range v.RowIDs(v.Layout.Ammo.Section) {
		a, err := v.AmmoRow(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rows = append(rows, a)
	}
	return rows, errs
}
