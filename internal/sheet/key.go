// Package sheet is the typed accessor layer over a character's raw
// attributes: it parses composite repeating-section names into keys and
// reads weapon and ammo rows with validated integers.
package sheet

import (
	"sort"
	"strings"

	"ammosync/internal/config"
)

// Key addresses one field of one row of a repeating section.
type Key struct {
	Section string
	RowID   string
	Field   string
}

func (k Key) String() string {
	return k.Section + "_" + k.RowID + "_" + k.Field
}

// ParseKey splits an attribute name into a Key using the sections and fields
// the layout knows about. Fields are tried longest first so that a field
// which is a suffix of another (weapon_ammo, weapon_ammo_count) resolves to
// the right one, and row ids may themselves contain underscores.
func ParseKey(layout *config.Sheet, name string) (Key, bool) {
	for _, section := range layout.Sections() {
		rest, ok := strings.CutPrefix(name, section+"_")
		if !ok {
			continue
		}

		fields := append([]string(nil), layout.Fields(section)...)
		sort.SliceStable(fields, func(i, j int) bool { return len(fields[i]) > len(fields[j]) })

		for _, field := range fields {
			row, ok := strings.CutSuffix(rest, "_"+field)
			if !ok || row == "" {
				continue
			}
			return Key{Section: section, RowID: row, Field: field}, true
		}
	}
	return Key{}, false
}
