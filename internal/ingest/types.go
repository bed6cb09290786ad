package ingest

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"ammosync/internal/store"
)

// CharacterFile is one character sheet on disk.
//
//	name: Alice
//	type: pc
//	weapons:
//	  - name: 10mm Pistol
//	    ammo: 10mm
//	    ammo_count: 20
//	    damage: 2
//	    fire_rate: 0
//	ammo:
//	  - name: 10mm
//	    quantity: 20
//	attributes:
//	  strength: 6
type CharacterFile struct {
	ID         string           `yaml:"id"`
	Name       string           `yaml:"name"`
	Type       string           `yaml:"type"`
	Weapons    []WeaponEntry    `yaml:"weapons"`
	Ammo       []AmmoEntry      `yaml:"ammo"`
	Attributes map[string]Value `yaml:"attributes"`
}

type WeaponEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Ammo      string `yaml:"ammo"`
	AmmoCount Value  `yaml:"ammo_count"`
	Damage    Value  `yaml:"damage"`
	FireRate  Value  `yaml:"fire_rate"`
	Qualities string `yaml:"qualities"`
}

type AmmoEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Quantity Value  `yaml:"quantity"`
}

// Value keeps a scalar exactly as written, so counts that are not numbers
// reach the store unchanged.
type Value string

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	*v = Value(node.Value)
	return nil
}

func parseCharacterFile(data []byte) (*CharacterFile, error) {
	var file CharacterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	file.Name = strings.TrimSpace(file.Name)
	if file.Name == "" {
		return nil, ErrMissingName
	}

	switch strings.ToLower(strings.TrimSpace(file.Type)) {
	case "", store.SheetTypePlayer:
		file.Type = store.SheetTypePlayer
	case store.SheetTypeNPC:
		file.Type = store.SheetTypeNPC
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSheetType, file.Type)
	}

	for i, w := range file.Weapons {
		if strings.TrimSpace(w.Name) == "" {
			return nil, fmt.Errorf("weapon %d has no name", i)
		}
	}
	for i, a := range file.Ammo {
		if strings.TrimSpace(a.Name) == "" {
			return nil, fmt.Errorf("ammo %d has no name", i)
		}
	}

	return &file, nil
}
