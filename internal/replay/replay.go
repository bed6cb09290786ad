// Package replay re-runs a recorded session: a YAML script of rolls and
// attribute edits published to the bus one step at a time.
package replay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"ammosync/internal/dispatch"
	"ammosync/internal/event"
	"ammosync/internal/store"
)

var ErrEmptyStep = errors.New("step has neither roll nor set")

type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one of Roll or Set.
type Step struct {
	Roll *event.Roll `yaml:"roll"`
	Set  *SetStep    `yaml:"set"`
}

// SetStep is an edit made by a player. Character is a name, not an id.
type SetStep struct {
	Character string `yaml:"character"`
	Attribute string `yaml:"attribute"`
	Value     string `yaml:"value"`
}

type Result struct {
	Steps     int
	Delivered int
}

func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading script: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	for i, step := range script.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("parsing script: step %d: %w", i+1, err)
		}
	}
	return &script, nil
}

func (s Step) validate() error {
	switch {
	case s.Roll == nil && s.Set == nil:
		return ErrEmptyStep
	case s.Roll != nil && s.Set != nil:
		return fmt.Errorf("step has both roll and set")
	case s.Set != nil:
		if strings.TrimSpace(s.Set.Character) == "" || strings.TrimSpace(s.Set.Attribute) == "" {
			return fmt.Errorf("set step needs character and attribute")
		}
	}
	return nil
}

// Run publishes each step and drains the bus before the next one, so a
// step sees the sheet exactly as the previous step left it. db must be the
// bus's observed store for set steps to produce change events.
func Run(ctx context.Context, script *Script, bus *dispatch.Bus, db store.Store) (*Result, error) {
	result := &Result{}
	for i, step := range script.Steps {
		switch {
		case step.Roll != nil:
			bus.PublishRoll(*step.Roll)
		case step.Set != nil:
			ch, err := db.FindCharacterByName(ctx, step.Set.Character)
			if err != nil {
				return result, fmt.Errorf("step %d: finding %s: %w", i+1, step.Set.Character, err)
			}
			if ch == nil {
				return result, fmt.Errorf("step %d: character %q not found", i+1, step.Set.Character)
			}
			if err := db.SetAttribute(ctx, ch.ID, step.Set.Attribute, step.Set.Value); err != nil {
				return result, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		n, err := bus.Drain(ctx)
		result.Delivered += n
		if err != nil {
			return result, fmt.Errorf("step %d: %w", i+1, err)
		}
		result.Steps++
	}
	return result, nil
}
