package validate

import (
	"context"
	"fmt"
	"strings"

	"ammosync/internal/ammo"
	"ammosync/internal/config"
	"ammosync/internal/sheet"
	"ammosync/internal/store"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeCountMismatch    = "count_mismatch"
	codeInvalidCount     = "invalid_count"
	codeDanglingAmmoType = "dangling_ammo_type"
	codeDuplicateName    = "duplicate_character_name"
)

type Issue struct {
	Severity  Severity
	Code      string
	Message   string
	Character string
	Row       string
	FilePath  string
	Fixed     bool
}

type Report struct {
	Issues []Issue
}

func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity && !issue.Fixed {
			n++
		}
	}
	return n
}

type Options struct {
	// Fix rewrites weapon counts from their inventory row. Writes go through
	// db, so an observed store will redeliver them.
	Fix bool
}

// Run audits every player character for weapons whose ammo count disagrees
// with the inventory row they draw from.
func Run(ctx context.Context, layout *config.Sheet, db store.Store, options Options) (*Report, error) {
	if layout == nil {
		return nil, fmt.Errorf("sheet layout is required")
	}
	if db == nil {
		return nil, fmt.Errorf("store is required")
	}

	characters, err := db.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	issues := duplicateNames(characters)

	var engine *ammo.Engine
	if options.Fix {
		engine = ammo.NewEngine(db, layout, ammo.NewLocator(nil))
	}

	for _, ch := range characters {
		if !ch.IsPlayer() {
			continue
		}
		view, err := sheet.Load(ctx, db, layout, ch)
		if err != nil {
			return nil, fmt.Errorf("load sheet %s: %w", ch.Name, err)
		}

		found, repair := checkCharacter(view)
		if engine != nil {
			for rowID, quantity := range repair {
				if _, err := engine.FromGear(ctx, ch, rowID, quantity); err != nil {
					return nil, fmt.Errorf("fix %s: %w", ch.Name, err)
				}
			}
			for i := range found {
				if _, ok := repair[found[i].Row]; ok && found[i].fixable {
					found[i].Fixed = true
				}
			}
		}
		for _, f := range found {
			issues = append(issues, f.Issue)
		}
	}

	return &Report{Issues: issues}, nil
}

type finding struct {
	Issue
	fixable bool
}

// checkCharacter returns the findings for one sheet and, for every
// inventory row with a disagreeing weapon, the quantity to repair from.
// Findings that a repair resolves carry the inventory row id in Row.
func checkCharacter(view *sheet.View) ([]finding, map[string]int) {
	ch := view.Character
	w, a := view.Layout.Weapons, view.Layout.Ammo
	repair := make(map[string]int)
	var found []finding

	issue := func(severity Severity, code, row, format string, args ...any) Issue {
		return Issue{
			Severity:  severity,
			Code:      code,
			Message:   fmt.Sprintf(format, args...),
			Character: ch.Name,
			Row:       row,
			FilePath:  ch.SourceFile,
		}
	}

	type stock struct {
		rowID    string
		name     string
		quantity int
	}
	var stocks []stock
	for _, rowID := range view.RowIDs(a.Section) {
		name, _ := view.Value(a.Section, rowID, a.Name)
		raw, _ := view.Value(a.Section, rowID, a.Quantity)
		quantity, err := sheet.ParseInt(raw)
		if err != nil {
			found = append(found, finding{Issue: issue(SeverityError, codeInvalidCount, rowID,
				"ammo %q quantity is not an integer: %q", name, raw)})
			continue
		}
		stocks = append(stocks, stock{rowID: rowID, name: name, quantity: quantity})
	}

	for _, rowID := range view.RowIDs(w.Section) {
		name, _ := view.Value(w.Section, rowID, w.Name)
		ammoType, _ := view.Value(w.Section, rowID, w.Ammo)
		if strings.TrimSpace(ammoType) == "" {
			continue
		}
		raw, _ := view.Value(w.Section, rowID, w.AmmoCount)
		count, countErr := sheet.ParseInt(raw)

		matched := false
		for _, s := range stocks {
			if strings.TrimSpace(s.name) == "" || !ammo.Matches(ammoType, s.name) {
				continue
			}
			matched = true
			switch {
			case countErr != nil:
				found = append(found, finding{fixable: true, Issue: issue(SeverityError, codeInvalidCount, s.rowID,
					"weapon %q ammo count is not an integer: %q", name, raw)})
				repair[s.rowID] = s.quantity
			case count != s.quantity:
				found = append(found, finding{fixable: true, Issue: issue(SeverityError, codeCountMismatch, s.rowID,
					"weapon %q has %d %s, inventory %q has %d", name, count, ammoType, s.name, s.quantity)})
				repair[s.rowID] = s.quantity
			}
		}

		if !matched {
			if countErr != nil {
				found = append(found, finding{Issue: issue(SeverityError, codeInvalidCount, rowID,
					"weapon %q ammo count is not an integer: %q", name, raw)})
			}
			found = append(found, finding{Issue: issue(SeverityWarn, codeDanglingAmmoType, rowID,
				"weapon %q uses %q, which matches no ammo row", name, ammoType)})
		}
	}

	return found, repair
}

func duplicateNames(characters []store.Character) []Issue {
	seen := make(map[string]string)
	var issues []Issue
	for _, ch := range characters {
		key := strings.ToLower(strings.TrimSpace(ch.Name))
		if first, ok := seen[key]; ok {
			issues = append(issues, Issue{
				Severity:  SeverityError,
				Code:      codeDuplicateName,
				Message:   fmt.Sprintf("name is shared with character %s; rolls resolve to only one of them", first),
				Character: ch.Name,
				FilePath:  ch.SourceFile,
			})
			continue
		}
		seen[key] = ch.ID
	}
	return issues
}
