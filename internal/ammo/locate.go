package ammo

import (
	"context"
	"errors"
	"fmt"

	"ammosync/internal/sheet"
)

// ErrNotFound means a weapon or ammo row could not be resolved by name. The
// locator has already told the table when it returns this; callers stop
// handling the event and do not report it again.
var ErrNotFound = errors.New("item not found")

// Notifier receives the diagnostic posted when a lookup fails.
type Notifier interface {
	NotFound(ctx context.Context, playerName, term, section string) error
}

type Locator struct {
	notify Notifier
}

func NewLocator(notify Notifier) *Locator {
	return &Locator{notify: notify}
}

// Locate returns the id of the first row in section whose nameField matches
// itemName. Exact lookups compare the whole value ignoring case; fuzzy
// lookups use Matches with itemName as the ammo type.
func (l *Locator) Locate(ctx context.Context, view *sheet.View, itemName, section, nameField string, exact bool) (string, error) {
	for _, rowID := range view.RowIDs(section) {
		stored, ok := view.Value(section, rowID, nameField)
		if !ok {
			continue
		}
		if matchName(itemName, stored, exact) {
			return rowID, nil
		}
	}

	if l.notify != nil {
		if err := l.notify.NotFound(ctx, view.Character.Name, itemName, section); err != nil {
			return "", fmt.Errorf("%w: %q (%v)", ErrNotFound, itemName, err)
		}
	}
	return "", fmt.Errorf("%w: %q in %s for %s", ErrNotFound, itemName, section, view.Character.Name)
}

func (l *Locator) Weapon(ctx context.Context, view *sheet.View, name string) (string, error) {
	w := view.Layout.Weapons
	return l.Locate(ctx, view, name, w.Section, w.Name, true)
}

func (l *Locator) Ammo(ctx context.Context, view *sheet.View, ammoType string) (string, error) {
	a := view.Layout.Ammo
	return l.Locate(ctx, view, ammoType, a.Section, a.Name, false)
}
