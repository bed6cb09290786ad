package handler

import (
	"context"
	"errors"
	"log/slog"

	"ammosync/internal/ammo"
	"ammosync/internal/event"
	"ammosync/internal/sheet"
)

type countField int

const (
	notCount countField = iota
	weaponCount
	ammoQuantity
)

// HandleAttributeChange keeps the inventory and weapon copies in step after
// an edit to either. Redelivered writes that did not change the value stop
// at the first check, which is what ends each propagation chain.
func (h *Handler) HandleAttributeChange(ctx context.Context, change event.AttributeChange) {
	defer h.recover("attribute", "attribute", change.Name, "character_id", change.CharacterID)

	if sameValue(change.Current, change.Previous) {
		return
	}

	ch, err := h.db.GetCharacter(ctx, change.CharacterID)
	if err != nil {
		h.log.Error("looking up character", "character_id", change.CharacterID, "err", err)
		return
	}
	if !h.player(ch) {
		return
	}

	key, field := h.classify(change.Name)
	if field == notCount {
		return
	}
	log := h.log.With("character", ch.Name, "attribute", change.Name)

	target, err := sheet.ParseInt(change.Current)
	if err != nil {
		h.revert(ctx, change, log, err)
		return
	}

	var written int
	switch field {
	case weaponCount:
		written, err = h.engine.FromWeapon(ctx, *ch, key.RowID, target)
	case ammoQuantity:
		written, err = h.engine.FromGear(ctx, *ch, key.RowID, target)
	}
	switch {
	case errors.Is(err, ammo.ErrNotFound):
		log.Info("sync skipped", "err", err)
	case err != nil:
		log.Error("syncing ammo", "err", err)
	case written > 0:
		log.Debug("ammo synced", "value", target, "written", written)
	}
}

func (h *Handler) classify(name string) (sheet.Key, countField) {
	key, ok := sheet.ParseKey(h.layout, name)
	if !ok {
		return key, notCount
	}
	w, a := h.layout.Weapons, h.layout.Ammo
	switch {
	case key.Section == w.Section && key.Field == w.AmmoCount:
		return key, weaponCount
	case key.Section == a.Section && key.Field == a.Quantity:
		return key, ammoQuantity
	}
	return key, notCount
}

// revert puts back the previous value of a count that was set to something
// other than an integer. A previous value that is not an integer either is
// left alone, otherwise the two writes would keep undoing each other.
func (h *Handler) revert(ctx context.Context, change event.AttributeChange, log *slog.Logger, cause error) {
	if _, err := sheet.ParseInt(change.Previous); err != nil {
		log.Warn("invalid count left in place", "value", change.Current, "previous", change.Previous, "err", cause)
		return
	}
	if err := h.db.SetAttribute(ctx, change.CharacterID, change.Name, change.Previous); err != nil {
		log.Error("reverting invalid count", "value", change.Current, "err", err)
		return
	}
	log.Warn("invalid count reverted", "value", change.Current, "previous", change.Previous, "err", cause)
}

func sameValue(current, previous string) bool {
	if current == previous {
		return true
	}
	a, errA := sheet.ParseInt(current)
	b, errB := sheet.ParseInt(previous)
	return errA == nil && errB == nil && a == b
}
