package handler

import (
	"context"
	"errors"
	"log/slog"

	"ammosync/internal/ammo"
	"ammosync/internal/event"
	"ammosync/internal/parser"
	"ammosync/internal/sheet"
)

// HandleRoll reacts to attack and damage rolls. Attacks only warn when the
// weapon is empty; damage rolls spend ammunition from the inventory row and
// copy the new quantity to every weapon that uses it.
func (h *Handler) HandleRoll(ctx context.Context, roll event.Roll) {
	defer h.recover("roll", "who", roll.Who, "template", roll.Template)

	if !roll.HasRollData() {
		return
	}

	msg, err := parser.Parse(roll.Content)
	if err != nil {
		h.log.Warn("roll content partly parsed", "who", roll.Who, "err", err)
	}
	template := roll.Template
	if template == "" {
		template = msg.Template
	}

	rules := h.layout.Rolls
	var damage bool
	switch template {
	case rules.AttackTemplate:
	case rules.DamageTemplate:
		damage = true
	default:
		return
	}

	log := h.log.With("template", template)

	name, _ := msg.Marker(rules.CharacterMarker)
	if name == "" {
		log.Debug("roll has no character marker", "who", roll.Who)
		return
	}
	ch, err := h.db.FindCharacterByName(ctx, name)
	if err != nil {
		log.Error("looking up character", "character", name, "err", err)
		return
	}
	if !h.player(ch) {
		return
	}
	log = log.With("character", ch.Name)

	weaponName, _ := msg.Marker(rules.WeaponMarker)
	if weaponName == "" {
		log.Warn("roll has no weapon marker")
		return
	}

	view, err := sheet.Load(ctx, h.db, h.layout, *ch)
	if err != nil {
		log.Error("loading sheet", "err", err)
		return
	}

	weaponRow, err := h.engine.Locator().Weapon(ctx, view, weaponName)
	if err != nil {
		h.logLookup(log, err, "weapon", weaponName)
		return
	}
	weapon, err := view.WeaponStats(weaponRow)
	if err != nil {
		log.Error("reading weapon", "weapon", weaponName, "err", err)
		return
	}
	if weapon.AmmoType == "" {
		return
	}
	log = log.With("weapon", weapon.Name, "ammo", weapon.AmmoType)

	if !damage {
		if weapon.CountErr != nil {
			log.Warn("unreadable ammo count", "err", weapon.CountErr)
			if err := h.notify.UnreadableCount(ctx, ch.Name, weapon.Name, weapon.AmmoType); err != nil {
				log.Error("sending unreadable count notice", "err", err)
			}
			return
		}
		if weapon.AmmoCount <= 0 {
			if err := h.notify.OutOfAmmo(ctx, ch.Name, weapon.Name, weapon.AmmoType, weapon.AmmoCount); err != nil {
				log.Error("sending out of ammo notice", "err", err)
			}
		}
		return
	}

	ammoRow, err := h.engine.Locator().Ammo(ctx, view, weapon.AmmoType)
	if err != nil {
		h.logLookup(log, err, "ammo", weapon.AmmoType)
		return
	}
	stock, err := view.AmmoRow(ammoRow)
	if err != nil {
		log.Error("reading ammo", "err", err)
		return
	}

	// An unreadable count is repaired by the sync below.
	special := weapon.HasQuality(rules.SpecialQuality)
	shots := ammo.ShotsSpent(roll, h.layout, weapon.Damage, weapon.FireRate, special)
	if shots == 0 {
		if err := h.notify.NoAmmoSpent(ctx, ch.Name, weapon.Name, weapon.AmmoType); err != nil {
			log.Error("sending no ammo notice", "err", err)
		}
		return
	}

	remaining := max(stock.Quantity-shots, 0)
	if err := h.engine.SetQuantity(ctx, *ch, ammoRow, remaining); err != nil {
		log.Error("spending ammo", "shots", shots, "err", err)
		return
	}
	if _, err := h.engine.FromCanonical(ctx, *ch, weapon.AmmoType, remaining); err != nil {
		log.Error("syncing weapons", "err", err)
		return
	}
	log.Info("ammo spent", "shots", shots, "before", stock.Quantity, "after", remaining)

	if err := h.notify.Reduced(ctx, ch.Name, weapon.Name, weapon.AmmoType, stock.Quantity, remaining); err != nil {
		log.Error("sending reduction notice", "err", err)
	}
}

// logLookup records a failed lookup. ErrNotFound has already been reported
// to the table by the locator.
func (h *Handler) logLookup(log *slog.Logger, err error, kind, term string) {
	if errors.Is(err, ammo.ErrNotFound) {
		log.Info("lookup failed", kind, term)
		return
	}
	log.Error("lookup failed", kind, term, "err", err)
}
