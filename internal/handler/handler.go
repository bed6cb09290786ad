// Package handler reacts to roll and attribute-change events by keeping a
// character's ammunition counters consistent.
package handler

import (
	"context"
	"fmt"
	"log/slog"

	"ammosync/internal/ammo"
	"ammosync/internal/config"
	"ammosync/internal/store"
)

// Notifier posts the chat cards the handlers produce.
type Notifier interface {
	ammo.Notifier
	OutOfAmmo(ctx context.Context, playerName, weapon, ammoType string, count int) error
	UnreadableCount(ctx context.Context, playerName, weapon, ammoType string) error
	NoAmmoSpent(ctx context.Context, playerName, weapon, ammoType string) error
	Reduced(ctx context.Context, playerName, weapon, ammoType string, before, after int) error
}

// Handler is stateless between events. db should be the store whose writes
// the host redelivers as attribute changes.
type Handler struct {
	db     store.Store
	layout *config.Sheet
	engine *ammo.Engine
	notify Notifier
	log    *slog.Logger
}

func New(db store.Store, layout *config.Sheet, notify Notifier, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		db:     db,
		layout: layout,
		engine: ammo.NewEngine(db, layout, ammo.NewLocator(notify)),
		notify: notify,
		log:    log,
	}
}

func (h *Handler) Engine() *ammo.Engine {
	return h.engine
}

// player reports whether ch exists and is player-controlled.
func (h *Handler) player(ch *store.Character) bool {
	return ch != nil && ch.IsPlayer()
}

func (h *Handler) recover(kind string, attrs ...any) {
	if r := recover(); r != nil {
		h.log.Error("handler panic", append(attrs, "event", kind, "err", fmt.Errorf("%v", r))...)
	}
}
