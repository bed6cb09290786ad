package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"ammosync/internal/config"
	"ammosync/internal/dispatch"
	"ammosync/internal/handler"
	"ammosync/internal/notify"
	"ammosync/internal/store"
)

// host is everything a command needs to feed events through the handlers.
type host struct {
	cfg     *config.ProjectConfig
	layout  *config.Sheet
	raw     store.Store
	db      *dispatch.ObservedStore
	bus     *dispatch.Bus
	handler *handler.Handler
	log     *slog.Logger
}

func openHost(ctx context.Context) (*host, error) {
	log, err := newLogger(logLevel)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}

	layout, err := loadLayout(sheetPath)
	if err != nil {
		return nil, err
	}

	raw, err := openDB(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := raw.EnsureSchema(ctx); err != nil {
		raw.Close(ctx)
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	bus := dispatch.New(cfg.Bus.MaxDeliveries, log)
	db := bus.Store(raw)
	h := handler.New(db, layout, notify.New(raw, cfg.Chat.Speaker), log)
	bus.OnRoll(h.HandleRoll)
	bus.OnAttributeChange(h.HandleAttributeChange)

	return &host{cfg: cfg, layout: layout, raw: raw, db: db, bus: bus, handler: h, log: log}, nil
}

func (h *host) Close(ctx context.Context) error {
	return h.raw.Close(ctx)
}

// drain delivers queued events and prints the chat cards they produced.
func (h *host) drain(ctx context.Context, out io.Writer, publish func() error) error {
	before, err := h.raw.ListChat(ctx, 0)
	if err != nil {
		return err
	}
	if err := publish(); err != nil {
		return err
	}
	delivered, drainErr := h.bus.Drain(ctx)
	h.log.Debug("events delivered", "count", delivered)

	after, err := h.raw.ListChat(ctx, 0)
	if err != nil {
		return err
	}
	if len(after) > len(before) {
		printChat(out, after[len(before):])
	}
	return drainErr
}

// loadLayout reads the sheet layout file, falling back to the built-in
// layout when the file does not exist.
func loadLayout(path string) (*config.Sheet, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.DefaultSheet(), nil
	}
	return config.LoadSheet(path)
}
