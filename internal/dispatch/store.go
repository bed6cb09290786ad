package dispatch

import (
	"context"
	"fmt"

	"ammosync/internal/event"
	"ammosync/internal/store"
)

// ObservedStore publishes an attribute change for every SetAttribute that
// reaches the underlying store, the way the hosting platform redelivers
// writes as change events. The change is published even when the value did
// not change.
type ObservedStore struct {
	store.Store
	bus *Bus
}

// Store wraps inner so its attribute writes are published on the bus.
func (b *Bus) Store(inner store.Store) *ObservedStore {
	return &ObservedStore{Store: inner, bus: b}
}

func (s *ObservedStore) SetAttribute(ctx context.Context, characterID, name, current string) error {
	prev, err := s.Store.GetAttribute(ctx, characterID, name)
	if err != nil {
		return fmt.Errorf("reading previous value of %s: %w", name, err)
	}
	if err := s.Store.SetAttribute(ctx, characterID, name, current); err != nil {
		return err
	}

	change := event.AttributeChange{CharacterID: characterID, Name: name, Current: current}
	if prev != nil {
		change.Previous = prev.Current
	}
	s.bus.PublishAttributeChange(change)
	return nil
}

// Unwrap returns the store writes bypass observation through.
func (s *ObservedStore) Unwrap() store.Store {
	return s.Store
}
