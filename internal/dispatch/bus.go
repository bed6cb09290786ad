// Package dispatch is the in-process event host: a FIFO of roll and
// attribute-change events delivered one at a time to registered handlers.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ammosync/internal/event"
)

// ErrRunaway is returned by Drain when the delivery cap is reached with
// events still queued.
var ErrRunaway = errors.New("delivery limit reached")

type (
	RollHandler            func(ctx context.Context, roll event.Roll)
	AttributeChangeHandler func(ctx context.Context, change event.AttributeChange)
)

type envelope struct {
	roll   *event.Roll
	change *event.AttributeChange
}

// Bus queues events and delivers them sequentially. Publishing is safe from
// any goroutine; Drain holds a delivery lock so only one caller delivers at a
// time, and a handler's own writes are queued behind the current event.
type Bus struct {
	mu       sync.Mutex
	queue    []envelope
	rolls    []RollHandler
	changes  []AttributeChangeHandler
	delivery sync.Mutex

	maxDeliveries int
	log           *slog.Logger
}

// New returns a bus that stops a single Drain after maxDeliveries events.
// Zero or less means no limit.
func New(maxDeliveries int, log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{maxDeliveries: maxDeliveries, log: log}
}

func (b *Bus) OnRoll(h RollHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rolls = append(b.rolls, h)
}

func (b *Bus) OnAttributeChange(h AttributeChangeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, h)
}

func (b *Bus) PublishRoll(roll event.Roll) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, envelope{roll: &roll})
}

func (b *Bus) PublishAttributeChange(change event.AttributeChange) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, envelope{change: &change})
}

// Pending reports how many events are queued.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Drain delivers queued events, including those published while draining,
// until the queue is empty. It returns the number of events delivered.
func (b *Bus) Drain(ctx context.Context) (int, error) {
	b.delivery.Lock()
	defer b.delivery.Unlock()

	delivered := 0
	for {
		if err := ctx.Err(); err != nil {
			return delivered, fmt.Errorf("draining events: %w", err)
		}
		if b.maxDeliveries > 0 && delivered >= b.maxDeliveries {
			pending := b.Pending()
			if pending == 0 {
				return delivered, nil
			}
			b.log.Error("event delivery limit reached", "delivered", delivered, "pending", pending)
			return delivered, fmt.Errorf("draining events: %w after %d deliveries, %d pending", ErrRunaway, delivered, pending)
		}

		env, rolls, changes, ok := b.next()
		if !ok {
			return delivered, nil
		}

		switch {
		case env.roll != nil:
			for _, h := range rolls {
				h(ctx, *env.roll)
			}
		case env.change != nil:
			for _, h := range changes {
				h(ctx, *env.change)
			}
		}
		delivered++
	}
}

// Clear drops every queued event and returns how many were dropped.
func (b *Bus) Clear() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.queue)
	b.queue = nil
	return n
}

func (b *Bus) next() (envelope, []RollHandler, []AttributeChangeHandler, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return envelope{}, nil, nil, false
	}
	env := b.queue[0]
	b.queue[0] = envelope{}
	b.queue = b.queue[1:]
	return env, b.rolls, b.changes, true
}
