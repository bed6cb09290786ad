// Package notify renders the chat templates the character sheet already
// knows how to display and posts them through the store's chat.
package notify

import (
	"context"
	"fmt"

	"ammosync/internal/parser"
	"ammosync/internal/store"
)

const (
	TemplateInjury = "injury"
	TemplateGear   = "gear"
)

// Chat is the part of the store the notifier writes to.
type Chat interface {
	SendChat(ctx context.Context, msg store.ChatMessage) error
}

type Notifier struct {
	chat    Chat
	speaker string
}

func New(chat Chat, speaker string) *Notifier {
	return &Notifier{chat: chat, speaker: speaker}
}

// Injury posts an injury-style card; used for errors and empty weapons.
func (n *Notifier) Injury(ctx context.Context, playerName, location, effect string) error {
	return n.send(ctx, TemplateInjury, []parser.Marker{
		{Key: "playerName", Value: playerName},
		{Key: "injuryLocation", Value: location},
		{Key: "injuryEffect", Value: effect},
	})
}

// Gear posts a gear-style card; used for ammunition changes.
func (n *Notifier) Gear(ctx context.Context, playerName, gearName, description string) error {
	return n.send(ctx, TemplateGear, []parser.Marker{
		{Key: "playerName", Value: playerName},
		{Key: "gearName", Value: gearName},
		{Key: "gearDescription", Value: description},
	})
}

func (n *Notifier) NotFound(ctx context.Context, playerName, term, section string) error {
	return n.Injury(ctx, playerName, "Not found", fmt.Sprintf("Could not find %q in %s for %s.", term, section, playerName))
}

func (n *Notifier) OutOfAmmo(ctx context.Context, playerName, weapon, ammoType string, count int) error {
	return n.Injury(ctx, playerName, "Not enough ammo", fmt.Sprintf("%s has %d %s left.", weapon, count, ammoType))
}

func (n *Notifier) UnreadableCount(ctx context.Context, playerName, weapon, ammoType string) error {
	return n.Injury(ctx, playerName, "Unreadable ammo count", fmt.Sprintf("%s's %s count is not a number.", weapon, ammoType))
}

func (n *Notifier) NoAmmoSpent(ctx context.Context, playerName, weapon, ammoType string) error {
	return n.Gear(ctx, playerName, fmt.Sprintf("%s: no ammo spent", ammoType), fmt.Sprintf("%s did not use any %s.", weapon, ammoType))
}

func (n *Notifier) Reduced(ctx context.Context, playerName, weapon, ammoType string, before, after int) error {
	return n.Gear(ctx, playerName, ReducedText(ammoType, before, after), fmt.Sprintf("Fired %s, spent %d.", weapon, before-after))
}

// ReducedText is the gearName of a reduction card.
func ReducedText(ammoType string, before, after int) string {
	return fmt.Sprintf("%s reduced: %d -> %d", ammoType, before, after)
}

func (n *Notifier) send(ctx context.Context, template string, fields []parser.Marker) error {
	body := parser.Render(template, fields...)
	if err := n.chat.SendChat(ctx, store.ChatMessage{Speaker: n.speaker, Body: body}); err != nil {
		return fmt.Errorf("sending %s notification: %w", template, err)
	}
	return nil
}

// Card is a notification read back from chat.
type Card struct {
	Template string
	Fields   map[string]string
}

func Parse(body string) (*Card, error) {
	msg, err := parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parsing notification: %w", err)
	}
	if msg.Template == "" {
		return nil, parser.ErrNoTemplate
	}
	return &Card{Template: msg.Template, Fields: msg.Markers}, nil
}
