package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"ammosync/internal/event"
	"ammosync/internal/handler"
	"ammosync/internal/notify"
	"ammosync/internal/sheet"
	"ammosync/internal/store"
	"ammosync/internal/validate"
)

type PostRollInput struct {
	Character  string         `json:"character" jsonschema:"character name"`
	Weapon     string         `json:"weapon" jsonschema:"weapon name as written on the sheet"`
	Template   string         `json:"template,omitempty" jsonschema:"roll template, attack or damage (default damage)"`
	CombatDice int            `json:"combat_dice,omitempty" jsonschema:"number of combat dice rolled"`
	Rolls      []SubRollInput `json:"rolls,omitempty" jsonschema:"explicit sub-rolls, used instead of combat_dice"`
	Reroll     bool           `json:"reroll,omitempty" jsonschema:"re-display of an already counted roll"`
}

type SubRollInput struct {
	Expression string `json:"expression" jsonschema:"dice expression"`
	Result     int    `json:"result" jsonschema:"rolled total"`
}

type SetAttributeInput struct {
	Character string `json:"character" jsonschema:"character name"`
	Attribute string `json:"attribute" jsonschema:"full attribute name"`
	Value     string `json:"value" jsonschema:"new value"`
}

type GetCharacterInput struct {
	Name string `json:"name" jsonschema:"character name"`
}

type AuditInput struct {
	Fix bool `json:"fix,omitempty" jsonschema:"repair weapon counts from the inventory"`
}

type ChatLogInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"most recent messages to return (default 20)"`
}

type DeliveryOutput struct {
	Delivered int          `json:"delivered"`
	Messages  []ChatOutput `json:"messages"`
	Error     string       `json:"error,omitempty"`
}

type ChatOutput struct {
	Speaker  string            `json:"speaker"`
	Body     string            `json:"body"`
	Template string            `json:"template,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	SentAt   string            `json:"sent_at"`
}

type CharacterOutput struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	SheetType  string            `json:"sheet_type"`
	SourceFile string            `json:"source_file"`
	Weapons    []WeaponOutput    `json:"weapons"`
	Ammo       []AmmoOutput      `json:"ammo"`
	Attributes map[string]string `json:"attributes"`
	Problems   []string          `json:"problems,omitempty"`
}

type WeaponOutput struct {
	RowID     string `json:"row_id"`
	Name      string `json:"name"`
	AmmoType  string `json:"ammo_type"`
	AmmoCount int    `json:"ammo_count"`
	Damage    int    `json:"damage"`
	FireRate  int    `json:"fire_rate"`
	Qualities string `json:"qualities"`
}

type AmmoOutput struct {
	RowID    string `json:"row_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type AuditOutput struct {
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Issues   []IssueOutput `json:"issues"`
}

type IssueOutput struct {
	Severity  string `json:"severity"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Character string `json:"character"`
	Row       string `json:"row,omitempty"`
	Fixed     bool   `json:"fixed,omitempty"`
}

type ChatLogOutput struct {
	Messages []ChatOutput `json:"messages"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "post_roll",
		Description: "Post an attack or damage roll for a character's weapon and process it",
	}, s.handlePostRoll)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "set_attribute",
		Description: "Edit one sheet attribute as a player would",
	}, s.handleSetAttribute)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_character",
		Description: "Return a character's weapons, ammunition and other attributes",
	}, s.handleGetCharacter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "audit",
		Description: "Check that every weapon's ammo count matches its inventory row",
	}, s.handleAudit)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "chat_log",
		Description: "Return recent chat notifications",
	}, s.handleChatLog)
}

func (s *Server) handlePostRoll(ctx context.Context, req *sdk.CallToolRequest, input PostRollInput) (*sdk.CallToolResult, DeliveryOutput, error) {
	if strings.TrimSpace(input.Character) == "" {
		return nil, DeliveryOutput{}, fmt.Errorf("character is required")
	}
	if strings.TrimSpace(input.Weapon) == "" {
		return nil, DeliveryOutput{}, fmt.Errorf("weapon is required")
	}

	roll := s.buildRoll(input)
	if !roll.HasRollData() {
		return nil, DeliveryOutput{}, fmt.Errorf("combat_dice or rolls is required")
	}

	return s.deliver(ctx, func() error {
		s.bus.PublishRoll(roll)
		return nil
	})
}

func (s *Server) buildRoll(input PostRollInput) event.Roll {
	req := handler.RollRequest{
		Character:  input.Character,
		Weapon:     input.Weapon,
		Template:   input.Template,
		CombatDice: input.CombatDice,
		Reroll:     input.Reroll,
	}
	for _, r := range input.Rolls {
		req.Rolls = append(req.Rolls, event.SubRoll{Expression: r.Expression, Result: r.Result})
	}
	return handler.BuildRoll(s.layout.Rolls, req)
}

func (s *Server) handleSetAttribute(ctx context.Context, req *sdk.CallToolRequest, input SetAttributeInput) (*sdk.CallToolResult, DeliveryOutput, error) {
	if strings.TrimSpace(input.Character) == "" || strings.TrimSpace(input.Attribute) == "" {
		return nil, DeliveryOutput{}, fmt.Errorf("character and attribute are required")
	}
	ch, err := s.findCharacter(ctx, input.Character)
	if err != nil {
		return nil, DeliveryOutput{}, err
	}

	return s.deliver(ctx, func() error {
		return s.db.SetAttribute(ctx, ch.ID, input.Attribute, input.Value)
	})
}

// deliver runs publish, drains the bus and reports the chat messages posted
// while it did.
func (s *Server) deliver(ctx context.Context, publish func() error) (*sdk.CallToolResult, DeliveryOutput, error) {
	before, err := s.db.ListChat(ctx, 0)
	if err != nil {
		return nil, DeliveryOutput{}, err
	}

	if err := publish(); err != nil {
		return nil, DeliveryOutput{}, err
	}

	out := DeliveryOutput{Messages: []ChatOutput{}}
	delivered, drainErr := s.bus.Drain(ctx)
	out.Delivered = delivered
	if drainErr != nil {
		out.Error = drainErr.Error()
	}

	after, err := s.db.ListChat(ctx, 0)
	if err != nil {
		return nil, out, err
	}
	if len(after) > len(before) {
		for _, msg := range after[len(before):] {
			out.Messages = append(out.Messages, chatOutputFromStore(msg))
		}
	}
	return nil, out, nil
}

func (s *Server) handleGetCharacter(ctx context.Context, req *sdk.CallToolRequest, input GetCharacterInput) (*sdk.CallToolResult, CharacterOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, CharacterOutput{}, fmt.Errorf("name is required")
	}
	ch, err := s.findCharacter(ctx, input.Name)
	if err != nil {
		return nil, CharacterOutput{}, err
	}

	attrs, err := s.db.ListAttributes(ctx, ch.ID)
	if err != nil {
		return nil, CharacterOutput{}, err
	}
	return nil, characterOutput(sheet.NewView(s.layout, *ch, attrs), attrs), nil
}

func (s *Server) handleAudit(ctx context.Context, req *sdk.CallToolRequest, input AuditInput) (*sdk.CallToolResult, AuditOutput, error) {
	report, err := validate.Run(ctx, s.layout, s.db, validate.Options{Fix: input.Fix})
	if err != nil {
		return nil, AuditOutput{}, err
	}
	if input.Fix {
		if _, err := s.bus.Drain(ctx); err != nil {
			return nil, AuditOutput{}, err
		}
	}

	out := AuditOutput{
		Errors:   report.Count(validate.SeverityError),
		Warnings: report.Count(validate.SeverityWarn),
		Issues:   make([]IssueOutput, 0, len(report.Issues)),
	}
	for _, issue := range report.Issues {
		out.Issues = append(out.Issues, IssueOutput{
			Severity:  string(issue.Severity),
			Code:      issue.Code,
			Message:   issue.Message,
			Character: issue.Character,
			Row:       issue.Row,
			Fixed:     issue.Fixed,
		})
	}
	return nil, out, nil
}

func (s *Server) handleChatLog(ctx context.Context, req *sdk.CallToolRequest, input ChatLogInput) (*sdk.CallToolResult, ChatLogOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 20
	}
	if limit < 0 {
		return nil, ChatLogOutput{}, fmt.Errorf("limit must be positive")
	}
	msgs, err := s.db.ListChat(ctx, limit)
	if err != nil {
		return nil, ChatLogOutput{}, err
	}

	out := ChatLogOutput{Messages: make([]ChatOutput, 0, len(msgs))}
	for _, msg := range msgs {
		out.Messages = append(out.Messages, chatOutputFromStore(msg))
	}
	return nil, out, nil
}

func (s *Server) findCharacter(ctx context.Context, name string) (*store.Character, error) {
	ch, err := s.db.FindCharacterByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, fmt.Errorf("character not found")
	}
	return ch, nil
}

func characterOutput(view *sheet.View, attrs []store.Attribute) CharacterOutput {
	ch := view.Character
	out := CharacterOutput{
		ID:         ch.ID,
		Name:       ch.Name,
		SheetType:  ch.SheetType,
		SourceFile: ch.SourceFile,
		Weapons:    []WeaponOutput{},
		Ammo:       []AmmoOutput{},
		Attributes: map[string]string{},
	}

	weapons, errs := view.WeaponRows()
	for _, w := range weapons {
		out.Weapons = append(out.Weapons, WeaponOutput{
			RowID:     w.RowID,
			Name:      w.Name,
			AmmoType:  w.AmmoType,
			AmmoCount: w.AmmoCount,
			Damage:    w.Damage,
			FireRate:  w.FireRate,
			Qualities: w.Qualities,
		})
	}
	ammo, ammoErrs := view.AmmoRows()
	for _, a := range ammo {
		out.Ammo = append(out.Ammo, AmmoOutput{RowID: a.RowID, Name: a.Name, Quantity: a.Quantity})
	}
	for _, err := range append(errs, ammoErrs...) {
		out.Problems = append(out.Problems, err.Error())
	}

	for _, attr := range attrs {
		if _, ok := sheet.ParseKey(view.Layout, attr.Name); ok {
			continue
		}
		out.Attributes[attr.Name] = attr.Current
	}
	return out
}

func chatOutputFromStore(msg store.ChatMessage) ChatOutput {
	out := ChatOutput{
		Speaker: msg.Speaker,
		Body:    msg.Body,
		SentAt:  msg.SentAt.UTC().Format(time.RFC3339),
	}
	if card, err := notify.Parse(msg.Body); err == nil {
		out.Template = card.Template
		out.Fields = card.Fields
	}
	return out
}
