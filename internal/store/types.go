package store

import "time"

const (
	SheetTypePlayer = "pc"
	SheetTypeNPC    = "npc"
)

type Character struct {
	ID         string
	Name       string
	SheetType  string
	SourceFile string
	SourceHash string
}

func (c *Character) IsPlayer() bool {
	return c != nil && c.SheetType == SheetTypePlayer
}

// Attribute is one raw sheet value. Name carries the composite
// section/row/field key for repeating sections.
type Attribute struct {
	CharacterID string
	Name        string
	Current     string
}

type ChatMessage struct {
	Speaker string
	Body    string
	SentAt  time.Time
}
