package store

import "context"

// Store is the character-sheet backend. Single-record lookups return a nil
// record and a nil error when nothing matches.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	UpsertCharacter(ctx context.Context, c Character) error
	GetCharacter(ctx context.Context, id string) (*Character, error)
	FindCharacterByName(ctx context.Context, name string) (*Character, error)
	ListCharacters(ctx context.Context) ([]Character, error)
	GetCharacterHashes(ctx context.Context) (map[string]string, error)

	ListAttributes(ctx context.Context, characterID string) ([]Attribute, error)
	GetAttribute(ctx context.Context, characterID, name string) (*Attribute, error)
	SetAttribute(ctx context.Context, characterID, name, current string) error
	DeleteAttributes(ctx context.Context, characterID string) (int64, error)

	SendChat(ctx context.Context, msg ChatMessage) error
	ListChat(ctx context.Context, limit int) ([]ChatMessage, error)
}
