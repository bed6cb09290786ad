package ingest

import (
	"context"

	"ammosync/internal/store"
)

// Store is the part of store.Store ingestion writes through. Writes made
// here are not change events; ingest loads sheets, it does not play them.
type Store interface {
	EnsureSchema(ctx context.Context) error
	UpsertCharacter(ctx context.Context, c store.Character) error
	GetCharacterHashes(ctx context.Context) (map[string]string, error)
	SetAttribute(ctx context.Context, characterID, name, current string) error
	DeleteAttributes(ctx context.Context, characterID string) (int64, error)
}
