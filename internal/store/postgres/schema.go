package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS characters (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    name_normalized TEXT NOT NULL,
    sheet_type      TEXT NOT NULL DEFAULT 'pc',
    source_file     TEXT NOT NULL DEFAULT '',
    source_hash     TEXT NOT NULL DEFAULT '',
    created_seq     BIGINT GENERATED ALWAYS AS IDENTITY,
    last_ingested   TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS attributes (
    id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    character_id TEXT NOT NULL REFERENCES characters(id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    current      TEXT NOT NULL DEFAULT '',
    updated_at   TIMESTAMPTZ DEFAULT now(),
    CONSTRAINT uq_attribute_name UNIQUE (character_id, name)
);

CREATE TABLE IF NOT EXISTS chat_messages (
    id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    speaker TEXT NOT NULL,
    body    TEXT NOT NULL,
    sent_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_characters_name_norm ON characters (name_normalized);
CREATE INDEX IF NOT EXISTS idx_characters_source_file ON characters (source_file);
CREATE INDEX IF NOT EXISTS idx_attributes_character ON attributes (character_id);
`
	// Multiple statements in one Exec run in a single implicit transaction.
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
