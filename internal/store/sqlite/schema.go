package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS characters (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		name_normalized TEXT NOT NULL,
		sheet_type      TEXT NOT NULL DEFAULT 'pc',
		source_file     TEXT DEFAULT '',
		source_hash     TEXT DEFAULT '',
		last_ingested   TEXT DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS attributes (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		character_id TEXT NOT NULL REFERENCES characters(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		current      TEXT NOT NULL DEFAULT '',
		updated_at   TEXT DEFAULT (datetime('now')),
		CONSTRAINT uq_attribute_name UNIQUE (character_id, name)
	);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		speaker TEXT NOT NULL,
		body    TEXT NOT NULL,
		sent_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_characters_name_norm ON characters (name_normalized);
	CREATE INDEX IF NOT EXISTS idx_characters_source_file ON characters (source_file);
	CREATE INDEX IF NOT EXISTS idx_attributes_character ON attributes (character_id);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	statements := splitStatements(ddl)
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
