package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ammosync/internal/store"
)

func (c *Client) UpsertCharacter(ctx context.Context, ch store.Character) error {
	query := `
	INSERT INTO characters (id, name, name_normalized, sheet_type, source_file, source_hash, last_ingested)
	VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		name_normalized = excluded.name_normalized,
		sheet_type = excluded.sheet_type,
		source_file = excluded.source_file,
		source_hash = excluded.source_hash,
		last_ingested = datetime('now')
	`

	_, err := c.db.ExecContext(ctx, query,
		ch.ID,
		ch.Name,
		strings.ToLower(ch.Name),
		ch.SheetType,
		ch.SourceFile,
		ch.SourceHash,
	)
	if err != nil {
		return fmt.Errorf("upserting character: %w", err)
	}
	return nil
}

func (c *Client) GetCharacter(ctx context.Context, id string) (*store.Character, error) {
	query := `
	SELECT id, name, sheet_type, source_file, source_hash
	FROM characters
	WHERE id = ?
	`
	return c.scanCharacter(c.db.QueryRowContext(ctx, query, id))
}

func (c *Client) FindCharacterByName(ctx context.Context, name string) (*store.Character, error) {
	query := `
	SELECT id, name, sheet_type, source_file, source_hash
	FROM characters
	WHERE name_normalized = ?
	ORDER BY rowid
	LIMIT 1
	`
	return c.scanCharacter(c.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(name))))
}

func (c *Client) scanCharacter(row *sql.Row) (*store.Character, error) {
	var ch store.Character
	err := row.Scan(&ch.ID, &ch.Name, &ch.SheetType, &ch.SourceFile, &ch.SourceHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning character: %w", err)
	}
	return &ch, nil
}

func (c *Client) ListCharacters(ctx context.Context) ([]store.Character, error) {
	query := `
	SELECT id, name, sheet_type, source_file, source_hash
	FROM characters
	ORDER BY name
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	characters := []store.Character{}
	for rows.Next() {
		var ch store.Character
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.SheetType, &ch.SourceFile, &ch.SourceHash); err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		characters = append(characters, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating characters: %w", err)
	}

	return characters, nil
}

func (c *Client) GetCharacterHashes(ctx context.Context) (map[string]string, error) {
	query := `
	SELECT source_file, source_hash
	FROM characters
	WHERE source_file <> ''
	`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("getting character hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var file, hash string
		if err := rows.Scan(&file, &hash); err != nil {
			return nil, fmt.Errorf("scanning character hash: %w", err)
		}
		hashes[file] = hash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating character hashes: %w", err)
	}

	return hashes, nil
}
