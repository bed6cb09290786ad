package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"ammosync/internal/store"
)

func (c *Client) UpsertCharacter(ctx context.Context, ch store.Character) error {
	query := `
INSERT INTO characters (id, name, name_normalized, sheet_type, source_file, source_hash, last_ingested)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    name_normalized = EXCLUDED.name_normalized,
    sheet_type = EXCLUDED.sheet_type,
    source_file = EXCLUDED.source_file,
    source_hash = EXCLUDED.source_hash,
    last_ingested = now()
`

	_, err := c.pool.Exec(ctx, query,
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
WHERE id = $1
`
	return scanCharacter(c.pool.QueryRow(ctx, query, id))
}

func (c *Client) FindCharacterByName(ctx context.Context, name string) (*store.Character, error) {
	query := `
SELECT id, name, sheet_type, source_file, source_hash
FROM characters
WHERE name_normalized = $1
ORDER BY created_seq
LIMIT 1
`
	return scanCharacter(c.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(name))))
}

func scanCharacter(row pgx.Row) (*store.Character, error) {
	var ch store.Character
	err := row.Scan(&ch.ID, &ch.Name, &ch.SheetType, &ch.SourceFile, &ch.SourceHash)
	if errors.Is(err, pgx.ErrNoRows) {
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

	rows, err := c.pool.Query(ctx, query)
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
	rows, err := c.pool.Query(ctx, `SELECT source_file, source_hash FROM characters WHERE source_file <> ''`)
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
