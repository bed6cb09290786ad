package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ammosync/internal/store"
)

func (c *Client) ListAttributes(ctx context.Context, characterID string) ([]store.Attribute, error) {
	query := `
SELECT character_id, name, current
FROM attributes
WHERE character_id = $1
ORDER BY id
`

	rows, err := c.pool.Query(ctx, query, characterID)
	if err != nil {
		return nil, fmt.Errorf("listing attributes: %w", err)
	}
	defer rows.Close()

	attrs := []store.Attribute{}
	for rows.Next() {
		var a store.Attribute
		if err := rows.Scan(&a.CharacterID, &a.Name, &a.Current); err != nil {
			return nil, fmt.Errorf("scanning attribute: %w", err)
		}
		attrs = append(attrs, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attributes: %w", err)
	}

	return attrs, nil
}

func (c *Client) GetAttribute(ctx context.Context, characterID, name string) (*store.Attribute, error) {
	query := `
SELECT character_id, name, current
FROM attributes
WHERE character_id = $1 AND name = $2
`

	var a store.Attribute
	err := c.pool.QueryRow(ctx, query, characterID, name).Scan(&a.CharacterID, &a.Name, &a.Current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting attribute: %w", err)
	}
	return &a, nil
}

func (c *Client) SetAttribute(ctx context.Context, characterID, name, current string) error {
	query := `
INSERT INTO attributes (character_id, name, current, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (character_id, name) DO UPDATE SET
    current = EXCLUDED.current,
    updated_at = now()
`

	if _, err := c.pool.Exec(ctx, query, characterID, name, current); err != nil {
		return fmt.Errorf("setting attribute %s: %w", name, err)
	}
	return nil
}

func (c *Client) DeleteAttributes(ctx context.Context, characterID string) (int64, error) {
	tag, err := c.pool.Exec(ctx, `DELETE FROM attributes WHERE character_id = $1`, characterID)
	if err != nil {
		return 0, fmt.Errorf("deleting attributes: %w", err)
	}
	return tag.RowsAffected(), nil
}
