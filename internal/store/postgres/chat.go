package postgres

import (
	"context"
	"fmt"
	"time"

	"ammosync/internal/store"
)

func (c *Client) SendChat(ctx context.Context, msg store.ChatMessage) error {
	sentAt := msg.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	_, err := c.pool.Exec(ctx,
		`INSERT INTO chat_messages (speaker, body, sent_at) VALUES ($1, $2, $3)`,
		msg.Speaker, msg.Body, sentAt,
	)
	if err != nil {
		return fmt.Errorf("sending chat: %w", err)
	}
	return nil
}

func (c *Client) ListChat(ctx context.Context, limit int) ([]store.ChatMessage, error) {
	query := `
SELECT speaker, body, sent_at FROM (
    SELECT id, speaker, body, sent_at
    FROM chat_messages
    ORDER BY id DESC
    LIMIT $1
) recent
ORDER BY id
`

	// LIMIT NULL means no limit.
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}

	rows, err := c.pool.Query(ctx, query, limitArg)
	if err != nil {
		return nil, fmt.Errorf("listing chat: %w", err)
	}
	defer rows.Close()

	messages := []store.ChatMessage{}
	for rows.Next() {
		var msg store.ChatMessage
		if err := rows.Scan(&msg.Speaker, &msg.Body, &msg.SentAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat: %w", err)
	}

	return messages, nil
}
