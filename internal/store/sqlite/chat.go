package sqlite

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

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO chat_messages (speaker, body, sent_at) VALUES (?, ?, ?)`,
		msg.Speaker, msg.Body, sentAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sending chat: %w", err)
	}
	return nil
}

// ListChat returns the newest limit messages in the order they were sent.
// A limit of zero or less returns everything.
func (c *Client) ListChat(ctx context.Context, limit int) ([]store.ChatMessage, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
	SELECT speaker, body, sent_at FROM (
		SELECT id, speaker, body, sent_at
		FROM chat_messages
		ORDER BY id DESC
		LIMIT ?
	) ORDER BY id
	`

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing chat: %w", err)
	}
	defer rows.Close()

	messages := []store.ChatMessage{}
	for rows.Next() {
		var msg store.ChatMessage
		var sentAt string
		if err := rows.Scan(&msg.Speaker, &msg.Body, &sentAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		msg.SentAt, err = time.Parse(time.RFC3339Nano, sentAt)
		if err != nil {
			return nil, fmt.Errorf("parsing chat timestamp: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat: %w", err)
	}

	return messages, nil
}
