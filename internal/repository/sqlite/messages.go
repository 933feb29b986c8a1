package sqlite

import (
	"context"
	"fmt"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

type messages struct {
	q querier
}

func (r *messages) Create(ctx context.Context, msg *domain.Message) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO messages (id, content, sender_id, recipient_id, item_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Content, msg.SenderID, msg.RecipientID, msg.ItemID, msg.CreatedAt,
	)
	return mapWriteError(err)
}

func (r *messages) ListForUser(ctx context.Context, userID string, itemID *string) ([]domain.Message, error) {
	query := `SELECT id, content, sender_id, recipient_id, item_id, created_at
		 FROM messages WHERE (sender_id = ? OR recipient_id = ?)`
	args := []any{userID, userID}
	if itemID != nil {
		query += ` AND item_id = ?`
		args = append(args, *itemID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	result := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.SenderID, &msg.RecipientID, &msg.ItemID, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
