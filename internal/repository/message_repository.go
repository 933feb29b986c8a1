package repository

import (
	"context"
	"fmt"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

type messageRepository struct {
	db DBTX
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO messages (id, content, sender_id, recipient_id, item_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.Content,
		msg.SenderID,
		msg.RecipientID,
		msg.ItemID,
		msg.CreatedAt,
	)
	return mapWriteError(err)
}

func (r *messageRepository) ListForUser(ctx context.Context, userID string, itemID *string) ([]domain.Message, error) {
	query := `
        SELECT id, content, sender_id, recipient_id, item_id, created_at
        FROM messages WHERE (sender_id=$1 OR recipient_id=$1)`
	args := []any{userID}
	if itemID != nil {
		args = append(args, *itemID)
		query += fmt.Sprintf(" AND item_id=$%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.Content,
			&msg.SenderID,
			&msg.RecipientID,
			&msg.ItemID,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
