package domain

import "time"

// Message is an immutable note from one user to another about an item.
type Message struct {
	ID          string
	Content     string
	SenderID    string
	RecipientID string
	ItemID      string
	CreatedAt   time.Time
}
