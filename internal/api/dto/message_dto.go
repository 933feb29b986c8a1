package dto

import "time"

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	ItemID      string `json:"item_id"`
	Content     string `json:"content"`
}

// MessageResponse represents a stored message.
type MessageResponse struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	ItemID      string    `json:"item_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadResponse carries the public URL of a stored upload.
type UploadResponse struct {
	URL string `json:"url"`
}
