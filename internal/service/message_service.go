package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/events"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// MaxMessageLength bounds message content, counted in characters.
const MaxMessageLength = 5000

const previewLength = 80

// MessageService stores item-scoped messages between users.
type MessageService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	now        Clock
}

// MessageInput describes a message to send.
type MessageInput struct {
	RecipientID string
	ItemID      string
	Content     string
}

// NewMessageService constructs the service.
func NewMessageService(store repository.Store, dispatcher events.Dispatcher) *MessageService {
	return &MessageService{store: store, dispatcher: dispatcher, now: utcNow}
}

// SendMessage validates and persists a message from sender to recipient about an item.
func (s *MessageService) SendMessage(ctx context.Context, senderID string, input MessageInput) (*domain.Message, error) {
	if err := requireFields(
		field{"recipient_id", input.RecipientID},
		field{"item_id", input.ItemID},
		field{"content", input.Content},
	); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(input.Content)
	if n := utf8.RuneCountInString(content); n > MaxMessageLength {
		return nil, apperrors.NewValidationError("message too long", map[string]any{
			"max":    MaxMessageLength,
			"length": n,
		})
	}

	if _, err := s.store.Users().GetByID(ctx, input.RecipientID); err != nil {
		return nil, storeError(err, "recipient")
	}
	if _, err := s.store.Items().GetByID(ctx, input.ItemID); err != nil {
		return nil, storeError(err, "item")
	}

	msg := &domain.Message{
		ID:          uuid.NewString(),
		Content:     content,
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		ItemID:      input.ItemID,
		CreatedAt:   s.now(),
	}
	if err := s.store.Messages().Create(ctx, msg); err != nil {
		return nil, storeError(err, "message")
	}

	publish(ctx, s.dispatcher, events.New(events.EventMessageSent, msg.ItemID, senderID, msg.CreatedAt, events.MessageSentPayload{
		MessageID:   msg.ID,
		RecipientID: msg.RecipientID,
		Preview:     preview(msg.Content),
	}))
	return msg, nil
}

// ListMessagesForUser returns messages the user sent or received, newest
// first, optionally limited to one item.
func (s *MessageService) ListMessagesForUser(ctx context.Context, userID string, itemID *string) ([]domain.Message, error) {
	if itemID != nil && strings.TrimSpace(*itemID) == "" {
		itemID = nil
	}
	msgs, err := s.store.Messages().ListForUser(ctx, userID, itemID)
	if err != nil {
		return nil, storeError(err, "message")
	}
	return msgs, nil
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	return string([]rune(content)[:previewLength]) + "…"
}
