package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventItemReported   EventType = "item_reported"
	EventClaimSubmitted EventType = "claim_submitted"
	EventClaimApproved  EventType = "claim_approved"
	EventClaimRejected  EventType = "claim_rejected"
	EventMessageSent    EventType = "message_sent"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ItemID    string      `json:"item_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, itemID, actorID string, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ItemID:    itemID,
		ActorID:   actorID,
		Timestamp: at,
		Payload:   payload,
	}
}

// ItemReportedPayload payload.
type ItemReportedPayload struct {
	Title    string              `json:"title"`
	Category domain.ItemCategory `json:"category"`
	Location string              `json:"location"`
}

// ClaimPayload is shared by claim submission and adjudication events.
type ClaimPayload struct {
	ClaimID    string             `json:"claim_id"`
	ClaimerID  string             `json:"claimer_id"`
	ReporterID string             `json:"reporter_id,omitempty"`
	Status     domain.ClaimStatus `json:"status"`
	SelfClaim  bool               `json:"self_claim,omitempty"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID   string `json:"message_id"`
	RecipientID string `json:"recipient_id"`
	Preview     string `json:"preview"`
}
