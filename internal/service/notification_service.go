package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events and reports the event types it
// listens to.
func (n *NotificationService) RegisterHandlers() []events.EventType {
	if n.dispatcher == nil {
		return nil
	}
	handlers := []struct {
		eventType events.EventType
		handle    events.EventHandler
	}{
		{events.EventItemReported, n.handleItemReported},
		{events.EventClaimSubmitted, n.handleClaimSubmitted},
		{events.EventClaimApproved, n.handleClaimDecided},
		{events.EventClaimRejected, n.handleClaimDecided},
		{events.EventMessageSent, n.handleMessageSent},
	}
	subscribed := make([]events.EventType, 0, len(handlers))
	for _, h := range handlers {
		n.dispatcher.Subscribe(h.eventType, h.handle)
		subscribed = append(subscribed, h.eventType)
	}
	return subscribed
}

func (n *NotificationService) handleItemReported(ctx context.Context, event events.Event) error {
	n.logger.Info("ItemReported", zap.String("item_id", event.ItemID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleClaimSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ClaimSubmitted", zap.String("item_id", event.ItemID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.ClaimPayload); ok {
		n.sendEmailNotificationStub(ctx, event, payload.ReporterID)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleClaimDecided(ctx context.Context, event events.Event) error {
	n.logger.Info("ClaimDecided",
		zap.String("item_id", event.ItemID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.ClaimPayload); ok {
		n.sendEmailNotificationStub(ctx, event, payload.ClaimerID)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMessageSent(ctx context.Context, event events.Event) error {
	n.logger.Info("MessageSent", zap.String("item_id", event.ItemID), zap.String("sender_id", event.ActorID))
	if payload, ok := event.Payload.(events.MessageSentPayload); ok {
		n.sendEmailNotificationStub(ctx, event, payload.RecipientID)
	}
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, recipientID string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || recipientID == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("recipient_id", recipientID),
		zap.String("item_id", event.ItemID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("item_id", event.ItemID),
		zap.String("event_type", string(event.Type)))
}
