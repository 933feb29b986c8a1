// Package worker wires background consumers of domain events.
package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to item, claim
// and message events. Delivery is synchronous with the publishing request.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	subscribed := notifications.RegisterHandlers()
	names := make([]string, 0, len(subscribed))
	for _, eventType := range subscribed {
		names = append(names, string(eventType))
	}
	logger.Info("notification worker started", zap.Strings("events", names))
}
