package service

import (
	"context"
	"strings"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/events"
	pkgNats "ai-assistant-be/pkg/nats"

	"github.com/google/uuid"
)

// IAlertService delivers split alerts from the event bus to connected
// websocket clients.
type IAlertService interface {
	Start()
}

type alertService struct {
	subscriber *pkgNats.Subscriber
	wsHub      *websocket.Hub
	logger     logger.ILogger
}

func NewAlertService(subscriber *pkgNats.Subscriber, wsHub *websocket.Hub, log logger.ILogger) IAlertService {
	return &alertService{
		subscriber: subscriber,
		wsHub:      wsHub,
		logger:     log,
	}
}

// Start begins listening for split events. The durable name is shared
// across instances so each event is handled exactly once; the hub's
// redis fan-out then reaches clients on the other instances.
func (as *alertService) Start() {
	subject := "events." + events.TypeChatSplit
	if err := as.subscriber.Subscribe(subject, "split-alert-worker", as.handleEvent); err != nil {
		as.logger.Error("AlertService", "Failed to start split alert subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	as.logger.Info("AlertService", "Alert service started, listening to "+subject, nil)
}

func (as *alertService) handleEvent(ctx context.Context, event events.Event) error {
	if strings.TrimPrefix(event.EventType(), "events.") != events.TypeChatSplit {
		return nil
	}

	payload := event.Payload()

	userIDStr, _ := payload["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		// Malformed events are dropped, not retried.
		as.logger.Warn("AlertService", "Split event without a valid user_id", map[string]interface{}{"payload": payload})
		return nil
	}

	originalID, err := uuid.Parse(stringField(payload, "original_chat_id"))
	if err != nil {
		as.logger.Warn("AlertService", "Split event without a valid original_chat_id", map[string]interface{}{"payload": payload})
		return nil
	}
	newID, err := uuid.Parse(stringField(payload, "new_chat_id"))
	if err != nil {
		as.logger.Warn("AlertService", "Split event without a valid new_chat_id", map[string]interface{}{"payload": payload})
		return nil
	}

	confidence, _ := payload["confidence"].(float64)

	occurredAt := event.Timestamp()
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	if as.wsHub != nil {
		as.wsHub.SendSplitAlert(userID, websocket.SplitAlert{
			OriginalChatId: originalID,
			NewChatId:      newID,
			NewChatTitle:   stringField(payload, "new_chat_title"),
			Confidence:     confidence,
			CreatedAt:      occurredAt,
		})
	}
	return nil
}

func stringField(payload map[string]interface{}, key string) string {
	v, _ := payload[key].(string)
	return v
}
