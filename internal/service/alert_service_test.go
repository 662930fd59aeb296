package service

import (
	"context"
	"encoding/json"
	"testing"

	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/events"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// busRoundTrip runs an event through the same marshal/unmarshal cycle
// the event bus applies before a subscriber sees it.
func busRoundTrip(t *testing.T, event events.Event) events.BaseEvent {
	t.Helper()
	data, err := json.Marshal(event.Payload())
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return events.NewBaseEvent("events."+event.EventType(), payload)
}

func TestAlertServiceHandlesSplitEventFromBus(t *testing.T) {
	hub := websocket.NewHub(nil, nopLogger{})
	as := &alertService{wsHub: hub, logger: nopLogger{}}

	event := events.NewChatSplitEvent(uuid.New(), uuid.New(), uuid.New(), "Deploying to production", 0.91)

	if err := as.handleEvent(context.Background(), busRoundTrip(t, event)); err != nil {
		t.Fatalf("handleEvent failed on a well-formed split event: %v", err)
	}
}

func TestAlertServiceDropsMalformedEvent(t *testing.T) {
	as := &alertService{logger: nopLogger{}}

	event := events.NewBaseEvent("events."+events.TypeChatSplit, map[string]interface{}{
		"user_id": "not-a-uuid",
	})

	// Malformed events must be dropped (nil), not returned as errors,
	// or the bus would redeliver them forever.
	if err := as.handleEvent(context.Background(), event); err != nil {
		t.Fatalf("malformed event should be dropped, got error: %v", err)
	}
}

func TestAlertServiceIgnoresOtherEventTypes(t *testing.T) {
	as := &alertService{logger: nopLogger{}}

	event := events.NewSideChatCombinedEvent(uuid.New(), uuid.New(), uuid.New())
	if err := as.handleEvent(context.Background(), busRoundTrip(t, event)); err != nil {
		t.Fatalf("unrelated event types should be ignored: %v", err)
	}
}
