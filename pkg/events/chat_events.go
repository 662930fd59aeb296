package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeChatSplit        = "CHAT_SPLIT"
	TypeSideChatCombined = "SIDE_CHAT_COMBINED"
)

// ChatSplitEvent is emitted when a topic shift spawns a new chat session.
type ChatSplitEvent struct {
	OriginalChatID uuid.UUID
	NewChatID      uuid.UUID
	NewChatTitle   string
	UserID         uuid.UUID
	Confidence     float64
	OccurredAt     time.Time
}

func NewChatSplitEvent(originalChatID, newChatID, userID uuid.UUID, newChatTitle string, confidence float64) ChatSplitEvent {
	return ChatSplitEvent{
		OriginalChatID: originalChatID,
		NewChatID:      newChatID,
		NewChatTitle:   newChatTitle,
		UserID:         userID,
		Confidence:     confidence,
		OccurredAt:     time.Now(),
	}
}

func (e ChatSplitEvent) EventType() string {
	return TypeChatSplit
}

func (e ChatSplitEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"original_chat_id": e.OriginalChatID.String(),
		"new_chat_id":      e.NewChatID.String(),
		"new_chat_title":   e.NewChatTitle,
		"user_id":          e.UserID.String(),
		"confidence":       e.Confidence,
	}
}

func (e ChatSplitEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// SideChatCombinedEvent is emitted when a side discussion is merged back
// into its parent chat's step content.
type SideChatCombinedEvent struct {
	SideChatID   uuid.UUID
	ParentChatID uuid.UUID
	UserID       uuid.UUID
	OccurredAt   time.Time
}

func NewSideChatCombinedEvent(sideChatID, parentChatID, userID uuid.UUID) SideChatCombinedEvent {
	return SideChatCombinedEvent{
		SideChatID:   sideChatID,
		ParentChatID: parentChatID,
		UserID:       userID,
		OccurredAt:   time.Now(),
	}
}

func (e SideChatCombinedEvent) EventType() string {
	return TypeSideChatCombined
}

func (e SideChatCombinedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"side_chat_id":   e.SideChatID.String(),
		"parent_chat_id": e.ParentChatID.String(),
		"user_id":        e.UserID.String(),
	}
}

func (e SideChatCombinedEvent) Timestamp() time.Time {
	return e.OccurredAt
}
