package entity

import (
	"time"

	"github.com/google/uuid"
)

// TopicBoundary records an executed chat split for audit and navigation.
type TopicBoundary struct {
	Id                uuid.UUID
	OriginalChatId    uuid.UUID
	NewChatId         uuid.UUID
	TriggeringMessage string
	OldTopic          string
	NewTopic          string
	Confidence        float64
	CreatedAt         time.Time
}
