package dto

import (
	"time"

	"github.com/google/uuid"
)

type TopicBoundaryResponse struct {
	Id                uuid.UUID `json:"id"`
	OriginalChatId    uuid.UUID `json:"original_chat_id"`
	NewChatId         uuid.UUID `json:"new_chat_id"`
	TriggeringMessage string    `json:"triggering_message"`
	OldTopic          string    `json:"old_topic"`
	NewTopic          string    `json:"new_topic"`
	Confidence        float64   `json:"confidence"`
	CreatedAt         time.Time `json:"created_at"`
}
