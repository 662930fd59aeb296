package entity

import (
	"time"

	"github.com/google/uuid"
)

// MessageEmbedding stores the vector for a single chat message,
// used by the topic shift classifier.
type MessageEmbedding struct {
	Id             uuid.UUID
	ChatMessageId  uuid.UUID
	ChatSessionId  uuid.UUID
	EmbeddingValue []float32
	CreatedAt      time.Time
}
