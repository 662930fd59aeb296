package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type MessageEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatMessageId  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	ChatSessionId  uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (MessageEmbedding) TableName() string {
	return "message_embeddings"
}
