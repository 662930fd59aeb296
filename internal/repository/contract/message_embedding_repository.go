package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.MessageEmbedding) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageEmbedding, error)
	// FindRecentBySession returns the latest n embeddings for a session,
	// ordered oldest first so callers can feed them to the classifier as-is.
	FindRecentBySession(ctx context.Context, sessionId uuid.UUID, n int) ([]*entity.MessageEmbedding, error)
}
