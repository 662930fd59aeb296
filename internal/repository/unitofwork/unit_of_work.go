package unitofwork

import (
	"context"

	"ai-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	MessageEmbeddingRepository() contract.MessageEmbeddingRepository
	TopicBoundaryRepository() contract.TopicBoundaryRepository
	SideChatRepository() contract.SideChatRepository
	SideChatMessageRepository() contract.SideChatMessageRepository
}
