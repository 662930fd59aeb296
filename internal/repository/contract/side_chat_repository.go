package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SideChatRepository interface {
	Create(ctx context.Context, sideChat *entity.SideChat) error
	Update(ctx context.Context, sideChat *entity.SideChat) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SideChat, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SideChat, error)
}

type SideChatMessageRepository interface {
	Create(ctx context.Context, message *entity.SideChatMessage) error
	DeleteBySideChatId(ctx context.Context, sideChatId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SideChatMessage, error)
}
