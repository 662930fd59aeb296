package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
)

type TopicBoundaryRepository interface {
	Create(ctx context.Context, boundary *entity.TopicBoundary) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TopicBoundary, error)
}
