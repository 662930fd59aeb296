package mapper

import (
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type EmbeddingMapper struct{}

func NewEmbeddingMapper() *EmbeddingMapper {
	return &EmbeddingMapper{}
}

func (m *EmbeddingMapper) ToEntity(e *model.MessageEmbedding) *entity.MessageEmbedding {
	if e == nil {
		return nil
	}

	return &entity.MessageEmbedding{
		Id:             e.Id,
		ChatMessageId:  e.ChatMessageId,
		ChatSessionId:  e.ChatSessionId,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *EmbeddingMapper) ToModel(e *entity.MessageEmbedding) *model.MessageEmbedding {
	if e == nil {
		return nil
	}

	return &model.MessageEmbedding{
		Id:             e.Id,
		ChatMessageId:  e.ChatMessageId,
		ChatSessionId:  e.ChatSessionId,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *EmbeddingMapper) ToEntities(models []*model.MessageEmbedding) []*entity.MessageEmbedding {
	entities := make([]*entity.MessageEmbedding, len(models))
	for i, e := range models {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
