package mapper

import (
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
)

type BoundaryMapper struct{}

func NewBoundaryMapper() *BoundaryMapper {
	return &BoundaryMapper{}
}

func (m *BoundaryMapper) ToEntity(b *model.TopicBoundary) *entity.TopicBoundary {
	if b == nil {
		return nil
	}

	return &entity.TopicBoundary{
		Id:                b.Id,
		OriginalChatId:    b.OriginalChatId,
		NewChatId:         b.NewChatId,
		TriggeringMessage: b.TriggeringMessage,
		OldTopic:          b.OldTopic,
		NewTopic:          b.NewTopic,
		Confidence:        b.Confidence,
		CreatedAt:         b.CreatedAt,
	}
}

func (m *BoundaryMapper) ToModel(b *entity.TopicBoundary) *model.TopicBoundary {
	if b == nil {
		return nil
	}

	return &model.TopicBoundary{
		Id:                b.Id,
		OriginalChatId:    b.OriginalChatId,
		NewChatId:         b.NewChatId,
		TriggeringMessage: b.TriggeringMessage,
		OldTopic:          b.OldTopic,
		NewTopic:          b.NewTopic,
		Confidence:        b.Confidence,
		CreatedAt:         b.CreatedAt,
	}
}

func (m *BoundaryMapper) ToEntities(models []*model.TopicBoundary) []*entity.TopicBoundary {
	entities := make([]*entity.TopicBoundary, len(models))
	for i, b := range models {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
