package implementation

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingMapper
}

func NewMessageEmbeddingRepository(db *gorm.DB) contract.MessageEmbeddingRepository {
	return &MessageEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingMapper(),
	}
}

func (r *MessageEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.MessageEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *MessageEmbeddingRepositoryImpl) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("chat_session_id = ?", sessionId).Delete(&model.MessageEmbedding{}).Error
}

func (r *MessageEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageEmbedding, error) {
	var models []*model.MessageEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MessageEmbeddingRepositoryImpl) FindRecentBySession(ctx context.Context, sessionId uuid.UUID, n int) ([]*entity.MessageEmbedding, error) {
	var models []*model.MessageEmbedding
	err := r.db.WithContext(ctx).
		Where("chat_session_id = ?", sessionId).
		Order("created_at DESC").
		Limit(n).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	// Reverse to oldest-first for the classifier.
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return r.mapper.ToEntities(models), nil
}
