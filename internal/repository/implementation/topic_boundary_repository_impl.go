package implementation

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
)

type TopicBoundaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BoundaryMapper
}

func NewTopicBoundaryRepository(db *gorm.DB) contract.TopicBoundaryRepository {
	return &TopicBoundaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewBoundaryMapper(),
	}
}

func (r *TopicBoundaryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TopicBoundaryRepositoryImpl) Create(ctx context.Context, boundary *entity.TopicBoundary) error {
	m := r.mapper.ToModel(boundary)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*boundary = *r.mapper.ToEntity(m)
	return nil
}

func (r *TopicBoundaryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TopicBoundary, error) {
	var models []*model.TopicBoundary
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
