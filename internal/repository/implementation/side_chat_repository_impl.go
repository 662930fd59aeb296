package implementation

import (
	"context"
	"errors"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SideChatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SideChatMapper
}

func NewSideChatRepository(db *gorm.DB) contract.SideChatRepository {
	return &SideChatRepositoryImpl{
		db:     db,
		mapper: mapper.NewSideChatMapper(),
	}
}

func (r *SideChatRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SideChatRepositoryImpl) Create(ctx context.Context, sideChat *entity.SideChat) error {
	m := r.mapper.SideChatToModel(sideChat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*sideChat = *r.mapper.SideChatToEntity(m)
	return nil
}

func (r *SideChatRepositoryImpl) Update(ctx context.Context, sideChat *entity.SideChat) error {
	m := r.mapper.SideChatToModel(sideChat)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*sideChat = *r.mapper.SideChatToEntity(m)
	return nil
}

func (r *SideChatRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SideChat{}, id).Error
}

func (r *SideChatRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SideChat, error) {
	var m model.SideChat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SideChatToEntity(&m), nil
}

func (r *SideChatRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SideChat, error) {
	var models []*model.SideChat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SideChat, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SideChatToEntity(m)
	}
	return entities, nil
}

type SideChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SideChatMapper
}

func NewSideChatMessageRepository(db *gorm.DB) contract.SideChatMessageRepository {
	return &SideChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewSideChatMapper(),
	}
}

func (r *SideChatMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SideChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.SideChatMessage) error {
	m := r.mapper.SideChatMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.SideChatMessageToEntity(m)
	return nil
}

func (r *SideChatMessageRepositoryImpl) DeleteBySideChatId(ctx context.Context, sideChatId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("side_chat_id = ?", sideChatId).Delete(&model.SideChatMessage{}).Error
}

func (r *SideChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SideChatMessage, error) {
	var models []*model.SideChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SideChatMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SideChatMessageToEntity(m)
	}
	return entities, nil
}
