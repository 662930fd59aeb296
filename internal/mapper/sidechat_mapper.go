package mapper

import (
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/gorm"
)

type SideChatMapper struct{}

func NewSideChatMapper() *SideChatMapper {
	return &SideChatMapper{}
}

func (m *SideChatMapper) SideChatToEntity(s *model.SideChat) *entity.SideChat {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.SideChat{
		Id:           s.Id,
		UserId:       s.UserId,
		ParentChatId: s.ParentChatId,
		StepNumber:   s.StepNumber,
		StepContent:  s.StepContent,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    s.DeletedAt.Valid,
	}
}

func (m *SideChatMapper) SideChatToModel(s *entity.SideChat) *model.SideChat {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.SideChat{
		Id:           s.Id,
		UserId:       s.UserId,
		ParentChatId: s.ParentChatId,
		StepNumber:   s.StepNumber,
		StepContent:  s.StepContent,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *SideChatMapper) SideChatMessageToEntity(msg *model.SideChatMessage) *entity.SideChatMessage {
	if msg == nil {
		return nil
	}

	return &entity.SideChatMessage{
		Id:         msg.Id,
		SideChatId: msg.SideChatId,
		Role:       msg.Role,
		Chat:       msg.Chat,
		CreatedAt:  msg.CreatedAt,
	}
}

func (m *SideChatMapper) SideChatMessageToModel(msg *entity.SideChatMessage) *model.SideChatMessage {
	if msg == nil {
		return nil
	}

	return &model.SideChatMessage{
		Id:         msg.Id,
		SideChatId: msg.SideChatId,
		Role:       msg.Role,
		Chat:       msg.Chat,
		CreatedAt:  msg.CreatedAt,
	}
}
