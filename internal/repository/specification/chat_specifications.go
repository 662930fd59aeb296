package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

type ByParentChatID struct {
	ParentChatID uuid.UUID
}

func (s ByParentChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_chat_id = ?", s.ParentChatID)
}

type ByOriginalChatID struct {
	OriginalChatID uuid.UUID
}

func (s ByOriginalChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("original_chat_id = ?", s.OriginalChatID)
}

type BySideChatID struct {
	SideChatID uuid.UUID
}

func (s BySideChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("side_chat_id = ?", s.SideChatID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
