package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatSession struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title        string         `gorm:"type:text;not null"`
	ParentChatId *uuid.UUID     `gorm:"type:uuid;index"` // Set when this session was split off another
	TopicSummary string         `gorm:"type:text"`
	SplitSummary string         `gorm:"type:text"`
	StepContext  datatypes.JSON `gorm:"type:jsonb"` // Opaque step-mode state blob
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
