package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SideChat struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	ParentChatId uuid.UUID      `gorm:"type:uuid;not null;index"`
	StepNumber   int            `gorm:"default:0"`
	StepContent  string         `gorm:"type:text"`
	Status       string         `gorm:"type:varchar(20);not null;default:'open'"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (SideChat) TableName() string {
	return "side_chats"
}

type SideChatMessage struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SideChatId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role       string    `gorm:"type:varchar(50);not null"`
	Chat       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (SideChatMessage) TableName() string {
	return "side_chat_messages"
}
