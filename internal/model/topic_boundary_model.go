package model

import (
	"time"

	"github.com/google/uuid"
)

type TopicBoundary struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OriginalChatId    uuid.UUID `gorm:"type:uuid;not null;index"`
	NewChatId         uuid.UUID `gorm:"type:uuid;not null;index"`
	TriggeringMessage string    `gorm:"type:text"`
	OldTopic          string    `gorm:"type:text"`
	NewTopic          string    `gorm:"type:text"`
	Confidence        float64   `gorm:"type:double precision"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (TopicBoundary) TableName() string {
	return "topic_boundaries"
}
