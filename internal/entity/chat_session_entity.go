package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/pkg/stepmode"
)

type ChatSession struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	ParentChatId *uuid.UUID
	TopicSummary string
	SplitSummary string
	StepContext  stepmode.Context
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
