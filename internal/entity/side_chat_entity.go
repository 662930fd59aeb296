package entity

import (
	"time"

	"github.com/google/uuid"
)

// SideChat is a scoped discussion anchored to one step of a parent
// chat's plan. Status is one of constant.SideChatStatus*.
type SideChat struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	ParentChatId uuid.UUID
	StepNumber   int
	StepContent  string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}

type SideChatMessage struct {
	Id         uuid.UUID
	SideChatId uuid.UUID
	Role       string
	Chat       string
	CreatedAt  time.Time
}
