package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSideChatRequest struct {
	ParentChatId uuid.UUID `json:"parent_chat_id" validate:"required"`
	StepNumber   int       `json:"step_number" validate:"min=0"`
	StepContent  string    `json:"step_content" validate:"required"`
}

type SideChatResponse struct {
	Id           uuid.UUID  `json:"id"`
	ParentChatId uuid.UUID  `json:"parent_chat_id"`
	StepNumber   int        `json:"step_number"`
	StepContent  string     `json:"step_content"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type AddSideChatMessageRequest struct {
	Role string `json:"role" validate:"required,oneof=user assistant"`
	Chat string `json:"chat" validate:"required"`
}

type SideChatMessageResponse struct {
	Id         uuid.UUID `json:"id"`
	SideChatId uuid.UUID `json:"side_chat_id"`
	Role       string    `json:"role"`
	Chat       string    `json:"chat"`
	CreatedAt  time.Time `json:"created_at"`
}

type CombineSideChatResponse struct {
	SideChatId     uuid.UUID `json:"side_chat_id"`
	ParentChatId   uuid.UUID `json:"parent_chat_id"`
	CombinedStep   string    `json:"combined_step"`
	ReplyMessageId uuid.UUID `json:"reply_message_id"`
}
