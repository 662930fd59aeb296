package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	ParentChatId *uuid.UUID `json:"parent_chat_id,omitempty"`
	TopicSummary string     `json:"topic_summary,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"required"`
}

type SendChatResponseChat struct {
	Id        uuid.UUID `json:"id"`
	Chat      string    `json:"chat"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SplitInfo is attached to the response when the incoming message
// triggered a topic split.
type SplitInfo struct {
	NewChatId       uuid.UUID `json:"new_chat_id"`
	NewChatTitle    string    `json:"new_chat_title"`
	OriginalRenamed string    `json:"original_renamed,omitempty"`
	Confidence      float64   `json:"confidence"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID             `json:"chat_session_id"`
	ChatSessionTitle string                `json:"title"`
	Sent             *SendChatResponseChat `json:"sent"`
	Reply            *SendChatResponseChat `json:"reply"`
	Split            *SplitInfo            `json:"split,omitempty"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id"`
}
