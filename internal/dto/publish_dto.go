package dto

import "github.com/google/uuid"

// PublishEmbedChatMessage is the payload for the async embedding worker.
type PublishEmbedChatMessage struct {
	ChatMessageId uuid.UUID `json:"chat_message_id"`
	ChatSessionId uuid.UUID `json:"chat_session_id"`
}
