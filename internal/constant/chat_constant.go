package constant

// Message roles persisted with each chat message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// PersonaName is the assistant identity used in prompts and transcripts.
const PersonaName = "Aria"

// Side chat lifecycle states. Discarded side chats are soft-deleted
// rather than given a status of their own.
const (
	SideChatStatusOpen     = "open"
	SideChatStatusCombined = "combined"
)

// DefaultEmbedMessageTopic is the in-process pub/sub topic for the
// message embedding worker.
const DefaultEmbedMessageTopic = "EMBED_CHAT_MESSAGE"
