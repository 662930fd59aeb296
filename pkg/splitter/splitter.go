package splitter

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

// Config controls chat splitting behavior.
type Config struct {
	AutoTitle             bool
	IncludeContextSummary bool
	MaxContextMessages    int
	SummaryMaxTokens      int
}

func DefaultConfig() Config {
	return Config{
		AutoTitle:             true,
		IncludeContextSummary: true,
		MaxContextMessages:    10,
		SummaryMaxTokens:      200,
	}
}

// Result is the terminal value of a chat split operation.
type Result struct {
	Success              bool
	NewChatID            uuid.UUID
	NewChatTitle         string
	OriginalChatNewTitle string
	ContextSummary       string
	Error                string
}

// NewChatData is everything the host needs to materialize the new
// session record; the orchestrator never writes storage itself.
type NewChatData struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	Messages     []llm.Message
	ParentChatID uuid.UUID
	SplitSummary string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Boundary records one executed topic split between two chats.
type Boundary struct {
	OriginalChatID    uuid.UUID
	NewChatID         uuid.UUID
	TriggeringMessage string
	OldTopic          string
	NewTopic          string
	Confidence        float64
	SplitTimestamp    time.Time
}

// Outcome bundles the split result with the data the host persists.
type Outcome struct {
	Result   Result
	NewChat  NewChatData
	Boundary Boundary
}

// Request carries the inputs for one split.
type Request struct {
	OriginalChatID    uuid.UUID
	UserID            uuid.UUID
	Messages          []llm.Message
	TriggeringMessage llm.Message
	NewTopicName      string
	OldTopicName      string
	Confidence        float64
}

const contextSummaryPromptTemplate = `Summarize the following conversation in 1-2 sentences.
Focus on the key topic and any important context that would help continue the conversation.

Conversation:
%s

Summary:`

const titleGenerationPromptTemplate = `Generate a concise chat title (3-6 words) for a conversation about:
Topic: %s
Latest message: "%s"

Respond with ONLY the title, no quotes or punctuation.`

const (
	defaultNewChatTitle      = "New Chat"
	defaultOriginalChatTitle = "Previous Chat"
)

// Orchestrator executes chat splits. A detected topic boundary should
// always be actable, so model-call failures degrade gracefully (empty
// summary, label-only titles) instead of aborting the split.
type Orchestrator struct {
	config      Config
	llmProvider llm.LLMProvider // optional
	logger      *log.Logger
}

func NewOrchestrator(config Config, llmProvider llm.LLMProvider, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		config:      config,
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// GenerateContextSummary produces a brief carry-over summary of the
// recent conversation, or "" when no capability exists or the call
// fails.
func (o *Orchestrator) GenerateContextSummary(ctx context.Context, messages []llm.Message) string {
	if len(messages) == 0 || o.llmProvider == nil {
		return ""
	}

	start := len(messages) - o.config.MaxContextMessages
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(messages)-start)
	for _, msg := range messages[start:] {
		role := "Assistant"
		if msg.Role == "user" {
			role = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, msg.Content))
	}

	prompt := fmt.Sprintf(contextSummaryPromptTemplate, strings.Join(lines, "\n"))
	result, err := o.llmProvider.Generate(ctx, prompt, llm.WithMaxTokens(o.config.SummaryMaxTokens))
	if err != nil {
		if o.logger != nil {
			o.logger.Printf("[SPLIT] context summary generation failed: %v", err)
		}
		return ""
	}
	return strings.TrimSpace(result)
}

// GenerateChatTitle asks the LLM for a title, falling back to the topic
// hint (or a generic default) when no capability exists or the call
// fails.
func (o *Orchestrator) GenerateChatTitle(ctx context.Context, topicHint, recentMessage, fallbackTitle string) string {
	fallback := topicHint
	if fallback == "" {
		fallback = fallbackTitle
	}

	if o.llmProvider == nil {
		return fallback
	}

	prompt := fmt.Sprintf(titleGenerationPromptTemplate, topicHint, recentMessage)
	result, err := o.llmProvider.Generate(ctx, prompt)
	if err != nil {
		if o.logger != nil {
			o.logger.Printf("[SPLIT] title generation failed: %v", err)
		}
		return fallback
	}
	return strings.TrimSpace(result)
}

// ExecuteSplit orchestrates a full chat split:
//  1. generate a context summary (if configured)
//  2. generate titles for both chats (if auto-title)
//  3. build the new chat data
//  4. construct the boundary record
//
// The outcome always carries Success=true for well-formed inputs.
func (o *Orchestrator) ExecuteSplit(ctx context.Context, req Request) *Outcome {
	contextSummary := ""
	if o.config.IncludeContextSummary {
		contextSummary = o.GenerateContextSummary(ctx, req.Messages)
	}

	var newTitle, originalTitle string
	if o.config.AutoTitle && o.llmProvider != nil {
		newTitle = o.GenerateChatTitle(ctx, req.NewTopicName, req.TriggeringMessage.Content, defaultNewChatTitle)

		lastMessage := ""
		if len(req.Messages) > 0 {
			lastMessage = req.Messages[len(req.Messages)-1].Content
		}
		originalTitle = o.GenerateChatTitle(ctx, req.OldTopicName, lastMessage, defaultOriginalChatTitle)
	} else {
		newTitle = req.NewTopicName
		if newTitle == "" {
			newTitle = defaultNewChatTitle
		}
		originalTitle = req.OldTopicName
		if originalTitle == "" {
			originalTitle = defaultOriginalChatTitle
		}
	}

	newChat := o.buildNewChatData(req.UserID, newTitle, req.TriggeringMessage, contextSummary, req.OriginalChatID)

	boundary := Boundary{
		OriginalChatID:    req.OriginalChatID,
		NewChatID:         newChat.ID,
		TriggeringMessage: req.TriggeringMessage.Content,
		OldTopic:          req.OldTopicName,
		NewTopic:          req.NewTopicName,
		Confidence:        req.Confidence,
		SplitTimestamp:    time.Now(),
	}

	return &Outcome{
		Result: Result{
			Success:              true,
			NewChatID:            newChat.ID,
			NewChatTitle:         newTitle,
			OriginalChatNewTitle: originalTitle,
			ContextSummary:       contextSummary,
		},
		NewChat:  newChat,
		Boundary: boundary,
	}
}

func (o *Orchestrator) buildNewChatData(
	userID uuid.UUID,
	title string,
	triggeringMessage llm.Message,
	contextSummary string,
	parentChatID uuid.UUID,
) NewChatData {
	now := time.Now()

	var messages []llm.Message
	if contextSummary != "" {
		messages = append(messages, llm.Message{
			Role:    "system",
			Content: "Context from previous conversation: " + contextSummary,
		})
	}
	messages = append(messages, triggeringMessage)

	return NewChatData{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        title,
		Messages:     messages,
		ParentChatID: parentChatID,
		SplitSummary: contextSummary,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
