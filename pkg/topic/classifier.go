package topic

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-assistant-be/pkg/llm"
)

// Config holds the tunable parameters for topic classification.
type Config struct {
	SimilarityThreshold    float64
	MinMessagesBeforeSplit int
	EmbeddingWindow        int
	EmbeddingDecay         float64
	UseLLMConfirmation     bool
	AutoTitleOnSplit       bool
	SplitTimeout           time.Duration
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:    0.65,
		MinMessagesBeforeSplit: 3,
		EmbeddingWindow:        5,
		EmbeddingDecay:         0.8,
		UseLLMConfirmation:     true,
		AutoTitleOnSplit:       true,
		SplitTimeout:           5 * time.Second,
	}
}

// Decision is the result of topic classification.
type Decision struct {
	ShouldSplit     bool
	NewTopicName    string
	Confidence      float64
	SimilarityScore float64
	// LLMConfirmed is nil when no confirmation call was attempted.
	LLMConfirmed *bool
}

// Input carries everything the classifier needs for one decision.
type Input struct {
	NewMessage       string
	NewEmbedding     []float32
	RecentEmbeddings [][]float32
	TopicSummary     string
	MessageCount     int
}

const confirmationPromptTemplate = `Given the current conversation topic: "%s"

The user just said: "%s"

Is this a continuation of the current topic, or a shift to a new topic?
Respond with exactly one of:
SAME
NEW: [brief topic name, 3-5 words]`

// PlaceholderTopicName is used when a split is decided without LLM
// confirmation; a later titling step is expected to replace it.
const PlaceholderTopicName = "New Topic"

// Classifier decides whether an incoming message represents a topic
// shift. It holds no per-conversation state; everything it needs is
// passed in per call.
type Classifier struct {
	config      Config
	llmProvider llm.LLMProvider // optional, nil disables confirmation
	logger      *log.Logger
}

func NewClassifier(config Config, llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		config:      config,
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify runs the two-stage detection: a cosine-similarity fast path
// against the running topic embedding, then an optional lightweight LLM
// confirmation call. A failing confirmation call never blocks the
// embedding-only decision.
func (c *Classifier) Classify(ctx context.Context, in Input) Decision {
	decision := Decision{SimilarityScore: 1.0}

	// Don't split a conversation that has barely started.
	if in.MessageCount < c.config.MinMessagesBeforeSplit {
		return decision
	}

	topicEmbedding := RunningTopicEmbedding(
		in.RecentEmbeddings,
		c.config.EmbeddingDecay,
		c.config.EmbeddingWindow,
	)
	if topicEmbedding == nil {
		return decision
	}

	similarity := CosineSimilarity(in.NewEmbedding, topicEmbedding)
	decision.SimilarityScore = similarity

	if c.logger != nil {
		c.logger.Printf("[TOPIC] similarity=%.3f threshold=%.2f", similarity, c.config.SimilarityThreshold)
	}

	if similarity >= c.config.SimilarityThreshold {
		// Similar enough, no split.
		return decision
	}

	if !c.config.UseLLMConfirmation || c.llmProvider == nil {
		decision.ShouldSplit = true
		decision.NewTopicName = PlaceholderTopicName
		decision.Confidence = 1.0 - similarity
		return decision
	}

	prompt := fmt.Sprintf(confirmationPromptTemplate, in.TopicSummary, in.NewMessage)
	response, err := c.llmProvider.Generate(ctx, prompt)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[TOPIC] confirmation call failed, falling back to embedding-only decision: %v", err)
		}
		decision.ShouldSplit = true
		decision.NewTopicName = PlaceholderTopicName
		decision.Confidence = 1.0 - similarity
		return decision
	}

	response = strings.TrimSpace(response)
	if strings.HasPrefix(strings.ToUpper(response), "NEW:") {
		confirmed := true
		decision.ShouldSplit = true
		decision.NewTopicName = strings.TrimSpace(response[4:])
		decision.LLMConfirmed = &confirmed
		decision.Confidence = 1.0 - similarity
		return decision
	}

	// Anything that is not a well-formed "NEW:" reply counts as SAME.
	confirmed := false
	decision.LLMConfirmed = &confirmed
	if c.logger != nil {
		c.logger.Printf("[TOPIC] LLM says SAME topic despite low similarity")
	}
	return decision
}
