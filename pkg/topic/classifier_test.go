package topic

import (
	"context"
	"errors"
	"testing"

	"ai-assistant-be/pkg/llm"
)

// fakeProvider returns a canned reply (or error) for every call.
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func orthogonalInput(messageCount int) Input {
	return Input{
		NewMessage:       "how do I bake sourdough bread?",
		NewEmbedding:     []float32{0, 1},
		RecentEmbeddings: [][]float32{{1, 0}, {1, 0}, {1, 0}},
		TopicSummary:     "debugging a Go service",
		MessageCount:     messageCount,
	}
}

func TestClassifyTooFewMessages(t *testing.T) {
	c := NewClassifier(DefaultConfig(), nil, nil)
	decision := c.Classify(context.Background(), orthogonalInput(2))
	if decision.ShouldSplit {
		t.Error("should never split below MinMessagesBeforeSplit")
	}
	if decision.NewTopicName != "" {
		t.Errorf("NewTopicName = %q, want empty", decision.NewTopicName)
	}
}

func TestClassifyEmptyHistory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseLLMConfirmation = false
	c := NewClassifier(cfg, nil, nil)
	decision := c.Classify(context.Background(), Input{
		NewEmbedding: []float32{0, 1},
		MessageCount: 10,
	})
	if decision.ShouldSplit {
		t.Error("no running topic embedding must mean no split")
	}
}

func TestClassifySimilarityAtThresholdDoesNotSplit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseLLMConfirmation = false
	cfg.SimilarityThreshold = 1.0 // identical vectors sit exactly at threshold
	c := NewClassifier(cfg, nil, nil)

	decision := c.Classify(context.Background(), Input{
		NewMessage:       "same again",
		NewEmbedding:     []float32{1, 0},
		RecentEmbeddings: [][]float32{{1, 0}, {1, 0}, {1, 0}},
		MessageCount:     5,
	})
	if decision.ShouldSplit {
		t.Error("similarity exactly equal to threshold must not split")
	}
	if !almostEqual(decision.SimilarityScore, 1.0) {
		t.Errorf("SimilarityScore = %v, want 1.0", decision.SimilarityScore)
	}
}

func TestClassifyEmbeddingOnlySplit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseLLMConfirmation = false
	c := NewClassifier(cfg, nil, nil)

	decision := c.Classify(context.Background(), orthogonalInput(5))
	if !decision.ShouldSplit {
		t.Fatal("orthogonal embedding must split")
	}
	if decision.NewTopicName != PlaceholderTopicName {
		t.Errorf("NewTopicName = %q, want %q", decision.NewTopicName, PlaceholderTopicName)
	}
	if !almostEqual(decision.Confidence, 1.0) {
		t.Errorf("Confidence = %v, want 1.0", decision.Confidence)
	}
	if !almostEqual(decision.SimilarityScore, 0.0) {
		t.Errorf("SimilarityScore = %v, want 0.0", decision.SimilarityScore)
	}
	if decision.LLMConfirmed != nil {
		t.Error("LLMConfirmed must stay unset without a confirmation call")
	}
}

func TestClassifyConfirmationReplies(t *testing.T) {
	tests := []struct {
		name          string
		reply         string
		wantSplit     bool
		wantTopicName string
		wantConfirmed bool
	}{
		{
			name:          "NEW reply",
			reply:         "NEW: Baking Sourdough Bread",
			wantSplit:     true,
			wantTopicName: "Baking Sourdough Bread",
			wantConfirmed: true,
		},
		{
			name:          "new reply lowercase",
			reply:         "new: Bread Tips",
			wantSplit:     true,
			wantTopicName: "Bread Tips",
			wantConfirmed: true,
		},
		{
			name:          "SAME reply",
			reply:         "SAME",
			wantSplit:     false,
			wantConfirmed: false,
		},
		{
			name:          "garbled reply treated as same",
			reply:         "I think maybe it changed?",
			wantSplit:     false,
			wantConfirmed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{reply: tt.reply}
			c := NewClassifier(DefaultConfig(), provider, nil)

			decision := c.Classify(context.Background(), orthogonalInput(5))
			if decision.ShouldSplit != tt.wantSplit {
				t.Errorf("ShouldSplit = %v, want %v", decision.ShouldSplit, tt.wantSplit)
			}
			if decision.NewTopicName != tt.wantTopicName {
				t.Errorf("NewTopicName = %q, want %q", decision.NewTopicName, tt.wantTopicName)
			}
			if decision.LLMConfirmed == nil {
				t.Fatal("LLMConfirmed must be set after a confirmation call")
			}
			if *decision.LLMConfirmed != tt.wantConfirmed {
				t.Errorf("LLMConfirmed = %v, want %v", *decision.LLMConfirmed, tt.wantConfirmed)
			}
			if provider.calls != 1 {
				t.Errorf("confirmation calls = %d, want exactly 1", provider.calls)
			}
		})
	}
}

func TestClassifyConfirmationFailureFallsBack(t *testing.T) {
	provider := &fakeProvider{err: errors.New("model timeout")}
	c := NewClassifier(DefaultConfig(), provider, nil)

	decision := c.Classify(context.Background(), orthogonalInput(5))
	if !decision.ShouldSplit {
		t.Fatal("confirmation failure must fall back to the embedding-only split")
	}
	if decision.NewTopicName != PlaceholderTopicName {
		t.Errorf("NewTopicName = %q, want placeholder", decision.NewTopicName)
	}
	if decision.LLMConfirmed != nil {
		t.Error("LLMConfirmed must stay unset when the call fails")
	}
}
