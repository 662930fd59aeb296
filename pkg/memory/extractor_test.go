package memory

import (
	"context"
	"errors"
	"testing"

	"ai-assistant-be/pkg/llm"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

func conversation() []llm.Message {
	return []llm.Message{
		{Role: "user", Content: "I'm a Go developer in Berlin"},
		{Role: "assistant", Content: "Nice!"},
	}
}

func TestExtractFacts(t *testing.T) {
	provider := &fakeProvider{reply: `[
		{"content": "User is a Go developer", "category": "technical", "confidence": 0.9},
		{"content": "User lives in Berlin", "category": "biographical", "confidence": 0.85}
	]`}
	e := NewExtractor(provider, nil)

	facts := e.ExtractFacts(context.Background(), conversation(), nil)
	if len(facts) != 2 {
		t.Fatalf("facts = %d, want 2", len(facts))
	}
	if !facts[0].IsNew || !facts[1].IsNew {
		t.Error("facts with no existing memories must be new")
	}
}

func TestExtractFactsFiltersInvalid(t *testing.T) {
	provider := &fakeProvider{reply: `[
		{"content": "Valid", "category": "preference", "confidence": 0.5},
		{"content": "Bad category", "category": "astrological", "confidence": 0.5},
		{"content": "Bad confidence", "category": "technical", "confidence": 1.5},
		{"content": "", "category": "technical", "confidence": 0.5}
	]`}
	e := NewExtractor(provider, nil)

	facts := e.ExtractFacts(context.Background(), conversation(), nil)
	if len(facts) != 1 || facts[0].Content != "Valid" {
		t.Errorf("facts = %+v, want only the valid one", facts)
	}
}

func TestExtractFactsDeduplicates(t *testing.T) {
	provider := &fakeProvider{reply: `[
		{"content": "User is a Go developer", "category": "technical", "confidence": 0.9}
	]`}
	e := NewExtractor(provider, nil)

	facts := e.ExtractFacts(context.Background(), conversation(), []string{"user is a go developer"})
	if len(facts) != 1 {
		t.Fatalf("facts = %d, want 1", len(facts))
	}
	if facts[0].IsNew {
		t.Error("a near-identical existing memory must mark the fact as not new")
	}
}

func TestExtractFactsFailures(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.LLMProvider
		messages []llm.Message
	}{
		{"no capability", nil, conversation()},
		{"call error", &fakeProvider{err: errors.New("boom")}, conversation()},
		{"invalid json", &fakeProvider{reply: "not json"}, conversation()},
		{"non-array json", &fakeProvider{reply: `{"a": 1}`}, conversation()},
		{"no messages", &fakeProvider{reply: "[]"}, nil},
		{"no user messages", &fakeProvider{reply: "[]"}, []llm.Message{{Role: "assistant", Content: "hi"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.provider, nil)
			if facts := e.ExtractFacts(context.Background(), tt.messages, nil); len(facts) != 0 {
				t.Errorf("facts = %+v, want none", facts)
			}
		})
	}
}

func TestFormatMemoriesForPrompt(t *testing.T) {
	if got := FormatMemoriesForPrompt(nil, 5); got != "" {
		t.Errorf("no memories must render empty, got %q", got)
	}

	got := FormatMemoriesForPrompt([]string{"likes Go", "lives in Berlin", "prefers vim"}, 2)
	want := memoryPreamble + "\n\n- likes Go\n- lives in Berlin"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
