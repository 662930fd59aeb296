package sidechat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-assistant-be/pkg/llm"
)

type fakeProvider struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.reply, f.err
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func TestGenerateCombinedStepNoCapability(t *testing.T) {
	c := NewCombiner(nil, nil)
	_, ok := c.GenerateCombinedStep(context.Background(), "1. Install deps", nil)
	if ok {
		t.Error("no capability must yield ok=false")
	}
}

func TestGenerateCombinedStepCallFailure(t *testing.T) {
	c := NewCombiner(&fakeProvider{err: errors.New("deadline exceeded")}, nil)
	_, ok := c.GenerateCombinedStep(context.Background(), "1. Install deps", []llm.Message{
		{Role: "user", Content: "which version?"},
	})
	if ok {
		t.Error("a failing call must yield ok=false, never an error or panic")
	}
}

func TestGenerateCombinedStep(t *testing.T) {
	provider := &fakeProvider{reply: "  Install deps, pinning v2 as discussed.  "}
	c := NewCombiner(provider, nil)

	content, ok := c.GenerateCombinedStep(context.Background(), "Install deps.", []llm.Message{
		{Role: "user", Content: "which version?"},
		{Role: "assistant", Content: "pin v2"},
	})
	if !ok {
		t.Fatal("expected success")
	}
	if content != "Install deps, pinning v2 as discussed." {
		t.Errorf("content = %q, reply must be trimmed", content)
	}

	if !strings.Contains(provider.lastPrompt, "User: which version?") {
		t.Errorf("prompt missing user line: %q", provider.lastPrompt)
	}
	if !strings.Contains(provider.lastPrompt, PersonaLabel+": pin v2") {
		t.Errorf("prompt must label non-user roles with the persona: %q", provider.lastPrompt)
	}
	if !strings.Contains(provider.lastPrompt, "Install deps.") {
		t.Errorf("prompt missing the original step: %q", provider.lastPrompt)
	}
}
