package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/memory"
	"ai-assistant-be/pkg/stepmode"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// stubLLM returns a canned response for every call.
type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func TestApplyStepModePostProcessingMetadataWithoutCache(t *testing.T) {
	cs := &chatService{}

	reply := `Step 1: Install the CLI.
<!-- aria-step: {"current": 1, "total_estimated": 4, "plan_summary": "CLI setup"} -->`
	stepCtx := stepmode.Context{StepModeEnabled: true}

	cleaned, got := cs.applyStepModePostProcessing(reply, stepCtx)

	if strings.Contains(cleaned, "aria-step") {
		t.Error("metadata tag should be stripped from reply")
	}
	// Nothing is cached, so the plan must not report as active; the
	// status and advance endpoints would otherwise disagree.
	if got.ActivePlan {
		t.Error("metadata without a cached plan should not activate the plan")
	}
	if got.CurrentStep != 1 || got.TotalStepsEstimated != 4 {
		t.Errorf("progress counters not carried: step %d of %d", got.CurrentStep, got.TotalStepsEstimated)
	}
	if got.PlanSummary != "CLI setup" {
		t.Errorf("PlanSummary = %q", got.PlanSummary)
	}

	if stepmode.NextStep(&got) != nil {
		t.Error("NextStep should have nothing to serve without a cache")
	}
}

func TestApplyStepModePostProcessingMetadataKeepsCachedPlan(t *testing.T) {
	cs := &chatService{}

	cached := "2. Configure DNS\n3. Enable TLS"
	stepCtx := stepmode.Context{
		StepModeEnabled: true,
		ActivePlan:      true,
		CurrentStep:     1,
		FullPlanCache:   &cached,
	}

	reply := `Done with that.
<!-- aria-step: {"current": 1, "total_estimated": 3, "plan_summary": "deployment"} -->`
	_, got := cs.applyStepModePostProcessing(reply, stepCtx)

	if !got.ActivePlan {
		t.Error("an existing cached plan should stay active")
	}
	if got.FullPlanCache == nil || *got.FullPlanCache != cached {
		t.Error("cached remainder should be untouched by metadata")
	}
}

func TestApplyStepModePostProcessingLeakRepair(t *testing.T) {
	cs := &chatService{}

	reply := "Here is the plan:\n1. Install Go\n2. Write the handler\n3. Deploy"
	stepCtx := stepmode.Context{StepModeEnabled: true}

	first, got := cs.applyStepModePostProcessing(reply, stepCtx)

	if !got.ActivePlan {
		t.Error("leak repair should activate the plan")
	}
	if got.FullPlanCache == nil {
		t.Fatal("leak repair should cache the remainder")
	}
	if strings.Contains(first, "2.") {
		t.Errorf("later steps leaked into the served reply: %q", first)
	}
}

func TestExtractMemoriesSkipsDuplicateFacts(t *testing.T) {
	response := `[
		{"content": "User likes Go", "category": "preference", "confidence": 0.9},
		{"content": "User is migrating a payment service to Kubernetes", "category": "contextual", "confidence": 0.8}
	]`
	cs := &chatService{
		extractor:   memory.NewExtractor(&stubLLM{response: response}, nil),
		recentCache: gocache.New(10*time.Minute, 30*time.Minute),
	}

	userId := uuid.New()
	cs.recentCache.Set(memoriesCacheKey(userId), []string{"User likes Go"}, gocache.NoExpiration)

	history := []llm.Message{
		{Role: "user", Content: "I like Go and I'm moving our payment service to Kubernetes."},
	}
	cs.extractMemories(userId, history, "Sounds like a solid plan.")

	cached, found := cs.recentCache.Get(memoriesCacheKey(userId))
	if !found {
		t.Fatal("memory cache entry missing")
	}
	memories := cached.([]string)

	if len(memories) != 2 {
		t.Fatalf("expected 2 memories (1 existing + 1 new), got %d: %v", len(memories), memories)
	}
	if memories[0] != "User likes Go" {
		t.Errorf("existing memory lost: %v", memories)
	}
	if !strings.Contains(memories[1], "Kubernetes") {
		t.Errorf("new fact not appended: %v", memories)
	}
}

func TestExtractMemoriesAllDuplicatesLeavesCacheUntouched(t *testing.T) {
	response := `[{"content": "User likes Go", "category": "preference", "confidence": 0.9}]`
	cs := &chatService{
		extractor:   memory.NewExtractor(&stubLLM{response: response}, nil),
		recentCache: gocache.New(10*time.Minute, 30*time.Minute),
	}

	userId := uuid.New()
	cs.recentCache.Set(memoriesCacheKey(userId), []string{"User likes Go"}, gocache.NoExpiration)

	history := []llm.Message{{Role: "user", Content: "Did I mention I like Go?"}}
	cs.extractMemories(userId, history, "You did.")

	cached, _ := cs.recentCache.Get(memoriesCacheKey(userId))
	memories := cached.([]string)
	if len(memories) != 1 {
		t.Fatalf("duplicate facts must not accumulate, got %d: %v", len(memories), memories)
	}
}
