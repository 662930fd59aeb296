package stepmode

import (
	"strings"
	"testing"

	"ai-assistant-be/pkg/llm"
)

func TestNextStepNoPlan(t *testing.T) {
	c := NewContext()
	if NextStep(&c) != nil {
		t.Error("no active plan must yield nil")
	}

	c.ActivePlan = true // active but nothing cached
	if NextStep(&c) != nil {
		t.Error("active plan without cache must yield nil")
	}
}

func TestNextStepAdvances(t *testing.T) {
	cache := "2. Write the handler\n3. Wire the route"
	c := Context{
		ActivePlan:          true,
		TotalStepsEstimated: 3,
		CurrentStep:         1,
		FullPlanCache:       &cache,
		StepModeEnabled:     true,
	}

	result := NextStep(&c)
	if result == nil {
		t.Fatal("expected a step")
	}
	if !strings.Contains(result.Content, "handler") {
		t.Errorf("Content = %q, want the second step", result.Content)
	}
	if c.CurrentStep != 2 {
		t.Errorf("CurrentStep = %d, want 2", c.CurrentStep)
	}
	if c.FullPlanCache == nil || !strings.Contains(*c.FullPlanCache, "route") {
		t.Errorf("cache = %v, want the remaining step", c.FullPlanCache)
	}
	if !c.ActivePlan {
		t.Error("plan must stay active while steps remain")
	}
}

func TestNextStepDeactivatesOnEmptyCache(t *testing.T) {
	cache := "3. Ship it"
	c := Context{
		ActivePlan:      true,
		CurrentStep:     2,
		FullPlanCache:   &cache,
		StepModeEnabled: true,
	}

	result := NextStep(&c)
	if result == nil {
		t.Fatal("expected the final step")
	}
	if c.ActivePlan {
		t.Error("plan must be deactivated when the cache empties")
	}
	if c.FullPlanCache != nil {
		t.Error("cache must be nil after the final step; an active plan never coexists with a nil cache")
	}
}

func TestAllSteps(t *testing.T) {
	if AllSteps(NewContext()) != nil {
		t.Error("no active plan must yield nil")
	}

	cache := "2. B\n3. C"
	c := Context{
		ActivePlan:          true,
		TotalStepsEstimated: 3,
		CurrentStep:         1,
		PlanSummary:         "build the feature",
		FullPlanCache:       &cache,
	}

	overview := AllSteps(c)
	if overview == nil {
		t.Fatal("expected an overview")
	}
	if overview.FullPlan != cache || overview.PlanSummary != "build the feature" {
		t.Errorf("overview = %+v", overview)
	}
	if c.FullPlanCache == nil || *c.FullPlanCache != cache {
		t.Error("AllSteps must not mutate the context")
	}

	c.FullPlanCache = nil
	overview = AllSteps(c)
	if overview == nil || overview.FullPlan != "" {
		t.Error("nil cache renders as empty string, not nil result")
	}
}

func TestInjectSystemPromptDisabled(t *testing.T) {
	messages := []llm.Message{{Role: "user", Content: "hi"}}
	c := NewContext()
	c.StepModeEnabled = false

	got := InjectSystemPrompt(messages, c)
	if len(got) != 1 || got[0].Content != "hi" {
		t.Errorf("disabled step mode must be a no-op, got %+v", got)
	}
}

func TestInjectSystemPromptPrepends(t *testing.T) {
	messages := []llm.Message{{Role: "user", Content: "hi"}}
	got := InjectSystemPrompt(messages, NewContext())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Role != "system" || !strings.Contains(got[0].Content, "ONLY the first/next step") {
		t.Errorf("got[0] = %+v", got[0])
	}
}

func TestInjectSystemPromptAppendsToExistingSystem(t *testing.T) {
	messages := []llm.Message{
		{Role: "system", Content: "base prompt"},
		{Role: "user", Content: "hi"},
	}
	got := InjectSystemPrompt(messages, NewContext())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !strings.HasPrefix(got[0].Content, "base prompt\n\n") {
		t.Errorf("existing system message must be extended in place, got %q", got[0].Content)
	}
	// In-place contract: the original backing array was mutated.
	if !strings.HasPrefix(messages[0].Content, "base prompt\n\n") {
		t.Error("caller-owned slice must see the mutation")
	}
}

func TestInjectSystemPromptActivePlanStatus(t *testing.T) {
	c := Context{
		ActivePlan:          true,
		TotalStepsEstimated: 4,
		CurrentStep:         2,
		PlanSummary:         "migrate the database",
		StepModeEnabled:     true,
	}
	got := InjectSystemPrompt([]llm.Message{{Role: "user", Content: "ok"}}, c)
	if !strings.Contains(got[0].Content, "step 2 of ~4 for: migrate the database") {
		t.Errorf("missing plan status line: %q", got[0].Content)
	}
}
