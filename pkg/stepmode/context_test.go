package stepmode

import (
	"encoding/json"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	cache := "2. B\n3. C"
	original := Context{
		ActivePlan:          true,
		TotalStepsEstimated: 5,
		CurrentStep:         2,
		PlanSummary:         "deploy the service",
		FullPlanCache:       &cache,
		StepModeEnabled:     true,
	}

	restored := FromMap(original.ToMap())
	if restored.ActivePlan != original.ActivePlan ||
		restored.TotalStepsEstimated != original.TotalStepsEstimated ||
		restored.CurrentStep != original.CurrentStep ||
		restored.PlanSummary != original.PlanSummary ||
		restored.StepModeEnabled != original.StepModeEnabled {
		t.Errorf("restored = %+v, want %+v", restored, original)
	}
	if restored.FullPlanCache == nil || *restored.FullPlanCache != cache {
		t.Errorf("FullPlanCache = %v, want %q", restored.FullPlanCache, cache)
	}
}

func TestContextRoundTripThroughJSON(t *testing.T) {
	// The host persists the map as JSON; numbers come back as float64.
	original := Context{
		ActivePlan:          true,
		TotalStepsEstimated: 4,
		CurrentStep:         1,
		PlanSummary:         "bake bread",
		StepModeEnabled:     false,
	}

	blob, err := json.Marshal(original.ToMap())
	if err != nil {
		t.Fatal(err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(blob, &data); err != nil {
		t.Fatal(err)
	}

	restored := FromMap(data)
	if restored != original {
		t.Errorf("restored = %+v, want %+v", restored, original)
	}
}

func TestFromMapDefaults(t *testing.T) {
	c := FromMap(nil)
	if c.ActivePlan || c.CurrentStep != 0 || c.FullPlanCache != nil {
		t.Errorf("nil map must yield the default context, got %+v", c)
	}
	if !c.StepModeEnabled {
		t.Error("step mode defaults to enabled")
	}
}

func TestFromMapIgnoresUnknownKeys(t *testing.T) {
	c := FromMap(map[string]interface{}{
		"current_step":   float64(3),
		"unknown_field":  "whatever",
		"another_stray":  42,
		"plan_summary":   "x",
		"full_plan_cache": nil,
	})
	if c.CurrentStep != 3 || c.PlanSummary != "x" {
		t.Errorf("got %+v", c)
	}
	if c.FullPlanCache != nil {
		t.Error("null cache must stay nil")
	}
}
