package stepmode

// Context tracks step-by-step state for a single chat.
//
// It round-trips through a plain keyed map (see ToMap/FromMap) so the
// host can persist it wherever it keeps conversation metadata. Unknown
// keys are ignored and missing keys take their defaults.
type Context struct {
	ActivePlan          bool
	TotalStepsEstimated int
	CurrentStep         int
	PlanSummary         string
	FullPlanCache       *string // nil when no unrendered plan text is cached
	StepModeEnabled     bool
}

// NewContext returns the all-default (inactive) state for a fresh chat.
func NewContext() Context {
	return Context{StepModeEnabled: true}
}

func (c Context) ToMap() map[string]interface{} {
	var cache interface{}
	if c.FullPlanCache != nil {
		cache = *c.FullPlanCache
	}
	return map[string]interface{}{
		"active_plan":           c.ActivePlan,
		"total_steps_estimated": c.TotalStepsEstimated,
		"current_step":          c.CurrentStep,
		"plan_summary":          c.PlanSummary,
		"full_plan_cache":       cache,
		"step_mode_enabled":     c.StepModeEnabled,
	}
}

// FromMap rebuilds a Context from a persisted map. A nil map yields the
// default context. Values of unexpected types are treated as absent.
func FromMap(data map[string]interface{}) Context {
	c := NewContext()
	if data == nil {
		return c
	}

	if v, ok := data["active_plan"].(bool); ok {
		c.ActivePlan = v
	}
	if v, ok := asInt(data["total_steps_estimated"]); ok {
		c.TotalStepsEstimated = v
	}
	if v, ok := asInt(data["current_step"]); ok {
		c.CurrentStep = v
	}
	if v, ok := data["plan_summary"].(string); ok {
		c.PlanSummary = v
	}
	if v, ok := data["full_plan_cache"].(string); ok {
		c.FullPlanCache = &v
	}
	if v, ok := data["step_mode_enabled"].(bool); ok {
		c.StepModeEnabled = v
	}
	return c
}

// asInt tolerates the float64 that encoding/json produces for numbers.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
