package stepmode

// StepResult carries the step text served by NextStep together with the
// updated context the host must persist.
type StepResult struct {
	Content string
	Context Context
}

// PlanOverview is the full remaining plan returned by AllSteps.
type PlanOverview struct {
	PlanSummary         string
	FullPlan            string
	CurrentStep         int
	TotalStepsEstimated int
}

// NextStep advances to the next step in the plan. It splits the cached
// remainder, increments the step counter and replaces the cache with
// what is left. The plan is deactivated the moment the cache becomes
// empty; an active plan never coexists with a nil cache.
//
// Returns nil when no plan is active or no steps remain.
func NextStep(stepContext *Context) *StepResult {
	if !stepContext.ActivePlan {
		return nil
	}
	if stepContext.FullPlanCache == nil || *stepContext.FullPlanCache == "" {
		return nil
	}

	first, remaining := SplitFirstStep(*stepContext.FullPlanCache)
	stepContext.CurrentStep++
	if remaining != "" {
		stepContext.FullPlanCache = &remaining
	} else {
		stepContext.FullPlanCache = nil
		stepContext.ActivePlan = false
	}

	return &StepResult{
		Content: first,
		Context: *stepContext,
	}
}

// AllSteps returns the plan summary, the raw cached remainder and the
// progress counters without mutating anything. Returns nil when no plan
// is active.
func AllSteps(stepContext Context) *PlanOverview {
	if !stepContext.ActivePlan {
		return nil
	}

	fullPlan := ""
	if stepContext.FullPlanCache != nil {
		fullPlan = *stepContext.FullPlanCache
	}

	return &PlanOverview{
		PlanSummary:         stepContext.PlanSummary,
		FullPlan:            fullPlan,
		CurrentStep:         stepContext.CurrentStep,
		TotalStepsEstimated: stepContext.TotalStepsEstimated,
	}
}
