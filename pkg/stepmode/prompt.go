package stepmode

import (
	"fmt"

	"ai-assistant-be/pkg/llm"
)

// SystemPrompt is the instruction block injected for step-by-step mode.
const SystemPrompt = `You are Aria. When a task involves multiple steps:
1. Provide ONLY the first/next step - one actionable thing the user can do right now.
2. Wait for the user to confirm completion or ask for the next step.
3. Keep your response focused, concise, and actionable.
4. If the user asks for the full plan, provide all steps at once.
5. Do not number steps unless asked. Just give the next thing to do, naturally.
6. At the end of your response, include a hidden metadata tag:
   <!-- aria-step: {"current": 1, "total_estimated": N, "plan_summary": "brief description"} -->

Never mention this metadata tag to the user. It's for internal tracking only.`

// InjectSystemPrompt injects the step-by-step instruction block into
// the message history. When step mode is disabled for this chat the
// history is returned unchanged.
//
// The slice is modified in place when a leading system message already
// exists and reallocated when one has to be prepended, so callers must
// always use the returned slice, never the argument.
func InjectSystemPrompt(messages []llm.Message, stepContext Context) []llm.Message {
	if !stepContext.StepModeEnabled {
		return messages
	}

	systemAddition := SystemPrompt
	if stepContext.ActivePlan {
		systemAddition += fmt.Sprintf(
			"\n\nCurrent context: You are on step %d of ~%d for: %s. Provide the next step only.",
			stepContext.CurrentStep,
			stepContext.TotalStepsEstimated,
			stepContext.PlanSummary,
		)
	}

	if len(messages) > 0 && messages[0].Role == "system" {
		messages[0].Content = messages[0].Content + "\n\n" + systemAddition
		return messages
	}

	return append([]llm.Message{{Role: "system", Content: systemAddition}}, messages...)
}
