package sidechat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-assistant-be/pkg/llm"
)

// PersonaLabel is the assistant's name as it appears when a side chat
// transcript is rendered into a prompt.
const PersonaLabel = "Aria"

const combinePromptTemplate = `You are rewriting a step in a multi-step guide based on a side discussion.

Original step:
%s

Side discussion:
%s

Rewrite the original step incorporating the insights from the side discussion.
Keep it concise and actionable - this is still just one step in a larger plan.
If the side discussion fundamentally changes the approach, note that briefly.
Output ONLY the rewritten step text. No preamble.`

// Combiner folds a side discussion back into the plan step it was
// branched from, via a single rewrite call.
type Combiner struct {
	llmProvider llm.LLMProvider // optional
	logger      *log.Logger
}

func NewCombiner(llmProvider llm.LLMProvider, logger *log.Logger) *Combiner {
	return &Combiner{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// GenerateCombinedStep rewrites the original step to incorporate the
// side discussion. ok is false when no model capability is available or
// the call fails; callers must then leave the step unchanged. An empty
// reply with ok=true is a valid (if useless) rewrite.
func (c *Combiner) GenerateCombinedStep(ctx context.Context, originalStep string, sideMessages []llm.Message) (content string, ok bool) {
	if c.llmProvider == nil {
		if c.logger != nil {
			c.logger.Printf("[SIDECHAT] no LLM capability available for combine")
		}
		return "", false
	}

	historyLines := make([]string, 0, len(sideMessages))
	for _, msg := range sideMessages {
		label := PersonaLabel
		if msg.Role == "user" {
			label = "User"
		}
		historyLines = append(historyLines, fmt.Sprintf("%s: %s", label, msg.Content))
	}

	prompt := fmt.Sprintf(combinePromptTemplate, originalStep, strings.Join(historyLines, "\n"))
	result, err := c.llmProvider.Generate(ctx, prompt)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("[SIDECHAT] failed to generate combined step: %v", err)
		}
		return "", false
	}

	return strings.TrimSpace(result), true
}
