package stepmode

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Patterns detecting a multi-step response from the LLM. These are
// package-level immutable configuration; never mutated at runtime.
var multiStepPatterns = []*regexp.Regexp{
	// Numbered lists: "1. ... 2. ... 3. ..." (content lines between
	// steps are tolerated). Two items are fine, three is a leak.
	regexp.MustCompile(`(?im)(?:^|\n)[ \t]*(?:step\s+)?\d+[.)]\s+.+(?:[\s\S]*?\n\s*(?:step\s+)?\d+[.)]\s+.+){2,}`),
	// "First, ... Second, ..." ordinal transitions
	regexp.MustCompile(`(?is)(?:first|step\s+1)[,:].*?(?:second|step\s+2|next)[,:]`),
}

// stepLineStart matches a line that opens a numbered step.
var stepLineStart = regexp.MustCompile(`(?i)^\s*(?:step\s+)?\d+[.)]\s+`)

// stepMetadataPattern extracts the hidden metadata comment the
// assistant appends to each step-mode response.
var stepMetadataPattern = regexp.MustCompile(`(?s)<!--\s*aria-step:\s*(\{.*?\})\s*-->`)

// Metadata is the assistant-reported progress carried in the hidden
// trailing comment.
type Metadata struct {
	Current        int    `json:"current"`
	TotalEstimated int    `json:"total_estimated"`
	PlanSummary    string `json:"plan_summary"`
}

// ExtractMetadata parses the hidden step metadata from an LLM response.
// Returns nil when the comment is absent or its payload is malformed.
func ExtractMetadata(response string) *Metadata {
	match := stepMetadataPattern.FindStringSubmatch(response)
	if match == nil {
		return nil
	}
	var meta Metadata
	if err := json.Unmarshal([]byte(match[1]), &meta); err != nil {
		return nil
	}
	return &meta
}

// StripMetadata removes the hidden metadata comment (and trailing
// whitespace left behind) before the response is shown to a user.
func StripMetadata(response string) string {
	return strings.TrimRight(stepMetadataPattern.ReplaceAllString(response, ""), " \t\r\n")
}

// DetectMultiStepLeak reports whether the LLM leaked a multi-step
// response when it should have served only one step.
func DetectMultiStepLeak(response string) bool {
	for _, pattern := range multiStepPatterns {
		if pattern.MatchString(response) {
			return true
		}
	}
	return false
}

// SplitFirstStep splits a multi-step response into the first step to
// show the user and the remaining steps to cache. Everything before the
// second numbered step start (including indented continuation lines)
// belongs to the first step. A response with no second start is
// entirely first step with an empty remainder.
func SplitFirstStep(response string) (first, remaining string) {
	lines := strings.Split(response, "\n")
	var firstLines, remainingLines []string
	foundSecondStep := false
	stepCount := 0

	for _, line := range lines {
		if stepLineStart.MatchString(strings.TrimSpace(line)) {
			stepCount++
			if stepCount >= 2 {
				foundSecondStep = true
			}
		}

		if foundSecondStep {
			remainingLines = append(remainingLines, line)
		} else {
			firstLines = append(firstLines, line)
		}
	}

	first = strings.TrimSpace(strings.Join(firstLines, "\n"))
	remaining = strings.TrimSpace(strings.Join(remainingLines, "\n"))
	return first, remaining
}
