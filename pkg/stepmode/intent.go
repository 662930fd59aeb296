package stepmode

import "strings"

// advancePhrases is an exact-match set: substring containment would
// fire on any longer sentence that merely contains "next".
var advancePhrases = map[string]struct{}{
	"next":        {},
	"continue":    {},
	"go on":       {},
	"next step":   {},
	"what's next": {},
	"done":        {},
	"ok next":     {},
	"okay next":   {},
	"proceed":     {},
	"and then":    {},
	"what now":    {},
	"now what":    {},
}

// fullPlanPhrases is matched by substring containment: full-plan
// requests are rare and a false positive just shows the whole plan.
var fullPlanPhrases = []string{
	"show all", "show all steps", "full plan", "all steps",
	"show me everything", "give me all", "the whole plan",
	"list all steps", "show everything",
}

func normalize(message string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(message)), "?!.")
}

// IsAdvanceRequest reports whether a user message asks for the next step.
func IsAdvanceRequest(message string) bool {
	_, ok := advancePhrases[normalize(message)]
	return ok
}

// IsFullPlanRequest reports whether a user message asks for the full plan.
func IsFullPlanRequest(message string) bool {
	normalized := normalize(message)
	for _, phrase := range fullPlanPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
