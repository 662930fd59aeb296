package memory

import "strings"

const memoryPreamble = "Here is what you know about this user from previous conversations:"

// DefaultMaxMemories caps how many memories are rendered into a prompt.
const DefaultMaxMemories = 20

// FormatMemoriesForPrompt renders memories as a system-prompt block:
// preamble plus bullet list. Returns "" when there is nothing to say.
func FormatMemoriesForPrompt(memories []string, maxMemories int) string {
	if len(memories) == 0 {
		return ""
	}
	if maxMemories <= 0 {
		maxMemories = DefaultMaxMemories
	}
	if len(memories) > maxMemories {
		memories = memories[:maxMemories]
	}

	lines := make([]string, 0, len(memories)+2)
	lines = append(lines, memoryPreamble, "")
	for _, mem := range memories {
		lines = append(lines, "- "+mem)
	}
	return strings.Join(lines, "\n")
}
