package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ai-assistant-be/pkg/llm"
)

// Valid fact categories. Anything else coming back from the model is
// dropped.
var validCategories = map[string]struct{}{
	"biographical": {},
	"preference":   {},
	"technical":    {},
	"behavioral":   {},
	"contextual":   {},
}

const dedupSimilarityThreshold = 0.65

const factExtractionPromptTemplate = `You are a fact extraction engine.  Given a conversation between a user and an assistant, extract personal facts about the **user** only.

Return a JSON array of objects.  Each object must have exactly these keys:
- "content": a concise factual statement about the user (string)
- "category": one of: biographical, preference, technical, behavioral, contextual
- "confidence": a float between 0.0 and 1.0

Rules:
- Only extract facts the user explicitly stated or clearly implied.
- Do NOT invent, assume, or speculate.
- Do NOT extract facts about the assistant.
- If there are no extractable user facts, return an empty array [].
- Return ONLY the JSON array, no markdown, no commentary.

Categories:
- biographical: name, location, age, occupation, life events
- preference: likes, dislikes, tool/language/editor choices
- technical: programming languages, frameworks, skills, stack
- behavioral: work habits, communication style, schedule
- contextual: current project, immediate goals, recent events

Conversation:
%s

JSON array of extracted facts:`

// Fact is one extracted statement about the user.
type Fact struct {
	Content    string  `json:"content"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	IsNew      bool    `json:"is_new"`
}

// Extractor pulls personal user facts out of a conversation after each
// assistant response.
type Extractor struct {
	llmProvider llm.LLMProvider // optional
	logger      *log.Logger
}

func NewExtractor(llmProvider llm.LLMProvider, logger *log.Logger) *Extractor {
	return &Extractor{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// ExtractFacts runs one extraction call over the conversation and
// returns validated facts, deduplicated against existing memories.
// Returns an empty slice on any failure (no capability, call error,
// malformed JSON).
func (e *Extractor) ExtractFacts(ctx context.Context, messages []llm.Message, existingMemories []string) []Fact {
	if len(messages) == 0 || !hasUserMessages(messages) || e.llmProvider == nil {
		return nil
	}

	prompt := fmt.Sprintf(factExtractionPromptTemplate, formatConversation(messages))
	raw, err := e.llmProvider.Generate(ctx, prompt)
	if err != nil {
		if e.logger != nil {
			e.logger.Printf("[MEMORY] fact extraction call failed: %v", err)
		}
		return nil
	}

	var parsed []Fact
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		if e.logger != nil {
			e.logger.Printf("[MEMORY] fact extraction returned invalid JSON")
		}
		return nil
	}

	facts := make([]Fact, 0, len(parsed))
	for _, item := range parsed {
		if !validFact(item) {
			continue
		}
		item.IsNew = !isDuplicate(item.Content, existingMemories)
		facts = append(facts, item)
	}
	return facts
}

func hasUserMessages(messages []llm.Message) bool {
	for _, m := range messages {
		if m.Role == "user" {
			return true
		}
	}
	return false
}

func formatConversation(messages []llm.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role == "" {
			role = "unknown"
		}
		role = strings.ToUpper(role[:1]) + role[1:]
		lines = append(lines, fmt.Sprintf("%s: %s", role, m.Content))
	}
	return strings.Join(lines, "\n")
}

func validFact(f Fact) bool {
	if f.Content == "" {
		return false
	}
	if _, ok := validCategories[f.Category]; !ok {
		return false
	}
	return f.Confidence >= 0.0 && f.Confidence <= 1.0
}

func isDuplicate(content string, existing []string) bool {
	for _, mem := range existing {
		if similarityRatio(strings.ToLower(content), strings.ToLower(mem)) >= dedupSimilarityThreshold {
			return true
		}
	}
	return false
}

// similarityRatio approximates difflib's ratio: twice the length of the
// longest common subsequence over the total length of both strings.
func similarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	ra := []rune(a)
	rb := []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(rb)]
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}
