package stepmode

import (
	"strings"
	"testing"
)

func TestDetectMultiStepLeak(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{
			name:     "three numbered steps",
			response: "1. Install Go\n2. Write main.go\n3. Run it",
			want:     true,
		},
		{
			name:     "exactly two numbered items",
			response: "1. Install Go\n2. Write main.go",
			want:     false,
		},
		{
			name:     "parenthesized numbering",
			response: "1) Clone the repo\n2) Install deps\n3) Run the tests",
			want:     true,
		},
		{
			name:     "step prefix numbering",
			response: "Step 1. Back up the database\nStep 2. Run the migration\nStep 3. Verify",
			want:     true,
		},
		{
			name:     "content lines between steps",
			response: "1. Install Go\nThis gets you the toolchain.\n2. Write main.go\nKeep it small.\n3. Run it",
			want:     true,
		},
		{
			name:     "ordinal transition phrases",
			response: "First, update your config. Second, restart the service.",
			want:     true,
		},
		{
			name:     "step one then next",
			response: "Step 1: open the panel. Next: flip the breaker.",
			want:     true,
		},
		{
			name:     "single step response",
			response: "Open your terminal and run `go version` to confirm the install.",
			want:     false,
		},
		{
			name:     "plain prose",
			response: "The quick brown fox jumps over the lazy dog.",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMultiStepLeak(tt.response); got != tt.want {
				t.Errorf("DetectMultiStepLeak() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitFirstStep(t *testing.T) {
	first, remaining := SplitFirstStep("1. A\n2. B\n3. C")
	if !strings.Contains(first, "A") || strings.Contains(first, "B") {
		t.Errorf("first = %q, want only step A", first)
	}
	if !strings.Contains(remaining, "B") || !strings.Contains(remaining, "C") {
		t.Errorf("remaining = %q, want B and C", remaining)
	}
	if strings.Index(remaining, "B") > strings.Index(remaining, "C") {
		t.Error("remaining steps must keep original order")
	}
}

func TestSplitFirstStepNoSteps(t *testing.T) {
	first, remaining := SplitFirstStep("just text")
	if first != "just text" {
		t.Errorf("first = %q, want the whole text", first)
	}
	if remaining != "" {
		t.Errorf("remaining = %q, want empty", remaining)
	}
}

func TestSplitFirstStepKeepsContinuationLines(t *testing.T) {
	response := "1. Install Go\n   Download it from go.dev first.\n2. Write main.go"
	first, remaining := SplitFirstStep(response)
	if !strings.Contains(first, "go.dev") {
		t.Errorf("first = %q, continuation lines belong to the first step", first)
	}
	if !strings.Contains(remaining, "main.go") {
		t.Errorf("remaining = %q, want the second step", remaining)
	}
}

func TestExtractMetadata(t *testing.T) {
	response := "Do the thing.\n\n<!-- aria-step: {\"current\": 2, \"total_estimated\": 5, \"plan_summary\": \"deploy the app\"} -->"
	meta := ExtractMetadata(response)
	if meta == nil {
		t.Fatal("expected metadata")
	}
	if meta.Current != 2 || meta.TotalEstimated != 5 || meta.PlanSummary != "deploy the app" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestExtractMetadataTolerant(t *testing.T) {
	response := "Step text.\n<!--  aria-step:   {\"current\": 1,\n \"total_estimated\": 3,\n \"plan_summary\": \"x\"}   -->"
	if ExtractMetadata(response) == nil {
		t.Error("inner whitespace and newlines must be tolerated")
	}
}

func TestExtractMetadataAbsentOrMalformed(t *testing.T) {
	if ExtractMetadata("no metadata here") != nil {
		t.Error("absent comment must yield nil")
	}
	if ExtractMetadata("<!-- aria-step: {not json} -->") != nil {
		t.Error("malformed payload must yield nil, not panic")
	}
}

func TestStripMetadata(t *testing.T) {
	response := "Visible step text.\n\n<!-- aria-step: {\"current\": 1, \"total_estimated\": 2, \"plan_summary\": \"s\"} -->"
	got := StripMetadata(response)
	if got != "Visible step text." {
		t.Errorf("StripMetadata() = %q", got)
	}
}

func TestStripMetadataNoComment(t *testing.T) {
	if got := StripMetadata("plain response"); got != "plain response" {
		t.Errorf("StripMetadata() = %q", got)
	}
}
