package stepmode

import "testing"

func TestIsAdvanceRequest(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"next", true},
		{"Next", true},
		{"  next  ", true},
		{"next!", true},
		{"done.", true},
		{"what's next?", true},
		{"okay next", true},
		{"proceed", true},
		// exact match only: longer sentences that merely contain an
		// advance phrase must not fire
		{"what should I do next about the config", false},
		{"I'm not done yet", false},
		{"tell me about the next release", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := IsAdvanceRequest(tt.message); got != tt.want {
				t.Errorf("IsAdvanceRequest(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestIsFullPlanRequest(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"show all steps", true},
		{"can you show me everything please", true},
		{"I'd like the whole plan", true},
		{"FULL PLAN", true},
		{"next", false},
		{"what's step two", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := IsFullPlanRequest(tt.message); got != tt.want {
				t.Errorf("IsFullPlanRequest(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}
