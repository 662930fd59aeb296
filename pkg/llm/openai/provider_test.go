package openai

import "testing"

func TestNewOpenAIProviderBaseURL(t *testing.T) {
	// An empty base URL must land on the public API, not on a local
	// default carried over from another provider.
	p := NewOpenAIProvider("key", "", "gpt-4o-mini")
	if p.baseURL != "https://api.openai.com/v1" {
		t.Errorf("empty base URL should default to the OpenAI API, got %q", p.baseURL)
	}

	p = NewOpenAIProvider("key", "http://localhost:8000/v1", "local-model")
	if p.baseURL != "http://localhost:8000/v1" {
		t.Errorf("explicit base URL overridden: %q", p.baseURL)
	}
}
