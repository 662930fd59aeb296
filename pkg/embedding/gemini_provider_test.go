package embedding

import "testing"

func TestNewGeminiProviderDefaults(t *testing.T) {
	p := NewGeminiProvider("key", "").(*GeminiProvider)
	if p.Model != "text-embedding-004" {
		t.Errorf("empty model should default to text-embedding-004, got %q", p.Model)
	}

	p = NewGeminiProvider("key", "gemini-embedding-001").(*GeminiProvider)
	if p.Model != "gemini-embedding-001" {
		t.Errorf("explicit model overridden: %q", p.Model)
	}
}

func TestGeminiProviderRequiresAPIKey(t *testing.T) {
	p := NewGeminiProvider("", "")
	if _, err := p.Generate("hello", TaskTypeDocument); err == nil {
		t.Fatal("expected error when API key is missing")
	}
}
