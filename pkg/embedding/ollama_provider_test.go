package embedding

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("unit magnitude", func(t *testing.T) {
		normalized := normalizeVector([]float32{3, 4})
		var sum float64
		for _, v := range normalized {
			sum += float64(v) * float64(v)
		}
		if math.Abs(math.Sqrt(sum)-1.0) > 1e-6 {
			t.Errorf("expected unit magnitude, got %f", math.Sqrt(sum))
		}
	})

	t.Run("zero vector passes through", func(t *testing.T) {
		values := []float32{0, 0, 0}
		normalized := normalizeVector(values)
		for i, v := range normalized {
			if v != 0 {
				t.Errorf("index %d: expected 0, got %f", i, v)
			}
		}
	})
}

func TestOllamaProviderGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req ollamaEmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("unexpected model: %s", req.Model)
		}
		json.NewEncoder(w).Encode(ollamaEmbeddingResponse{
			Embedding: []float64{3, 4},
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "")
	resp, err := provider.Generate("deploy the service", TaskTypeQuery)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(resp.Embedding.Values) != 2 {
		t.Fatalf("expected 2 dims, got %d", len(resp.Embedding.Values))
	}
	// 3-4-5 triangle normalizes to 0.6, 0.8
	if math.Abs(float64(resp.Embedding.Values[0])-0.6) > 1e-6 {
		t.Errorf("expected 0.6, got %f", resp.Embedding.Values[0])
	}
}

func TestOllamaProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "missing-model")
	_, err := provider.Generate("hello", TaskTypeDocument)
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
