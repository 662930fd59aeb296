package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GeminiProvider implements EmbeddingProvider against the Google
// Generative Language embedContent endpoint.
type GeminiProvider struct {
	APIKey string
	Model  string
}

func NewGeminiProvider(apiKey string, model string) EmbeddingProvider {
	if model == "" {
		model = "text-embedding-004"
	}
	return &GeminiProvider{
		APIKey: apiKey,
		Model:  model,
	}
}

type geminiEmbeddingRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
	// TaskType tunes the embedding for retrieval vs. query matching.
	TaskType string `json:"taskType,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiEmbeddingResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func (p *GeminiProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("gemini embedding: missing API key")
	}

	reqBody := geminiEmbeddingRequest{
		Model: "models/" + p.Model,
		Content: geminiContent{
			Parts: []geminiPart{{Text: text}},
		},
		TaskType: taskType,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:embedContent", p.Model)
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.APIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini embedding error: %s", string(bodyBytes))
	}

	var geminiResp geminiEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &geminiResp); err != nil {
		return nil, err
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingVector{
			Values: geminiResp.Embedding.Values,
		},
	}, nil
}
