package topic

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float32{1, 2, 3},
			b:    []float32{1, 2, 3},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    []float32{1, 0},
			b:    []float32{-1, 0},
			want: -1.0,
		},
		{
			name: "mismatched length",
			a:    []float32{1, 2},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "both empty",
			a:    []float32{},
			b:    []float32{},
			want: 0.0,
		},
		{
			name: "zero magnitude",
			a:    []float32{0, 0},
			b:    []float32{1, 1},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunningTopicEmbeddingEmpty(t *testing.T) {
	if got := RunningTopicEmbedding(nil, 0.8, 5); got != nil {
		t.Errorf("RunningTopicEmbedding(nil) = %v, want nil", got)
	}
}

func TestRunningTopicEmbeddingSingle(t *testing.T) {
	v := []float32{0.25, -0.5, 1}
	got := RunningTopicEmbedding([][]float32{v}, 0.8, 5)
	if len(got) != len(v) {
		t.Fatalf("dimension = %d, want %d", len(got), len(v))
	}
	for i := range v {
		if got[i] != v[i] {
			t.Errorf("got[%d] = %v, want exactly %v", i, got[i], v[i])
		}
	}
}

func TestRunningTopicEmbeddingDecayZero(t *testing.T) {
	// decay=0 degenerates to "only the most recent embedding matters"
	embeddings := [][]float32{{1, 0}, {0, 1}}
	got := RunningTopicEmbedding(embeddings, 0, 5)
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("got %v, want [0 1]", got)
	}
}

func TestRunningTopicEmbeddingDecayOne(t *testing.T) {
	// decay=1 degenerates to the plain arithmetic mean of the window
	embeddings := [][]float32{{1, 0}, {0, 1}}
	got := RunningTopicEmbedding(embeddings, 1, 5)
	if !almostEqual(float64(got[0]), 0.5) || !almostEqual(float64(got[1]), 0.5) {
		t.Errorf("got %v, want [0.5 0.5]", got)
	}
}

func TestRunningTopicEmbeddingWindow(t *testing.T) {
	// Only the last `window` embeddings participate
	embeddings := [][]float32{{100, 100}, {1, 0}, {0, 1}}
	got := RunningTopicEmbedding(embeddings, 1, 2)
	if !almostEqual(float64(got[0]), 0.5) || !almostEqual(float64(got[1]), 0.5) {
		t.Errorf("got %v, want [0.5 0.5]", got)
	}
}

func TestRunningTopicEmbeddingWeighting(t *testing.T) {
	// Newest gets weight 1, older gets decay^1
	embeddings := [][]float32{{0, 0}, {1, 1}}
	got := RunningTopicEmbedding(embeddings, 0.5, 5)
	// (1*1 + 0.5*0) / 1.5
	want := 1.0 / 1.5
	if !almostEqual(float64(got[0]), want) {
		t.Errorf("got[0] = %v, want %v", got[0], want)
	}
}
