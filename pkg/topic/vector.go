package topic

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 when the vectors differ in length, are empty, or either has
// zero magnitude, so callers never have to guard their inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RunningTopicEmbedding computes a decay-weighted average of recent
// message embeddings:
//
//	topic = Σ (decay^i * embedding_i) / Σ (decay^i)
//
// where i=0 is the most recent message. This gives a "what is this chat
// about right now" vector that drifts naturally as the conversation
// evolves, without re-embedding the whole history.
//
// Returns nil when no embeddings are supplied. decay=0 degenerates to
// the most recent embedding only; decay=1 to a plain average over the
// window.
func RunningTopicEmbedding(embeddings [][]float32, decay float64, window int) []float32 {
	if len(embeddings) == 0 {
		return nil
	}

	start := len(embeddings) - window
	if start < 0 {
		start = 0
	}
	recent := embeddings[start:]

	dim := len(recent[len(recent)-1])
	weightedSum := make([]float64, dim)
	weightTotal := 0.0

	// Walk from most recent backwards so the newest message carries
	// weight decay^0 = 1.
	for i := 0; i < len(recent); i++ {
		emb := recent[len(recent)-1-i]
		w := math.Pow(decay, float64(i))
		weightTotal += w
		for d := 0; d < dim && d < len(emb); d++ {
			weightedSum[d] += w * float64(emb[d])
		}
	}

	if weightTotal == 0 {
		return nil
	}

	result := make([]float32, dim)
	for d := range weightedSum {
		result[d] = float32(weightedSum[d] / weightTotal)
	}
	return result
}
