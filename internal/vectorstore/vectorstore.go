package vectorstore

import "math"

// Snapshotter is implemented by stores that persist the index to durable
// storage. The builder stamps the embedding model identifier and the corpus
// summary before flushing, so the chat side can detect a model mismatch and
// greet with a description of what was indexed.
type Snapshotter interface {
	SetModelInfo(info string)
	SetSummary(summary string)
	Flush() error
}

// Cosine returns the cosine similarity between two vectors, in [-1, 1].
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
