package retriever

import (
	"context"
	"fmt"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

// Retriever embeds a question with the same model used at index-build time
// and returns the most similar stored chunks, best first.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
	topK     int
	minScore float64
}

func New(embedder domain.Embedder, store domain.VectorStore, topK int, minScore float64) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{embedder: embedder, store: store, topK: topK, minScore: minScore}
}

func (r *Retriever) Retrieve(ctx context.Context, question string) ([]domain.SearchResult, error) {
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	results, err := r.store.Search(vec, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	// The similarity floor is explicit and tunable; 0 keeps everything.
	filtered := results[:0]
	for _, res := range results {
		if res.Score >= r.minScore {
			filtered = append(filtered, res)
		}
	}
	return filtered, nil
}
