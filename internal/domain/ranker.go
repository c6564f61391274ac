package domain

import (
	"context"
	"fmt"
	"sort"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/observability"
)

// RankerService orders business-context snippets by semantic relevance to a
// query, for injection into analysis prompts. It never persists snippets; the
// external store owns them.
type RankerService struct {
	embedder Embedder
}

// NewRankerService creates a ranker over the cached embedder.
func NewRankerService(embedder Embedder) *RankerService {
	return &RankerService{
		embedder: embedder,
	}
}

// Rank returns the snippets ordered most-relevant first, with similarity
// scores attached. Ties preserve the original order; an empty pool returns an
// empty result. Callers choose how many top entries to use.
func (r *RankerService) Rank(ctx context.Context, query string, snippets []ContextSnippet) ([]RankedSnippet, error) {
	if len(snippets) == 0 {
		return []RankedSnippet{}, nil
	}

	texts := make([]string, 0, len(snippets)+1)
	texts = append(texts, query)
	for _, snippet := range snippets {
		texts = append(texts, snippet.Text)
	}

	results, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed snippets: %w", err)
	}

	queryVector := results[0].Vector

	ranked := make([]RankedSnippet, len(snippets))
	for i, snippet := range snippets {
		similarity, simErr := CosineSimilarity(queryVector, results[i+1].Vector)
		if simErr != nil {
			return nil, fmt.Errorf("failed to score snippet %s: %w", snippet.ID, simErr)
		}
		ranked[i] = RankedSnippet{Snippet: snippet, Similarity: similarity}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	observability.FromContext(ctx).Debug("ranked context snippets",
		observability.Int("candidates", len(snippets)),
		observability.Float64("top_similarity", ranked[0].Similarity))

	return ranked, nil
}
