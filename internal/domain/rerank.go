package domain

import "context"

// RankedIndex points back into the candidate slice handed to a reranker.
type RankedIndex struct {
	Index int
	Score float64
}

// Reranker reorders candidate documents by relevance to a query and
// returns at most topN indices, best first.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RankedIndex, error)
}
