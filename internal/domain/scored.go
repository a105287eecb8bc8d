package domain

// ScoredPassage pairs a passage with a retrieval score. The score's scale
// depends on the strategy that produced it (cosine similarity, BM25, RRF
// fused, or reranker relevance) and is only comparable within one list.
type ScoredPassage struct {
	passage Passage
	score   float64
}

// NewScoredPassage creates a scored passage.
func NewScoredPassage(p Passage, score float64) ScoredPassage {
	return ScoredPassage{passage: p, score: score}
}

// Passage returns the underlying passage.
func (s ScoredPassage) Passage() Passage { return s.passage }

// Score returns the retrieval score.
func (s ScoredPassage) Score() float64 { return s.score }

// WithScore returns a copy carrying a replacement score.
func (s ScoredPassage) WithScore(score float64) ScoredPassage {
	return ScoredPassage{passage: s.passage, score: score}
}

// Texts extracts the passage texts in order.
func Texts(scored []ScoredPassage) []string {
	out := make([]string, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Passage().Text())
	}
	return out
}
