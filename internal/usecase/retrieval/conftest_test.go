package retrieval

import (
	"context"

	"github.com/kailas-cloud/quizdex/internal/domain"
)

// mockStore implements PassageStore for tests.
type mockStore struct {
	hybridFn func(ctx context.Context, query string, vector []float32, collectionID string, topK int) ([]domain.ScoredPassage, error)
	vectorFn func(ctx context.Context, vector []float32, collectionID string, topK int) ([]domain.ScoredPassage, error)
	textFn   func(ctx context.Context, query, collectionID string, topK int) ([]domain.ScoredPassage, error)
	listFn   func(ctx context.Context, collectionID string, offset, limit int) ([]domain.Passage, int, error)
}

func (m *mockStore) SearchHybrid(
	ctx context.Context, query string, vector []float32, collectionID string, topK int,
) ([]domain.ScoredPassage, error) {
	if m.hybridFn != nil {
		return m.hybridFn(ctx, query, vector, collectionID, topK)
	}
	return nil, nil
}

func (m *mockStore) SearchVector(
	ctx context.Context, vector []float32, collectionID string, topK int,
) ([]domain.ScoredPassage, error) {
	if m.vectorFn != nil {
		return m.vectorFn(ctx, vector, collectionID, topK)
	}
	return nil, nil
}

func (m *mockStore) SearchText(
	ctx context.Context, query, collectionID string, topK int,
) ([]domain.ScoredPassage, error) {
	if m.textFn != nil {
		return m.textFn(ctx, query, collectionID, topK)
	}
	return nil, nil
}

func (m *mockStore) ListByCollection(
	ctx context.Context, collectionID string, offset, limit int,
) ([]domain.Passage, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, collectionID, offset, limit)
	}
	return nil, 0, nil
}

// mockEmbedder returns a fixed vector.
type mockEmbedder struct {
	err   error
	texts []string // records embedded texts
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

// mockParaphraser returns a fixed synthetic document.
type mockParaphraser struct {
	doc string
	err error
}

func (m *mockParaphraser) Paraphrase(_ context.Context, _ string) (string, error) {
	return m.doc, m.err
}

// mockReranker returns fixed rankings.
type mockReranker struct {
	fn func(ctx context.Context, query string, documents []string, topN int) ([]domain.RankedIndex, error)
}

func (m *mockReranker) Rerank(
	ctx context.Context, query string, documents []string, topN int,
) ([]domain.RankedIndex, error) {
	if m.fn != nil {
		return m.fn(ctx, query, documents, topN)
	}
	return nil, nil
}

// scoredTexts builds scored passages from plain texts with the given score.
func scoredTexts(score float64, texts ...string) []domain.ScoredPassage {
	out := make([]domain.ScoredPassage, 0, len(texts))
	for _, t := range texts {
		out = append(out, domain.NewScoredPassage(
			domain.ReconstructPassage(t, "col-1", "", 0), score,
		))
	}
	return out
}
