package retrieval

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/quizdex/internal/domain"
)

func TestRetrieve_NoCollectionShortCircuits(t *testing.T) {
	ms := &mockStore{
		hybridFn: func(_ context.Context, _ string, _ []float32, _ string, _ int) ([]domain.ScoredPassage, error) {
			t.Fatal("no search expected without a collection")
			return nil, nil
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, nil)

	got, err := svc.Retrieve(context.Background(), "topic", "", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestRetrieve_NormalizesTopic(t *testing.T) {
	var gotQuery string
	ms := &mockStore{
		hybridFn: func(_ context.Context, query string, _ []float32, _ string, _ int) ([]domain.ScoredPassage, error) {
			gotQuery = query
			return scoredTexts(0.9, "p1"), nil
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, nil)

	_, err := svc.Retrieve(context.Background(), "What is Photosynthesis?", "col-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "photosynthesis" {
		t.Fatalf("expected normalized topic, got %q", gotQuery)
	}
}

func TestRetrieve_RequestsTwiceTheLimit(t *testing.T) {
	var hybridK, vectorK int
	ms := &mockStore{
		hybridFn: func(_ context.Context, _ string, _ []float32, _ string, topK int) ([]domain.ScoredPassage, error) {
			hybridK = topK
			return scoredTexts(0.9, "p1"), nil
		},
		vectorFn: func(_ context.Context, _ []float32, _ string, topK int) ([]domain.ScoredPassage, error) {
			vectorK = topK
			return nil, nil
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, nil)

	if _, err := svc.Retrieve(context.Background(), "t", "col-1", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hybridK != 10 || vectorK != 10 {
		t.Fatalf("expected 2x limit candidates, got hybrid=%d vector=%d", hybridK, vectorK)
	}
}

func TestRetrieve_DedupPreservesHybridThenVectorOrder(t *testing.T) {
	ms := &mockStore{
		hybridFn: func(_ context.Context, _ string, _ []float32, _ string, _ int) ([]domain.ScoredPassage, error) {
			return scoredTexts(0.9, "a", "b"), nil
		},
		vectorFn: func(_ context.Context, _ []float32, _ string, _ int) ([]domain.ScoredPassage, error) {
			return scoredTexts(0.9, "b", "c"), nil
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, nil)

	got, err := svc.Retrieve(context.Background(), "t", "col-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRetrieve_VectorStrategyAppliesCertaintyFloor(t *testing.T) {
	ms := &mockStore{
		vectorFn: func(_ context.Context, _ []float32, _ string, _ int) ([]domain.ScoredPassage, error) {
			return append(scoredTexts(0.9, "close"), scoredTexts(0.4, "far")...), nil
		},
		textFn: func(_ context.Context, _, _ string, _ int) ([]domain.ScoredPassage, error) {
			t.Fatal("bm25 fallback must not run when vector produced results")
			return nil, nil
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, nil)

	got, err := svc.Retrieve(context.Background(), "t", "col-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"close"}) {
		t.Fatalf("expected only above-floor hit, got %v", got)
	}
}

func TestRetrieve_HyDEUsesParaphraseDocument(t *testing.T) {
	embed := &mockEmbedder{}
	ms := &mockStore{}
	svc := New(ms, embed, &mockParaphraser{doc: "synthetic answer"}, nil)

	if _, err := svc.Retrieve(context.Background(), "topic", "col-1", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First embed call is hybrid's topic, second the HyDE document.
	if len(embed.texts) != 2 {
		t.Fatalf("expected 2 embed calls, got %d", len(embed.texts))
	}
	if embed.texts[1] != "synthetic answer" {
		t.Fatalf("expected HyDE document embedded, got %q", embed.texts[1])
	}
}

func TestRetrieve_ParaphraseFailureFallsBackToTopic(t *testing.T) {
	embed := &mockEmbedder{}
	svc := New(&mockStore{}, embed, &mockParaphraser{err: errors.New("llm down")}, nil)

	if _, err := svc.Retrieve(context.Background(), "topic", "col-1", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embed.texts[1] != "topic" {
		t.Fatalf("expected raw topic embedded on paraphrase failure, got %q", embed.texts[1])
	}
}

func TestRetrieve_BM25OnlyWhenBothPrimariesEmpty(t *testing.T) {
	var bm25Called bool
	ms := &mockStore{
		textFn: func(_ context.Context, _, _ string, topK int) ([]domain.ScoredPassage, error) {
			bm25Called = true
			if topK != 5 {
				t.Errorf("fallback requests limit candidates, got %d", topK)
			}
			return scoredTexts(1.0, "fallback-hit"), nil
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, nil)

	got, err := svc.Retrieve(context.Background(), "t", "col-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bm25Called {
		t.Fatal("expected bm25 fallback to run")
	}
	if !reflect.DeepEqual(got, []string{"fallback-hit"}) {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestRetrieve_StrategyFailuresAbsorbed(t *testing.T) {
	ms := &mockStore{
		hybridFn: func(_ context.Context, _ string, _ []float32, _ string, _ int) ([]domain.ScoredPassage, error) {
			return nil, errors.New("hybrid down")
		},
		vectorFn: func(_ context.Context, _ []float32, _ string, _ int) ([]domain.ScoredPassage, error) {
			return nil, errors.New("vector down")
		},
		textFn: func(_ context.Context, _, _ string, _ int) ([]domain.ScoredPassage, error) {
			return nil, errors.New("bm25 down")
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, nil)

	got, err := svc.Retrieve(context.Background(), "t", "col-1", 5)
	if err != nil {
		t.Fatalf("strategy failures must be absorbed, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestRetrieve_EmbedFailureAbsorbed(t *testing.T) {
	svc := New(&mockStore{}, &mockEmbedder{err: errors.New("embed down")}, nil, nil)

	got, err := svc.Retrieve(context.Background(), "t", "col-1", 5)
	if err != nil {
		t.Fatalf("embed failure must be absorbed, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestRetrieve_RerankReordersAndTruncates(t *testing.T) {
	ms := &mockStore{
		hybridFn: func(_ context.Context, _ string, _ []float32, _ string, _ int) ([]domain.ScoredPassage, error) {
			return scoredTexts(0.9, "a", "b", "c"), nil
		},
	}
	rr := &mockReranker{
		fn: func(_ context.Context, _ string, docs []string, topN int) ([]domain.RankedIndex, error) {
			if len(docs) != 3 {
				t.Errorf("expected 3 candidates, got %d", len(docs))
			}
			return []domain.RankedIndex{{Index: 2, Score: 0.9}, {Index: 0, Score: 0.5}}, nil
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, rr)

	got, err := svc.Retrieve(context.Background(), "t", "col-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Fatalf("expected reranked order, got %v", got)
	}
}

func TestRetrieve_RerankFailureDegradesToMergeOrder(t *testing.T) {
	ms := &mockStore{
		hybridFn: func(_ context.Context, _ string, _ []float32, _ string, _ int) ([]domain.ScoredPassage, error) {
			return scoredTexts(0.9, "a", "b", "c"), nil
		},
	}
	rr := &mockReranker{
		fn: func(_ context.Context, _ string, _ []string, _ int) ([]domain.RankedIndex, error) {
			return nil, errors.New("rerank down")
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, rr)

	got, err := svc.Retrieve(context.Background(), "t", "col-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected first-2 merge order, got %v", got)
	}
}

func TestAllContent(t *testing.T) {
	ms := &mockStore{
		listFn: func(_ context.Context, collectionID string, offset, limit int) ([]domain.Passage, int, error) {
			if collectionID != "col-1" || offset != 0 || limit != 20 {
				t.Errorf("unexpected args: %s %d %d", collectionID, offset, limit)
			}
			return []domain.Passage{domain.ReconstructPassage("p", "col-1", "f.pdf", 0)}, 1, nil
		},
	}
	svc := New(ms, &mockEmbedder{}, nil, nil)

	got, err := svc.AllContent(context.Background(), "col-1", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(got))
	}
}

func TestAllContent_EmptyCollectionID(t *testing.T) {
	svc := New(&mockStore{}, &mockEmbedder{}, nil, nil)

	got, err := svc.AllContent(context.Background(), "", 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
