package embcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/quizdex/internal/db"
	"github.com/kailas-cloud/quizdex/internal/domain"
)

func TestEmbed_CacheMiss(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 10,
		TotalTokens:  10,
	}}
	ce, ms := newTestCachedEmbedder(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	var setTTL time.Duration
	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
		setCalled = true
		setTTL = ttl
		return nil
	}

	result, err := ce.Embed(ctx, "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", result.Embedding)
	}
	if result.TotalTokens != 10 {
		t.Fatalf("expected TotalTokens=10, got %d", result.TotalTokens)
	}
	if !setCalled {
		t.Fatal("expected SET to be called for cache put")
	}
	if setTTL != time.Hour {
		t.Fatalf("expected configured TTL, got %v", setTTL)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestEmbed_CacheHit(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1, 0.2, 0.3},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)

	cached := vectorToCacheBytes([]float32{0.4, 0.5, 0.6})
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	result, err := ce.Embed(context.Background(), "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.Embedding[0] != 0.4 {
		t.Fatalf("expected cached vector, got %v", result.Embedding)
	}
	if result.TotalTokens != 0 {
		t.Fatalf("cache hit must not report token usage, got %d", result.TotalTokens)
	}
	if inner.calls != 0 {
		t.Fatalf("inner embedder must not be called on a hit, got %d calls", inner.calls)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	wantErr := errors.New("provider unavailable")
	inner := &mockEmbedder{err: wantErr}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := ce.Embed(context.Background(), "test text")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped inner error, got %v", err)
	}
}

func TestEmbed_CorruptCacheFallsThrough(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.7, 0.8},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)

	// 3 bytes cannot decode to float32s.
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}

	result, err := ce.Embed(context.Background(), "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embedding[0] != 0.7 {
		t.Fatalf("expected inner result after corrupt cache, got %v", result.Embedding)
	}
	if inner.calls != 1 {
		t.Fatalf("expected fallthrough to inner, got %d calls", inner.calls)
	}
}

func TestEmbed_SetFailureIsNonFatal(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding: []float32{0.1},
	}}
	ce, ms := newTestCachedEmbedder(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("redis write failed")
	}

	result, err := ce.Embed(context.Background(), "test text")
	if err != nil {
		t.Fatalf("cache write failure must not fail the embed: %v", err)
	}
	if result.Embedding[0] != 0.1 {
		t.Fatalf("unexpected result: %v", result.Embedding)
	}
}

func TestCacheKey_DependsOnModel(t *testing.T) {
	ms := &mockStore{}
	a := New(&mockEmbedder{}, ms, "model-a", 0, nil, zap.NewNop())
	b := New(&mockEmbedder{}, ms, "model-b", 0, nil, zap.NewNop())

	if a.cacheKey("same text") == b.cacheKey("same text") {
		t.Fatal("different models must not share cache keys")
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 0, 1e6}
	out, err := bytesToVector(vectorToCacheBytes(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length mismatch: %d != %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("element %d mismatch: %f != %f", i, in[i], out[i])
		}
	}
}
