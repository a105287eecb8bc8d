// Package retrieval merges hybrid lexical+vector search, HyDE vector search,
// and a BM25 fallback into one deduplicated, optionally reranked passage list.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/quizdex/internal/domain"
	"github.com/kailas-cloud/quizdex/internal/logger"
	"github.com/kailas-cloud/quizdex/internal/metrics"
)

// DefaultMinCertainty is the similarity floor for the pure-vector strategy.
const DefaultMinCertainty = 0.6

// Service runs the multi-strategy retrieval pipeline.
type Service struct {
	store        PassageStore
	embed        Embedder
	paraphraser  Paraphraser     // nil: embed the topic directly
	reranker     domain.Reranker // nil: keep merge order
	minCertainty float64
}

// New creates a retrieval service. paraphraser and reranker may be nil.
func New(store PassageStore, embed Embedder, paraphraser Paraphraser, reranker domain.Reranker) *Service {
	return &Service{
		store:        store,
		embed:        embed,
		paraphraser:  paraphraser,
		reranker:     reranker,
		minCertainty: DefaultMinCertainty,
	}
}

// WithMinCertainty overrides the vector-strategy similarity floor.
func (s *Service) WithMinCertainty(c float64) *Service {
	s.minCertainty = c
	return s
}

// Retrieve returns up to limit deduplicated passage texts relevant to topic.
// An empty collectionID short-circuits to an empty result: collection
// isolation is mandatory, never implicit. Individual strategy failures are
// absorbed; an empty result is a valid outcome, not an error.
func (s *Service) Retrieve(ctx context.Context, topic, collectionID string, limit int) ([]string, error) {
	log := logger.FromContext(ctx)

	if collectionID == "" {
		log.Info("Retrieval skipped: no collection", zap.String("topic", topic))
		return nil, nil
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	normalized := domain.NormalizeTopic(topic)

	hybrid := s.runHybrid(ctx, normalized, collectionID, 2*limit)
	vector := s.runVector(ctx, normalized, collectionID, 2*limit)

	var fallback []string
	if len(hybrid) == 0 && len(vector) == 0 {
		fallback = s.runBM25(ctx, normalized, collectionID, limit)
	}

	merged := make([]string, 0, len(hybrid)+len(vector)+len(fallback))
	merged = append(merged, hybrid...)
	merged = append(merged, vector...)
	merged = append(merged, fallback...)

	deduped := domain.DedupTexts(merged)

	log.Info("Retrieval merged",
		zap.String("topic", normalized),
		zap.Int("hybrid", len(hybrid)),
		zap.Int("vector", len(vector)),
		zap.Int("fallback", len(fallback)),
		zap.Int("deduplicated", len(deduped)),
	)

	return s.rerank(ctx, normalized, deduped, limit), nil
}

// AllContent returns up to cap passages of the whole collection, ignoring topic.
func (s *Service) AllContent(ctx context.Context, collectionID string, cap int) ([]domain.Passage, error) {
	if collectionID == "" {
		return nil, nil
	}
	passages, _, err := s.store.ListByCollection(ctx, collectionID, 0, cap)
	if err != nil {
		return nil, fmt.Errorf("list collection content: %w", err)
	}
	return passages, nil
}

// runHybrid executes the lexical+vector combined strategy. Failures yield
// an empty set, never abort the call.
func (s *Service) runHybrid(ctx context.Context, topic, collectionID string, topK int) []string {
	log := logger.FromContext(ctx)

	emb, err := s.embed.Embed(ctx, topic)
	if err != nil {
		log.Warn("Hybrid strategy: embed failed", zap.Error(err))
		metrics.RetrievalStrategyTotal.WithLabelValues("hybrid", "error").Inc()
		return nil
	}

	scored, err := s.store.SearchHybrid(ctx, topic, emb.Embedding, collectionID, topK)
	if err != nil {
		log.Warn("Hybrid strategy failed", zap.Error(err))
		metrics.RetrievalStrategyTotal.WithLabelValues("hybrid", "error").Inc()
		return nil
	}

	metrics.RetrievalStrategyTotal.WithLabelValues("hybrid", "success").Inc()
	metrics.RetrievalPassages.WithLabelValues("hybrid").Observe(float64(len(scored)))
	return domain.Texts(scored)
}

// runVector executes the HyDE strategy: embed a synthetic expected-answer
// document and keep only hits above the similarity floor.
func (s *Service) runVector(ctx context.Context, topic, collectionID string, topK int) []string {
	log := logger.FromContext(ctx)

	doc := topic
	if s.paraphraser != nil {
		synthetic, err := s.paraphraser.Paraphrase(ctx, topic)
		if err != nil {
			log.Warn("HyDE paraphrase unavailable, embedding topic directly", zap.Error(err))
		} else if synthetic != "" {
			doc = synthetic
		}
	}

	emb, err := s.embed.Embed(ctx, doc)
	if err != nil {
		log.Warn("Vector strategy: embed failed", zap.Error(err))
		metrics.RetrievalStrategyTotal.WithLabelValues("hyde", "error").Inc()
		return nil
	}

	scored, err := s.store.SearchVector(ctx, emb.Embedding, collectionID, topK)
	if err != nil {
		log.Warn("Vector strategy failed", zap.Error(err))
		metrics.RetrievalStrategyTotal.WithLabelValues("hyde", "error").Inc()
		return nil
	}

	kept := make([]string, 0, len(scored))
	for _, sp := range scored {
		if sp.Score() >= s.minCertainty {
			kept = append(kept, sp.Passage().Text())
		}
	}

	metrics.RetrievalStrategyTotal.WithLabelValues("hyde", "success").Inc()
	metrics.RetrievalPassages.WithLabelValues("hyde").Observe(float64(len(kept)))
	return kept
}

// runBM25 executes the plain lexical fallback, used only when the two
// primary strategies both came back empty.
func (s *Service) runBM25(ctx context.Context, topic, collectionID string, topK int) []string {
	log := logger.FromContext(ctx)

	scored, err := s.store.SearchText(ctx, topic, collectionID, topK)
	if err != nil {
		log.Warn("BM25 fallback failed", zap.Error(err))
		metrics.RetrievalStrategyTotal.WithLabelValues("bm25", "error").Inc()
		return nil
	}

	metrics.RetrievalStrategyTotal.WithLabelValues("bm25", "success").Inc()
	metrics.RetrievalPassages.WithLabelValues("bm25").Observe(float64(len(scored)))
	return domain.Texts(scored)
}

// rerank reorders texts by cross-encoder relevance and truncates to limit.
// A missing or failing reranker degrades to the first limit items in merge order.
func (s *Service) rerank(ctx context.Context, topic string, texts []string, limit int) []string {
	if len(texts) > limit && s.reranker == nil {
		return texts[:limit]
	}
	if s.reranker == nil {
		return texts
	}

	ranked, err := s.reranker.Rerank(ctx, topic, texts, limit)
	if err != nil {
		logger.FromContext(ctx).Warn("Rerank failed, keeping merge order", zap.Error(err))
		if len(texts) > limit {
			return texts[:limit]
		}
		return texts
	}

	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, texts[r.Index])
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
