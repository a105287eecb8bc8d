package quizdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/quizdex/internal/db/redis"
	"github.com/kailas-cloud/quizdex/internal/domain"
	"github.com/kailas-cloud/quizdex/internal/metrics"
	"github.com/kailas-cloud/quizdex/internal/repository/embcache"
	passagerepo "github.com/kailas-cloud/quizdex/internal/repository/passage"
	openaiTransport "github.com/kailas-cloud/quizdex/internal/transport/openai"
	rerankTransport "github.com/kailas-cloud/quizdex/internal/transport/rerank"
	classifyuc "github.com/kailas-cloud/quizdex/internal/usecase/classify"
	generationuc "github.com/kailas-cloud/quizdex/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/quizdex/internal/usecase/health"
	quizuc "github.com/kailas-cloud/quizdex/internal/usecase/quiz"
	retrievaluc "github.com/kailas-cloud/quizdex/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the wired services.
type quizUseCase interface {
	GenerateQuiz(ctx context.Context, p quizuc.Params) (*domain.QuizResult, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the quizdex SDK entry point.
type Client struct {
	store     *dbRedis.Store
	quizSvc   quizUseCase
	healthSvc healthUseCase
}

// New creates a quizdex Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		embeddingModel:  "text-embedding-3-small",
		embeddingDims:   1536,
		generationModel: "gpt-4o-mini",
		minCertainty:    0.6,
		logger:          zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("quizdex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("quizdex: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("quizdex: database not ready: %w", err)
	}

	return wireClient(ctx, store, cfg)
}

func wireClient(ctx context.Context, store *dbRedis.Store, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger

	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.apiKey,
		BaseURL:    cfg.baseURL,
		Model:      cfg.embeddingModel,
		Dimensions: cfg.embeddingDims,
		Provider:   "openai",
		Logger:     logger,
	})
	embedder := embcache.New(
		baseEmbedder, store, cfg.embeddingModel, 0,
		metrics.EmbeddingCacheTotal, logger,
	)

	passages := passagerepo.New(store)
	if err := passages.EnsureIndex(ctx, cfg.embeddingDims); err != nil {
		store.Close()
		return nil, fmt.Errorf("quizdex: ensure search index: %w", err)
	}

	completer := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:   cfg.apiKey,
		BaseURL:  cfg.baseURL,
		Model:    cfg.generationModel,
		Provider: "openai",
		Logger:   logger,
	})
	generator := generationuc.New(completer, cfg.baseURL, cfg.apiKey != "")

	var reranker domain.Reranker
	if cfg.rerankEndpoint != "" {
		reranker = rerankTransport.New(&rerankTransport.Config{
			Endpoint: cfg.rerankEndpoint,
			APIKey:   cfg.rerankAPIKey,
			Model:    cfg.rerankModel,
			Logger:   logger,
		})
	}

	retrievalSvc := retrievaluc.New(passages, embedder, generator, reranker).
		WithMinCertainty(cfg.minCertainty)
	quizSvc := quizuc.New(retrievalSvc, generator, classifyuc.New(passages)).
		WithOfflineFallback(cfg.offlineFallback).
		WithPassageLimit(cfg.passageLimit)

	return &Client{
		store:     store,
		quizSvc:   quizSvc,
		healthSvc: healthuc.New(store, baseEmbedder, generator),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// GenerateQuiz runs the full quiz pipeline and returns the generated
// variants. A partially failed quiz (some variants errored) is still a
// success; only all variants failing returns an error.
func (c *Client) GenerateQuiz(ctx context.Context, req QuizRequest) (Quiz, error) {
	req.applyDefaults()

	result, err := c.quizSvc.GenerateQuiz(ctx, quizuc.Params{
		Topic:         req.Topic,
		Count:         req.NumQuestions,
		Difficulty:    req.Difficulty,
		EmployeeLevel: req.EmployeeLevel,
		NumVariants:   req.NumVariants,
		CollectionID:  req.CollectionID,
		AllContent:    req.AllContent,
	})
	if err != nil {
		return Quiz{}, fmt.Errorf("generate quiz: %w", err)
	}
	return quizFromDomain(result), nil
}
