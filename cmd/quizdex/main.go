package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/quizdex/internal/config"
	dbRedis "github.com/kailas-cloud/quizdex/internal/db/redis"
	"github.com/kailas-cloud/quizdex/internal/domain"
	logpkg "github.com/kailas-cloud/quizdex/internal/logger"
	"github.com/kailas-cloud/quizdex/internal/metrics"
	"github.com/kailas-cloud/quizdex/internal/repository/embcache"
	passagerepo "github.com/kailas-cloud/quizdex/internal/repository/passage"
	chiTransport "github.com/kailas-cloud/quizdex/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/quizdex/internal/transport/openai"
	rerankTransport "github.com/kailas-cloud/quizdex/internal/transport/rerank"
	classifyuc "github.com/kailas-cloud/quizdex/internal/usecase/classify"
	generationuc "github.com/kailas-cloud/quizdex/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/quizdex/internal/usecase/health"
	quizuc "github.com/kailas-cloud/quizdex/internal/usecase/quiz"
	retrievaluc "github.com/kailas-cloud/quizdex/internal/usecase/retrieval"
	"github.com/kailas-cloud/quizdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting quizdex API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterGenerationMetrics()
	metrics.RegisterRetrievalMetrics()

	// Embedder chain: OpenAI -> Cached
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	embedder := embcache.New(
		baseEmbedder, store, cfg.Embedding.Model,
		time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Passage repository over the search index
	passages := passagerepo.New(store)
	if err := passages.EnsureIndex(ctx, cfg.Embedding.Dimensions); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	// Generation client with preflight and rate-limit retry
	completer := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:   cfg.Generation.APIKey,
		BaseURL:  cfg.Generation.BaseURL,
		Model:    cfg.Generation.Model,
		Provider: "openai",
		Logger:   logger,
	})
	generator := generationuc.New(completer, cfg.Generation.BaseURL, cfg.Generation.APIKey != "")

	// Optional reranker. Keep the interface nil when disabled; a typed nil
	// pointer wrapped in the interface would dodge the nil checks downstream.
	var reranker domain.Reranker
	if cfg.Rerank.Enabled {
		reranker = rerankTransport.New(&rerankTransport.Config{
			Endpoint: cfg.Rerank.Endpoint,
			APIKey:   cfg.Rerank.APIKey,
			Model:    cfg.Rerank.Model,
			Timeout:  time.Duration(cfg.Rerank.TimeoutSec) * time.Second,
			Logger:   logger,
		})
		logger.Info("Reranker enabled", zap.String("endpoint", cfg.Rerank.Endpoint))
	}

	// Use case services
	retrievalSvc := retrievaluc.New(passages, embedder, generator, reranker).
		WithMinCertainty(cfg.Retrieval.MinCertainty)
	classifySvc := classifyuc.New(passages)
	quizSvc := quizuc.New(retrievalSvc, generator, classifySvc).
		WithOfflineFallback(cfg.Generation.OfflineFallback).
		WithPassageLimit(cfg.Retrieval.PassageLimit)

	healthSvc := healthuc.New(store, baseEmbedder, generator)

	// HTTP server
	server := chiTransport.NewServer(quizSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
