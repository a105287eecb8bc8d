package quizdex

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	apiKey  string
	baseURL string

	embeddingModel string
	embeddingDims  int

	generationModel string
	offlineFallback bool

	rerankEndpoint string
	rerankAPIKey   string
	rerankModel    string

	minCertainty float64
	passageLimit int

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithOpenAI sets the model provider credentials. baseURL may be empty for
// the default OpenAI endpoint, or point at any OpenAI-compatible server.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
		c.baseURL = baseURL
	})
}

// WithEmbeddingModel overrides the embedding model and vector dimensions.
// Defaults: text-embedding-3-small, 1536.
func WithEmbeddingModel(model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingModel = model
		c.embeddingDims = dimensions
	})
}

// WithGenerationModel overrides the chat model used for quiz generation.
// Default: gpt-4o-mini.
func WithGenerationModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.generationModel = model
	})
}

// WithOfflineFallback enables built-in template quizzes when the model
// provider is unreachable.
func WithOfflineFallback() Option {
	return optionFunc(func(c *clientConfig) {
		c.offlineFallback = true
	})
}

// WithRerank enables the optional rerank stage against an external
// rerank service.
func WithRerank(endpoint, apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.rerankEndpoint = endpoint
		c.rerankAPIKey = apiKey
		c.rerankModel = model
	})
}

// WithMinCertainty overrides the certainty floor for vector retrieval.
// Default: 0.6.
func WithMinCertainty(certainty float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.minCertainty = certainty
	})
}

// WithPassageLimit overrides the per-variant retrieval limit. Default: 8.
func WithPassageLimit(limit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.passageLimit = limit
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
