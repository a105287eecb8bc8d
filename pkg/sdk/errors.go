package quizdex

import "github.com/kailas-cloud/quizdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrConnectivity           = domain.ErrConnectivity
	ErrAuth                   = domain.ErrAuth
	ErrRateLimited            = domain.ErrRateLimited
	ErrParse                  = domain.ErrParse
	ErrGenerationProvider     = domain.ErrGenerationProvider
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrAllVariantsFailed      = domain.ErrAllVariantsFailed
)
