package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrConnectivity signals that the generation API host is unreachable.
	ErrConnectivity = errors.New("generation API unreachable")
	// ErrAuth signals rejected or missing credentials.
	ErrAuth = errors.New("invalid credentials")
	// ErrRateLimited signals a rate limit hit on the generation API.
	ErrRateLimited = errors.New("rate limited")
	// ErrParse signals that no valid questions survived response repair.
	ErrParse = errors.New("no valid questions in model output")
	// ErrGenerationProvider signals a generation provider failure.
	ErrGenerationProvider = errors.New("generation provider error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrAllVariantsFailed signals that every requested variant failed.
	ErrAllVariantsFailed = errors.New("all quiz variants failed")
)

// VariantError captures a per-variant failure inside a partial result.
type VariantError struct {
	VariantID int
	Err       error
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("variant %d: %s", e.VariantID, e.Err)
}

func (e *VariantError) Unwrap() error { return e.Err }

// NewVariantError wraps a variant failure with its variant id.
func NewVariantError(variantID int, err error) error {
	return &VariantError{VariantID: variantID, Err: err}
}
