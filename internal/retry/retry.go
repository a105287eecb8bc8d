// Package retry provides a reusable retry policy with exponential backoff
// and jitter, shared by outbound API clients.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Policy describes how an operation is retried. The zero value is not
// usable; construct with NewPolicy.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// JitterMin/JitterMax bound the uniform jitter added to each backoff
	// delay to avoid thundering herds.
	JitterMin time.Duration
	JitterMax time.Duration
	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries everything.
	Retryable func(error) bool

	sleep func(ctx context.Context, d time.Duration) error
	rng   *rand.Rand
}

// NewPolicy creates a Policy with the given attempt budget and base delay.
func NewPolicy(maxAttempts int, baseDelay time.Duration, retryable func(error) bool) *Policy {
	return &Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		JitterMin:   100 * time.Millisecond,
		JitterMax:   900 * time.Millisecond,
		Retryable:   retryable,
		sleep:       sleepCtx,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithSleeper overrides the sleep function (tests).
func (p *Policy) WithSleeper(sleep func(ctx context.Context, d time.Duration) error) *Policy {
	p.sleep = sleep
	return p
}

// Delay computes the backoff before attempt (0-based): BaseDelay×2^attempt
// plus uniform jitter.
func (p *Policy) Delay(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if p.JitterMax > p.JitterMin {
		d += p.JitterMin + time.Duration(p.rng.Int63n(int64(p.JitterMax-p.JitterMin)))
	}
	return d
}

// Do runs fn up to MaxAttempts times. Retryable errors trigger a backoff
// sleep and another attempt; non-retryable errors and context cancellation
// return immediately. The attempt number (0-based) is passed to fn so
// callers can vary per-attempt parameters.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts-1 {
			break
		}

		if err := p.sleep(ctx, p.Delay(attempt)); err != nil {
			return err
		}
	}
	return fmt.Errorf("after %d attempts: %w", p.MaxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
