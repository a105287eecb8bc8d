// Package generation wraps the completion transport with preflight checks,
// a bounded retry policy, per-attempt temperature nudging, and a token
// budget derived from the requested question count.
package generation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/quizdex/internal/domain"
	"github.com/kailas-cloud/quizdex/internal/logger"
	"github.com/kailas-cloud/quizdex/internal/metrics"
	"github.com/kailas-cloud/quizdex/internal/retry"
)

const (
	maxAttempts    = 5
	baseDelay      = 1 * time.Second
	callTimeout    = 60 * time.Second
	baseTemp       = 0.4
	tempStep       = 0.1
	maxTemp        = 1.0
	tokensPerItem  = 300
	tokenOverhead  = 500
	minTokenBudget = 2048
	maxTokenBudget = 8192

	paraphraseTokens = 256
	paraphraseTemp   = 0.3
)

// Client is a resilient generation client.
type Client struct {
	completer Completer
	resolver  HostResolver
	policy    *retry.Policy
	apiHost   string
	keySet    bool
}

// New creates a generation client. baseURL locates the API for the DNS
// preflight; keySet reports whether an API key is configured.
func New(completer Completer, baseURL string, keySet bool) *Client {
	policy := retry.NewPolicy(maxAttempts, baseDelay, func(err error) bool {
		retryable := errors.Is(err, domain.ErrRateLimited)
		if retryable {
			metrics.GenerationRetriesTotal.WithLabelValues("rate_limited").Inc()
		}
		return retryable
	})

	return &Client{
		completer: completer,
		resolver:  net.DefaultResolver,
		policy:    policy,
		apiHost:   hostOf(baseURL),
		keySet:    keySet,
	}
}

// WithResolver overrides the DNS resolver (tests).
func (c *Client) WithResolver(r HostResolver) *Client {
	c.resolver = r
	return c
}

// WithRetryPolicy overrides the retry policy (tests).
func (c *Client) WithRetryPolicy(p *retry.Policy) *Client {
	c.policy = p
	return c
}

// Generate produces the raw model output for a quiz prompt. It fails fast
// on preflight problems and retries only rate limiting; each retry nudges
// the temperature up to diversify the sample.
func (c *Client) Generate(ctx context.Context, system, user string, expectedCount int) (string, error) {
	if err := c.Preflight(ctx); err != nil {
		return "", err
	}

	budget := tokenBudget(expectedCount)
	log := logger.FromContext(ctx)

	var raw string
	err := c.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		temp := temperature(attempt)
		if attempt > 0 {
			log.Info("Retrying generation",
				zap.Int("attempt", attempt+1),
				zap.Float64("temperature", temp),
			)
		}

		out, err := c.completer.Complete(callCtx, system, user, budget, temp)
		if err != nil {
			return err
		}
		raw = out
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return raw, nil
}

// Paraphrase produces a short hypothetical answer document for a topic
// (HyDE). Single attempt: retrieval absorbs its failure.
func (c *Client) Paraphrase(ctx context.Context, topic string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	system := "You write a single short encyclopedic paragraph that would answer a study question. No preamble, no lists."
	user := fmt.Sprintf("Write the ideal reference paragraph about: %s", topic)

	out, err := c.completer.Complete(callCtx, system, user, paraphraseTokens, paraphraseTemp)
	if err != nil {
		return "", fmt.Errorf("paraphrase: %w", err)
	}
	return out, nil
}

// Preflight fails fast when the API is structurally unreachable: missing
// key or unresolvable host. No retry makes sense for either.
func (c *Client) Preflight(ctx context.Context) error {
	if !c.keySet {
		return fmt.Errorf("generation API key not configured: %w", domain.ErrAuth)
	}
	if c.apiHost == "" {
		return fmt.Errorf("generation API host not configured: %w", domain.ErrConnectivity)
	}
	if _, err := c.resolver.LookupHost(ctx, c.apiHost); err != nil {
		return fmt.Errorf("resolve %s: %v: %w", c.apiHost, err, domain.ErrConnectivity)
	}
	return nil
}

// tokenBudget scales with the requested question count, clamped to a
// model-safe range.
func tokenBudget(expectedCount int) int {
	budget := tokensPerItem*expectedCount + tokenOverhead
	if budget < minTokenBudget {
		return minTokenBudget
	}
	if budget > maxTokenBudget {
		return maxTokenBudget
	}
	return budget
}

// temperature nudges sampling upward with each attempt, bounded.
func temperature(attempt int) float64 {
	t := baseTemp + tempStep*(float64(attempt)/float64(maxAttempts))
	if t > maxTemp {
		return maxTemp
	}
	return t
}

// hostOf extracts the hostname from a base URL, tolerating bare hosts.
func hostOf(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	u, err := url.Parse(baseURL)
	if err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return baseURL
}
