// Package rerank calls an external cross-encoder rerank service over HTTP
// (Jina/Cohere-compatible request shape).
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/quizdex/internal/domain"
	"github.com/kailas-cloud/quizdex/internal/metrics"
)

// Client is an HTTP client for the rerank service.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	logger     *zap.Logger
}

// Config holds rerank service settings.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// New creates a rerank client.
func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logger:     cfg.Logger,
	}
}

type rerankRequest struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

// Rerank reorders documents by cross-encoder relevance to the query and
// returns at most topN indices into the input slice, best first, with
// their scores.
func (c *Client) Rerank(
	ctx context.Context, query string, documents []string, topN int,
) ([]domain.RankedIndex, error) {
	if len(documents) == 0 {
		return nil, nil
	}
	if topN <= 0 || topN > len(documents) {
		topN = len(documents)
	}

	body, err := json.Marshal(rerankRequest{
		Model:     c.model,
		Query:     query,
		Documents: documents,
		TopN:      topN,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RerankRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rerank request: %v: %w", err, domain.ErrConnectivity)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RerankRequestsTotal.WithLabelValues("error").Inc()
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rerank service returned %d: %s", resp.StatusCode, payload)
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.RerankRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}

	metrics.RerankRequestsTotal.WithLabelValues("success").Inc()

	ranked := make([]domain.RankedIndex, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Index < 0 || r.Index >= len(documents) {
			c.logger.Warn("Rerank returned out-of-range index", zap.Int("index", r.Index))
			continue
		}
		ranked = append(ranked, domain.RankedIndex{Index: r.Index, Score: r.RelevanceScore})
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}
