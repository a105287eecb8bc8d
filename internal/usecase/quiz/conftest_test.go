package quiz

import (
	"context"
	"time"

	"github.com/kailas-cloud/quizdex/internal/domain"
)

type mockRetriever struct {
	retrieveFn   func(ctx context.Context, topic, collectionID string, limit int) ([]string, error)
	allContentFn func(ctx context.Context, collectionID string, cap int) ([]domain.Passage, error)

	retrieveCalls   []string
	allContentCalls int
}

func (m *mockRetriever) Retrieve(ctx context.Context, topic, collectionID string, limit int) ([]string, error) {
	m.retrieveCalls = append(m.retrieveCalls, topic)
	if m.retrieveFn == nil {
		return nil, nil
	}
	return m.retrieveFn(ctx, topic, collectionID, limit)
}

func (m *mockRetriever) AllContent(ctx context.Context, collectionID string, cap int) ([]domain.Passage, error) {
	m.allContentCalls++
	if m.allContentFn == nil {
		return nil, nil
	}
	return m.allContentFn(ctx, collectionID, cap)
}

type mockGenerator struct {
	generateFn func(ctx context.Context, system, user string, expectedCount int) (string, error)

	calls   int
	prompts []string
}

func (m *mockGenerator) Generate(ctx context.Context, system, user string, expectedCount int) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, user)
	return m.generateFn(ctx, system, user, expectedCount)
}

type mockClassifier struct {
	classifyFn func(ctx context.Context, collectionID string) domain.SourceLabel
}

func (m *mockClassifier) Classify(ctx context.Context, collectionID string) domain.SourceLabel {
	if m.classifyFn == nil {
		return domain.LabelGeneral
	}
	return m.classifyFn(ctx, collectionID)
}

// instantSleeper records requested delays without sleeping.
type instantSleeper struct {
	delays []time.Duration
}

func (s *instantSleeper) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func fixedJitter(d time.Duration) func(min, max time.Duration) time.Duration {
	return func(_, _ time.Duration) time.Duration { return d }
}

// goodResponse renders n valid questions as a model response.
func goodResponse(n int) string {
	out := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += `{"stem": "Q` + string(rune('0'+i)) + `?", "options": [{"text": "A"}, {"text": "B"}, {"text": "C"}, {"text": "D"}], "correct_index": 1, "explanation": "x", "source": "general"}`
	}
	return out + "]"
}

func passagesOf(texts ...string) []domain.Passage {
	out := make([]domain.Passage, 0, len(texts))
	for _, txt := range texts {
		out = append(out, domain.ReconstructPassage(txt, "col-1", "doc.pdf", 1700000000))
	}
	return out
}
