package quiz

import (
	"context"

	"github.com/kailas-cloud/quizdex/internal/domain"
)

// Retriever supplies passages for a quiz variant.
type Retriever interface {
	Retrieve(ctx context.Context, topic, collectionID string, limit int) ([]string, error)
	AllContent(ctx context.Context, collectionID string, cap int) ([]domain.Passage, error)
}

// Generator produces raw model output for a prompt.
type Generator interface {
	Generate(ctx context.Context, system, user string, expectedCount int) (string, error)
}

// Classifier derives the collection's content source label.
type Classifier interface {
	Classify(ctx context.Context, collectionID string) domain.SourceLabel
}
