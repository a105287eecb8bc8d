package retrieval

import (
	"context"

	"github.com/kailas-cloud/quizdex/internal/domain"
)

// PassageStore defines the storage contract for retrieval.
type PassageStore interface {
	SearchHybrid(
		ctx context.Context, query string, vector []float32, collectionID string, topK int,
	) ([]domain.ScoredPassage, error)

	SearchVector(
		ctx context.Context, vector []float32, collectionID string, topK int,
	) ([]domain.ScoredPassage, error)

	SearchText(
		ctx context.Context, query, collectionID string, topK int,
	) ([]domain.ScoredPassage, error)

	ListByCollection(
		ctx context.Context, collectionID string, offset, limit int,
	) ([]domain.Passage, int, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Paraphraser produces a hypothetical answer document for a topic (HyDE).
// Optional: a nil Paraphraser means the normalized topic embeds directly.
type Paraphraser interface {
	Paraphrase(ctx context.Context, topic string) (string, error)
}
