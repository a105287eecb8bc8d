// Package passage implements passage retrieval over the Redis FT index:
// vector KNN, BM25 keyword search, and hybrid fusion of the two.
package passage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/kailas-cloud/quizdex/internal/db"
	"github.com/kailas-cloud/quizdex/internal/domain"
)

// store is the consumer interface for passage retrieval (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/retrieval.PassageStore.
type Repo struct {
	store store
}

// New creates a passage repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the passage FT index if it does not exist yet.
// vectorDim must match the embedding model's dimensionality.
func (r *Repo) EnsureIndex(ctx context.Context, vectorDim int) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", indexName, err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, indexDefinition(vectorDim)); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	return nil
}

// SearchVector performs a KNN similarity search. Scores are cosine
// similarity in [0,1].
func (r *Repo) SearchVector(
	ctx context.Context, vector []float32, collectionID string, topK int,
) ([]domain.ScoredPassage, error) {
	q := &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vector,
		CollectionID: collectionID,
		K:            topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return hydrateEntries(sr), nil
}

// SearchText performs a BM25 keyword search over passage content.
func (r *Repo) SearchText(
	ctx context.Context, query, collectionID string, topK int,
) ([]domain.ScoredPassage, error) {
	q := &db.TextQuery{
		IndexName:    indexName,
		Query:        query,
		CollectionID: collectionID,
		TopK:         topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}

	return hydrateEntries(sr), nil
}

// SearchHybrid runs KNN and BM25 in sequence and fuses the rankings with
// Reciprocal Rank Fusion. A failure of one leg degrades to the other leg's
// results alone; only both legs failing is an error.
func (r *Repo) SearchHybrid(
	ctx context.Context, query string, vector []float32, collectionID string, topK int,
) ([]domain.ScoredPassage, error) {
	knn, knnErr := r.SearchVector(ctx, vector, collectionID, topK)
	bm25, bm25Err := r.SearchText(ctx, query, collectionID, topK)

	if knnErr != nil && bm25Err != nil {
		return nil, fmt.Errorf("hybrid search: %w", errors.Join(knnErr, bm25Err))
	}

	return fuseRRF(knn, bm25, topK), nil
}

// ListByCollection returns an unranked page of a collection's passages
// along with the collection's total passage count.
func (r *Repo) ListByCollection(
	ctx context.Context, collectionID string, offset, limit int,
) ([]domain.Passage, int, error) {
	q := &db.ListQuery{
		IndexName:    indexName,
		CollectionID: collectionID,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchList(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list collection %s: %w", collectionID, err)
	}

	passages := make([]domain.Passage, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		passages = append(passages, hydratePassage(entry))
	}
	return passages, sr.Total, nil
}

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges KNN and BM25 rankings via Reciprocal Rank Fusion.
// score(p) = sum of 1/(k + rank_i(p)) for each ranking where p appears,
// keyed by passage text so duplicate chunks collapse.
func fuseRRF(knn, bm25 []domain.ScoredPassage, topK int) []domain.ScoredPassage {
	merged := make(map[string]domain.ScoredPassage)
	order := make([]string, 0, len(knn)+len(bm25))

	for rank, sp := range knn {
		key := sp.Passage().Hash()
		merged[key] = sp.WithScore(1.0 / float64(rrfK+rank+1))
		order = append(order, key)
	}

	for rank, sp := range bm25 {
		key := sp.Passage().Hash()
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[key]; ok {
			merged[key] = existing.WithScore(existing.Score() + s)
		} else {
			merged[key] = sp.WithScore(s)
			order = append(order, key)
		}
	}

	results := make([]domain.ScoredPassage, 0, len(merged))
	for _, key := range order {
		results = append(results, merged[key])
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// hydrateEntries converts search hits into scored domain passages.
func hydrateEntries(sr *db.SearchResult) []domain.ScoredPassage {
	if sr == nil || sr.Total == 0 {
		return nil
	}
	out := make([]domain.ScoredPassage, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		out = append(out, domain.NewScoredPassage(hydratePassage(entry), entry.Score))
	}
	return out
}

// hydratePassage rebuilds a domain passage from flat hash fields.
func hydratePassage(entry db.SearchEntry) domain.Passage {
	var uploadedAt int64
	if v, ok := entry.Fields["uploaded_at"]; ok {
		uploadedAt, _ = strconv.ParseInt(v, 10, 64)
	}
	return domain.ReconstructPassage(
		entry.Fields["__content"],
		entry.Fields["collection_id"],
		entry.Fields["filename"],
		uploadedAt,
	)
}
