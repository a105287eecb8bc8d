// Package classify derives a collection-level content source label from
// passage provenance.
package classify

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/quizdex/internal/domain"
	"github.com/kailas-cloud/quizdex/internal/logger"
)

// listCap bounds how many passages are sampled for classification.
const listCap = 200

// PassageLister reads a collection's passages for classification.
type PassageLister interface {
	ListByCollection(
		ctx context.Context, collectionID string, offset, limit int,
	) ([]domain.Passage, int, error)
}

// Service classifies a collection's dominant content source.
type Service struct {
	lister PassageLister
}

// New creates a classifier.
func New(lister PassageLister) *Service {
	return &Service{lister: lister}
}

// Classify returns the collection's source label. An empty collection id or
// collection is general. A listing failure degrades to pdf, the historical
// default for uploaded content.
func (s *Service) Classify(ctx context.Context, collectionID string) domain.SourceLabel {
	if collectionID == "" {
		return domain.LabelGeneral
	}

	passages, _, err := s.lister.ListByCollection(ctx, collectionID, 0, listCap)
	if err != nil {
		logger.FromContext(ctx).Warn("Content classification failed, assuming pdf",
			zap.String("collection_id", collectionID), zap.Error(err))
		return domain.LabelPDF
	}

	labels := make([]domain.SourceLabel, 0, len(passages))
	for _, p := range passages {
		labels = append(labels, domain.DetectLabel(p.Filename()))
	}
	return domain.AggregateLabels(labels)
}
