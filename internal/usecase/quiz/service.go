// Package quiz orchestrates quiz-variant generation: per-variant retrieval,
// content-aware prompting, resilient generation, response repair, and
// deterministic answer shuffling.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/quizdex/internal/domain"
	"github.com/kailas-cloud/quizdex/internal/logger"
	"github.com/kailas-cloud/quizdex/internal/metrics"
)

const (
	// defaultPassageLimit caps topic retrieval per variant.
	defaultPassageLimit = 8
	// allContentCap caps the whole-collection pull in all-content mode.
	allContentCap = 50
	// sparseContentMin is the passage count under which all-content mode
	// falls back to the user's topic hint.
	sparseContentMin = 3
	// topicPreviewPassages is how many passages feed content-topic detection.
	topicPreviewPassages = 5
	// thinContentChars is the joined-length threshold that triggers the
	// fallback topic expansion.
	thinContentChars = 100
	// parseRetries bounds generate+repair rounds per variant.
	parseRetries = 3

	interVariantBase      = 2 * time.Second
	interVariantJitterMin = 500 * time.Millisecond
	interVariantJitterMax = 1500 * time.Millisecond

	allContentTopic = "All Indexed Content"
	generalTopic    = "General Knowledge"
)

// Params describes one quiz-generation request.
type Params struct {
	Topic         string
	Count         int
	Difficulty    string
	EmployeeLevel string
	NumVariants   int
	CollectionID  string
	// AllContent ignores the topic for retrieval and quizzes the whole
	// collection; Topic then serves only as a hint.
	AllContent bool
}

// Service is the variant orchestrator.
type Service struct {
	retriever  Retriever
	generator  Generator
	classifier Classifier

	passageLimit    int
	offlineFallback bool
	sleep           func(ctx context.Context, d time.Duration) error
	jitter          func(min, max time.Duration) time.Duration
}

// New creates the orchestrator.
func New(retriever Retriever, generator Generator, classifier Classifier) *Service {
	return &Service{
		retriever:    retriever,
		generator:    generator,
		classifier:   classifier,
		passageLimit: defaultPassageLimit,
		sleep:        sleepCtx,
		jitter:       uniformJitter,
	}
}

// WithOfflineFallback enables template quizzes when the generation API is
// unreachable.
func (s *Service) WithOfflineFallback(enabled bool) *Service {
	s.offlineFallback = enabled
	return s
}

// WithPassageLimit overrides the per-variant retrieval limit.
func (s *Service) WithPassageLimit(limit int) *Service {
	if limit > 0 {
		s.passageLimit = limit
	}
	return s
}

// WithSleeper overrides the inter-variant sleep (tests).
func (s *Service) WithSleeper(sleep func(ctx context.Context, d time.Duration) error) *Service {
	s.sleep = sleep
	return s
}

// WithJitter overrides the inter-variant jitter source (tests).
func (s *Service) WithJitter(jitter func(min, max time.Duration) time.Duration) *Service {
	s.jitter = jitter
	return s
}

// GenerateQuiz produces NumVariants independent quiz variants. Variants run
// sequentially with an inter-variant delay; a failing variant is captured in
// the result instead of aborting the request. Only all variants failing is
// an error.
func (s *Service) GenerateQuiz(ctx context.Context, p Params) (*domain.QuizResult, error) {
	if err := validateParams(&p); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	topic := p.Topic
	if p.AllContent {
		topic = allContentTopic
	}

	result := &domain.QuizResult{
		ID:            uuid.New().String(),
		Topic:         topic,
		NumQuestions:  p.Count,
		Difficulty:    p.Difficulty,
		EmployeeLevel: p.EmployeeLevel,
		Variants:      make([]domain.QuizVariant, 0, p.NumVariants),
	}

	failures := 0
	for variantID := 1; variantID <= p.NumVariants; variantID++ {
		if variantID > 1 {
			delay := interVariantBase + s.jitter(interVariantJitterMin, interVariantJitterMax)
			log.Info("Inter-variant delay", zap.Int("variant_id", variantID), zap.Duration("delay", delay))
			if err := s.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		questions, err := s.generateVariant(ctx, p, variantID)
		if err != nil {
			failures++
			metrics.QuizVariantsTotal.WithLabelValues("failed").Inc()
			log.Error("Variant generation failed",
				zap.Int("variant_id", variantID), zap.Error(err))
			result.Variants = append(result.Variants, domain.QuizVariant{
				VariantID: variantID,
				Error:     domain.NewVariantError(variantID, err).Error(),
			})
			continue
		}

		if variantID > 1 {
			questions = shuffleVariant(questions, variantID)
		}
		metrics.QuizVariantsTotal.WithLabelValues("ok").Inc()
		result.Variants = append(result.Variants, domain.QuizVariant{
			VariantID: variantID,
			Questions: questions,
		})
	}

	if failures == p.NumVariants {
		return nil, fmt.Errorf("%d variants: %w", p.NumVariants, domain.ErrAllVariantsFailed)
	}
	return result, nil
}

// generateVariant runs the full pipeline for one variant.
func (s *Service) generateVariant(ctx context.Context, p Params, variantID int) ([]domain.Question, error) {
	if p.AllContent {
		return s.generateFromAllContent(ctx, p, variantID)
	}
	return s.generateFromTopic(ctx, p.Topic, p.CollectionID, p, variantID)
}

// generateFromTopic retrieves topic passages, gates them on relevance,
// widens thin results, then prompts and repairs.
func (s *Service) generateFromTopic(
	ctx context.Context, topic, collectionID string, p Params, variantID int,
) ([]domain.Question, error) {
	log := logger.FromContext(ctx)

	passages, err := s.retriever.Retrieve(ctx, topic, collectionID, s.passageLimit)
	if err != nil {
		log.Warn("Retrieval failed, proceeding with general knowledge", zap.Error(err))
		passages = nil
	}

	label := domain.LabelGeneral
	if len(passages) > 0 {
		if dec := domain.DecideRelevance(topic, passages, domain.RelevanceThreshold); !dec.IsRelevant {
			log.Info("Topic not relevant to collection content, using general knowledge",
				zap.String("topic", topic), zap.Float64("relevance", dec.Score),
				zap.Int("variant_id", variantID))
			passages = nil
		} else {
			passages = s.widenThinContent(ctx, topic, collectionID, passages)
			label = s.classifier.Classify(ctx, collectionID)
		}
	}

	contentLen := joinedLength(passages)
	diversify := contentLen > 0 && p.NumVariants > 1
	ratio := domain.RatioForContent(contentLen, variantID, diversify)

	prompt := buildTopicPrompt(promptParams{
		Topic:      topic,
		Count:      p.Count,
		Difficulty: p.Difficulty,
		Level:      p.EmployeeLevel,
		Passages:   passages,
		Ratio:      ratio,
		Label:      label,
		VariantID:  variantID,
		Diversify:  diversify,
	})

	return s.generateAndRepair(ctx, topic, prompt, p.Count)
}

// generateFromAllContent quizzes the whole collection, using the topic only
// as a hint for labeling and fallback.
func (s *Service) generateFromAllContent(ctx context.Context, p Params, variantID int) ([]domain.Question, error) {
	log := logger.FromContext(ctx)

	hint := strings.TrimSpace(p.Topic)

	passages, err := s.retriever.AllContent(ctx, p.CollectionID, allContentCap)
	if err != nil {
		log.Warn("All-content listing failed", zap.Error(err))
		passages = nil
	}

	// Empty or too-sparse collections fall back to a topic quiz on the
	// user's hint, in pure general-knowledge mode.
	if len(passages) == 0 {
		fallback := hint
		if fallback == "" {
			fallback = generalTopic
		}
		log.Info("No collection content, falling back to topic quiz", zap.String("topic", fallback))
		return s.generateFromTopic(ctx, fallback, "", p, variantID)
	}
	if len(passages) < sparseContentMin && hint != "" && !strings.EqualFold(hint, allContentTopic) {
		log.Info("Sparse collection content, falling back to topic hint", zap.String("topic", hint))
		return s.generateFromTopic(ctx, hint, "", p, variantID)
	}

	texts := make([]string, 0, len(passages))
	for _, psg := range passages {
		texts = append(texts, psg.Text())
	}

	label := s.classifier.Classify(ctx, p.CollectionID)

	detected := domain.DetectContentTopics(joinPreview(texts))
	log.Info("All-content analysis",
		zap.Int("passages", len(texts)),
		zap.Strings("detected_topics", detected))

	// Decide between content-dominant and hybrid prompts based on how well
	// the hint matches what the collection actually holds. The content-focused
	// path adopts the strongest detected category as its effective topic.
	relevance := 1.0
	ratio := domain.ContentFocusedRatio()
	effectiveTopic := detected[0]
	if hint != "" && !strings.EqualFold(hint, generalTopic) && !strings.EqualFold(hint, allContentTopic) {
		sample := texts
		if len(sample) > 10 {
			sample = sample[:10]
		}
		dec := domain.DecideRelevance(hint, sample, domain.RelevanceThreshold)
		relevance = dec.Score
		if !dec.IsRelevant {
			ratio = domain.HybridRatio()
			effectiveTopic = hint
			log.Info("Topic hint diverges from content, using hybrid split",
				zap.String("hint", hint), zap.Float64("relevance", relevance))
		}
	}

	prompt := buildAllContentPrompt(promptParams{
		Count:          p.Count,
		Difficulty:     p.Difficulty,
		Level:          p.EmployeeLevel,
		Passages:       texts,
		Ratio:          ratio,
		Label:          label,
		VariantID:      variantID,
		TopicHint:      hint,
		DetectedTopics: detected,
		RelevanceScore: relevance,
	})

	return s.generateAndRepair(ctx, effectiveTopic, prompt, p.Count)
}

// widenThinContent merges passages from broadened topic phrasings when the
// initial result is relevant but too thin to prompt from.
func (s *Service) widenThinContent(ctx context.Context, topic, collectionID string, passages []string) []string {
	if joinedLength(passages) >= thinContentChars {
		return passages
	}
	log := logger.FromContext(ctx)

	var merged []string
	for _, expanded := range domain.ExpandTopic(topic) {
		more, err := s.retriever.Retrieve(ctx, expanded, collectionID, s.passageLimit)
		if err != nil || len(more) == 0 {
			continue
		}
		if domain.ScoreRelevance(topic, more) >= domain.RelevanceThreshold {
			merged = append(merged, more...)
		}
	}
	merged = domain.DedupTexts(merged)

	if joinedLength(merged) > thinContentChars {
		log.Info("Expanded thin topic content",
			zap.String("topic", topic), zap.Int("passages", len(merged)))
		return merged
	}
	return passages
}

// generateAndRepair calls the model and repairs its output, re-generating
// when a round yields nothing parsable. Connectivity failures divert to the
// offline templates when enabled.
func (s *Service) generateAndRepair(ctx context.Context, topic, prompt string, count int) ([]domain.Question, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 0; attempt < parseRetries; attempt++ {
		raw, err := s.generator.Generate(ctx, systemPrompt, prompt, count)
		if err != nil {
			if errors.Is(err, domain.ErrConnectivity) && s.offlineFallback {
				log.Warn("Generation API unreachable, using offline templates", zap.Error(err))
				metrics.QuizVariantsTotal.WithLabelValues("offline").Inc()
				return offlineQuestions(topic, count), nil
			}
			return nil, err
		}

		questions, err := repairResponse(raw, count, log)
		if err == nil {
			return questions, nil
		}
		lastErr = err
		log.Warn("Model output unrepairable, regenerating",
			zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return nil, fmt.Errorf("after %d generation rounds: %w", parseRetries, lastErr)
}

func validateParams(p *Params) error {
	if p.Count <= 0 {
		return fmt.Errorf("question count must be positive")
	}
	if p.NumVariants <= 0 {
		p.NumVariants = 1
	}
	if !p.AllContent && strings.TrimSpace(p.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	return nil
}

// joinPreview joins the leading passages into the preview fed to content-topic
// detection.
func joinPreview(texts []string) string {
	if len(texts) > topicPreviewPassages {
		texts = texts[:topicPreviewPassages]
	}
	return strings.Join(texts, "\n")
}

func joinedLength(passages []string) int {
	n := 0
	for _, p := range passages {
		n += len(p)
	}
	if len(passages) > 1 {
		n += 2 * (len(passages) - 1)
	}
	return n
}

func uniformJitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
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
