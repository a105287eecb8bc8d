// Package chi is the HTTP transport: request decoding, domain error
// mapping, and route registration.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/quizdex/internal/domain"
	healthuc "github.com/kailas-cloud/quizdex/internal/usecase/health"
	quizuc "github.com/kailas-cloud/quizdex/internal/usecase/quiz"
)

// ErrorResponseCode is a machine-readable error class for clients.
type ErrorResponseCode string

const (
	CodeBadRequest        ErrorResponseCode = "bad_request"
	CodeValidationFailed  ErrorResponseCode = "validation_failed"
	CodeNotFound          ErrorResponseCode = "not_found"
	CodeRateLimited       ErrorResponseCode = "rate_limited"
	CodeGenerationAuth    ErrorResponseCode = "generation_auth_failed"
	CodeGenerationOffline ErrorResponseCode = "generation_unreachable"
	CodeGenerationFailed  ErrorResponseCode = "generation_failed"
	CodeEmbeddingProvider ErrorResponseCode = "embedding_provider_error"
	CodeAllVariantsFailed ErrorResponseCode = "all_variants_failed"
	CodeInternalError     ErrorResponseCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// GenerateQuizRequest is the POST /v1/quizzes body.
type GenerateQuizRequest struct {
	Topic         string `json:"topic"`
	NumQuestions  int    `json:"num_questions"`
	Difficulty    string `json:"difficulty"`
	EmployeeLevel string `json:"employee_level"`
	NumVariants   int    `json:"num_variants"`
	CollectionID  string `json:"collection_id"`
	AllContent    bool   `json:"all_content"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// QuizGenerator runs the quiz pipeline.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, p quizuc.Params) (*domain.QuizResult, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	quiz          QuizGenerator
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(quiz QuizGenerator, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		quiz:   quiz,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrAuth, http.StatusBadGateway, CodeGenerationAuth),
		sentinelHandler(domain.ErrConnectivity, http.StatusBadGateway, CodeGenerationOffline),
		sentinelHandler(domain.ErrAllVariantsFailed, http.StatusBadGateway, CodeAllVariantsFailed),
		sentinelHandler(domain.ErrGenerationProvider, http.StatusBadGateway, CodeGenerationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProvider),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/quizzes", s.GenerateQuiz)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// GenerateQuiz handles POST /v1/quizzes.
func (s *Server) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	applyRequestDefaults(&req)

	if !req.AllContent && strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "topic is required unless all_content is set")
		return
	}
	if req.NumQuestions <= 0 || req.NumQuestions > 50 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "num_questions must be between 1 and 50")
		return
	}
	if req.NumVariants <= 0 || req.NumVariants > 10 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "num_variants must be between 1 and 10")
		return
	}

	result, err := s.quiz.GenerateQuiz(r.Context(), quizuc.Params{
		Topic:         req.Topic,
		Count:         req.NumQuestions,
		Difficulty:    req.Difficulty,
		EmployeeLevel: req.EmployeeLevel,
		NumVariants:   req.NumVariants,
		CollectionID:  req.CollectionID,
		AllContent:    req.AllContent,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func applyRequestDefaults(req *GenerateQuizRequest) {
	if req.NumQuestions == 0 {
		req.NumQuestions = 5
	}
	if req.NumVariants == 0 {
		req.NumVariants = 1
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	if req.EmployeeLevel == "" {
		req.EmployeeLevel = "mid"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrAuth,
		domain.ErrConnectivity,
		domain.ErrAllVariantsFailed,
		domain.ErrGenerationProvider,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
