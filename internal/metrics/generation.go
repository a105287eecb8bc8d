package metrics

import "github.com/prometheus/client_golang/prometheus"

// Quiz generation Prometheus metrics.
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizdex",
			Name:      "generation_requests_total",
			Help:      "Total number of generation API requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quizdex",
			Name:      "generation_request_duration_seconds",
			Help:      "Generation API request duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"provider", "model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizdex",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	GenerationRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizdex",
			Name:      "generation_retries_total",
			Help:      "Total generation attempts beyond the first",
		},
		[]string{"reason"},
	)

	RepairOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizdex",
			Name:      "repair_outcomes_total",
			Help:      "JSON repair outcomes by stage that produced a parse",
		},
		[]string{"stage"}, // "direct" / "fenced" / "isolated" / "completed" / "fragment" / "failed"
	)

	QuizVariantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizdex",
			Name:      "quiz_variants_total",
			Help:      "Quiz variant outcomes",
		},
		[]string{"status"}, // "ok" / "failed" / "offline"
	)
)

var genMetricsRegistered bool

// RegisterGenerationMetrics registers Prometheus generation metrics. Must be called once from main.
func RegisterGenerationMetrics() {
	if genMetricsRegistered {
		return
	}
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(GenerationRetriesTotal)
	prometheus.MustRegister(RepairOutcomesTotal)
	prometheus.MustRegister(QuizVariantsTotal)
	genMetricsRegistered = true
}
