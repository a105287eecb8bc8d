package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	RetrievalStrategyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizdex",
			Name:      "retrieval_strategy_total",
			Help:      "Retrieval strategy executions",
		},
		[]string{"strategy", "status"}, // strategy: "hybrid" / "hyde" / "bm25"
	)

	RetrievalPassages = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quizdex",
			Name:      "retrieval_passages",
			Help:      "Deduplicated passage count per retrieval",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"strategy"},
	)

	RerankRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quizdex",
			Name:      "rerank_requests_total",
			Help:      "Rerank service requests",
		},
		[]string{"status"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalStrategyTotal)
	prometheus.MustRegister(RetrievalPassages)
	prometheus.MustRegister(RerankRequestsTotal)
	retrievalMetricsRegistered = true
}
