package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	analysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docanalyzer",
			Name:      "analysis_total",
			Help:      "Total analyses by outcome.",
		},
		[]string{"outcome"},
	)
	analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docanalyzer",
			Name:      "analysis_duration_seconds",
			Help:      "Analysis duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docanalyzer",
			Name:      "uploads_total",
			Help:      "Total document uploads by outcome.",
		},
		[]string{"outcome"},
	)
	llmAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docanalyzer",
			Name:      "llm_attempts_total",
			Help:      "Total model invocation attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	registry.MustRegister(analysisTotal, analysisDuration, uploadsTotal, llmAttemptsTotal)
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisTotal.WithLabelValues("started").Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisTotal.WithLabelValues("completed").Inc()
}

// IncAnalysisFailed increments the failed counter.
func IncAnalysisFailed() {
	analysisTotal.WithLabelValues("failed").Inc()
}

// ObserveAnalysisDuration records an analysis duration in seconds.
func ObserveAnalysisDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	analysisDuration.Observe(seconds)
}

// IncUpload increments the uploads counter for the given outcome.
func IncUpload(outcome string) {
	uploadsTotal.WithLabelValues(outcome).Inc()
}

// IncLLMAttempt increments the model attempt counter for the given outcome.
func IncLLMAttempt(outcome string) {
	llmAttemptsTotal.WithLabelValues(outcome).Inc()
}

// Handler exposes the metrics registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
