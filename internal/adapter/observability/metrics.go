package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30, 60},
		},
		[]string{"route", "method"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of LLM calls by provider, task and outcome",
		},
		[]string{"provider", "task", "outcome"},
	)
	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "LLM call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "task"},
	)
	LLMPromptTokens = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_prompt_tokens",
			Help:    "Estimated prompt tokens per LLM call",
			Buckets: prometheus.ExponentialBuckets(64, 2, 10),
		},
		[]string{"task"},
	)
	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Estimated tokens of successful LLM calls by provider, task and kind (prompt or completion)",
		},
		[]string{"provider", "task", "kind"},
	)

	AnalysisResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_results_total",
			Help: "Analysis results by task and producing path (llm or fallback)",
		},
		[]string{"task", "source"},
	)
	AnalysisFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_llm_failures_total",
			Help: "LLM path failures that routed to fallback, by task and error kind",
		},
		[]string{"task", "kind"},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors with the default registry once per process.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(LLMRequestsTotal)
		prometheus.MustRegister(LLMRequestDuration)
		prometheus.MustRegister(LLMPromptTokens)
		prometheus.MustRegister(LLMTokensTotal)
		prometheus.MustRegister(AnalysisResultsTotal)
		prometheus.MustRegister(AnalysisFailuresTotal)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveLLMCall records one gateway call. outcome is "ok" or an error kind.
func ObserveLLMCall(provider, task, outcome string, d time.Duration) {
	LLMRequestsTotal.WithLabelValues(provider, task, outcome).Inc()
	LLMRequestDuration.WithLabelValues(provider, task).Observe(d.Seconds())
}

// ObservePromptTokens records an estimated prompt size.
func ObservePromptTokens(task string, n int) {
	if n > 0 {
		LLMPromptTokens.WithLabelValues(task).Observe(float64(n))
	}
}

// ObserveTokenUsage adds the token estimate of one successful call.
func ObserveTokenUsage(provider, task string, prompt, completion int) {
	LLMTokensTotal.WithLabelValues(provider, task, "prompt").Add(float64(prompt))
	LLMTokensTotal.WithLabelValues(provider, task, "completion").Add(float64(completion))
}

// RecordAnalysis counts a finished analysis and, when degraded, the failure kind.
func RecordAnalysis(task, source, kind string) {
	AnalysisResultsTotal.WithLabelValues(task, source).Inc()
	if kind != "" && kind != "none" {
		AnalysisFailuresTotal.WithLabelValues(task, kind).Inc()
	}
}
