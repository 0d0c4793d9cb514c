// Package metrics provides Prometheus instrumentation for ScamGuard.
package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krxsh13/ScamGuard/internal/domain/models"
)

const namespace = "scamguard"

var (
	// HTTPRequestsTotal counts HTTP requests by method, route pattern and status bucket.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route pattern, and status class.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route pattern.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AnalysesTotal counts completed analyses by channel and verdict.
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "analyses_total",
			Help:      "Total analyses by channel and risk verdict.",
		},
		[]string{"channel", "risk"},
	)

	// AnalysisDuration observes engine latency.
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "analysis_duration_seconds",
		Help:      "Time spent scoring a single text.",
		Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
	})

	// PatternScore observes the distribution of raw pattern scores.
	PatternScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "pattern_score",
		Help:      "Distribution of weighted pattern scores.",
		Buckets:   []float64{0, 2, 3, 6, 10, 20, 40},
	})

	// SuspiciousURLsTotal counts URLs flagged with at least one issue.
	SuspiciousURLsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "suspicious_urls_total",
		Help:      "Total extracted URLs carrying at least one issue.",
	})

	// BatchSize observes the number of items per batch request.
	BatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_size",
		Help:      "Number of texts per batch analysis.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100},
	})

	// SideEffectFailures counts best-effort writes that failed, by sink.
	SideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effect_failures_total",
			Help:      "Failed best-effort writes by sink (counter, audit, event).",
		},
		[]string{"sink"},
	)

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total requests rejected by the rate limiter.",
	})

	// ActiveStreamClients tracks connected WebSocket clients.
	ActiveStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_stream_clients",
		Help:      "Number of currently connected WebSocket clients.",
	})

	// RollupsTotal counts verdict rollups by result.
	RollupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats",
			Name:      "rollups_total",
			Help:      "Daily verdict rollups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		AnalysesTotal,
		AnalysisDuration,
		PatternScore,
		SuspiciousURLsTotal,
		BatchSize,
		SideEffectFailures,
		RateLimited,
		ActiveStreamClients,
		RollupsTotal,
	)
}

// ObserveAnalysis records a completed analysis. Only verdict metadata is used.
func ObserveAnalysis(rec *models.AnalysisRecord) {
	AnalysesTotal.WithLabelValues(string(rec.Channel), rec.Result.Risk.String()).Inc()
	AnalysisDuration.Observe(rec.Duration.Seconds())
	PatternScore.Observe(float64(rec.Result.PatternScore))

	if ua := rec.Result.URLAnalysis; ua != nil {
		for _, f := range ua.Findings {
			if f.IsSuspicious {
				SuspiciousURLsTotal.Inc()
			}
		}
	}
}

// Middleware records request count and latency keyed by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// route pattern keeps label cardinality bounded
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}

		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(r.Method, path, statusBucket(ww.Status())).Inc()
	})
}

// Handler returns the Prometheus metrics HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code == 0:
		return "2xx"
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
