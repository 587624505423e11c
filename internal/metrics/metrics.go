package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bolao",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bolao",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route"},
	)

	drawFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bolao",
			Subsystem: "draws",
			Name:      "fetches_total",
			Help:      "Draw result lookups by source and outcome.",
		},
		[]string{"variant", "source", "outcome"},
	)

	ticketsChecked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bolao",
			Subsystem: "results",
			Name:      "tickets_checked_total",
			Help:      "Tickets matched against a draw.",
		},
		[]string{"variant"},
	)

	drawSyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bolao",
			Subsystem: "draw_sync",
			Name:      "runs_total",
			Help:      "Scheduled draw sync attempts per variant.",
		},
		[]string{"variant", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		drawFetches,
		ticketsChecked,
		drawSyncRuns,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request counts and latency, labelled by the
// matched chi route pattern so path parameters do not explode cardinality.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func RecordDrawFetch(variant, source string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	drawFetches.WithLabelValues(variant, source, outcome).Inc()
}

func RecordTicketsChecked(variant string, n int) {
	ticketsChecked.WithLabelValues(variant).Add(float64(n))
}

func RecordDrawSync(variant, outcome string) {
	drawSyncRuns.WithLabelValues(variant, outcome).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
