// Package metrics exposes Prometheus counters for API requests and pipeline runs.
package metrics

import (
	"strconv"
	"time"

	"go-leadgen-automation/internal/aggregator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requestDuration *prometheus.SummaryVec
	requests        *prometheus.CounterVec
	postings        *prometheus.CounterVec
	unavailable     *prometheus.CounterVec
	runs            prometheus.Counter
}

// New registers every collector on reg. Use a fresh registry per process.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		postings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_postings_total",
				Help: "Postings seen per source, by outcome",
			},
			[]string{"source", "outcome"},
		),
		unavailable: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadgen_source_unavailable_total",
				Help: "Adapter calls that failed to fetch their results page",
			},
			[]string{"source"},
		),
		runs: factory.NewCounter(prometheus.CounterOpts{
			Name: "leadgen_runs_total",
			Help: "Completed aggregation runs",
		}),
	}
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// ObserveReport records the per-source outcome of one run.
func (m *Metrics) ObserveReport(r aggregator.Report) {
	m.runs.Inc()
	for _, s := range r.Sources {
		source := string(s.Source)
		if !s.Available {
			m.unavailable.WithLabelValues(source).Inc()
			continue
		}
		m.postings.WithLabelValues(source, "kept").Add(float64(s.Kept))
		m.postings.WithLabelValues(source, "filtered").Add(float64(s.Filtered))
		m.postings.WithLabelValues(source, "duplicate").Add(float64(s.Duplicates))
	}
}
