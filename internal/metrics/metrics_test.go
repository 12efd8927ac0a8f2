package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leadgen-automation/internal/aggregator"
	"go-leadgen-automation/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveReport(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReport(aggregator.Report{Sources: []aggregator.SourceStats{
		{Source: models.SourceRemoteOK, Available: true, Fetched: 5, Filtered: 1, Duplicates: 1, Kept: 3},
		{Source: models.SourceIndeed, Error: "unexpected status code: 503"},
	}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.postings.WithLabelValues("remoteok", "kept")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.postings.WithLabelValues("remoteok", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.unavailable.WithLabelValues("indeed")))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/leads", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for range 2 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leads", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/leads", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}
