package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_http_requests_total",
		Help: "HTTP requests processed, partitioned by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classtrack_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	checkInsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_checkins_recorded_total",
		Help: "Check-in submissions, partitioned by outcome (created, duplicate).",
	}, []string{"outcome"})
)

// Metrics returns a middleware recording per-route request counts and
// latency. The route label uses the gin template path, not the raw URL, to
// keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// CountCheckIn records a check-in outcome metric.
func CountCheckIn(duplicate bool) {
	outcome := "created"
	if duplicate {
		outcome = "duplicate"
	}
	checkInsRecorded.WithLabelValues(outcome).Inc()
}
