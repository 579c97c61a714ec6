package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dlsms",
		Name:      "registrations_total",
		Help:      "Account registrations by role and outcome.",
	}, []string{"role", "outcome"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dlsms",
		Name:      "logins_total",
		Help:      "Login attempts by role and outcome.",
	}, []string{"role", "outcome"})

	VerificationEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dlsms",
		Name:      "verification_emails_total",
		Help:      "Verification emails by result.",
	}, []string{"result"})

	StreamConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dlsms",
		Name:      "classroom_stream_connections",
		Help:      "Open classroom WebSocket connections.",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dlsms",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency labelled by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
