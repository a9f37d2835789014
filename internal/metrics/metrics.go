package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GatewayCallsTotal counts gateway calls by outcome (ok, status_error, timeout, ...)
	GatewayCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealmind_gateway_calls_total",
			Help: "Total number of LLM gateway calls by outcome.",
		},
		[]string{"outcome"},
	)

	// GatewayLatencySeconds is the wall time of a single gateway call
	GatewayLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mealmind_gateway_latency_seconds",
			Help:    "LLM gateway call latency in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	// NormalizationsTotal counts normalization results by kind ("ok" on success)
	NormalizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealmind_normalizations_total",
			Help: "Total number of recipe normalizations by result.",
		},
		[]string{"result"},
	)

	// HTTPLatencySeconds is the API request latency by route
	HTTPLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealmind_http_latency_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"route", "method", "status_code"},
	)

	registerOnce sync.Once
)

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			GatewayCallsTotal,
			GatewayLatencySeconds,
			NormalizationsTotal,
			HTTPLatencySeconds,
		)
	})
}

// Handler exposes the /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveGatewayCall records the outcome and latency of one gateway call
func ObserveGatewayCall(outcome string, d time.Duration) {
	GatewayCallsTotal.WithLabelValues(outcome).Inc()
	GatewayLatencySeconds.Observe(d.Seconds())
}

// ObserveNormalization records a normalization result
func ObserveNormalization(result string) {
	NormalizationsTotal.WithLabelValues(result).Inc()
}

// Middleware measures request latency per matched route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPLatencySeconds.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
