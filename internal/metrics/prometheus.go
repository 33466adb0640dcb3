package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pricing outcomes recorded per line item
const (
	OutcomeMatched  = "matched"
	OutcomeNoFit    = "no_fit"
	OutcomeNoFamily = "no_family"
	OutcomeSkipped  = "skipped"
	OutcomeError    = "error"
)

var (
	// RequestsTotal tracks total HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// PricingItems counts re-priced line items by outcome
	PricingItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_pricing_items_total",
			Help: "Line items processed by the re-pricing flow, by outcome",
		},
		[]string{"outcome"},
	)

	// MalformedVariants counts catalog variants replaced by the zero placeholder
	MalformedVariants = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quote_malformed_variants_total",
			Help: "Catalog variants that failed numeric parsing",
		},
	)

	// CatalogFetchDuration tracks catalog round trips
	CatalogFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quote_catalog_fetch_duration_seconds",
			Help:    "Catalog fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "result"},
	)

	// CircuitBreakerState tracks circuit breaker state (0=closed, 1=open, 2=half-open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quote_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"circuit"},
	)
)

// ObserveCatalogFetch records one catalog call started at start
func ObserveCatalogFetch(source string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CatalogFetchDuration.WithLabelValues(source, result).Observe(time.Since(start).Seconds())
}

// PrometheusMiddleware creates a Gin middleware for automatic metrics collection
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		RequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
