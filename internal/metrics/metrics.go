package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "promptvault"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Business metrics
var (
	// CodesRedeemed counts redemption attempts by outcome:
	// success, invalid (unknown/inactive code), error (store failure).
	CodesRedeemed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_redeemed_total",
			Help:      "Total number of access code redemption attempts",
		},
		[]string{"result"},
	)

	PermissionGrants = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "permission_grants_total",
			Help:      "Total number of new permission grant rows written",
		},
	)

	QuotaRaises = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_raises_total",
			Help:      "Total number of quota increases from code redemption",
		},
	)

	// PromptRequests counts submission attempts by outcome:
	// accepted, no_quota, quota_exceeded.
	PromptRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompt_requests_total",
			Help:      "Total number of prompt request submissions",
		},
		[]string{"result"},
	)

	ContentRowsInserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_rows_inserted_total",
			Help:      "Total number of content rows bulk-inserted",
		},
		[]string{"table"},
	)
)
