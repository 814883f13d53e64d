// Package metrics registers the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the intake gateway.
type Metrics struct {
	SubmissionsAccepted prometheus.Counter
	SubmissionsRejected *prometheus.CounterVec
	RateLimited         prometheus.Counter
	StoreFailures       prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
}

// New creates and registers all metrics on the given registerer. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "matricula_submissions_accepted_total",
			Help: "Total number of enrollment submissions accepted and stored.",
		}),
		SubmissionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "matricula_submissions_rejected_total",
			Help: "Total number of enrollment submissions rejected, by failing field.",
		}, []string{"field"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "matricula_rate_limited_total",
			Help: "Total number of requests rejected by the admission rate limiter.",
		}),
		StoreFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "matricula_store_failures_total",
			Help: "Total number of failed store insert attempts.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "matricula_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
