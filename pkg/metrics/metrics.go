package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the settlement-related Prometheus metrics.
type Collector struct {
	registry             *prometheus.Registry
	settlementsPersisted prometheus.Counter
	validationFailures   prometheus.Counter
	allocationShortfalls prometheus.Counter
	customersCreated     prometheus.Counter
	customersMatched     prometheus.Counter
	submissionDuration   prometheus.Histogram
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		settlementsPersisted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "settlements_persisted_total",
			Help: "Total number of transactions persisted",
		}),
		validationFailures: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "settlement_validation_failures_total",
			Help: "Total number of submissions rejected by the cross-field validator",
		}),
		allocationShortfalls: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "denomination_allocation_shortfalls_total",
			Help: "Total number of denomination decompositions with a non-zero residual",
		}),
		customersCreated: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "customers_created_total",
			Help: "Total number of new customer records created",
		}),
		customersMatched: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "customers_matched_total",
			Help: "Total number of submissions resolved to an existing customer",
		}),
		submissionDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "settlement_submission_duration_seconds",
			Help:    "Time taken to validate, resolve and persist a submission",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (c *Collector) SettlementPersisted() { c.settlementsPersisted.Inc() }
func (c *Collector) ValidationFailed()    { c.validationFailures.Inc() }
func (c *Collector) AllocationShortfall() { c.allocationShortfalls.Inc() }
func (c *Collector) CustomerCreated()     { c.customersCreated.Inc() }
func (c *Collector) CustomerMatched()     { c.customersMatched.Inc() }

func (c *Collector) ObserveSubmission(d time.Duration) {
	c.submissionDuration.Observe(d.Seconds())
}

// Handler returns the HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
