package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"friendsofmonika/masvalidator/pkg/config"
)

// Collector owns every Prometheus metric recorded by masvalidator.
//
// All Record* methods are safe on a nil *Collector and are no-ops when
// metrics are disabled, so components can accept an optional collector
// without guarding each call.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	classifications *prometheus.CounterVec
	ruleBuilds      *prometheus.CounterVec
	rulePatterns    *prometheus.GaugeVec

	validations        *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	schemaCompiles     *prometheus.CounterVec

	fetches     *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry with the Go
// runtime and process collectors is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	ns := cfg.Namespace

	c := &Collector{
		config:   cfg,
		registry: registry,

		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "nickname",
				Name:      "classifications_total",
				Help:      "Total number of nickname classifications by resulting category",
			},
			[]string{"category"},
		),
		ruleBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "nickname",
				Name:      "rule_builds_total",
				Help:      "Total number of rule set builds by status",
			},
			[]string{"status"},
		),
		rulePatterns: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: ns,
				Subsystem: "nickname",
				Name:      "rule_patterns",
				Help:      "Number of compiled patterns per category in the active rule set",
			},
			[]string{"category"},
		),

		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "document",
				Name:      "validations_total",
				Help:      "Total number of document validations by outcome and schema variant",
			},
			[]string{"outcome", "variant"},
		),
		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Subsystem: "document",
				Name:      "validation_duration_seconds",
				Help:      "Document validation latency including schema fetch and compile",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"outcome"},
		),
		schemaCompiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "document",
				Name:      "schema_compiles_total",
				Help:      "Total number of schema compilations by variant and status",
			},
			[]string{"variant", "status"},
		),

		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "source",
				Name:      "fetches_total",
				Help:      "Total number of remote definition fetches by source and status",
			},
			[]string{"source", "status"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits by cache name",
			},
			[]string{"cache"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses by cache name",
			},
			[]string{"cache"},
		),
	}

	registry.MustRegister(
		c.classifications,
		c.ruleBuilds,
		c.rulePatterns,
		c.validations,
		c.validationDuration,
		c.schemaCompiles,
		c.fetches,
		c.cacheHits,
		c.cacheMisses,
	)

	return c
}

// Registry returns the registry the collector's metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordClassification records the outcome of one classify call.
// category is "none" when no rule matched.
func (c *Collector) RecordClassification(category string) {
	if !c.enabled() {
		return
	}
	c.classifications.WithLabelValues(category).Inc()
}

// RecordRuleBuild records a rule set build and, on success, the pattern
// count per category.
func (c *Collector) RecordRuleBuild(err error, patterns map[string]int) {
	if !c.enabled() {
		return
	}
	if err != nil {
		c.ruleBuilds.WithLabelValues("error").Inc()
		return
	}
	c.ruleBuilds.WithLabelValues("success").Inc()
	for category, n := range patterns {
		c.rulePatterns.WithLabelValues(category).Set(float64(n))
	}
}

// RecordValidation records one validate call.
//
// Parameters:
//   - outcome: "valid", "syntax_error", "precondition_error", "violations", "error"
//   - variant: schema variant, or "unknown" when resolution did not happen
//   - duration: total time spent in the call
func (c *Collector) RecordValidation(outcome, variant string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.validations.WithLabelValues(outcome, variant).Inc()
	c.validationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordSchemaCompile records a schema compilation attempt.
func (c *Collector) RecordSchemaCompile(variant string, err error) {
	if !c.enabled() {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.schemaCompiles.WithLabelValues(variant, status).Inc()
}

// RecordFetch records a remote fetch attempt.
func (c *Collector) RecordFetch(source string, err error) {
	if !c.enabled() {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.fetches.WithLabelValues(source, status).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func (c *Collector) RecordCacheLookup(cache string, hit bool) {
	if !c.enabled() {
		return
	}
	if hit {
		c.cacheHits.WithLabelValues(cache).Inc()
	} else {
		c.cacheMisses.WithLabelValues(cache).Inc()
	}
}
