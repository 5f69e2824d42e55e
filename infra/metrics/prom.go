package metrics

import (
	"errors"
	"fmt"

	coremetrics "github.com/kilianp07/nbalance/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records balance runs in Prometheus metrics.
type PromSink struct {
	applications *prometheus.CounterVec
	appliedKg    *prometheus.CounterVec
	required     *prometheus.HistogramVec
	unmet        *prometheus.GaugeVec
}

// requirementBuckets cover kg N/ha requirements from a top-up to a full crop.
var requirementBuckets = []float64{0, 25, 50, 100, 150, 200, 300, 400}

// PromConfig is the conf block of a "prometheus" sink.
type PromConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace"`
	// Buckets overrides the requirement histogram buckets, in kg N/ha.
	Buckets []float64 `json:"buckets"`
}

// NewPromSinkWithRegistry registers metrics with default settings on the
// provided registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.BalanceSink, error) {
	return NewPromSinkWithConfig(reg, PromConfig{})
}

// NewPromSinkWithConfig registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithConfig(reg prometheus.Registerer, cfg PromConfig) (coremetrics.BalanceSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := requirementBuckets
	if len(cfg.Buckets) > 0 {
		for i := 1; i < len(cfg.Buckets); i++ {
			if cfg.Buckets[i] <= cfg.Buckets[i-1] {
				return nil, fmt.Errorf("requirement buckets must be increasing: %v", cfg.Buckets)
			}
		}
		buckets = cfg.Buckets
	}
	applications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "fertiliser_applications_total",
		Help:      "Total number of fertiliser applications folded into balances",
	}, []string{"crop", "source"})
	appliedKg := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "fertiliser_applied_kg_per_ha_total",
		Help:      "Fertiliser product applied in kg N/ha",
	}, []string{"crop", "source"})
	required := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "fertiliser_requirement_kg_per_ha",
		Help:      "Fertiliser requirement computed by the scheduler in kg N/ha",
		Buckets:   buckets,
	}, []string{"crop"})
	unmet := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Name:      "fertiliser_unmet_kg_per_ha",
		Help:      "Requirement of the last run that no trigger crossing scheduled",
	}, []string{"crop"})

	var err error
	if applications, err = register(reg, applications); err != nil {
		return nil, err
	}
	if appliedKg, err = register(reg, appliedKg); err != nil {
		return nil, err
	}
	if required, err = register(reg, required); err != nil {
		return nil, err
	}
	if unmet, err = register(reg, unmet); err != nil {
		return nil, err
	}
	return &PromSink{applications: applications, appliedKg: appliedKg, required: required, unmet: unmet}, nil
}

// register returns the already registered collector when c was registered
// earlier, so several sinks can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordApplication counts the application and its product amount.
func (s *PromSink) RecordApplication(ev coremetrics.ApplicationEvent) error {
	s.applications.WithLabelValues(ev.Crop, string(ev.Source)).Inc()
	if ev.AmountKg > 0 {
		s.appliedKg.WithLabelValues(ev.Crop, string(ev.Source)).Add(ev.AmountKg)
	}
	return nil
}

// RecordRequirement observes the requirement and sets the unmet gauge.
func (s *PromSink) RecordRequirement(ev coremetrics.RequirementEvent) error {
	s.required.WithLabelValues(ev.Crop).Observe(ev.RequiredKg)
	s.unmet.WithLabelValues(ev.Crop).Set(ev.UnmetKg)
	return nil
}
