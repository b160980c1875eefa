package observability

import (
	"context"
	"time"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by a generative run.
type Metrics struct {
	RuleInvocations *prometheus.CounterVec
	GuardAborts     *prometheus.CounterVec
	ShapesPlaced    *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RuleInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algorist_rule_invocations_total",
				Help: "Total number of rule dispatches",
			},
			[]string{"rule"},
		),
		GuardAborts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algorist_guard_aborts_total",
				Help: "Total number of productions cut off by a guard",
			},
			[]string{"reason"},
		),
		ShapesPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algorist_shapes_placed_total",
				Help: "Total number of objects placed in a scene",
			},
			[]string{"shape"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "algorist_geometry_cache_lookups_total",
				Help: "Geometry cache lookups by result",
			},
			[]string{"result"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "algorist_run_duration_seconds",
				Help:    "Duration of grammar runs",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"status"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.RuleInvocations, m.GuardAborts, m.ShapesPlaced, m.CacheLookups, m.RunDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRuleInvoke: func(_ context.Context, e *domain.RuleEvent) {
			m.RuleInvocations.WithLabelValues(e.Rule).Inc()
		},
		OnGuardAbort: func(_ context.Context, e *domain.GuardEvent) {
			m.GuardAborts.WithLabelValues(string(e.Reason)).Inc()
		},
		OnShapePlaced: func(_ context.Context, e *domain.ShapeEvent) {
			m.ShapesPlaced.WithLabelValues(e.Shape).Inc()
		},
		OnCacheLookup: func(_ context.Context, e *domain.CacheEvent) {
			result := "miss"
			if e.Hit {
				result = "hit"
			}
			m.CacheLookups.WithLabelValues(result).Inc()
		},
	}
}

// ObserveRun records how long a run took and whether it failed.
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RunDuration.WithLabelValues(status).Observe(d.Seconds())
}
