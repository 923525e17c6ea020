// Package metrics records agent program activity as Prometheus metrics.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"agentprog/internal/agent"
)

// PrometheusRecorder implements agent.Recorder.
type PrometheusRecorder struct {
	perceptsTotal     *prometheus.CounterVec
	lookupMissesTotal *prometheus.CounterVec
	stepErrorsTotal   *prometheus.CounterVec
	stepDuration      *prometheus.HistogramVec
	historyLength     *prometheus.GaugeVec
}

var _ agent.Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder registers the agent metrics with reg. A nil reg uses
// the default registerer. Metrics already registered with reg, for example by
// an earlier recorder, are reused so several recorders can share a registry.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PrometheusRecorder{}
	var err error
	if r.perceptsTotal, err = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentprog_percepts_total",
			Help: "Total number of percepts delivered to agent programs",
		},
		[]string{"program"},
	)); err != nil {
		return nil, err
	}
	if r.lookupMissesTotal, err = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentprog_lookup_misses_total",
			Help: "Total number of percept histories missing from lookup tables",
		},
		[]string{"program"},
	)); err != nil {
		return nil, err
	}
	if r.stepErrorsTotal, err = register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentprog_step_errors_total",
			Help: "Total number of failed agent steps other than lookup misses",
		},
		[]string{"program"},
	)); err != nil {
		return nil, err
	}
	if r.stepDuration, err = register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentprog_step_duration_seconds",
			Help:    "Duration of agent program steps in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-7, 10, 8),
		},
		[]string{"program"},
	)); err != nil {
		return nil, err
	}
	if r.historyLength, err = register(reg, prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agentprog_history_length",
			Help: "Current percept history length of history-keeping agent programs",
		},
		[]string{"program"},
	)); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, fmt.Errorf("register metric: %w", err)
}

// ObserveStep records one Run call.
func (p *PrometheusRecorder) ObserveStep(program string, duration time.Duration, err error) {
	p.perceptsTotal.WithLabelValues(program).Inc()
	switch {
	case errors.Is(err, agent.ErrNotFound):
		p.lookupMissesTotal.WithLabelValues(program).Inc()
	case err != nil:
		p.stepErrorsTotal.WithLabelValues(program).Inc()
	}
	p.stepDuration.WithLabelValues(program).Observe(duration.Seconds())
}

// SetHistoryLength records the history length after a step.
func (p *PrometheusRecorder) SetHistoryLength(program string, length int) {
	p.historyLength.WithLabelValues(program).Set(float64(length))
}
