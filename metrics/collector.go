// Package metrics exports machine firings as Prometheus metrics.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/atlekbai/stateflow"
)

// Collector is a stateflow.Observer that records every firing.
type Collector struct {
	fires       *prometheus.CounterVec
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

var _ stateflow.Observer = (*Collector)(nil)

// NewCollector creates the metric vectors. They must be registered before they are exported.
func NewCollector() *Collector {
	return &Collector{
		fires: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stateflow_fires_total",
				Help: "Total number of triggers fired, by outcome",
			},
			[]string{"machine", "outcome"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stateflow_transitions_total",
				Help: "Total number of completed state changes",
			},
			[]string{"machine", "source", "destination"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stateflow_fire_duration_seconds",
				Help:    "Duration of a firing, including guards and actions",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"machine", "outcome"},
		),
	}
}

// Register registers the collector's metrics with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{c.fires, c.transitions, c.duration} {
		if err := reg.Register(collector); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.fires.Describe(ch)
	c.transitions.Describe(ch)
	c.duration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.fires.Collect(ch)
	c.transitions.Collect(ch)
	c.duration.Collect(ch)
}

// ObserveFire implements stateflow.Observer.
func (c *Collector) ObserveFire(_ context.Context, event stateflow.FireEvent) {
	outcome := string(event.Outcome)
	c.fires.WithLabelValues(event.Machine, outcome).Inc()
	c.duration.WithLabelValues(event.Machine, outcome).Observe(event.Duration.Seconds())

	if event.Outcome == stateflow.OutcomeTransitioned {
		c.transitions.WithLabelValues(
			event.Machine,
			fmt.Sprintf("%v", event.Source),
			fmt.Sprintf("%v", event.Destination),
		).Inc()
	}
}
