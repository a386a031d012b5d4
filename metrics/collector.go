// Package metrics exposes state machine activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/librescoot/simplefsm"
)

// Collector counts dispatches and transitions. It implements simplefsm.Observer
// and prometheus.Collector, so one value can be passed to WithObserver and
// registered with a registry.
type Collector struct {
	dispatched  *prometheus.CounterVec
	transitions *prometheus.CounterVec
	chainSteps  *prometheus.HistogramVec
}

var _ simplefsm.Observer = (*Collector)(nil)
var _ prometheus.Collector = (*Collector)(nil)

// New creates a collector whose metric names start with namespace
func New(namespace string) *Collector {
	return &Collector{
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_dispatched_total",
				Help:      "Events dispatched, by owner, state, event and result.",
			},
			[]string{"owner", "state", "event", "result"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Settled transitions, by owner and source/target state.",
			},
			[]string{"owner", "from", "to"},
		),
		chainSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transition_chain_steps",
				Help:      "Enter calls needed for a transition to settle.",
				Buckets:   []float64{1, 2, 3, 4, 8, 16},
			},
			[]string{"owner"},
		),
	}
}

func (c *Collector) EventDispatched(owner, state, event string, result simplefsm.Result) {
	c.dispatched.WithLabelValues(owner, state, event, result.String()).Inc()
}

func (c *Collector) Transitioned(owner, from, to string, steps int) {
	c.transitions.WithLabelValues(owner, from, to).Inc()
	c.chainSteps.WithLabelValues(owner).Observe(float64(steps))
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.dispatched.Describe(ch)
	c.transitions.Describe(ch)
	c.chainSteps.Describe(ch)
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.dispatched.Collect(ch)
	c.transitions.Collect(ch)
	c.chainSteps.Collect(ch)
}
