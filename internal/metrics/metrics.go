package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the transition engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	transitions    *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	publishFailure prometheus.Counter
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "subscription",
				Name:      "transitions_total",
				Help:      "Accepted subscription state changes by operation, source and target state",
			},
			[]string{"operation", "from", "to"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "subscription",
				Name:      "transition_rejections_total",
				Help:      "Rejected subscription requests by operation and reason",
			},
			[]string{"operation", "reason"},
		),
		publishFailure: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "subscription",
				Name:      "event_publish_failures_total",
				Help:      "State change events that could not be published",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.rejections, m.publishFailure} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordTransition counts an accepted change.
func (m *Metrics) RecordTransition(operation, from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(operation, from, to).Inc()
}

// RecordRejection counts a rejected request.
func (m *Metrics) RecordRejection(operation, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.rejections.WithLabelValues(operation, reason).Inc()
}

// RecordPublishFailure counts an event that was dropped by the sink.
func (m *Metrics) RecordPublishFailure() {
	if m == nil {
		return
	}
	m.publishFailure.Inc()
}
