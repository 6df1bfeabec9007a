/*
Package observability exposes Prometheus metrics for the planning engine.

Metrics are fed through domain.LifecycleHooks, so the engine core stays
free of any metrics dependency: wire Hooks() into the engine and serve
the registry through promhttp.
*/
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/voyago/itinera/pkg/domain"
)

// Metrics holds the collectors for one engine deployment.
type Metrics struct {
	stepEntries *prometheus.CounterVec
	stepExits   *prometheus.CounterVec
	messages    prometheus.Counter
	cancelled   prometheus.Counter
	sessions    prometheus.Gauge
}

// NewMetrics registers the collectors with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		stepEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "itinera_step_entries_total",
			Help: "Conversation step activations, by step.",
		}, []string{"step"}),
		stepExits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "itinera_step_exits_total",
			Help: "Conversation step exits, by step.",
		}, []string{"step"}),
		messages: factory.NewCounter(prometheus.CounterOpts{
			Name: "itinera_messages_delivered_total",
			Help: "Messages delivered to session logs.",
		}),
		cancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "itinera_messages_cancelled_total",
			Help: "Staged messages cancelled before delivery.",
		}),
		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "itinera_active_sessions",
			Help: "Sessions currently held in memory.",
		}),
	}
}

// Hooks returns lifecycle callbacks feeding these collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.stepEntries.WithLabelValues(e.StepID).Inc()
		},
		OnStepLeave: func(_ context.Context, e *domain.StepEvent) {
			m.stepExits.WithLabelValues(e.StepID).Inc()
		},
		OnMessage: func(_ context.Context, e *domain.MessageEvent) {
			if e.Cancelled {
				m.cancelled.Inc()
				return
			}
			m.messages.Inc()
		},
	}
}

// SessionOpened bumps the active-session gauge.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed decrements the active-session gauge.
func (m *Metrics) SessionClosed() { m.sessions.Dec() }
