// Package metrics exposes Prometheus counters for session and registration
// activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	sessionOps        *prometheus.CounterVec
	registrationOps   *prometheus.CounterVec
	notificationsSent *prometheus.CounterVec
	remindersPending  prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		sessionOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weddingwander_session_operations_total",
				Help: "Login, signup and logout attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
		registrationOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weddingwander_registration_operations_total",
				Help: "Event register and unregister attempts by outcome",
			},
			[]string{"operation", "event_id", "outcome"},
		),
		notificationsSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weddingwander_notifications_total",
				Help: "System notifications by kind and whether they were delivered",
			},
			[]string{"kind", "outcome"},
		),
		remindersPending: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "weddingwander_reminders_pending",
				Help: "Event reminders scheduled and not yet fired or cancelled",
			},
		),
	}
}

// SessionOp counts a session operation.
func (m *Metrics) SessionOp(operation, outcome string) {
	if m == nil {
		return
	}
	m.sessionOps.WithLabelValues(operation, outcome).Inc()
}

// RegistrationOp counts a register or unregister attempt.
func (m *Metrics) RegistrationOp(operation, eventID, outcome string) {
	if m == nil {
		return
	}
	m.registrationOps.WithLabelValues(operation, eventID, outcome).Inc()
}

// Notification counts a notification attempt.
func (m *Metrics) Notification(kind, outcome string) {
	if m == nil {
		return
	}
	m.notificationsSent.WithLabelValues(kind, outcome).Inc()
}

// RemindersPending sets the pending reminder gauge.
func (m *Metrics) RemindersPending(n int) {
	if m == nil {
		return
	}
	m.remindersPending.Set(float64(n))
}
