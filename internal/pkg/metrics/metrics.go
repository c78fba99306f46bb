package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"workflowmonk/internal/domain/wizard"
)

// Wizard collects counters for wizard traffic. It implements wizard.Observer.
type Wizard struct {
	transitions  *prometheus.CounterVec
	invalid      *prometheus.CounterVec
	submissions  prometheus.Counter
	exits        *prometheus.CounterVec
	liveSessions prometheus.Gauge
}

var _ wizard.Observer = (*Wizard)(nil)

// NewWizard registers the wizard collectors on reg.
func NewWizard(reg prometheus.Registerer) *Wizard {
	m := &Wizard{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workflowmonk",
			Subsystem: "wizard",
			Name:      "transitions_total",
			Help:      "Step transitions by destination step and direction.",
		}, []string{"to", "direction"}),
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workflowmonk",
			Subsystem: "wizard",
			Name:      "field_errors_total",
			Help:      "Validation failures by field.",
		}, []string{"field"}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "workflowmonk",
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Contact steps submitted to the scheduler handoff.",
		}),
		exits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workflowmonk",
			Subsystem: "wizard",
			Name:      "exits_total",
			Help:      "Wizard exits by outcome.",
		}, []string{"outcome"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "workflowmonk",
			Subsystem: "wizard",
			Name:      "live_sessions",
			Help:      "Open websocket wizard sessions.",
		}),
	}
	reg.MustRegister(m.transitions, m.invalid, m.submissions, m.exits, m.liveSessions)
	return m
}

func (m *Wizard) Transition(from, to int) {
	direction := "forward"
	if to < from {
		direction = "back"
	}
	m.transitions.WithLabelValues(strconv.Itoa(to), direction).Inc()
}

func (m *Wizard) FieldInvalid(field string) {
	m.invalid.WithLabelValues(field).Inc()
}

func (m *Wizard) Submitted() {
	m.submissions.Inc()
}

func (m *Wizard) Exited(exit wizard.Exit) {
	m.exits.WithLabelValues(string(exit)).Inc()
}

func (m *Wizard) SessionOpened() {
	m.liveSessions.Inc()
}

func (m *Wizard) SessionClosed() {
	m.liveSessions.Dec()
}
