package telemetry

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

const metricsNamespace = "quotebox"

// QuoteMetrics exports quote pipeline and schedule events as Prometheus
// counters. Implements app.Recorder.
type QuoteMetrics struct {
	attempts   *prometheus.CounterVec
	selections *prometheus.CounterVec
	schedule   *prometheus.CounterVec
}

// NewQuoteMetrics creates the counters and registers them with reg.
// Counters already registered by an earlier call are reused.
func NewQuoteMetrics(reg prometheus.Registerer) (*QuoteMetrics, error) {
	m := &QuoteMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "quote",
			Name:      "attempts_total",
			Help:      "Remote quote fetch attempts by outcome.",
		}, []string{"outcome"}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "quote",
			Name:      "selections_total",
			Help:      "Quotes returned to callers by source and category.",
		}, []string{"source", "category"}),
		schedule: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "schedule",
			Name:      "evaluations_total",
			Help:      "Schedule evaluations by result and firing window.",
		}, []string{"result", "window"}),
	}

	var err error
	if m.attempts, err = register(reg, m.attempts); err != nil {
		return nil, err
	}
	if m.selections, err = register(reg, m.selections); err != nil {
		return nil, err
	}
	if m.schedule, err = register(reg, m.schedule); err != nil {
		return nil, err
	}

	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}

		return nil, fmt.Errorf("registering metric: %w", err)
	}

	return c, nil
}

// QuoteAttempt implements app.Recorder.
func (m *QuoteMetrics) QuoteAttempt(outcome app.AttemptOutcome) {
	m.attempts.WithLabelValues(outcome.String()).Inc()
}

// QuoteSelected implements app.Recorder.
func (m *QuoteMetrics) QuoteSelected(source domain.QuoteSource, category domain.Category) {
	m.selections.WithLabelValues(string(source), string(category)).Inc()
}

// ScheduleEvaluated implements app.Recorder.
func (m *QuoteMetrics) ScheduleEvaluated(decision domain.ScheduleDecision) {
	result := "skip"
	if decision.Show {
		result = "show"
	}

	m.schedule.WithLabelValues(result, decision.Window).Inc()
}
