package app

import "github.com/jsamuelsen/quotebox/internal/domain"

// Recorder receives quote pipeline and schedule events, typically to update
// metrics. Implementations must be safe for concurrent use.
type Recorder interface {
	QuoteAttempt(outcome AttemptOutcome)
	QuoteSelected(source domain.QuoteSource, category domain.Category)
	ScheduleEvaluated(decision domain.ScheduleDecision)
}

type nopRecorder struct{}

func (nopRecorder) QuoteAttempt(AttemptOutcome) {}
func (nopRecorder) QuoteSelected(domain.QuoteSource, domain.Category) {}
func (nopRecorder) ScheduleEvaluated(domain.ScheduleDecision) {}
