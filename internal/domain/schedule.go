package domain

import (
	"fmt"
	"maps"
	"time"
)

// DateLayout is the tracker's calendar date format.
const DateLayout = "2006-01-02"

const minutesPerDay = 24 * 60

// ClockTime is a local time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:MM" string.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, NewValidationErrorWithValue("trigger_time", "must be HH:MM", s)
	}

	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String formats the clock time as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

// TimeWindow is a recurring daily interval during which a quote may be shown once.
// It covers [Trigger, Trigger+Hours), wrapping past midnight when needed.
type TimeWindow struct {
	Name    string
	Trigger ClockTime
	Hours   int
}

// End returns the exclusive end of the window.
func (w TimeWindow) End() ClockTime {
	end := (w.Trigger.minutes() + w.Hours*60) % minutesPerDay

	return ClockTime{Hour: end / 60, Minute: end % 60}
}

// Contains reports whether the time of day of t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	if w.Hours >= 24 {
		return true
	}
	if w.Hours <= 0 {
		return false
	}

	now := t.Hour()*60 + t.Minute()
	start := w.Trigger.minutes()
	end := w.End().minutes()

	if start < end {
		return now >= start && now < end
	}

	return now >= start || now < end
}

// Tracker maps a window name to the last local date a quote was shown for it.
type Tracker map[string]string

// ShownOn reports whether the window already fired on the given date.
func (t Tracker) ShownOn(window, date string) bool {
	last, ok := t[window]

	return ok && last == date
}

// ScheduleDecision is the outcome of one schedule evaluation.
type ScheduleDecision struct {
	// Show is true when a quote should be displayed now.
	Show bool

	// Window names the window that fired. Empty when Show is false.
	Window string

	// Date is the local calendar date used for the evaluation.
	Date string
}

// EvaluateSchedule decides whether a quote should be shown at now.
//
// Windows are checked in order. The first window containing now that has not
// fired today wins: its entry in the returned tracker is set to today's date.
// Windows that already fired today are skipped. When nothing fires the
// returned tracker equals the input. The input tracker is never modified.
func EvaluateSchedule(now time.Time, tracker Tracker, windows []TimeWindow) (ScheduleDecision, Tracker) {
	today := now.Format(DateLayout)
	next := maps.Clone(tracker)
	if next == nil {
		next = Tracker{}
	}

	for _, w := range windows {
		if !w.Contains(now) {
			continue
		}
		if next.ShownOn(w.Name, today) {
			continue
		}

		next[w.Name] = today

		return ScheduleDecision{Show: true, Window: w.Name, Date: today}, next
	}

	return ScheduleDecision{Date: today}, next
}

// ActiveWindows returns the windows containing now, in declaration order.
func ActiveWindows(now time.Time, windows []TimeWindow) []TimeWindow {
	var active []TimeWindow
	for _, w := range windows {
		if w.Contains(now) {
			active = append(active, w)
		}
	}

	return active
}
