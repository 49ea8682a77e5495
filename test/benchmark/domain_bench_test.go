package benchmark

import (
	"testing"
	"time"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

var sink any

// BenchmarkNormalize measures capitalization repair of a shouted quote.
func BenchmarkNormalize(b *testing.B) {
	const raw = "THE ONLY WAY TO DO GREAT WORK IS TO LOVE WHAT YOU DO. IF YOU HAVEN'T FOUND IT YET, KEEP LOOKING."

	b.ReportAllocs()
	for b.Loop() {
		sink = domain.Normalize(raw)
	}
}

// BenchmarkMatches measures whole-word keyword matching for every category.
func BenchmarkMatches(b *testing.B) {
	const text = "Creativity is intelligence having fun, and every day is a chance to learn."

	b.ReportAllocs()
	for b.Loop() {
		for _, c := range domain.Categories {
			sink = domain.Matches(text, c)
		}
	}
}

// BenchmarkEvaluateSchedule measures one evaluation against two windows.
func BenchmarkEvaluateSchedule(b *testing.B) {
	windows := []domain.TimeWindow{
		{Name: "morning", Trigger: domain.ClockTime{Hour: 5}, Hours: 6},
		{Name: "midday", Trigger: domain.ClockTime{Hour: 12}, Hours: 5},
	}
	now := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	tracker := domain.Tracker{"morning": "2026-03-01"}

	b.ReportAllocs()
	for b.Loop() {
		sink, _ = domain.EvaluateSchedule(now, tracker, windows)
	}
}
