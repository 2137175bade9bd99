package sleep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/screensync/internal/model"
)

func dark(start time.Time, d time.Duration) model.PowerInterval {
	return model.PowerInterval{Start: start, End: start.Add(d), Powered: false}
}

func TestInferOvernightInterval(t *testing.T) {
	// 23:00 to 06:30 the next day: evening start and morning end.
	start := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	sessions := New(time.UTC).Infer([]model.PowerInterval{dark(start, 7*time.Hour+30*time.Minute)})

	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, AppID, s.AppID)
	assert.Equal(t, DisplayName, s.DisplayName)
	assert.Equal(t, Category, s.Category)
	assert.Equal(t, model.KindSleep, s.Kind)
	assert.InDelta(t, 450.0, s.DurationMinutes, 0.001)
	assert.Equal(t, 23, s.StartHour)
	assert.Equal(t, "Monday", s.DayOfWeek)
}

func TestInferRejections(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		d     time.Duration
	}{
		{"too short and midday", time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC), 90 * time.Minute},
		{"long but midday window", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), 4 * time.Hour},
		{"overnight but too short", time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC), 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, New(time.UTC).Infer([]model.PowerInterval{dark(tt.start, tt.d)}))
		})
	}
}

func TestInferWindowEdges(t *testing.T) {
	tests := []struct {
		name string
		iv   model.PowerInterval
		want bool
	}{
		// Starts at 02:00 (inside the wrapped evening window), ends midafternoon.
		{"wrapped evening start", dark(time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC), 12*time.Hour), true},
		// Starts at 03:00, outside both windows, ends 15:00.
		{"just past evening wrap", dark(time.Date(2024, 1, 16, 3, 0, 0, 0, time.UTC), 12*time.Hour), false},
		// Morning end alone qualifies: 04:00 to 08:00.
		{"morning end only", dark(time.Date(2024, 1, 16, 4, 0, 0, 0, time.UTC), 4*time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(time.UTC).Infer([]model.PowerInterval{tt.iv})
			if tt.want {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestInferIgnoresPoweredIntervals(t *testing.T) {
	iv := model.PowerInterval{
		Start:   time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC),
		Powered: true,
	}
	assert.Empty(t, New(time.UTC).Infer([]model.PowerInterval{iv}))
}

func TestInferDoesNotMergeAdjacentIntervals(t *testing.T) {
	first := dark(time.Date(2024, 1, 15, 22, 0, 0, 0, time.UTC), 4*time.Hour)
	second := dark(first.End, 5*time.Hour) // 02:00-07:00, still qualifies

	sessions := New(time.UTC).Infer([]model.PowerInterval{first, second})
	require.Len(t, sessions, 2)
	// Sorted by start descending.
	assert.True(t, sessions[0].Start.After(sessions[1].Start))
}

func TestInferEvaluatesWindowsInLocalTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 04:00-12:30 UTC is 23:00-07:30 in New York: sleep there, not in
	// UTC, where the start hour is 4 and the end hour is 12.
	start := time.Date(2024, 1, 16, 4, 0, 0, 0, time.UTC)
	iv := dark(start, 8*time.Hour+30*time.Minute)

	assert.Len(t, New(loc).Infer([]model.PowerInterval{iv}), 1)
	assert.Empty(t, New(time.UTC).Infer([]model.PowerInterval{iv}))
}

func TestSummarize(t *testing.T) {
	base := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	sessions := New(time.UTC).Infer([]model.PowerInterval{
		dark(base, 8*time.Hour),
		dark(base.AddDate(0, 0, 1), 6*time.Hour),
	})
	require.Len(t, sessions, 2)

	sum := Summarize(sessions)
	assert.Equal(t, 2, sum.Sessions)
	assert.InDelta(t, 14.0, sum.TotalHours, 0.001)
	assert.InDelta(t, 7.0, sum.AvgHours, 0.001)
	assert.True(t, sum.Start.Before(sum.End))
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}
