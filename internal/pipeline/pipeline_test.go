package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/screensync/internal/category"
	"github.com/quietloop/screensync/internal/model"
)

type fakeSource struct {
	events    []model.RawEvent
	intervals []model.PowerInterval
	usageErr  error
	darkErr   error
}

func (f *fakeSource) AppUsage(_ context.Context, _, _ time.Time, _ bool) ([]model.RawEvent, error) {
	return f.events, f.usageErr
}

func (f *fakeSource) DarkIntervals(_ context.Context, _, _ time.Time) ([]model.PowerInterval, error) {
	return f.intervals, f.darkErr
}

func defaultClassifier(t *testing.T) *category.Classifier {
	t.Helper()
	c, err := category.New(category.NewStore(filepath.Join(t.TempDir(), "missing.json")))
	require.NoError(t, err)
	return c
}

func TestRunEndToEnd(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	night := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)

	src := &fakeSource{
		events: []model.RawEvent{
			// Two Safari events 30s apart merge into one session.
			{AppID: "com.apple.Safari", DisplayName: "Safari", Start: base, End: base.Add(4 * time.Minute)},
			{AppID: "com.apple.Safari", DisplayName: "Safari", Start: base.Add(4*time.Minute + 30*time.Second), End: base.Add(10 * time.Minute)},
		},
		intervals: []model.PowerInterval{
			{Start: night, End: night.Add(7*time.Hour + 30*time.Minute), Powered: false},
		},
	}

	p := New(src, defaultClassifier(t), time.UTC)
	sessions, err := p.Run(context.Background(), Options{IncludeSleep: true})
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "Safari", sessions[0].DisplayName)
	assert.Equal(t, "Work", sessions[0].Category) // default rules list Safari
	assert.InDelta(t, 10.0, sessions[0].DurationMinutes, 0.001)
	assert.Equal(t, "Monday", sessions[0].DayOfWeek)

	assert.Equal(t, model.KindSleep, sessions[1].Kind)
	assert.Equal(t, "Sleeping", sessions[1].Category)
}

func TestRunEmptySourceIsNotAnError(t *testing.T) {
	p := New(&fakeSource{}, defaultClassifier(t), time.UTC)
	sessions, err := p.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRunUsageErrorIsFatal(t *testing.T) {
	p := New(&fakeSource{usageErr: errors.New("no access")}, defaultClassifier(t), time.UTC)
	_, err := p.Run(context.Background(), Options{})
	assert.Error(t, err)
}

func TestRunDarkIntervalErrorDegrades(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{
		events:  []model.RawEvent{{AppID: "com.apple.Safari", DisplayName: "Safari", Start: base, End: base.Add(10 * time.Minute)}},
		darkErr: errors.New("stream missing"),
	}

	p := New(src, defaultClassifier(t), time.UTC)
	sessions, err := p.Run(context.Background(), Options{IncludeSleep: true})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
