package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/screensync/internal/model"
)

func TestEnrichLocalizesCalendarFields(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 UTC on Jan 16 is 21:30 on Jan 15 in New York.
	start := time.Date(2024, 1, 16, 2, 30, 0, 0, time.UTC)
	sessions := []model.Session{{
		AppID: "com.apple.Safari",
		Start: start,
		End:   start.Add(20 * time.Minute),
	}}

	out := New(loc).Enrich(sessions)
	require.Len(t, out, 1)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), out[0].Date)
	assert.Equal(t, "Monday", out[0].DayOfWeek)
	assert.Equal(t, 21, out[0].StartHour)
	assert.True(t, out[0].Start.Equal(start))
}

func TestEnrichNilLocationDefaultsToUTC(t *testing.T) {
	start := time.Date(2024, 3, 2, 9, 15, 0, 0, time.UTC)
	out := New(nil).Enrich([]model.Session{{Start: start, End: start.Add(time.Minute)}})
	require.Len(t, out, 1)
	assert.Equal(t, 9, out[0].StartHour)
	assert.Equal(t, "Saturday", out[0].DayOfWeek)
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	start := time.Date(2024, 1, 16, 2, 30, 0, 0, time.UTC)
	in := []model.Session{{Start: start, End: start.Add(time.Minute)}}
	_ = New(loc).Enrich(in)

	assert.True(t, in[0].Date.IsZero())
	assert.Equal(t, time.UTC, in[0].Start.Location())
}
