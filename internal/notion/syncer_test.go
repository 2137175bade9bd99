package notion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/screensync/internal/common"
	"github.com/quietloop/screensync/internal/model"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.APIKey = "secret"
	cfg.DatabaseID = "db"
	cfg.WriteInterval = 0 // no throttling in tests
	return cfg
}

func row(name string, date time.Time, minutes float64, sessions int) model.RollupRow {
	return model.RollupRow{
		PeriodDate:  date,
		AppID:       "com." + name,
		DisplayName: name,
		Category:    "Work",
		DeviceName:  "💻 Mac",
		Minutes:     minutes,
		Hours:       minutes / 60,
		Sessions:    sessions,
	}
}

func TestSyncCreatesMissingRows(t *testing.T) {
	store := NewMockStore()
	s := NewSyncer(store, testConfig())

	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err := s.Sync(context.Background(), []model.RollupRow{row("Figma", week, 90, 3)}, 10)
	require.NoError(t, err)

	assert.Equal(t, Result{Synced: 1}, result)
	assert.Equal(t, 1, store.Creates)
	assert.Equal(t, 0, store.Updates)
	assert.Equal(t, 1, store.Len())
}

func TestSyncIdempotent(t *testing.T) {
	store := NewMockStore()
	cfg := testConfig()
	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []model.RollupRow{
		row("Figma", week, 90, 3),
		row("Safari", week, 45, 2),
	}

	first, err := NewSyncer(store, cfg).Sync(context.Background(), rows, 10)
	require.NoError(t, err)
	assert.Equal(t, Result{Synced: 2}, first)
	assert.Equal(t, 2, store.Len())

	// Second run with identical rows: updates only, no net new records.
	second, err := NewSyncer(store, cfg).Sync(context.Background(), rows, 10)
	require.NoError(t, err)
	assert.Equal(t, Result{Synced: 2}, second)
	assert.Equal(t, 2, store.Creates)
	assert.Equal(t, 2, store.Updates)
	assert.Equal(t, 2, store.Len())
}

func TestSyncProtectsManualEntries(t *testing.T) {
	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		appName string
		appID   string
	}{
		{"missing app id", "Figma", ""},
		{"sentinel app id", "Figma", "manual"},
		{"manual in name", "Figma manual fix", "com.figma.Desktop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMockStore()
			id := store.Seed(tt.appName, tt.appID, "2024-01-01")

			result, err := NewSyncer(store, testConfig()).
				Sync(context.Background(), []model.RollupRow{row(tt.appName, week, 90, 3)}, 10)
			require.NoError(t, err)

			assert.Equal(t, Result{Skipped: 1}, result)
			assert.Equal(t, 0, store.Updates)
			assert.Equal(t, 0, store.Creates)
			_, touched := store.Fields(id)
			assert.False(t, touched)
		})
	}
}

func TestSyncUpdatesExistingKey(t *testing.T) {
	store := NewMockStore()
	id := store.Seed("Figma", "com.figma.Desktop", "2024-01-01")

	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err := NewSyncer(store, testConfig()).
		Sync(context.Background(), []model.RollupRow{row("Figma", week, 120, 4)}, 10)
	require.NoError(t, err)

	assert.Equal(t, Result{Synced: 1}, result)
	assert.Equal(t, 1, store.Updates)
	assert.Equal(t, 0, store.Creates)

	fields, ok := store.Fields(id)
	require.True(t, ok)
	assert.InDelta(t, 120.0, fields.Minutes, 0.001)
	assert.Equal(t, 4, fields.Sessions)
	assert.False(t, fields.LastUpdated.IsZero())
}

func TestSyncRowErrorsAreIsolated(t *testing.T) {
	store := NewMockStore()
	store.CreateErr = errors.New("boom")

	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []model.RollupRow{
		row("Figma", week, 90, 3),
		row("Safari", week, 45, 2),
	}

	result, err := NewSyncer(store, testConfig()).Sync(context.Background(), rows, 1)
	require.NoError(t, err)
	assert.Equal(t, Result{Errors: 2}, result)
	assert.Equal(t, 2, store.Creates) // both attempted despite failures
}

func TestSyncFetchFailureIsFatal(t *testing.T) {
	store := NewMockStore()
	store.QueryErr = errors.New("auth denied")

	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewSyncer(store, testConfig()).
		Sync(context.Background(), []model.RollupRow{row("Figma", week, 90, 3)}, 10)
	assert.Error(t, err)
}

func TestSyncFetchRetriesRateLimit(t *testing.T) {
	store := NewMockStore()
	store.Seed("Figma", "com.figma.Desktop", "2024-01-01")
	store.QueryErr = common.ErrRateLimit
	store.QueryFails = 1

	cfg := testConfig()
	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := NewSyncer(store, cfg)
	started := time.Now()
	result, err := s.Sync(context.Background(), []model.RollupRow{row("Figma", week, 90, 3)}, 10)
	require.NoError(t, err)
	assert.Equal(t, Result{Synced: 1}, result)
	assert.GreaterOrEqual(t, store.Queries, 2)
	// The rate-limit backoff is capped at a couple of seconds.
	assert.Less(t, time.Since(started), 10*time.Second)
}

func TestSyncPaginatesExisting(t *testing.T) {
	store := NewMockStore()
	for i := 0; i < 250; i++ {
		store.Seed("App", "manual", "2024-01-01") // all manual, all protected
	}

	cfg := testConfig()
	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result, err := NewSyncer(store, cfg).
		Sync(context.Background(), []model.RollupRow{row("App", week, 10, 1)}, 10)
	require.NoError(t, err)

	// 250 records at page size 100 takes three queries.
	assert.Equal(t, 3, store.Queries)
	assert.Equal(t, Result{Skipped: 1}, result)
}

func TestSyncEmptyRows(t *testing.T) {
	store := NewMockStore()
	result, err := NewSyncer(store, testConfig()).Sync(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
	assert.Equal(t, 0, store.Queries)
}

func TestSyncReportsProgress(t *testing.T) {
	store := NewMockStore()
	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []model.RollupRow{
		row("Figma", week, 90, 3),
		row("Safari", week, 45, 2),
		row("Notion", week, 30, 1),
	}

	s := NewSyncer(store, testConfig())
	ticks := 0
	s.OnProgress = func() { ticks++ }

	_, err := s.Sync(context.Background(), rows, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, ticks)
}

func TestClear(t *testing.T) {
	store := NewMockStore()
	store.Seed("Figma", "com.figma.Desktop", "2024-01-01")
	store.Seed("Safari", "com.apple.Safari", "2024-01-01")

	n, err := NewSyncer(store, testConfig()).Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, store.Len())
}
