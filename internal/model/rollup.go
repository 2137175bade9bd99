package model

import "time"

// Period selects the calendar bucket for aggregation.
type Period string

// Aggregation periods.
const (
	PeriodDaily  Period = "daily"
	PeriodWeekly Period = "weekly"
)

// RollupRow is one aggregated row per (period, app, category, device)
// group. For weekly rollups PeriodDate is the Monday-aligned week start.
type RollupRow struct {
	PeriodDate  time.Time
	AppID       string
	DisplayName string
	Category    string
	DeviceName  string
	Minutes     float64
	Hours       float64
	Sessions    int
}

// Key returns the reconciliation key used to match this row against
// records in the external store.
func (r RollupRow) Key() string {
	return r.DisplayName + "_" + r.PeriodDate.Format("2006-01-02")
}

// WeekStart returns the Monday-aligned start of the week containing t,
// computed on the local wall-clock date.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// UsageSummary holds run-level statistics across all sessions.
type UsageSummary struct {
	Start         time.Time
	End           time.Time
	TotalApps     int
	TotalSessions int
	TotalMinutes  float64
	TotalHours    float64
	AvgDailyHours float64
	UniqueDates   int
}

// CategorySummaryRow is one row of the per-category usage breakdown.
type CategorySummaryRow struct {
	Category   string
	Minutes    float64
	Hours      float64
	UniqueApps int
	Percentage float64
}
