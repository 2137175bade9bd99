// Package aggregate rolls enriched sessions up into calendar-period rows.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/quietloop/screensync/internal/model"
)

type groupKey struct {
	date        time.Time
	appID       string
	displayName string
	category    string
	deviceName  string
}

// Aggregate groups sessions into one row per (period, app, category,
// device). Daily rows bucket on the session's local date; weekly rows on
// the Monday-aligned week start of that date. Rows are sorted by period
// date descending, then total minutes descending; ties keep first-seen
// group order.
func Aggregate(sessions []model.Session, period model.Period) []model.RollupRow {
	if len(sessions) == 0 {
		return nil
	}

	totals := make(map[groupKey]*model.RollupRow)
	var order []groupKey

	for _, s := range sessions {
		date := s.Date
		if period == model.PeriodWeekly {
			date = model.WeekStart(s.Date)
		}
		key := groupKey{
			date:        date,
			appID:       s.AppID,
			displayName: s.DisplayName,
			category:    s.Category,
			deviceName:  s.DeviceName,
		}
		row, ok := totals[key]
		if !ok {
			row = &model.RollupRow{
				PeriodDate:  date,
				AppID:       s.AppID,
				DisplayName: s.DisplayName,
				Category:    s.Category,
				DeviceName:  s.DeviceName,
			}
			totals[key] = row
			order = append(order, key)
		}
		row.Minutes += s.DurationMinutes
		row.Sessions++
	}

	rows := make([]model.RollupRow, 0, len(order))
	for _, key := range order {
		row := *totals[key]
		row.Hours = round2(row.Minutes / 60)
		row.Minutes = round1(row.Minutes)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].PeriodDate.Equal(rows[j].PeriodDate) {
			return rows[i].PeriodDate.After(rows[j].PeriodDate)
		}
		return rows[i].Minutes > rows[j].Minutes
	})

	return rows
}

// Summary computes run-level usage statistics over all sessions.
func Summary(sessions []model.Session) model.UsageSummary {
	if len(sessions) == 0 {
		return model.UsageSummary{}
	}

	apps := make(map[string]bool)
	dates := make(map[time.Time]bool)
	var totalMinutes float64

	sum := model.UsageSummary{
		TotalSessions: len(sessions),
		Start:         sessions[0].Start,
		End:           sessions[0].Start,
	}
	for _, s := range sessions {
		apps[s.AppID] = true
		dates[s.Date] = true
		totalMinutes += s.DurationMinutes
		if s.Start.Before(sum.Start) {
			sum.Start = s.Start
		}
		if s.Start.After(sum.End) {
			sum.End = s.Start
		}
	}

	sum.TotalApps = len(apps)
	sum.UniqueDates = len(dates)
	sum.TotalMinutes = round1(totalMinutes)
	sum.TotalHours = round2(totalMinutes / 60)
	if len(dates) > 0 {
		sum.AvgDailyHours = round2(totalMinutes / 60 / float64(len(dates)))
	}
	return sum
}

// CategorySummary breaks total usage down per category, sorted by total
// minutes descending.
func CategorySummary(sessions []model.Session) []model.CategorySummaryRow {
	if len(sessions) == 0 {
		return nil
	}

	type catTotal struct {
		minutes float64
		apps    map[string]bool
	}
	totals := make(map[string]*catTotal)
	var order []string
	var grandTotal float64

	for _, s := range sessions {
		ct, ok := totals[s.Category]
		if !ok {
			ct = &catTotal{apps: make(map[string]bool)}
			totals[s.Category] = ct
			order = append(order, s.Category)
		}
		ct.minutes += s.DurationMinutes
		ct.apps[s.AppID] = true
		grandTotal += s.DurationMinutes
	}

	rows := make([]model.CategorySummaryRow, 0, len(order))
	for _, cat := range order {
		ct := totals[cat]
		row := model.CategorySummaryRow{
			Category:   cat,
			Minutes:    round1(ct.minutes),
			Hours:      round2(ct.minutes / 60),
			UniqueApps: len(ct.apps),
		}
		if grandTotal > 0 {
			row.Percentage = round1(ct.minutes / grandTotal * 100)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Minutes > rows[j].Minutes
	})

	return rows
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
