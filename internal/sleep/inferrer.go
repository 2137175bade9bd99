// Package sleep infers overnight sleep sessions from display power data.
package sleep

import (
	"math"
	"sort"
	"time"

	"github.com/quietloop/screensync/internal/model"
)

// Synthetic identity assigned to inferred sleep sessions.
const (
	AppID       = "sleep.session"
	DisplayName = "Sleep"
	Category    = "Sleeping"
)

// Tunable detection heuristics: a dark interval counts as sleep when it
// is long enough and starts in the evening window or ends in the morning
// window (local time).
const (
	MinDuration       = 3 * time.Hour
	EveningStartHour  = 20 // inclusive, wraps past midnight
	EveningWrapHour   = 2  // inclusive
	MorningEndFirst   = 5  // inclusive
	MorningEndLast    = 11 // inclusive
	defaultDeviceName = "💻 Mac"
)

// Inferrer scans display-power intervals for plausible sleep periods.
type Inferrer struct {
	loc *time.Location
}

// New creates an Inferrer that evaluates the overnight windows in the
// given timezone.
func New(loc *time.Location) *Inferrer {
	if loc == nil {
		loc = time.UTC
	}
	return &Inferrer{loc: loc}
}

// Infer emits one sleep session per qualifying dark interval. Adjacent
// dark intervals are deliberately not merged; the power log records one
// continuous dark period per real sleep event. Output is sorted by start
// time descending and comes pre-enriched.
func (inf *Inferrer) Infer(intervals []model.PowerInterval) []model.Session {
	var sessions []model.Session

	for _, iv := range intervals {
		if iv.Powered {
			continue
		}
		if iv.Duration() < MinDuration {
			continue
		}

		start := iv.Start.In(inf.loc)
		end := iv.End.In(inf.loc)

		eveningStart := start.Hour() >= EveningStartHour || start.Hour() <= EveningWrapHour
		morningEnd := end.Hour() >= MorningEndFirst && end.Hour() <= MorningEndLast
		if !eveningStart && !morningEnd {
			continue
		}

		s := model.Session{
			Start:       start,
			End:         end,
			Date:        time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, inf.loc),
			AppID:       AppID,
			DisplayName: DisplayName,
			DayOfWeek:   start.Weekday().String(),
			StartHour:   start.Hour(),
			DeviceName:  defaultDeviceName,
			Category:    Category,
			Kind:        model.KindSleep,
		}
		s.Recompute()
		sessions = append(sessions, s)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Start.After(sessions[j].Start)
	})

	return sessions
}

// Summary holds aggregate sleep statistics.
type Summary struct {
	Start      time.Time
	End        time.Time
	TotalHours float64
	AvgHours   float64
	Sessions   int
}

// Summarize computes sleep statistics over inferred sessions.
func Summarize(sessions []model.Session) Summary {
	if len(sessions) == 0 {
		return Summary{}
	}

	var total float64
	sum := Summary{Sessions: len(sessions), Start: sessions[0].Start, End: sessions[0].Start}
	for _, s := range sessions {
		total += s.DurationMinutes / 60
		if s.Start.Before(sum.Start) {
			sum.Start = s.Start
		}
		if s.Start.After(sum.End) {
			sum.End = s.Start
		}
	}
	sum.TotalHours = round2(total)
	sum.AvgHours = round2(total / float64(len(sessions)))
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
