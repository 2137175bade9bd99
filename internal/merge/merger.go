// Package merge collapses raw usage events into non-overlapping sessions.
package merge

import (
	"sort"
	"time"

	"github.com/quietloop/screensync/internal/model"
)

// Tunable merge heuristics. The window covers true overlap (negative gap)
// as well as near-contiguous app reopens.
const (
	// MergeWindow is the maximum gap between two events of the same app
	// for them to be treated as one session.
	MergeWindow = 5 * time.Minute

	// MinEventDuration filters out sensor noise.
	MinEventDuration = 5 * time.Second

	// MaxEventDuration filters out stuck timers.
	MaxEventDuration = 12 * time.Hour
)

// Merge produces minimal non-overlapping sessions from raw events.
// Events are grouped per app, merged independently, then the combined
// result is returned sorted by start time descending.
func Merge(events []model.RawEvent) []model.Session {
	byApp := make(map[string][]model.RawEvent)
	order := make([]string, 0)

	for _, ev := range events {
		d := ev.End.Sub(ev.Start)
		if d < MinEventDuration || d > MaxEventDuration {
			continue
		}
		if _, ok := byApp[ev.AppID]; !ok {
			order = append(order, ev.AppID)
		}
		byApp[ev.AppID] = append(byApp[ev.AppID], ev)
	}

	sessions := make([]model.Session, 0, len(events))
	for _, app := range order {
		sessions = append(sessions, mergeApp(byApp[app])...)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Start.After(sessions[j].Start)
	})

	return sessions
}

// mergeApp merges the events of a single app. Events may arrive in any
// order; merging happens on absolute instants, never local wall time.
func mergeApp(events []model.RawEvent) []model.Session {
	if len(events) == 0 {
		return nil
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	sessions := make([]model.Session, 0, len(events))
	current := newSession(events[0])

	for _, next := range events[1:] {
		gap := next.Start.Sub(current.End)
		if gap <= MergeWindow {
			if next.End.After(current.End) {
				current.End = next.End
			}
			current.Recompute()
			continue
		}
		sessions = append(sessions, current)
		current = newSession(next)
	}

	return append(sessions, current)
}

func newSession(ev model.RawEvent) model.Session {
	s := model.Session{
		Start:       ev.Start,
		End:         ev.End,
		AppID:       ev.AppID,
		DisplayName: ev.DisplayName,
		DeviceName:  ev.DeviceName,
		Kind:        model.KindApp,
	}
	s.Recompute()
	return s
}
