// Package enrich attaches calendar fields to merged sessions.
package enrich

import (
	"time"

	"github.com/quietloop/screensync/internal/model"
)

// Enricher localizes session timestamps and derives calendar fields.
// Localization happens strictly after merging: merging works on absolute
// instants, so a DST shift mid-stream cannot split or join sessions.
type Enricher struct {
	loc *time.Location
}

// New creates an Enricher for the given timezone.
func New(loc *time.Location) *Enricher {
	if loc == nil {
		loc = time.UTC
	}
	return &Enricher{loc: loc}
}

// Enrich converts each session's timestamps into the configured zone and
// fills Date, DayOfWeek and StartHour. The input slice is not modified.
func (e *Enricher) Enrich(sessions []model.Session) []model.Session {
	out := make([]model.Session, len(sessions))
	for i, s := range sessions {
		s.Start = s.Start.In(e.loc)
		s.End = s.End.In(e.loc)
		s.Date = time.Date(s.Start.Year(), s.Start.Month(), s.Start.Day(), 0, 0, 0, 0, e.loc)
		s.DayOfWeek = s.Start.Weekday().String()
		s.StartHour = s.Start.Hour()
		out[i] = s
	}
	return out
}
