// Package model defines the core domain models used throughout the application.
package model

import "time"

// SessionKind distinguishes merged app usage from inferred sleep.
type SessionKind string

// Session kind constants.
const (
	KindApp   SessionKind = "app"
	KindSleep SessionKind = "sleep"
)

// RawEvent is a single usage record as read from the event log, before
// any filtering or merging.
type RawEvent struct {
	Start       time.Time
	End         time.Time
	AppID       string // bundle identifier, e.g. com.apple.Safari
	DisplayName string
	DeviceModel string
	DeviceID    string
	DeviceName  string
}

// DurationMinutes returns the event length in minutes.
func (e RawEvent) DurationMinutes() float64 {
	return e.End.Sub(e.Start).Minutes()
}

// Session is a continuous period of app usage produced by merging one or
// more raw events, or a synthetic sleep period. Calendar fields are zero
// until the session has been enriched.
type Session struct {
	Start           time.Time
	End             time.Time
	Date            time.Time // local calendar date (midnight, enriched zone)
	AppID           string
	DisplayName     string
	DayOfWeek       string
	DeviceName      string
	Category        string
	Kind            SessionKind
	DurationMinutes float64
	StartHour       int
}

// Recompute refreshes DurationMinutes from the start/end instants. Called
// whenever a merge extends the session.
func (s *Session) Recompute() {
	s.DurationMinutes = s.End.Sub(s.Start).Minutes()
}

// PowerInterval is one display-power-state record from the event log.
type PowerInterval struct {
	Start   time.Time
	End     time.Time
	Powered bool
}

// Duration returns the interval length.
func (p PowerInterval) Duration() time.Duration {
	return p.End.Sub(p.Start)
}
