// Package pipeline wires the processing stages from raw events to
// classified, enriched sessions.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/quietloop/screensync/internal/category"
	"github.com/quietloop/screensync/internal/common"
	"github.com/quietloop/screensync/internal/enrich"
	"github.com/quietloop/screensync/internal/merge"
	"github.com/quietloop/screensync/internal/model"
	"github.com/quietloop/screensync/internal/sleep"
)

// Source supplies the raw event streams.
type Source interface {
	AppUsage(ctx context.Context, start, end time.Time, allDevices bool) ([]model.RawEvent, error)
	DarkIntervals(ctx context.Context, start, end time.Time) ([]model.PowerInterval, error)
}

// Options selects what a run processes.
type Options struct {
	Start        time.Time
	End          time.Time
	AllDevices   bool
	IncludeSleep bool
}

// Pipeline runs merge, enrichment, classification and sleep inference in
// order over one date range.
type Pipeline struct {
	source     Source
	classifier *category.Classifier
	loc        *time.Location
}

// New assembles a pipeline.
func New(source Source, classifier *category.Classifier, loc *time.Location) *Pipeline {
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{source: source, classifier: classifier, loc: loc}
}

// Run produces the full session set for the range. An empty event log
// yields an empty result, not an error. A failure reading the power
// stream degrades to a run without sleep sessions.
func (p *Pipeline) Run(ctx context.Context, opts Options) ([]model.Session, error) {
	raw, err := p.source.AppUsage(ctx, opts.Start, opts.End, opts.AllDevices)
	if err != nil {
		return nil, err
	}
	common.LogDebug("Read raw usage events", common.Fields{"count": len(raw)})

	sessions := merge.Merge(raw)
	sessions = enrich.New(p.loc).Enrich(sessions)
	sessions = p.classifier.Apply(sessions)

	if opts.IncludeSleep {
		intervals, err := p.source.DarkIntervals(ctx, opts.Start, opts.End)
		if err != nil {
			slog.Warn("Skipping sleep inference, power stream unavailable", "error", err)
		} else {
			sessions = append(sessions, sleep.New(p.loc).Infer(intervals)...)
		}
	}

	return sessions, nil
}
