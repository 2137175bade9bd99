package notion

import (
	"context"
	"log/slog"
	"time"

	"github.com/quietloop/screensync/internal/common"
	"github.com/quietloop/screensync/internal/model"
)

// Result counts per-row sync outcomes.
type Result struct {
	Synced  int
	Errors  int
	Skipped int
}

// Syncer reconciles rollup rows against the page store. The manual-entry
// set is rebuilt fresh on every Sync call; the store is not locked during
// a run, so concurrent external edits can race with the fetch-then-write
// sequence.
type Syncer struct {
	store PageStore
	now   func() time.Time
	cfg   Config

	// OnProgress, if set, is called once per processed row.
	OnProgress func()
}

// NewSyncer creates a Syncer over an already-verified page store.
func NewSyncer(store PageStore, cfg Config) *Syncer {
	return &Syncer{store: store, cfg: cfg, now: time.Now}
}

// Sync upserts the given rollup rows. Rows whose reconciliation key
// matches a manual entry are skipped; rows matching an existing record
// are updated in place; the rest are created. A failure on one row is
// logged and counted, never fatal. A fetch-phase failure aborts the run.
func (s *Syncer) Sync(ctx context.Context, rows []model.RollupRow, batchSize int) (Result, error) {
	var result Result
	if len(rows) == 0 {
		return result, nil
	}
	if batchSize <= 0 {
		batchSize = s.cfg.BatchSize
	}

	existing, manual, err := s.fetchExisting(ctx)
	if err != nil {
		return result, err
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		// Rows run sequentially to respect the store's request-rate
		// ceiling; the fixed delay after each write does the throttling.
		for _, row := range rows[start:end] {
			s.syncRow(ctx, row, existing, manual, &result)
			if s.OnProgress != nil {
				s.OnProgress()
			}
		}
	}

	return result, nil
}

func (s *Syncer) syncRow(ctx context.Context, row model.RollupRow, existing map[string]string, manual map[string]bool, result *Result) {
	key := row.Key()

	if manual[key] {
		slog.Info("Skipping manual entry", "app", row.DisplayName, "date", row.PeriodDate.Format("2006-01-02"))
		result.Skipped++
		return
	}

	fields := s.buildFields(row)

	var err error
	if id, ok := existing[key]; ok {
		err = s.store.UpdateRecord(ctx, id, fields)
	} else {
		err = s.store.CreateRecord(ctx, fields)
	}

	if err != nil {
		common.LogError(err, "Failed to sync row", common.Fields{"app": row.DisplayName, "key": key})
		result.Errors++
	} else {
		result.Synced++
	}

	if s.cfg.WriteInterval > 0 {
		select {
		case <-time.After(s.cfg.WriteInterval):
		case <-ctx.Done():
		}
	}
}

// fetchExisting pulls every record via paginated query and splits them
// into updatable records (key -> id) and protected manual keys.
func (s *Syncer) fetchExisting(ctx context.Context) (map[string]string, map[string]bool, error) {
	existing := make(map[string]string)
	manual := make(map[string]bool)

	cursor := ""
	for {
		var page QueryResult
		err := common.WithRetry(ctx, func() error {
			var qerr error
			page, qerr = s.store.QueryPage(ctx, cursor, s.cfg.PageSize)
			return qerr
		}, common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			// Rate-limited calls back off to MaxDelay; Notion asks for
			// about a second, so the default 30s would stall the run.
			MaxDelay: 2 * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}

		for _, rec := range page.Records {
			key := rec.Key()
			if key == "" {
				continue
			}
			if rec.Manual {
				slog.Info("Protecting manual entry", "app", rec.AppName, "date", rec.Date)
				manual[key] = true
			} else {
				existing[key] = rec.ID
			}
		}

		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	common.LogInfo("Fetched existing records", common.Fields{
		"existing": len(existing),
		"manual":   len(manual),
	})
	return existing, manual, nil
}

func (s *Syncer) buildFields(row model.RollupRow) RecordFields {
	appType, domain := s.detectTypeAndDomain(row.AppID, row.DisplayName)

	device := row.DeviceName
	if device == "" {
		device = "💻 Mac"
	}

	return RecordFields{
		AppName:     row.DisplayName,
		AppID:       row.AppID,
		Date:        row.PeriodDate,
		Minutes:     row.Minutes,
		Hours:       row.Hours,
		Sessions:    row.Sessions,
		Type:        appType,
		Domain:      domain,
		Category:    row.Category,
		Device:      device,
		LastUpdated: s.now(),
	}
}

// Clear archives every record in the database. Destructive; exposed for
// the explicit reset flow only.
func (s *Syncer) Clear(ctx context.Context) (int, error) {
	archived := 0
	cursor := ""
	for {
		page, err := s.store.QueryPage(ctx, cursor, s.cfg.PageSize)
		if err != nil {
			return archived, err
		}

		for _, rec := range page.Records {
			if err := s.store.ArchiveRecord(ctx, rec.ID); err != nil {
				return archived, err
			}
			archived++
			if s.cfg.WriteInterval > 0 {
				time.Sleep(s.cfg.WriteInterval / 3)
			}
		}

		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	return archived, nil
}
