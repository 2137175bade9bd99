package notion

import (
	"context"
	"strings"
	"time"
)

// Record is the store's view of one existing row, reduced to what
// reconciliation needs.
type Record struct {
	ID      string
	AppName string
	AppID   string
	Date    string // YYYY-MM-DD
	Manual  bool
}

// Key returns the reconciliation key for this record, or "" if the
// record lacks a name or date.
func (r Record) Key() string {
	if r.AppName == "" || r.Date == "" {
		return ""
	}
	return r.AppName + "_" + r.Date
}

// IsManualEntry reports whether a record with the given identity must be
// protected from pipeline writes: no app identifier, the manual
// sentinel, or "manual" in the row name.
func IsManualEntry(appName, appID string) bool {
	return appID == "" || appID == "manual" || strings.Contains(strings.ToLower(appName), "manual")
}

// RecordFields is the external schema of one synced row.
type RecordFields struct {
	Date        time.Time
	LastUpdated time.Time
	AppName     string
	AppID       string
	Type        string // App or Website
	Domain      string
	URL         string
	Category    string
	DayOfWeek   string
	Device      string
	Minutes     float64
	Hours       float64
	Sessions    int
}

// QueryResult is one page of records from the store.
type QueryResult struct {
	Records    []Record
	NextCursor string
	HasMore    bool
}

// DatabaseInfo describes the target database.
type DatabaseInfo struct {
	Title      string
	URL        string
	Properties []string
}

// PageStore is the key-value page store behind the sync protocol:
// paginated query plus create, update and archive keyed by record id.
type PageStore interface {
	QueryPage(ctx context.Context, cursor string, pageSize int) (QueryResult, error)
	CreateRecord(ctx context.Context, fields RecordFields) error
	UpdateRecord(ctx context.Context, id string, fields RecordFields) error
	ArchiveRecord(ctx context.Context, id string) error
	EnsureSchema(ctx context.Context) ([]string, error)
	DatabaseInfo(ctx context.Context) (DatabaseInfo, error)
}
