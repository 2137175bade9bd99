// Package reader extracts usage and display-power events from the local
// Screen Time knowledge database.
package reader

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quietloop/screensync/internal/common"
	"github.com/quietloop/screensync/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// macEpochOffset converts Mac absolute time (seconds since 2001-01-01
// UTC) to Unix time.
const macEpochOffset = 978307200

// Reader provides read-only access to the knowledgeC.db event log.
type Reader struct {
	dbPath string
}

// DefaultPath returns the standard knowledgeC.db location for the
// current user.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "Library", "Application Support", "Knowledge", "knowledgeC.db"), nil
}

// New creates a Reader for the given database path. An empty path uses
// DefaultPath. A missing database is a fatal source error with
// remediation text; it is not retried.
func New(dbPath string) (*Reader, error) {
	if dbPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	if _, err := os.Stat(dbPath); err != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("knowledgeC.db not found at %s. Make sure Screen Time is enabled and your terminal has Full Disk Access", dbPath),
			common.ErrSourceUnavailable)
	}

	return &Reader{dbPath: dbPath}, nil
}

// Path returns the database location.
func (r *Reader) Path() string {
	return r.dbPath
}

// open establishes a read-only connection. The event log belongs to the
// OS; we must never take a write lock on it.
func (r *Reader) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", r.dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, common.NewUserError(
			fmt.Sprintf("failed to read %s; grant Full Disk Access and retry", r.dbPath),
			common.ErrSourceUnavailable)
	}
	return db, nil
}

// AppUsage returns raw usage events in [start, end]. With allDevices the
// query joins synced peer devices; otherwise only local records are
// returned.
func (r *Reader) AppUsage(ctx context.Context, start, end time.Time, allDevices bool) ([]model.RawEvent, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	var query string
	if allDevices {
		query = `
			SELECT ZOBJECT.ZVALUESTRING,
			       ZOBJECT.ZSTARTDATE,
			       ZOBJECT.ZENDDATE,
			       COALESCE(ZSYNCPEER.ZMODEL, 'Mac'),
			       COALESCE(ZSYNCPEER.ZDEVICEID, 'local')
			FROM ZOBJECT
			LEFT JOIN ZSOURCE ON ZOBJECT.ZSOURCE = ZSOURCE.Z_PK
			LEFT JOIN ZSYNCPEER ON ZSOURCE.ZDEVICEID = ZSYNCPEER.ZDEVICEID
			WHERE ZOBJECT.ZSTREAMNAME = '/app/usage'
			AND ZOBJECT.ZVALUESTRING IS NOT NULL
			AND ZOBJECT.ZVALUESTRING != ''
			AND (ZOBJECT.ZENDDATE - ZOBJECT.ZSTARTDATE) > 15
			AND ZOBJECT.ZSTARTDATE >= ? AND ZOBJECT.ZENDDATE <= ?
			ORDER BY ZOBJECT.ZSTARTDATE DESC`
	} else {
		query = `
			SELECT ZOBJECT.ZVALUESTRING,
			       ZOBJECT.ZSTARTDATE,
			       ZOBJECT.ZENDDATE,
			       'Mac',
			       'local'
			FROM ZOBJECT
			WHERE ZOBJECT.ZSTREAMNAME = '/app/usage'
			AND ZOBJECT.ZVALUESTRING IS NOT NULL
			AND ZOBJECT.ZVALUESTRING != ''
			AND ZOBJECT.ZSTARTDATE >= ? AND ZOBJECT.ZENDDATE <= ?
			ORDER BY ZOBJECT.ZSTARTDATE DESC`
	}

	rows, err := db.QueryContext(ctx, query, timeToMac(start), timeToMac(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query app usage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.RawEvent
	for rows.Next() {
		var (
			appID       string
			startTS     float64
			endTS       float64
			deviceModel string
			deviceID    string
		)
		if err := rows.Scan(&appID, &startTS, &endTS, &deviceModel, &deviceID); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		events = append(events, model.RawEvent{
			AppID:       appID,
			DisplayName: CleanAppName(appID),
			Start:       macToTime(startTS),
			End:         macToTime(endTS),
			DeviceModel: deviceModel,
			DeviceID:    deviceID,
			DeviceName:  FormatDeviceName(deviceModel),
		})
	}
	return events, rows.Err()
}

// DarkIntervals returns display-off intervals in [start, end] from the
// backlight stream.
func (r *Reader) DarkIntervals(ctx context.Context, start, end time.Time) ([]model.PowerInterval, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	query := `
		SELECT ZSTARTDATE, ZENDDATE
		FROM ZOBJECT
		WHERE ZSTREAMNAME = '/display/isBacklit'
		AND ZVALUEINTEGER = 0
		AND ZSTARTDATE >= ? AND ZENDDATE <= ?
		ORDER BY ZSTARTDATE DESC`

	rows, err := db.QueryContext(ctx, query, timeToMac(start), timeToMac(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query display power events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var intervals []model.PowerInterval
	for rows.Next() {
		var startTS, endTS float64
		if err := rows.Scan(&startTS, &endTS); err != nil {
			return nil, fmt.Errorf("failed to scan power row: %w", err)
		}
		intervals = append(intervals, model.PowerInterval{
			Start:   macToTime(startTS),
			End:     macToTime(endTS),
			Powered: false,
		})
	}
	return intervals, rows.Err()
}

// Device describes one device present in the event log.
type Device struct {
	Model      string
	ID         string
	Name       string
	UsageCount int
}

// Devices lists the devices that contributed usage events, most active
// first. The local Mac is always included.
func (r *Reader) Devices(ctx context.Context) ([]Device, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	query := `
		SELECT ZSYNCPEER.ZMODEL, ZSYNCPEER.ZDEVICEID, COUNT(*)
		FROM ZOBJECT
		LEFT JOIN ZSOURCE ON ZOBJECT.ZSOURCE = ZSOURCE.Z_PK
		LEFT JOIN ZSYNCPEER ON ZSOURCE.ZDEVICEID = ZSYNCPEER.ZDEVICEID
		WHERE ZOBJECT.ZSTREAMNAME = '/app/usage'
		AND ZOBJECT.ZVALUESTRING IS NOT NULL
		AND ZSYNCPEER.ZMODEL IS NOT NULL
		GROUP BY ZSYNCPEER.ZMODEL, ZSYNCPEER.ZDEVICEID
		ORDER BY COUNT(*) DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var devices []Device
	macSeen := false
	for rows.Next() {
		var d Device
		if err := rows.Scan(&d.Model, &d.ID, &d.UsageCount); err != nil {
			return nil, fmt.Errorf("failed to scan device row: %w", err)
		}
		d.Name = FormatDeviceName(d.Model)
		if d.Model == "Mac" || d.Model == "iMac14,1" {
			macSeen = true
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !macSeen {
		devices = append([]Device{{Model: "Mac", ID: "local", Name: FormatDeviceName("Mac")}}, devices...)
	}
	return devices, nil
}

// Apps lists the distinct bundle identifiers present in the usage stream.
func (r *Reader) Apps(ctx context.Context) ([]string, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	query := `
		SELECT DISTINCT ZVALUESTRING
		FROM ZOBJECT
		WHERE ZSTREAMNAME = '/app/usage'
		AND ZVALUESTRING IS NOT NULL
		AND ZVALUESTRING != ''
		ORDER BY ZVALUESTRING`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query apps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var apps []string
	for rows.Next() {
		var app string
		if err := rows.Scan(&app); err != nil {
			return nil, fmt.Errorf("failed to scan app row: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func macToTime(sec float64) time.Time {
	unix := sec + macEpochOffset
	return time.Unix(int64(unix), int64((unix-float64(int64(unix)))*1e9)).UTC()
}

func timeToMac(t time.Time) float64 {
	return float64(t.Unix()) - macEpochOffset
}
