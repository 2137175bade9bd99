package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/quietloop/screensync/internal/model"
)

// WriteRollupCSV writes rollup rows with a header matching the row
// field names.
func WriteRollupCSV(w io.Writer, rows []model.RollupRow) error {
	cw := csv.NewWriter(w)

	header := []string{"date", "app_name", "app_display_name", "category", "device_name", "duration_minutes", "duration_hours", "session_count"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.PeriodDate.Format("2006-01-02"),
			r.AppID,
			r.DisplayName,
			r.Category,
			r.DeviceName,
			strconv.FormatFloat(r.Minutes, 'f', 1, 64),
			strconv.FormatFloat(r.Hours, 'f', 2, 64),
			strconv.Itoa(r.Sessions),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCategoryCSV writes the category summary table.
func WriteCategoryCSV(w io.Writer, rows []model.CategorySummaryRow) error {
	cw := csv.NewWriter(w)

	header := []string{"category", "total_minutes", "duration_hours", "unique_apps", "percentage"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Category,
			strconv.FormatFloat(r.Minutes, 'f', 1, 64),
			strconv.FormatFloat(r.Hours, 'f', 2, 64),
			strconv.Itoa(r.UniqueApps),
			strconv.FormatFloat(r.Percentage, 'f', 1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
