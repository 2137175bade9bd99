package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quietloop/screensync/internal/aggregate"
	"github.com/quietloop/screensync/internal/pipeline"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export usage rollups as CSV",
		Long: `Run the processing pipeline over the local event log and write the
resulting rollup rows as CSV, either to stdout or to a file.`,
		RunE: runExport,
	}

	cmd.Flags().IntP("days", "d", 30, "Number of days to export")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().String("period", "daily", "Rollup period (daily, weekly)")
	cmd.Flags().Bool("category-summary", false, "Export the per-category breakdown instead of rollup rows")
	cmd.Flags().Bool("mac-only", false, "Only include usage from this Mac")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	days, _ := cmd.Flags().GetInt("days")
	output, _ := cmd.Flags().GetString("output")
	periodName, _ := cmd.Flags().GetString("period")
	categorySummary, _ := cmd.Flags().GetBool("category-summary")
	macOnly, _ := cmd.Flags().GetBool("mac-only")

	period, err := parsePeriod(periodName)
	if err != nil {
		return err
	}

	p, loc, err := initPipeline()
	if err != nil {
		return err
	}

	start, end := dateRange(days, loc)
	sessions, err := p.Run(cmd.Context(), pipeline.Options{
		Start:      start,
		End:        end,
		AllDevices: !macOnly,
	})
	if err != nil {
		return err
	}

	w := os.Stdout
	if output != "" {
		f, createErr := os.Create(output) //nolint:gosec // user-chosen export path
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if categorySummary {
		err = aggregate.WriteCategoryCSV(w, aggregate.CategorySummary(sessions))
	} else {
		rows := aggregate.Aggregate(sessions, period)
		err = aggregate.WriteRollupCSV(w, rows)
	}
	if err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	if output != "" {
		printSuccess(fmt.Sprintf("Exported %d days to %s", days, output))
	}
	return nil
}
