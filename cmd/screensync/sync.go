package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quietloop/screensync/internal/aggregate"
	"github.com/quietloop/screensync/internal/cli"
	"github.com/quietloop/screensync/internal/config"
	"github.com/quietloop/screensync/internal/enrich"
	"github.com/quietloop/screensync/internal/generate"
	"github.com/quietloop/screensync/internal/merge"
	"github.com/quietloop/screensync/internal/model"
	"github.com/quietloop/screensync/internal/notion"
	"github.com/quietloop/screensync/internal/pipeline"
	"github.com/quietloop/screensync/internal/sleep"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync screen time rollups to Notion",
		Long: `Read app usage from the local event log, merge it into sessions,
classify by category, infer sleep, aggregate into rollups, and upsert
them into the Notion database.

Rows marked manual in the database are never touched.`,
		RunE: runSync,
	}

	cmd.Flags().IntP("days", "d", 7, "Number of days to process")
	cmd.Flags().String("period", "weekly", "Rollup period (daily, weekly)")
	cmd.Flags().Int("batch-size", 0, "Rows per sync batch (0 = config default)")
	cmd.Flags().Bool("setup-schema", false, "Add any missing database properties before syncing")
	cmd.Flags().Bool("dry-run", false, "Process and print rollups without writing to Notion")
	cmd.Flags().Bool("mac-only", false, "Only include usage from this Mac")
	cmd.Flags().Bool("no-sleep", false, "Skip sleep inference")
	cmd.Flags().Bool("sample", false, "Use generated sample data instead of the event log")

	_ = viper.BindPFlag("sync.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("sync.period", cmd.Flags().Lookup("period"))
	_ = viper.BindPFlag("sync.batch_size", cmd.Flags().Lookup("batch-size"))

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	days := viper.GetInt("sync.days")
	period, err := parsePeriod(viper.GetString("sync.period"))
	if err != nil {
		return err
	}
	batchSize := viper.GetInt("sync.batch_size")
	setupSchema, _ := cmd.Flags().GetBool("setup-schema")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	macOnly, _ := cmd.Flags().GetBool("mac-only")
	noSleep, _ := cmd.Flags().GetBool("no-sleep")
	sample, _ := cmd.Flags().GetBool("sample")

	slog.Info(cli.FormatTitle(fmt.Sprintf("Processing the last %d days...", days)))

	sessions, err := collectSessions(ctx, days, macOnly, !noSleep, sample)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		printWarning("No usage found in the selected range")
		return nil
	}

	rows := aggregate.Aggregate(sessions, period)
	printRunSummary(sessions, rows, period)

	if dryRun {
		printInfo("Dry run, nothing written to Notion")
		return nil
	}

	client, cfg, err := initStore(ctx)
	if err != nil {
		return err
	}

	if setupSchema {
		added, schemaErr := client.EnsureSchema(ctx)
		if schemaErr != nil {
			return fmt.Errorf("failed to update schema: %w", schemaErr)
		}
		if len(added) > 0 {
			printSuccess(fmt.Sprintf("Added database properties: %v", added))
		}
	}

	slog.Info(cli.BoldStyle.Render(cli.SyncIcon + " Writing rollups to Notion"))
	syncer := notionSyncer(client, cfg, len(rows))
	result, err := syncer.Sync(ctx, rows, batchSize)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printSuccess(fmt.Sprintf("Synced %d rows (%d skipped, %d errors)",
		result.Synced, result.Skipped, result.Errors))
	if result.Errors > 0 {
		printWarning("Some rows failed, re-run to retry them")
	}
	return nil
}

// collectSessions runs the pipeline over the event log, or over
// generated sample data when asked.
func collectSessions(ctx context.Context, days int, macOnly, includeSleep, sample bool) ([]model.Session, error) {
	if sample {
		loc, err := config.Timezone()
		if err != nil {
			return nil, err
		}
		classifier, err := initClassifier()
		if err != nil {
			return nil, err
		}
		sessions := merge.Merge(generate.New(time.Now().UnixNano()).Events(days))
		sessions = enrich.New(loc).Enrich(sessions)
		return classifier.Apply(sessions), nil
	}

	p, loc, err := initPipeline()
	if err != nil {
		return nil, err
	}
	start, end := dateRange(days, loc)
	return p.Run(ctx, pipeline.Options{
		Start:        start,
		End:          end,
		AllDevices:   !macOnly,
		IncludeSleep: includeSleep,
	})
}

func printRunSummary(sessions []model.Session, rows []model.RollupRow, period model.Period) {
	var appSessions, sleepSessions []model.Session
	for _, s := range sessions {
		if s.Kind == model.KindSleep {
			sleepSessions = append(sleepSessions, s)
		} else {
			appSessions = append(appSessions, s)
		}
	}

	sum := aggregate.Summary(appSessions)
	content := fmt.Sprintf(`Sessions: %d across %d apps
Total time: %.1fh (%.1fh/day average)
Rollup rows (%s): %d`,
		sum.TotalSessions, sum.TotalApps,
		sum.TotalHours, sum.AvgDailyHours,
		period, len(rows))

	if len(sleepSessions) > 0 {
		ss := sleep.Summarize(sleepSessions)
		content += fmt.Sprintf("\n%s Sleep: %d nights, %.1fh average", cli.SleepIcon, ss.Sessions, ss.AvgHours)
	}

	slog.Info(cli.RenderBox(fmt.Sprintf("%s Usage Summary", cli.ChartIcon), content))

	for _, row := range aggregate.CategorySummary(appSessions) {
		slog.Info(fmt.Sprintf("  %-14s %6.1fh  %5.1f%%", row.Category, row.Hours, row.Percentage))
	}
}

// notionSyncer wires a progress bar into the syncer.
func notionSyncer(store notion.PageStore, cfg notion.Config, total int) *notion.Syncer {
	syncer := notion.NewSyncer(store, cfg)

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Syncing to Notion...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
	syncer.OnProgress = func() { _ = bar.Add(1) }
	return syncer
}

func parsePeriod(s string) (model.Period, error) {
	switch s {
	case "daily":
		return model.PeriodDaily, nil
	case "weekly":
		return model.PeriodWeekly, nil
	default:
		return "", fmt.Errorf("invalid period %q (want daily or weekly)", s)
	}
}
