package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/quietloop/screensync/internal/category"
	"github.com/quietloop/screensync/internal/cli"
	"github.com/quietloop/screensync/internal/config"
	"github.com/quietloop/screensync/internal/notion"
	"github.com/quietloop/screensync/internal/pipeline"
	"github.com/quietloop/screensync/internal/reader"
)

// initClassifier loads the category rule file, falling back to the
// built-in defaults when no file exists yet.
func initClassifier() (*category.Classifier, error) {
	path, err := config.CategoryPath(viper.GetString("category_file"))
	if err != nil {
		return nil, err
	}

	classifier, err := category.New(category.NewStore(path))
	if err != nil {
		return nil, err
	}
	if classifier.UsedDefaults() {
		slog.Debug("Using default category rules", "path", path)
	}
	return classifier, nil
}

// initReader opens the local event log, honoring an event_log override
// from config.
func initReader() (*reader.Reader, error) {
	path := config.EventLogPath()
	if path == "" {
		var err error
		path, err = reader.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return reader.New(path)
}

// initPipeline assembles the full processing pipeline over the local
// event log.
func initPipeline() (*pipeline.Pipeline, *time.Location, error) {
	loc, err := config.Timezone()
	if err != nil {
		return nil, nil, err
	}

	classifier, err := initClassifier()
	if err != nil {
		return nil, nil, err
	}

	src, err := initReader()
	if err != nil {
		return nil, nil, err
	}

	return pipeline.New(src, classifier, loc), loc, nil
}

// initStore connects to the Notion database and verifies access.
func initStore(ctx context.Context) (*notion.Client, notion.Config, error) {
	cfg, err := config.LoadNotionConfig()
	if err != nil {
		return nil, notion.Config{}, err
	}

	client, err := notion.NewClient(ctx, cfg)
	if err != nil {
		return nil, notion.Config{}, err
	}
	return client, cfg, nil
}

// dateRange returns [start, end] covering the last days full days up to
// now, with start truncated to local midnight.
func dateRange(days int, loc *time.Location) (time.Time, time.Time) {
	end := time.Now().In(loc)
	start := end.AddDate(0, 0, -days)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	return start, end
}

func printSuccess(msg string) {
	slog.Info(cli.FormatSuccess(msg))
}

func printWarning(msg string) {
	slog.Warn(cli.FormatWarning(msg))
}

func printInfo(msg string) {
	slog.Info(cli.FormatInfo(msg))
}
