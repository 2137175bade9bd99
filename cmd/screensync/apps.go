package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quietloop/screensync/internal/category"
	"github.com/quietloop/screensync/internal/cli"
	"github.com/quietloop/screensync/internal/reader"
)

func appsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List apps seen in the event log",
		Long: `List the distinct apps present in the local event log with the
category each one resolves to under the current rules.`,
		RunE: runApps,
	}

	cmd.Flags().Bool("uncategorized", false, "Only show apps falling through to the fallback category")

	return cmd
}

func runApps(cmd *cobra.Command, _ []string) error {
	uncategorizedOnly, _ := cmd.Flags().GetBool("uncategorized")

	classifier, err := initClassifier()
	if err != nil {
		return err
	}

	src, err := initReader()
	if err != nil {
		return err
	}

	appIDs, err := src.Apps(cmd.Context())
	if err != nil {
		return err
	}
	if len(appIDs) == 0 {
		printWarning("No apps found in the event log")
		return nil
	}

	slog.Info(cli.FormatTitle("Apps in the event log"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "APP\tBUNDLE ID\tCATEGORY")

	shown := 0
	for _, appID := range appIDs {
		name := reader.CleanAppName(appID)
		cat := classifier.Classify(appID, name)
		if uncategorizedOnly && cat != category.FallbackCategory {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, appID, cat)
		shown++
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if uncategorizedOnly && shown == 0 {
		printSuccess("Every app matches a category rule")
	} else if uncategorizedOnly {
		slog.Info("Assign one with: screensync categorize <app> <category>")
	}
	return nil
}
