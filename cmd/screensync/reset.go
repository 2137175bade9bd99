package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quietloop/screensync/internal/notion"
)

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Archive every record in the Notion database",
		Long: `Reset archives every record in the target database, including
manual entries. The next sync rebuilds pipeline-owned rows from scratch;
manual entries are gone for good.`,
		RunE: runReset,
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runReset(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")

	client, cfg, err := initStore(ctx)
	if err != nil {
		return err
	}

	if !force {
		fmt.Fprint(os.Stdout, "This archives EVERY record in the database, manual entries included.\nAre you sure you want to continue? [y/N]: ")

		var response string
		if _, err := fmt.Scanln(&response); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if response != "y" && response != "Y" {
			fmt.Fprintln(os.Stdout, "Reset canceled.")
			return nil
		}
	}

	archived, err := notion.NewSyncer(client, cfg).Clear(ctx)
	if err != nil {
		return fmt.Errorf("reset failed after archiving %d records: %w", archived, err)
	}

	printSuccess(fmt.Sprintf("Archived %d records", archived))
	return nil
}
