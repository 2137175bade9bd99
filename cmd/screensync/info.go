package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietloop/screensync/internal/cli"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the target Notion database",
		Long: `Connect to the configured Notion database and show its title,
URL and properties. Useful for verifying credentials and schema.`,
		RunE: runInfo,
	}
}

func runInfo(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client, _, err := initStore(ctx)
	if err != nil {
		return err
	}

	info, err := client.DatabaseInfo(ctx)
	if err != nil {
		return err
	}

	content := fmt.Sprintf(`URL: %s
Properties: %s`,
		info.URL, strings.Join(info.Properties, ", "))

	slog.Info(cli.RenderBox(info.Title, content))
	return nil
}
