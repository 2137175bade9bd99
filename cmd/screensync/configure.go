package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quietloop/screensync/internal/cli"
	"github.com/quietloop/screensync/internal/config"
	"github.com/quietloop/screensync/internal/notion"
)

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Prompt for Notion credentials, save them to the config file, and
test the connection. Existing settings in the config file are kept.`,
		RunE: runConfigure,
	}
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	in := bufio.NewReader(os.Stdin)

	slog.Info(cli.FormatTitle("Configuration setup"))

	apiKey, err := prompt(in, "Notion API key")
	if err != nil {
		return err
	}
	databaseID, err := prompt(in, "Notion database ID")
	if err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "config.yaml")
	if err := writeCredentials(path, apiKey, databaseID); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	printSuccess(fmt.Sprintf("Configuration saved to %s", path))

	// Test the connection with the values just entered.
	slog.Info("Testing Notion connection...")
	cfg := notion.DefaultConfig()
	cfg.APIKey = apiKey
	cfg.DatabaseID = databaseID
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := notion.NewClient(ctx, cfg)
	if err != nil {
		return err
	}

	info, err := client.DatabaseInfo(ctx)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Connected to %q", info.Title))
	slog.Info(cli.SubtleStyle.Render("  " + info.URL))

	fmt.Fprint(os.Stdout, "Set up the database schema now? [y/N]: ")
	answer, err := prompt(in, "")
	if err != nil {
		return err
	}
	if answer == "y" || answer == "Y" {
		added, schemaErr := client.EnsureSchema(ctx)
		if schemaErr != nil {
			return fmt.Errorf("failed to update schema: %w", schemaErr)
		}
		if len(added) > 0 {
			printSuccess(fmt.Sprintf("Added database properties: %v", added))
		} else {
			printSuccess("Database schema already complete")
		}
	}
	return nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	if label != "" {
		fmt.Fprintf(os.Stdout, "%s: ", label)
	}
	line, err := in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// writeCredentials merges the Notion credentials into the config file,
// preserving any other settings already there.
func writeCredentials(path, apiKey, databaseID string) error {
	v := viper.New()
	v.SetConfigFile(path)
	// A missing file is fine, this is first-time setup.
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return err
	}

	v.Set("notion.api_key", apiKey)
	v.Set("notion.database_id", databaseID)
	return v.WriteConfigAs(path)
}
