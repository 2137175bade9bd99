package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietloop/screensync/internal/cli"
)

func categorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <app> <category>",
		Short: "Assign an app to a category",
		Long: `Add an app to a category's rule list and persist the rule file.
The app can be a display name or a bundle identifier.

Example:
  screensync categorize Figma Work`,
		Args: cobra.ExactArgs(2),
		RunE: runCategorize,
	}
}

func runCategorize(_ *cobra.Command, args []string) error {
	app, categoryName := args[0], args[1]

	classifier, err := initClassifier()
	if err != nil {
		return err
	}

	added, err := classifier.AddMapping(app, categoryName)
	if err != nil {
		return fmt.Errorf("failed to save category rules: %w", err)
	}
	if !added {
		known := classifier.Categories()
		printWarning(fmt.Sprintf("Unknown category %q. Available: %s",
			categoryName, strings.Join(known, ", ")))
		return nil
	}

	printSuccess(fmt.Sprintf("%s %s → %s", cli.TagIcon, app, categoryName))
	return nil
}
