package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quietloop/screensync/internal/cli"
)

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List devices contributing usage events",
		Long: `List the devices present in the local event log, most active
first. iCloud-synced devices appear alongside this Mac.`,
		RunE: runDevices,
	}
}

func runDevices(cmd *cobra.Command, _ []string) error {
	src, err := initReader()
	if err != nil {
		return err
	}

	devices, err := src.Devices(cmd.Context())
	if err != nil {
		return err
	}

	slog.Info(cli.FormatTitle("Devices"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODEL\tEVENTS")
	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%s\t%d\n", d.Name, d.Model, d.UsageCount)
	}
	return w.Flush()
}
