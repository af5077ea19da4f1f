package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/boreal-analytics/forestcut/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the provincial input layers",
	Long: `Downloads the provincial forest inventory and forest intervention archives
into the configured data directory and extracts them. Archives already on
disk are not downloaded again, so the command is safe to re-run.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sources := []fetch.Source{
			{Name: "inventory", URL: cfg.Data.InventoryURL},
			{Name: "interventions", URL: cfg.Data.InterventionURL},
		}

		if err := fetch.Fetch(ctx, sources, cfg.Data.Dir); err != nil {
			return eris.Wrap(err, "fetch")
		}

		fmt.Printf("Input data downloaded to %s\n", cfg.Data.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
