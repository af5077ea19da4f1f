package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/boreal-analytics/forestcut/internal/geometry"
	"github.com/boreal-analytics/forestcut/internal/matrix"
	"github.com/boreal-analytics/forestcut/internal/overlay"
	"github.com/boreal-analytics/forestcut/internal/store"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Aggregate fragments into the output matrices",
	Long: `Reduces the persisted fragment dataset into the cut-type by forest-type
area cross-tab and writes two CSVs: the raw percentage matrix and the
filtered, column-normalized probability matrix. Requires a complete fragment
dataset produced by the overlay command.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		lookups, err := overlay.LoadLookups(cfg.Data.ShadeToleranceFile, cfg.Data.CutCategoriesFile)
		if err != nil {
			return err
		}

		st, err := store.OpenComplete(ctx, cfg.Overlay.CheckpointPath)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		crosstab, err := matrix.Accumulate(ctx, st, geometry.NewEngine(), lookups.CutCategories)
		if err != nil {
			return eris.Wrap(err, "matrix: aggregate")
		}

		pct := crosstab.Percentages()
		if err := matrix.WriteCSV(pct, cfg.Output.MatrixCSV); err != nil {
			return err
		}

		prob := crosstab.Probabilities(cfg.Output.ExcludedCutTypes)
		if err := matrix.WriteCSV(prob, cfg.Output.ProbabilityCSV); err != nil {
			return err
		}

		fmt.Printf("Aggregated %d fragments, total area %.2f\n",
			crosstab.Fragments(), crosstab.TotalArea())
		fmt.Printf("Percentage matrix written to %s\n", cfg.Output.MatrixCSV)
		fmt.Printf("Probability matrix written to %s\n", cfg.Output.ProbabilityCSV)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matrixCmd)
}
