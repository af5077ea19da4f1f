package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boreal-analytics/forestcut/internal/geometry"
	"github.com/boreal-analytics/forestcut/internal/layer"
	"github.com/boreal-analytics/forestcut/internal/overlay"
	"github.com/boreal-analytics/forestcut/internal/store"
)

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "Intersect the inventory and intervention layers",
	Long: `Streams the forest inventory layer against a spatial index of the forest
intervention layer, computes the exact intersection fragments, classifies
them, and persists them to the fragment dataset.

If a valid fragment dataset from a completed run already exists, the overlay
is skipped entirely. A corrupt or incomplete dataset is discarded and the
overlay recomputed from scratch.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(zap.String("command", "overlay"))

		// Dictionaries load first: a missing lookup aborts before any
		// expensive work.
		lookups, err := overlay.LoadLookups(cfg.Data.ShadeToleranceFile, cfg.Data.CutCategoriesFile)
		if err != nil {
			return err
		}

		cp, err := store.Resume(ctx, cfg.Overlay.CheckpointPath)
		if err != nil {
			return err
		}
		defer func() { _ = cp.Store.Close() }()

		if cp.Complete {
			fmt.Printf("Fragment dataset already complete (%d fragments), skipping overlay\n", cp.Fragments)
			return nil
		}

		interventions, skipped, err := layer.LoadInterventions(
			cfg.Data.InterventionShapefile, interventionFields())
		if err != nil {
			return err
		}
		log.Info("intervention layer loaded",
			zap.Int("interventions", len(interventions)),
			zap.Int("skipped", skipped),
		)

		index := overlay.NewIndex(interventions)
		log.Info("spatial index built", zap.Int("indexed", index.Size()))

		inv, err := layer.OpenInventory(cfg.Data.InventoryShapefile, inventoryFields())
		if err != nil {
			return err
		}
		defer func() { _ = inv.Close() }()

		writer, err := store.NewWriter(ctx, cp.Store, cfg.Overlay.BufferSize)
		if err != nil {
			return err
		}

		engine := overlay.New(geometry.NewEngine(), index, interventions, lookups, cfg.Overlay.MinArea)
		counters, err := engine.Run(ctx, inv, writer)
		if err != nil {
			// The run record stays incomplete; the next resume discards it.
			return eris.Wrap(err, "overlay")
		}

		if err := writer.Close(ctx); err != nil {
			return eris.Wrap(err, "overlay: finalize dataset")
		}

		fmt.Printf("Overlay complete: %d fragments written, %d slivers discarded, %d inventory features skipped\n",
			counters.Fragments, counters.DiscardedSlivers, counters.SkippedFeatures+inv.Skipped())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(overlayCmd)
}

func inventoryFields() layer.InventoryFields {
	f := cfg.Data.InventoryFields
	return layer.InventoryFields{
		AgeClass:     f.AgeClass,
		SpeciesGroup: f.SpeciesGroup,
		Terrain:      f.Terrain,
	}
}

func interventionFields() layer.InterventionFields {
	f := cfg.Data.InterventionFields
	return layer.InterventionFields{
		FiscalYear:      f.FiscalYear,
		Origin:          f.Origin,
		OriginYear:      f.OriginYear,
		Disturbance:     f.Disturbance,
		DisturbanceYear: f.DisturbanceYear,
		Reforest1:       f.Reforest1,
		Reforest2:       f.Reforest2,
		Reforest3:       f.Reforest3,
	}
}
