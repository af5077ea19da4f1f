package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boreal-analytics/forestcut/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "forestcut",
	Short: "Forest cut probability matrix pipeline",
	Long:  "Overlays the provincial forest inventory and intervention layers, classifies the intersection fragments, and derives the cut-type by forest-type probability matrix.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
