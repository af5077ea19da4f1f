package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/boreal-analytics/forestcut/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the fragment dataset status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		path := cfg.Overlay.CheckpointPath

		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("No fragment dataset yet")
			return nil
		}

		st, err := store.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		run, err := st.LatestRun(ctx)
		if err != nil {
			return err
		}
		count, err := st.Count(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Dataset:   %s\n", path)
		fmt.Printf("Fragments: %d\n", count)
		if run == nil {
			fmt.Println("Run:       none recorded")
			return nil
		}
		fmt.Printf("Run:       %s (%s)\n", run.ID, run.Status)
		fmt.Printf("Started:   %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.FinishedAt != nil {
			fmt.Printf("Finished:  %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
