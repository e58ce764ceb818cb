package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

func newCheckpointCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Inspect or trim persisted export checkpoints",
	}

	cmd.AddCommand(newCheckpointShowCmd(app), newCheckpointClearCmd(app))

	return cmd
}

func newCheckpointShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List recorded checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.checkpointStore()
			if err != nil {
				return err
			}

			set, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if len(set) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No checkpoints recorded.")
				return nil
			}

			runs := make([]string, 0, len(set))
			for run := range set {
				runs = append(runs, run)
			}
			sort.Strings(runs)

			for _, run := range runs {
				checkpoint := set[run]
				fmt.Fprintf(cmd.OutOrStdout(), "%s\torder=%s rows=%d last_created_at=%s updated_at=%s\n",
					run,
					checkpoint.Direction,
					checkpoint.Rows,
					formatCheckpointTime(checkpoint.LastCreatedAt),
					formatCheckpointTime(checkpoint.UpdatedAt),
				)
			}

			return nil
		},
	}
}

func newCheckpointClearCmd(app *app) *cobra.Command {
	var run string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove one run's checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := app.checkpointStore()
			if err != nil {
				return err
			}

			if err := store.Clear(cmd.Context(), run); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared checkpoint for %s\n", run)
			return nil
		},
	}

	cmd.Flags().StringVar(&run, "run", "", "Run identifier (output file base name)")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func formatCheckpointTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}

	return value.UTC().Format(time.RFC3339)
}
