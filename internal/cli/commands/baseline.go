package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/validata-io/validata/internal/baseline"
)

// NewBaselineCommand creates the baseline command group.
func NewBaselineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Inspect and manage drift baseline snapshots",
	}
	cmd.AddCommand(newBaselineShowCommand())
	cmd.AddCommand(newBaselinePruneCommand())
	return cmd
}

func openStore(cmd *cobra.Command) (*baseline.SQLiteStore, error) {
	cfg := configFromCommand(cmd)
	if cfg.Baseline.Path == "" {
		return nil, fmt.Errorf("no baseline path configured")
	}
	return baseline.Open(cfg.Baseline.Path)
}

func newBaselineShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show TABLE",
		Short: "Show the latest baseline snapshot for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cols, runID, err := store.LatestSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if cols == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no baseline snapshot for %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run: %s\n", runID)
			for _, c := range cols {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func newBaselinePruneCommand() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune TABLE",
		Short: "Drop all but the most recent snapshots for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Prune(cmd.Context(), args[0], keep); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %s to the last %d run(s)\n", args[0], keep)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 1, "number of snapshot runs to keep")
	return cmd
}
