package commands

import (
	"github.com/spf13/cobra"

	"github.com/validata-io/validata/internal/ingest"
)

// NewProfileCommand creates the profile command.
func NewProfileCommand() *cobra.Command {
	var rowsFlag int

	cmd := &cobra.Command{
		Use:   "profile FILE",
		Short: "Profile a tabular file",
		Long: `Profile ingests a CSV file and reports its structure: row count, the
first sample rows, and per-column counts, null counts, distinct counts,
and min/max/mean for numeric columns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tbl, err := ingest.ReadCSV(args[0])
			if err != nil {
				return err
			}

			rows := rowsFlag
			if !cmd.Flags().Changed("rows") {
				rows = cc.Cfg.Profile.Rows
			}

			prof, err := cc.Engine.Profile(cmd.Context(), tbl, rows)
			if err != nil {
				return err
			}
			return cc.Renderer.Profile(prof)
		},
	}

	cmd.Flags().IntVarP(&rowsFlag, "rows", "n", 5, "number of sample rows to show")
	return cmd
}
