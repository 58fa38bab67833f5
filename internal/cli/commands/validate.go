package commands

import (
	"github.com/spf13/cobra"

	"github.com/validata-io/validata/internal/ingest"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var tableFlag string

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a tabular file against a target schema",
		Long: `Validate ingests a CSV file, maps its columns onto the target table's
schema, checks declared types, infers and evaluates data quality rules,
compares the column set against the last baseline, and recommends a load
strategy. The target table defaults to the file name without extension.`,
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

			target := tableFlag
			if target == "" {
				target = tbl.Name
			}

			report, err := cc.Engine.Validate(cmd.Context(), tbl, target)
			if err != nil {
				return err
			}
			return cc.Renderer.Report(report)
		},
	}

	cmd.Flags().StringVarP(&tableFlag, "table", "t", "", "target table name (default: file name)")
	return cmd
}
