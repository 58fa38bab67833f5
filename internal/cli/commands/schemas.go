package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/validata-io/validata/internal/cli/output"
)

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas [TABLE]",
		Short: "List catalog tables or show one table's schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 0 {
				return listTables(cmd, cc)
			}
			return showSchema(cmd, cc, args[0])
		},
	}
}

func listTables(cmd *cobra.Command, cc *CommandContext) error {
	tables, err := cc.Engine.Catalog().Tables(cmd.Context())
	if err != nil {
		return err
	}

	if cc.Renderer.Format() == output.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]string{"tables": tables})
	}
	for _, name := range tables {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func showSchema(cmd *cobra.Command, cc *CommandContext, name string) error {
	schema, err := cc.Engine.Catalog().Schema(cmd.Context(), name)
	if err != nil {
		return err
	}

	if cc.Renderer.Format() == output.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(schema)
	}

	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Column", "Type", "Nullable", "Primary Key"})
	for _, col := range schema.Columns {
		w.AppendRow(table.Row{col.Name, string(col.Type), col.Nullable, col.PrimaryKey})
	}
	if cc.Renderer.Format() == output.FormatMarkdown {
		w.RenderMarkdown()
	} else {
		w.Render()
	}
	return nil
}
