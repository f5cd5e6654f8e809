// Package list provides commands for listing edforge catalog resources.
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/edforge/cmd/application"
	"github.com/agentstation/edforge/internal/cmd/output"
)

// NewCommand creates the list command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [resource]",
		GroupID: "core",
		Short:   "List resources from the store catalog",
		Long: `List displays resources from the aggregated store catalog.

Available subcommands:
  providers   - Catalog providers and their item counts
  items       - Store items, best rated first`,
		Example: `  edforge list providers                      # List all providers
  edforge list items                          # List every item
  edforge list items overlay                  # Search items
  edforge list items --provider porofessor    # Items from one provider
  edforge list items tftmeta-comp-scout       # Show item details`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown resource: %s", args[0])
		},
	}

	cmd.AddCommand(NewProvidersCommand(app))
	cmd.AddCommand(NewItemsCommand(app))

	return cmd
}

// render writes data in the app's output format. Table formats get the
// table form; structured formats get the raw value.
func render(cmd *cobra.Command, app application.Application, raw any, tableData output.Data) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	data := raw
	if !format.IsStructured() {
		data = tableData
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
}
