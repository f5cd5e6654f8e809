package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/edforge/cmd/application"
	"github.com/agentstation/edforge/internal/cmd/output"
	"github.com/agentstation/edforge/internal/cmd/table"
)

// NewItemsCommand creates the list items subcommand. With an argument that
// names an item id it shows that item; otherwise the argument is a search
// query.
func NewItemsCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items [query|item-id]",
		Short:   "List store items, best rated first",
		Aliases: []string{"item"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, _ := cmd.Flags().GetString("provider")
			details, _ := cmd.Flags().GetBool("details")
			limit, _ := cmd.Flags().GetInt("limit")

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return listItems(cmd, app, query, provider, details, limit)
		},
	}

	cmd.Flags().StringP("provider", "p", "", "Only list items from this provider id")
	cmd.Flags().Bool("details", false, "Show stock and source columns")
	cmd.Flags().Int("limit", 0, "Maximum number of items to show (0 for all)")

	return cmd
}

func listItems(cmd *cobra.Command, app application.Application, query, provider string, details bool, limit int) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if query != "" && provider == "" {
		item, err := client.GetItem(ctx, query)
		if err != nil {
			return err
		}
		if item != nil {
			return render(cmd, app, item, table.ItemToTableData(*item))
		}
	}

	items, err := client.ListItems(ctx, query, provider)
	if err != nil {
		return err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	wide := output.Format(app.OutputFormat()) == output.FormatWide
	app.Logger().Debug().
		Str("query", query).
		Str("provider", provider).
		Int("items", len(items)).
		Msg("Listing items")
	return render(cmd, app, items, table.ItemsToTableData(items, details || wide))
}
