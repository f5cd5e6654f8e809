package list

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/edforge/cmd/application"
	"github.com/agentstation/edforge/internal/cmd/table"
	"github.com/agentstation/edforge/pkg/catalogs"
)

// NewProvidersCommand creates the list providers subcommand.
func NewProvidersCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "providers",
		Short:   "List catalog providers",
		Aliases: []string{"provider"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			providers := client.ListProviders(ctx)

			snap, err := client.Snapshot(ctx)
			if err != nil {
				return err
			}
			counts := make(map[catalogs.ProviderID]int, len(providers))
			for _, item := range snap.Items {
				counts[item.ProviderID]++
			}

			app.Logger().Debug().Int("providers", len(providers)).Msg("Listing providers")
			return render(cmd, app, providers, table.ProvidersToTableData(providers, counts))
		},
	}
}
