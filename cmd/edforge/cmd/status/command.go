// Package status provides the status command, which reports the catalog
// snapshot and runtime settings the client starts with.
package status

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/edforge/cmd/application"
	"github.com/agentstation/edforge/internal/cmd/output"
	"github.com/agentstation/edforge/internal/cmd/table"
	"github.com/agentstation/edforge/pkg/runtimeconfig"
)

// Report is the structured form of the status output.
type Report struct {
	Version        string                 `json:"version" yaml:"version"`
	CatalogVersion uint64                 `json:"catalogVersion" yaml:"catalogVersion"`
	CatalogItems   int                    `json:"catalogItems" yaml:"catalogItems"`
	BuiltAt        time.Time              `json:"builtAt" yaml:"builtAt"`
	Runtime        runtimeconfig.Overview `json:"runtime" yaml:"runtime"`
}

// NewCommand creates the status command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "core",
		Short:   "Show catalog and runtime status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := build(cmd, app)
			if err != nil {
				return err
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			format = output.DetectFormat(string(format))
			if format.IsStructured() {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), report)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), tableData(report))
		},
	}
}

func build(cmd *cobra.Command, app application.Application) (Report, error) {
	client, err := app.Client()
	if err != nil {
		return Report{}, err
	}
	ctx := cmd.Context()

	snap, err := client.Snapshot(ctx)
	if err != nil {
		return Report{}, err
	}
	overview, err := client.RuntimeOverview(ctx)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Version:        app.Version(),
		CatalogVersion: snap.Version,
		CatalogItems:   snap.Len(),
		BuiltAt:        snap.BuiltAt.Time,
		Runtime:        overview,
	}, nil
}

func tableData(r Report) output.Data {
	data := table.OverviewToTableData(r.Runtime)
	data.Rows = append([][]string{
		{"Edforge Version", r.Version},
		{"Catalog Version", strconv.FormatUint(r.CatalogVersion, 10)},
		{"Catalog Items", strconv.Itoa(r.CatalogItems)},
		{"Catalog Built", r.BuiltAt.Format(time.RFC3339)},
	}, data.Rows...)
	return data
}
