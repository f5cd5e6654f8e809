// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"strconv"
	"time"

	"github.com/agentstation/edforge/pkg/catalogs"
	"github.com/agentstation/edforge/pkg/library"
	"github.com/agentstation/edforge/pkg/runtimeconfig"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ProvidersToTableData converts providers to table format.
func ProvidersToTableData(providers []catalogs.Provider, itemCounts map[catalogs.ProviderID]int) Data {
	rows := make([][]string, 0, len(providers))
	for _, p := range providers {
		rows = append(rows, []string{
			p.Name,
			p.ID.String(),
			p.Region,
			strconv.Itoa(itemCounts[p.ID]),
			p.SourceURL,
		})
	}

	return Data{
		Headers:         []string{"NAME", "ID", "REGION", "ITEMS", "SOURCE"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignDefault, AlignDefault, AlignDefault, AlignCenter, AlignDefault},
	}
}

// ItemsToTableData converts catalog items to table format.
func ItemsToTableData(items []catalogs.Item, showDetails bool) Data {
	headers := []string{"ID", "Name", "Category", "Provider", "Rating", "Price"}
	align := []Align{AlignDefault, AlignDefault, AlignDefault, AlignDefault, AlignRight, AlignRight}
	if showDetails {
		headers = append(headers, "Stock", "Source")
		align = append(align, AlignRight, AlignDefault)
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := []string{
			item.ID,
			item.Name,
			item.Category,
			item.ProviderName,
			FormatRating(item.Rating),
			FormatPrice(item.PriceUSD),
		}
		if showDetails {
			row = append(row, FormatNumber(int64(item.Stock)), item.SourceURL)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// ItemToTableData renders a single item as a property table.
func ItemToTableData(item catalogs.Item) Data {
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"ID", item.ID},
			{"Name", item.Name},
			{"Category", item.Category},
			{"Provider", fmt.Sprintf("%s (%s)", item.ProviderName, item.ProviderID)},
			{"Rating", FormatRating(item.Rating)},
			{"Price", FormatPrice(item.PriceUSD)},
			{"Stock", FormatNumber(int64(item.Stock))},
			{"Source", item.SourceURL},
		},
	}
}

// LibraryToTableData converts library entries to table format.
func LibraryToTableData(entries []library.Entry) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		last := "-"
		if e.LastLaunched != nil {
			last = e.LastLaunched.Time.Format(time.RFC3339)
		}
		rows = append(rows, []string{e.ID, e.Name, e.Version, e.State.String(), last})
	}

	return Data{
		Headers:         []string{"ID", "Name", "Version", "State", "Last Launched"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignDefault, AlignDefault, AlignCenter, AlignCenter, AlignDefault},
	}
}

// OverviewToTableData renders the runtime overview as a property table.
func OverviewToTableData(o runtimeconfig.Overview) Data {
	return Data{
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"Low Resource Mode", strconv.FormatBool(o.LowResourceMode)},
			{"Ingestion Enabled", strconv.FormatBool(o.IngestionEnabled)},
			{"Sync Interval", (time.Duration(o.SyncIntervalSec) * time.Second).String()},
			{"Library Entries", strconv.Itoa(o.LibraryCount)},
			{"Running", strconv.Itoa(o.RunningCount)},
		},
	}
}

// FormatRating formats a rating with one decimal place.
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

// FormatPrice formats a USD price. Free items render as "free".
func FormatPrice(usd float64) string {
	if usd == 0 {
		return "free"
	}
	return fmt.Sprintf("$%.2f", usd)
}

// FormatNumber formats large numbers with comma separators.
func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	result := ""
	for i, r := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(r)
	}
	return result
}
