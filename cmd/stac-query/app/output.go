package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/stacklok/stac-query/internal/query"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

var outputFormats = []string{formatJSON, formatTable}

func writeResults(w io.Writer, format string, results []query.Result) error {
	switch format {
	case formatJSON:
		if results == nil {
			results = []query.Result{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	case formatTable:
		table := tablewriter.NewWriter(w)
		table.Header("ID", "Driver", "Href")
		for _, r := range results {
			if err := table.Append(r.ID, r.Driver, r.Href); err != nil {
				return fmt.Errorf("failed to append row for %s: %w", r.ID, err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
