// Package summary prints a Counts Document to a terminal.
package summary

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/go-scripts/elementscan/internal/counts"
)

const heading = "Element counts on page:"

// Print writes one line per category in document order. Lists print their
// length, table lists their per-table row counts. With verbose set every
// extracted table is also drawn in full.
func Print(w io.Writer, doc *counts.Document, verbose bool) error {
	bold := lipgloss.NewRenderer(w).NewStyle().Bold(true)
	if _, err := fmt.Fprintln(w, bold.Render(heading)); err != nil {
		return err
	}

	for _, e := range doc.Entries() {
		var err error
		switch e.Value.Kind() {
		case counts.KindTableList:
			err = printTables(w, e.Key, e.Value.Tables(), verbose)
		case counts.KindStringList:
			_, err = fmt.Fprintf(w, "  %-20s: %d items\n", e.Key, e.Value.Len())
		default:
			_, err = fmt.Fprintf(w, "  %-20s: %d\n", e.Key, e.Value.Int())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func printTables(w io.Writer, key string, tables []counts.Table, verbose bool) error {
	if _, err := fmt.Fprintf(w, "  %-20s: %d tables\n", key, len(tables)); err != nil {
		return err
	}
	for i, t := range tables {
		if _, err := fmt.Fprintf(w, "    Table %d: %d rows\n", i+1, len(t)); err != nil {
			return err
		}
		if verbose && len(t) > 0 {
			if _, err := fmt.Fprintln(w, render(t)); err != nil {
				return err
			}
		}
	}
	return nil
}

func render(t counts.Table) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	for _, row := range t {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
