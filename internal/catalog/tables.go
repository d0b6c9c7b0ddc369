package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/go-scripts/elementscan/internal/counts"
)

// TableExtraction serializes every table on the page into rows of cell text.
type TableExtraction struct {
	Name          string
	TableSelector string
	RowSelector   string
	CellSelector  string
}

func (t TableExtraction) Category() string { return t.Name }

func (t TableExtraction) Evaluate(ctx context.Context, q Querier) (counts.Value, error) {
	tables, err := q.QueryAll(ctx, t.TableSelector)
	if err != nil {
		return counts.Value{}, t.fail(t.TableSelector, err)
	}
	var out []counts.Table
	for _, tbl := range tables {
		rows, err := q.QueryWithin(ctx, tbl, t.RowSelector)
		if err != nil {
			return counts.Value{}, t.fail(t.RowSelector, err)
		}
		table := make(counts.Table, 0, len(rows))
		for _, row := range rows {
			cells, err := q.QueryWithin(ctx, row, t.CellSelector)
			if err != nil {
				return counts.Value{}, t.fail(t.CellSelector, err)
			}
			r := make(counts.Row, 0, len(cells))
			for _, cell := range cells {
				text, err := q.Text(ctx, cell)
				if err != nil {
					return counts.Value{}, t.fail(t.CellSelector, err)
				}
				r = append(r, strings.TrimSpace(text))
			}
			table = append(table, r)
		}
		out = append(out, table)
	}
	return counts.TableList(out), nil
}

func (t TableExtraction) fail(selector string, err error) error {
	return &QueryError{Category: t.Name, Selector: selector, Err: err}
}

func (t TableExtraction) validate() error {
	for _, sel := range []string{t.TableSelector, t.RowSelector, t.CellSelector} {
		if strings.TrimSpace(sel) == "" {
			return errors.New("empty selector")
		}
	}
	return nil
}
