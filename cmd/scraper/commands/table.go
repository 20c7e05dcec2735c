package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/user/deals-scraper/internal/entity"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// renderSummary prints the report with one row group per store.
func renderSummary(w io.Writer, report *entity.Report) {
	t := newTable(w)
	t.AppendHeader(table.Row{entity.ColStore, entity.ColItem, entity.ColName, entity.ColPrice, entity.ColUnit, entity.ColLowestPrice})
	for i, row := range report.Rows {
		if i > 0 && row.Store != report.Rows[i-1].Store {
			t.AppendSeparator()
		}
		t.AppendRow(table.Row{
			row.Store, row.Item, row.Name, fmt.Sprintf("%.2f", row.Price), row.Unit, row.LowestNote,
		}, table.RowConfig{AutoMerge: true})
	}
	t.AppendFooter(table.Row{"", "", "Rows", len(report.Rows)})
	t.Render()
}

// printProgress writes one line per progress update until updates is closed.
func printProgress(w io.Writer, updates <-chan entity.Progress) {
	for p := range updates {
		line := fmt.Sprintf("[%3d%%] %s", p.Percent, p.Phase)
		if p.Detail != "" {
			line += " - " + p.Detail
		}
		if p.Secondary != "" {
			line += " (" + p.Secondary + ")"
		}
		fmt.Fprintln(w, line)
	}
}
