package table_test

import (
	"fmt"

	"github.com/lvillar/weeklyreport/fontmetrics"
	"github.com/lvillar/weeklyreport/layout"
	"github.com/lvillar/weeklyreport/layout/record"
	"github.com/lvillar/weeklyreport/table"
)

// ExampleTable lays out a detail table with a total row on a recorded surface.
func ExampleTable() {
	rec := record.New(fontmetrics.Monospace{Ratio: 0.2})
	flow := layout.NewFlow(rec, layout.A4(), nil)

	tbl := table.New(flow, "details")
	tbl.SetColumns(
		table.Column{Label: "Datum", Width: 18},
		table.Column{Label: "Verantwortlicher", Width: 28},
		table.Column{Label: "Projekt", Width: 22},
		table.Column{Label: "Ticket", Width: 37},
		table.Column{Label: "Beschreibung", Width: 49},
		table.Column{Label: "Zeit", Width: 16, Align: layout.AlignRight},
	)

	data := [][]string{
		{"01.09.2025", "Anna", "IT-Betreuung", "Druckerwarteschlange", "Treiber aktualisiert", "1.5h"},
		{"02.09.2025", "Ben", "IT-Betreuung", "Backup", "Sicherung geprüft", "0.5h"},
	}
	for _, d := range data {
		row := tbl.AddRow()
		for _, text := range d {
			row.AddCell(text)
		}
	}
	tbl.SetTotal("Total", "2.0h")

	if err := tbl.Render(); err != nil {
		fmt.Println(err)
		return
	}
	pages := flow.Finish()
	fmt.Printf("pages: %d, rows: %d\n", pages, tbl.Stats().Rows)
	// Output:
	// pages: 1, rows: 2
}
