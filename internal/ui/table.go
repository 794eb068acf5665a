package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SavingsRow is one file of the savings summary
type SavingsRow struct {
	Path    string
	Input   int64
	Output  int64
	Savings float64
}

// FormatPercent renders a savings percentage with two decimals
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// SavingsTable renders per-file sizes and savings with a total row
func SavingsTable(rows []SavingsRow, total SavingsRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"File", "Before", "After", "Saved"})
	for _, r := range rows {
		tw.AppendRow(savingsRow(r))
	}
	tw.AppendFooter(savingsRow(total))

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func savingsRow(r SavingsRow) table.Row {
	return table.Row{
		r.Path,
		humanize.Bytes(uint64(r.Input)),
		humanize.Bytes(uint64(r.Output)),
		FormatPercent(r.Savings),
	}
}
