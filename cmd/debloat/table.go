package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type tableSpec struct {
	headers []string
	rows    [][]string
	aligns  []columnAlignment
	// footer, when set, spans the table under the last row.
	footer string
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	return tableSpec{headers: headers, rows: rows, aligns: aligns}.render()
}

func (s tableSpec) render() string {
	columns := len(s.headers)
	if columns == 0 {
		return ""
	}

	style := table.StyleRounded
	style.Format.Footer = text.FormatDefault
	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.AppendHeader(padRow(s.headers, columns))
	for _, row := range s.rows {
		tw.AppendRow(padRow(row, columns))
	}
	if s.footer != "" {
		footer := make(table.Row, columns)
		for i := range footer {
			footer[i] = s.footer
		}
		tw.AppendFooter(footer, table.RowConfig{AutoMerge: true})
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(s.aligns) && s.aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			AlignFooter: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// padRow converts values to a row of exactly columns cells.
func padRow(values []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := range row {
		if i < len(values) {
			row[i] = values[i]
		} else {
			row[i] = ""
		}
	}
	return row
}
