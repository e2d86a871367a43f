package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// MaskedValue replaces sensitive values in human-facing output.
const MaskedValue = "••••••••"

// Mask returns MaskedValue for sensitive values unless reveal is set.
func Mask(value string, sensitive, reveal bool) string {
	if sensitive && !reveal {
		return MaskedValue
	}
	return value
}

// FieldTable renders rows under headers. Cells listed in muted, keyed by
// row index then column index, use the muted style.
func FieldTable(headers []string, rows [][]string, muted map[int]map[int]bool) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if muted[row][col] {
				return TableMutedCellStyle
			}
			return TableCellStyle
		}).
		Render()
}
