package ui

// columns.go provides column width calculation for bubbles/table.

import (
	"github.com/charmbracelet/bubbles/table"
)

// ColumnSpec defines a table column with flexible or fixed width.
// Use FlexRatio for columns that should expand/contract with terminal width.
// Use FixedWidth for columns that should maintain constant width.
type ColumnSpec struct {
	Title      string
	MinWidth   int // Minimum width (0 = no minimum)
	FixedWidth int // If > 0, use this exact width (ignores FlexRatio)
	FlexRatio  int // Relative ratio for flexible columns (0 = fixed-only)
}

// CalculateColumns computes column widths from specs.
// Flexible columns split remaining space by ratio after fixed columns are allocated.
func CalculateColumns(specs []ColumnSpec, totalWidth int) []table.Column {
	if totalWidth < 50 {
		totalWidth = 50
	}

	// bubbles/table pads every cell by one column on each side
	totalWidth -= 2 * len(specs)

	fixedTotal := 0
	flexTotal := 0
	for _, s := range specs {
		if s.FixedWidth > 0 {
			fixedTotal += s.FixedWidth
		} else {
			flexTotal += s.FlexRatio
		}
	}

	remaining := max(totalWidth-fixedTotal, 0)

	columns := make([]table.Column, len(specs))
	for i, s := range specs {
		var width int
		if s.FixedWidth > 0 {
			width = s.FixedWidth
		} else if flexTotal > 0 {
			width = remaining * s.FlexRatio / flexTotal
		}

		if s.MinWidth > 0 && width < s.MinWidth {
			width = s.MinWidth
		}

		columns[i] = table.Column{Title: s.Title, Width: width}
	}

	return columns
}

// ListColumns returns column specs for the list view: one record per row with its stats
func ListColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "★", FixedWidth: 2},
		{Title: "#", FixedWidth: 6},
		{Title: "Name", FlexRatio: 40, MinWidth: 14},
		{Title: "Types", FlexRatio: 30, MinWidth: 16},
		{Title: "HP", FixedWidth: 4},
		{Title: "Atk", FixedWidth: 4},
		{Title: "Def", FixedWidth: 4},
		{Title: "SpA", FixedWidth: 4},
		{Title: "SpD", FixedWidth: 4},
		{Title: "Spe", FixedWidth: 4},
		{Title: "Total", FixedWidth: 5},
		{Title: "Cmp", FixedWidth: 3},
	}
}

// GridCellWidth is the width of one card in the grid view
const GridCellWidth = 24

// GridColumnCount returns how many cards fit in one grid row
func GridColumnCount(tableWidth int) int {
	return max(tableWidth/(GridCellWidth+2), 1)
}

// GridColumns returns column specs for the grid view: several records per row
func GridColumns(tableWidth int) []ColumnSpec {
	n := GridColumnCount(tableWidth)
	specs := make([]ColumnSpec, n)
	for i := range specs {
		specs[i] = ColumnSpec{Title: "", FixedWidth: GridCellWidth}
	}
	return specs
}
