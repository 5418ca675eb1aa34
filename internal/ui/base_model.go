package ui

// base_model.go provides common table and key helpers for Bubble Tea models.

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InitTable creates and configures a table with proper styling and dimensions.
// Use this instead of manually calling table.New() to ensure consistent setup.
func InitTable(columns []table.Column, rows []table.Row, layout Layout) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)

	ApplyTableStyles(&t)
	t.GotoTop()

	return t
}

// ApplyTableStyles sets the header style and a neutral selection style;
// RenderTableWithSelection draws the visible highlight.
func ApplyTableStyles(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(false).
		Bold(true).
		Foreground(ColorText)
	s.Selected = lipgloss.NewStyle()
	s.Cell = s.Cell.Foreground(ColorText)
	t.SetStyles(s)
}

// StandardInit returns the standard Init command for table models.
func StandardInit() tea.Cmd {
	return tea.WindowSize()
}

// HandleQuitKeys returns true and Quit cmd for q/ctrl+c keys.
func HandleQuitKeys(key string) (bool, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return true, tea.Quit
	}
	return false, nil
}

// HandleNavigationKeys handles left/right/h/l navigation across n columns.
// Returns the new column (clamped to valid range).
func HandleNavigationKeys(key string, col, n int) int {
	switch key {
	case "left", "h":
		if col > 0 {
			return col - 1
		}
	case "right", "l":
		if col < n-1 {
			return col + 1
		}
	}
	return col
}
