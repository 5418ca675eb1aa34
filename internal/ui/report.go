package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/dexsome/internal/db"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(ColorHigher).
			Bold(true)

	reportHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	reportBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)
)

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Println(successStyle.Render(message))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Println(ErrorStyle.Render("Error: " + message))
}

// PrintTypeCounts prints a styled table of records per type
//
// This is a non-interactive CLI report, so the table is plain string
// formatting and lipgloss only colors it.
func PrintTypeCounts(counts []db.TypeCount) {
	if len(counts) == 0 {
		fmt.Println(DimStyle.Render("Types: No data"))
		return
	}

	fmt.Println(RenderTitle("Records per type"))

	const typeWidth, countWidth = 12, 8
	separator := strings.Repeat("─", typeWidth+countWidth+5)

	fmt.Println(reportBorderStyle.Render("┌" + separator + "┐"))
	fmt.Println(reportHeaderStyle.Render(fmt.Sprintf("│ %-*s │ %*s │", typeWidth, "Type", countWidth, "Records")))
	fmt.Println(reportBorderStyle.Render("├" + separator + "┤"))
	for _, tc := range counts {
		fmt.Println(NormalStyle.Render(fmt.Sprintf("│ %-*s │ %*d │", typeWidth, tc.Type, countWidth, tc.Count)))
	}
	fmt.Println(reportBorderStyle.Render("└" + separator + "┘"))
	fmt.Println()
}
