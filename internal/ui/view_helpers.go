package ui

// view_helpers.go provides common View() rendering helpers.

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/dexsome/internal/catalog"
	"github.com/thesavant42/dexsome/internal/models"
)

// RenderTableWithSelection renders a bubbles table with full-width selection highlight.
//
// bubbles/table View() output is the header on line 0 followed by the visible
// data rows; the divider under the header is added here.
func RenderTableWithSelection(t table.Model, layout Layout) string {
	lines := strings.Split(t.View(), "\n")
	var result []string

	cursor := t.Cursor()
	height := t.Height()
	totalRows := len(t.Rows())

	// Match the bubbles table viewport: it scrolls once the cursor passes the last visible row
	start := 0
	if totalRows > height {
		if cursor >= height {
			start = cursor - height + 1
		}
		start = min(start, totalRows-height)
	}
	visibleCursorIndex := cursor - start

	for i, line := range lines {
		if i == 0 {
			result = append(result, NormalStyle.Render(line))
			result = append(result, FullWidthDivider(layout.InnerWidth))
			continue
		}

		// Strip escape codes first so embedded resets don't kill the background
		if i-1 == visibleCursorIndex {
			cleanLine := stripEscapeCodes(line)
			if w := StringWidth(cleanLine); w < layout.InnerWidth {
				cleanLine += strings.Repeat(" ", layout.InnerWidth-w)
			} else if w > layout.InnerWidth {
				cleanLine = truncateToWidth(cleanLine, layout.InnerWidth)
			}
			result = append(result, SelectedStyle.Render(cleanLine))
			continue
		}

		result = append(result, NormalStyle.Render(line))
	}

	return strings.Join(result, "\n")
}

// ViewHeader renders title + full-width divider + spacing.
func ViewHeader(title string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(RenderTitle(title))
	b.WriteString("\n")
	b.WriteString(FullWidthDivider(innerWidth))
	b.WriteString("\n\n")
	return b.String()
}

// CenterText centers text within given width.
func CenterText(text string, width int) string {
	textW := StringWidth(text)
	if textW >= width {
		return text
	}
	return strings.Repeat(" ", (width-textW)/2) + text
}

// FullWidthDivider returns a horizontal divider spanning the inner width.
func FullWidthDivider(innerWidth int) string {
	return strings.Repeat("─", innerWidth)
}

// RenderStatBar renders a stat as a labelled bar scaled to the stat maximum
func RenderStatBar(name string, value, width int) string {
	filled := int(models.StatPercentage(value) / 100 * float64(width))
	bar := ProgressStyle.Render(strings.Repeat("█", filled)) +
		DimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%-8s %3d %s", models.FormatStatName(name), value, bar)
}

// RenderTypeBadges renders all of a record's type badges
func RenderTypeBadges(r models.FullRecord) string {
	badges := make([]string, 0, len(r.Types))
	for _, c := range r.Categories() {
		badges = append(badges, RenderTypeBadge(c))
	}
	return strings.Join(badges, " ")
}

// RenderComparedStat colors a stat value by how it ranks in the compare selection
func RenderComparedStat(value int, cmp catalog.StatComparison) string {
	s := fmt.Sprintf("%3d", value)
	switch cmp {
	case catalog.StatHigher:
		return HigherStyle.Render(s + " ▲")
	case catalog.StatLower:
		return LowerStyle.Render(s + " ▼")
	default:
		return NormalStyle.Render(s + "  ")
	}
}

// JoinColumns lays out blocks side by side with a gap
func JoinColumns(gap int, blocks ...string) string {
	spaced := make([]string, 0, 2*len(blocks))
	for i, b := range blocks {
		if i > 0 {
			spaced = append(spaced, strings.Repeat(" ", gap))
		}
		spaced = append(spaced, b)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}
