package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout constants - single source of truth for all viewport dimensions
const (
	MinViewportWidth  = 80
	MaxViewportWidth  = 140
	MinViewportHeight = 20
	DefaultWidth      = 110 // Used when terminal size is unknown
	DefaultHeight     = 32
	HelpBoxHeight     = 3 // help box border + one line
	chromeHeight      = 8 // title, divider, status lines and borders around the table
)

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth  int // clamped terminal width
	ViewportHeight int // clamped terminal height
	InnerWidth     int // ViewportWidth - 2, exact width for content inside borders
	TableWidth     int // InnerWidth - column padding
	TableHeight    int // visible data rows
}

// NewLayout creates a Layout from the terminal size, clamping to min/max
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)
	height := max(terminalHeight, MinViewportHeight)
	return Layout{
		ViewportWidth:  width,
		ViewportHeight: height,
		InnerWidth:     width - 2,
		TableWidth:     width - 4,
		TableHeight:    max(height-HelpBoxHeight-chromeHeight, 5),
	}
}

// DefaultLayout returns a layout using the default size
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, DefaultHeight)
}

// clamp restricts a value to the given range
func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("196") // red
	ColorHighlight = lipgloss.Color("88")  // dark red background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("226") // bright yellow
	ColorAccentDim = lipgloss.Color("220") // yellow (progress)
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorBlack     = lipgloss.Color("0")   // black
	ColorHigher    = lipgloss.Color("46")  // green
	ColorLower     = lipgloss.Color("203") // salmon
)

// TypeColors gives each record type its badge color
var TypeColors = map[string]lipgloss.Color{
	"normal":   lipgloss.Color("249"),
	"fire":     lipgloss.Color("208"),
	"water":    lipgloss.Color("39"),
	"electric": lipgloss.Color("226"),
	"grass":    lipgloss.Color("76"),
	"ice":      lipgloss.Color("123"),
	"fighting": lipgloss.Color("160"),
	"poison":   lipgloss.Color("129"),
	"ground":   lipgloss.Color("179"),
	"flying":   lipgloss.Color("147"),
	"psychic":  lipgloss.Color("205"),
	"bug":      lipgloss.Color("106"),
	"rock":     lipgloss.Color("137"),
	"ghost":    lipgloss.Color("97"),
	"dragon":   lipgloss.Color("63"),
	"dark":     lipgloss.Color("95"),
	"steel":    lipgloss.Color("110"),
	"fairy":    lipgloss.Color("218"),
}

// Common styles - reusable style definitions
var (
	// Border style for main viewport
	// Always use .Width(InnerWidth) with NO .Padding()
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// Help box below the main viewport
	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorText)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Italic(true)

	// Accent style for highlighted text (yellow)
	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ProgressStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim)

	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorBorder).
			Bold(true)

	HigherStyle = lipgloss.NewStyle().
			Foreground(ColorHigher).
			Bold(true)

	LowerStyle = lipgloss.NewStyle().
			Foreground(ColorLower)

	// Favorite marker
	StarStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	StatsStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)
)

// RenderTitle renders a bold section title
func RenderTitle(s string) string {
	return TitleStyle.Render(s)
}

func RenderNormal(s string) string {
	return NormalStyle.Render(s)
}

func RenderDim(s string) string {
	return DimStyle.Render(s)
}

func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

func RenderError(s string) string {
	return ErrorStyle.Render(s)
}

// RenderSelectedWidth renders s highlighted and padded to width
func RenderSelectedWidth(s string, width int) string {
	return SelectedStyle.Width(width).Render(s)
}

// RenderTypeBadge renders a type name in its badge color
func RenderTypeBadge(typeName string) string {
	color, ok := TypeColors[typeName]
	if !ok {
		color = ColorTextDim
	}
	return lipgloss.NewStyle().
		Foreground(ColorBlack).
		Background(color).
		Padding(0, 1).
		Render(strings.ToUpper(typeName))
}

// StringWidth returns the printable width of s, ignoring ANSI sequences
func StringWidth(s string) int {
	return lipgloss.Width(s)
}

func stripEscapeCodes(s string) string {
	return ansi.Strip(s)
}

func truncateToWidth(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}

// PadContentToHeight pads content with newlines to exactly height lines
func PadContentToHeight(content string, height int) string {
	lines := strings.Count(content, "\n") + 1
	if lines >= height {
		return content
	}
	return content + strings.Repeat("\n", height-lines)
}

// BuildTwoBoxView renders the main content box and the help box under it
func BuildTwoBoxView(content, helpText string, layout Layout) string {
	contentHeight := layout.ViewportHeight - HelpBoxHeight - 2
	main := BorderStyle.
		Width(layout.InnerWidth).
		Render(PadContentToHeight(strings.TrimRight(content, "\n"), contentHeight))

	help := HelpBoxStyle.
		Width(layout.InnerWidth).
		Render(CenterText(HintStyle.Render(helpText), layout.InnerWidth))

	return lipgloss.JoinVertical(lipgloss.Left, main, help)
}

// NewAppSpinner returns the white dot spinner used everywhere
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorText)
	return s
}

// NewAppTheme creates a huh theme matching the app's style guide
// White text, red highlights/selection
func NewAppTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(ColorText).
		Bold(true)
	t.Blurred.Title = t.Focused.Title

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Description = t.Focused.Description

	t.Focused.Base = lipgloss.NewStyle().
		Foreground(ColorText)
	t.Blurred.Base = t.Focused.Base

	// Selected option - red background, white text
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.UnselectedOption = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorBorder).
		Bold(true).
		Padding(0, 1)

	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(ColorBorder)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(ColorTextDim)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(ColorBorder)

	return t
}
