package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const splashDuration = 2 * time.Second

// SplashModel is the TUI model for the splash screen
type SplashModel struct {
	layout Layout
	done   bool
}

type splashTimeoutMsg struct{}

func (m SplashModel) Init() tea.Cmd {
	return tea.Batch(StandardInit(), tea.Tick(splashDuration, func(time.Time) tea.Msg {
		return splashTimeoutMsg{}
	}))
}

func (m SplashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
	case tea.KeyMsg, splashTimeoutMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SplashModel) View() string {
	if m.done {
		return ""
	}

	height := max(m.layout.ViewportHeight-4, 10)
	lines := []string{
		AccentStyle.Render("D E X S O M E"),
		"",
		DimStyle.Render("catalog browser"),
		"",
		HintStyle.Render("press any key"),
	}
	content := lipgloss.Place(m.layout.InnerWidth, height, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))

	return BorderStyle.
		Width(m.layout.InnerWidth).
		Render(content)
}

// ShowSplash displays the splash screen until a key is pressed or it times out
func ShowSplash() error {
	p := tea.NewProgram(SplashModel{layout: DefaultLayout()}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
