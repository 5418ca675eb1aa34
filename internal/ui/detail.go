package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thesavant42/dexsome/internal/models"
)

const statBarWidth = 30

func (m BrowserModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.detail == nil {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.Quitting = true
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = screenBrowse
		m.detail = nil
	case "f":
		m.toggleFavorite(*m.detail)
	case "c":
		return m, m.click(*m.detail, true)
	}
	return m, nil
}

func (m BrowserModel) detailView() string {
	r := m.detail
	if r == nil {
		return ""
	}

	title := fmt.Sprintf("%s  %s", models.FormatID(r.ID), models.FormatName(r.Name))
	if m.ctrl.IsFavorite(r.ID) {
		title += " " + StarStyle.Render("★")
	}

	var b strings.Builder
	b.WriteString(RenderTypeBadges(*r))
	if band, ok := models.BandOf(r.ID); ok {
		b.WriteString(RenderDim(fmt.Sprintf("   Gen %d · %s", band.Number, band.Region)))
	}
	b.WriteString("\n\n")

	switch {
	case m.species != nil:
		if genus := m.species.Genus("en"); genus != "" {
			b.WriteString(RenderAccent(genus))
			b.WriteString("\n")
		}
		if desc := m.species.Description("en"); desc != "" {
			b.WriteString(NormalStyle.Width(m.Layout.InnerWidth - 2).Render(desc))
			b.WriteString("\n")
		}
	case m.speciesErr != nil:
		b.WriteString(RenderDim("Description unavailable"))
		b.WriteString("\n")
	default:
		b.WriteString(m.spinner.View() + RenderDim(" loading description"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Height %s   Weight %s\n", models.FormatHeight(r.Height), models.FormatWeight(r.Weight)))
	abilities := make([]string, 0, len(r.Abilities))
	for _, a := range r.AbilityNames() {
		abilities = append(abilities, models.FormatName(a))
	}
	b.WriteString("Abilities " + strings.Join(abilities, ", ") + "\n\n")

	b.WriteString(RenderTitle("Base stats") + "\n")
	for _, s := range r.Stats {
		b.WriteString(RenderStatBar(s.Stat.Name, s.BaseStat, statBarWidth))
		b.WriteString("\n")
	}
	b.WriteString(StatsStyle.Render(fmt.Sprintf("%-8s %3d", "Total", r.StatTotal())))
	b.WriteString("\n")
	if len(r.Moves) > 0 {
		b.WriteString(RenderDim(fmt.Sprintf("\nLearns %d moves", len(r.Moves))))
		b.WriteString("\n")
	}

	return NewPageView(m.Layout).
		Title(title).
		Divider().
		CustomContent(b.String()).
		Status(m.StatusMsg).
		Help("esc: back | f: favorite | c: add to compare | q: quit").
		Build()
}
