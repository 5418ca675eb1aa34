package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thesavant42/dexsome/internal/catalog"
	"github.com/thesavant42/dexsome/internal/models"
)

const compareColumnWidth = 26

func (m BrowserModel) updateCompare(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "ctrl+c", "q":
		m.Quitting = true
		return m, tea.Quit
	case "esc", "backspace", "C":
		m.screen = screenBrowse
	case "x":
		m.ctrl.ClearCompare()
		m.screen = screenBrowse
		m.refresh()
		m.SetStatus("Compare set cleared", statusDuration)
	case "1", "2", "3":
		selection := m.ctrl.Compare()
		i, _ := strconv.Atoi(k)
		if i <= len(selection) {
			m.ctrl.RemoveFromCompare(selection[i-1].ID)
			m.refresh()
		}
		if len(m.ctrl.Compare()) == 0 {
			m.screen = screenBrowse
		}
	}
	return m, nil
}

func (m BrowserModel) compareView() string {
	selection := m.ctrl.Compare()

	statNames := []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}
	if len(selection) > 0 && len(selection[0].Stats) > 0 {
		statNames = statNames[:0]
		for _, s := range selection[0].Stats {
			statNames = append(statNames, s.Stat.Name)
		}
	}

	labels := []string{"", "", ""}
	for _, s := range statNames {
		labels = append(labels, models.FormatStatName(s))
	}
	labels = append(labels, "Total", "Height", "Weight")
	blocks := []string{DimStyle.Render(strings.Join(labels, "\n"))}

	for i, r := range selection {
		lines := []string{
			RenderTitle(fmt.Sprintf("%d. %s", i+1, models.FormatName(r.Name))),
			RenderDim(models.FormatID(r.ID)),
			RenderTypeBadges(r),
		}
		for _, s := range statNames {
			lines = append(lines, RenderComparedStat(r.Stat(s), catalog.CompareStat(selection, i, s)))
		}
		lines = append(lines,
			StatsStyle.Render(strconv.Itoa(r.StatTotal())),
			models.FormatHeight(r.Height),
			models.FormatWeight(r.Weight),
		)
		blocks = append(blocks, lipgloss.NewStyle().Width(compareColumnWidth).Render(strings.Join(lines, "\n")))
	}

	return NewPageView(m.Layout).
		Title(fmt.Sprintf("Compare (%d/%d)", len(selection), catalog.MaxCompare)).
		Divider().
		CustomContent(JoinColumns(3, blocks...)).
		Status(m.StatusMsg).
		Help("1-3: remove | x: clear | esc: back | q: quit").
		Build()
}
