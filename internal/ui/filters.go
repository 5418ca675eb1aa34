package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/thesavant42/dexsome/internal/models"
)

// filterDraft holds form values; the form keeps pointers into it
type filterDraft struct {
	Types         []string
	Generation    int
	FavoritesOnly bool
}

// openFilters builds the filter form from the current filter state
func (m *BrowserModel) openFilters() tea.Cmd {
	f := m.ctrl.Filter()
	m.filterDraft = &filterDraft{
		Types:         f.SelectedTypes(),
		Generation:    f.Generation,
		FavoritesOnly: f.FavoritesOnly,
	}

	typeOpts := make([]huh.Option[string], 0, len(models.Types))
	for _, t := range models.Types {
		typeOpts = append(typeOpts, huh.NewOption(models.FormatName(t), t))
	}

	genOpts := []huh.Option[int]{huh.NewOption("All generations", 0)}
	for _, band := range models.Generations {
		label := fmt.Sprintf("Gen %d · %s (%s-%s)", band.Number, band.Region, models.FormatID(band.Min), models.FormatID(band.Max))
		genOpts = append(genOpts, huh.NewOption(label, band.Number))
	}

	m.filterForm = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Types").
				Description("Records matching any selected type are shown").
				Options(typeOpts...).
				Height(10).
				Value(&m.filterDraft.Types),
			huh.NewSelect[int]().
				Title("Generation").
				Options(genOpts...).
				Value(&m.filterDraft.Generation),
			huh.NewConfirm().
				Title("Favorites only?").
				Value(&m.filterDraft.FavoritesOnly),
		),
	).WithTheme(NewAppTheme()).
		WithWidth(m.Layout.InnerWidth - 2).
		WithShowHelp(true)

	m.screen = screenFilters
	return m.filterForm.Init()
}

func (m BrowserModel) updateFilters(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.screen = screenBrowse
		m.filterForm = nil
		return m, nil
	}

	form, cmd := m.filterForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.filterForm = f
	}

	switch m.filterForm.State {
	case huh.StateCompleted:
		f := m.ctrl.Filter().WithTypes(m.filterDraft.Types)
		f.Generation = m.filterDraft.Generation
		f.FavoritesOnly = m.filterDraft.FavoritesOnly
		m.screen = screenBrowse
		m.filterForm = nil
		return m, m.applyFilter(f)
	case huh.StateAborted:
		m.screen = screenBrowse
		m.filterForm = nil
		return m, nil
	}
	return m, cmd
}

func (m BrowserModel) filtersView() string {
	if m.filterForm == nil {
		return ""
	}
	return NewPageView(m.Layout).
		Title("Filters").
		Divider().
		CustomContent(m.filterForm.View()).
		Help("space: toggle | enter: next | esc: cancel").
		Build()
}
