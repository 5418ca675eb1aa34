package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/thesavant42/dexsome/internal/catalog"
	"github.com/thesavant42/dexsome/internal/models"
)

// sentinelRows is how close to the bottom the cursor must be to count as the
// load-more sentinel being on screen
const sentinelRows = 2

const statusDuration = 3 * time.Second

type screen int

const (
	screenBrowse screen = iota
	screenDetail
	screenCompare
	screenFilters
)

// Messages produced by background commands
type (
	indexLoadedMsg struct {
		page *models.IndexPage
		err  error
	}
	windowResolvedMsg struct {
		result catalog.WindowResult
	}
	speciesLoadedMsg struct {
		id      int
		species *models.Species
		err     error
	}
)

// BrowserModel is the catalog browser: a searchable, filterable list or grid
// of records with detail and compare screens.
type BrowserModel struct {
	PageState

	ctx    context.Context
	ctrl   *catalog.Controller
	logger *log.Logger

	screen   screen
	table    table.Model
	search   textinput.Model
	spinner  spinner.Model
	trigger  *catalog.ScrollTrigger
	visible  []models.FullRecord
	gridCol  int
	indexErr error

	detail     *models.FullRecord
	species    *models.Species
	speciesErr error

	filterForm  *huh.Form
	filterDraft *filterDraft
}

// NewBrowserModel creates the browser over ctrl. logger may be nil.
func NewBrowserModel(ctx context.Context, ctrl *catalog.Controller, logger *log.Logger) BrowserModel {
	search := textinput.New()
	search.Placeholder = "name or number"
	search.Prompt = "/ "
	search.CharLimit = 64

	m := BrowserModel{
		PageState: NewPageState(DefaultLayout()),
		ctx:       ctx,
		ctrl:      ctrl,
		logger:    logger,
		search:    search,
		spinner:   NewAppSpinner(),
		trigger:   catalog.NewScrollTrigger(nil),
	}
	m.rebuildTable()
	return m
}

// RunBrowser runs the browser full screen until the user quits
func RunBrowser(ctx context.Context, ctrl *catalog.Controller, logger *log.Logger) error {
	p := tea.NewProgram(NewBrowserModel(ctx, ctrl, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(StandardInit(), m.spinner.Tick, m.loadIndex())
}

func (m BrowserModel) loadIndex() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		page, err := ctrl.FetchIndex(ctx)
		return indexLoadedMsg{page: page, err: err}
	}
}

// startRequest begins a new window generation and resolves it in the background
func (m *BrowserModel) startRequest() tea.Cmd {
	req := m.ctrl.BeginRequest()
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return windowResolvedMsg{result: ctrl.Resolve(ctx, req)}
	}
}

func (m BrowserModel) loadSpecies(id int) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		s, err := ctrl.Species(ctx, id)
		return speciesLoadedMsg{id: id, species: s, err: err}
	}
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.ClearExpiredStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.UpdateLayout(msg.Width, msg.Height) {
			m.search.Width = m.Layout.InnerWidth / 2
			m.rebuildTable()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case indexLoadedMsg:
		if msg.err != nil {
			m.indexErr = msg.err
			if m.logger != nil {
				m.logger.Error("Index load failed", "error", msg.err)
			}
			return m, nil
		}
		m.indexErr = nil
		m.ctrl.SetIndex(msg.page)
		return m, m.startRequest()

	case windowResolvedMsg:
		if !m.ctrl.Apply(msg.result) {
			return m, nil
		}
		m.refresh()
		if err := m.ctrl.Err(); err != nil {
			m.SetStatus(fmt.Sprintf("Loaded %d records before a failure", msg.result.Resolved), 0)
			return m, nil
		}
		if msg.result.Resolved > 0 {
			m.SetStatus(fmt.Sprintf("Resolved %d records", msg.result.Resolved), statusDuration)
		}
		return m, m.observeScroll()

	case speciesLoadedMsg:
		if m.detail != nil && m.detail.ID == msg.id {
			m.species, m.speciesErr = msg.species, msg.err
		}
		return m, nil
	}

	switch m.screen {
	case screenFilters:
		return m.updateFilters(msg)
	case screenDetail:
		return m.updateDetail(msg)
	case screenCompare:
		return m.updateCompare(msg)
	}
	return m.updateBrowse(msg)
}

func (m BrowserModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.search.Focused() {
		return m.updateSearch(key)
	}

	if quit, cmd := HandleQuitKeys(key.String()); quit {
		m.Quitting = true
		return m, cmd
	}

	switch key.String() {
	case "/":
		m.search.Focus()
		return m, textinput.Blink

	case "esc":
		m.search.SetValue("")
		return m, m.applyFilter(catalog.FilterState{})

	case "enter":
		if r, ok := m.selected(); ok {
			return m, m.click(r, false)
		}

	case "c", "alt+enter":
		if r, ok := m.selected(); ok {
			return m, m.click(r, true)
		}

	case "C":
		if len(m.ctrl.Compare()) == 0 {
			m.SetStatus("Compare set is empty: press c on a record to add it", statusDuration)
			return m, nil
		}
		m.screen = screenCompare
		return m, nil

	case "x":
		m.ctrl.ClearCompare()
		m.refresh()
		m.SetStatus("Compare set cleared", statusDuration)

	case "f":
		if r, ok := m.selected(); ok {
			m.toggleFavorite(r)
			return m, nil
		}

	case "F":
		f := m.ctrl.Filter()
		f.FavoritesOnly = !f.FavoritesOnly
		return m, m.applyFilter(f)

	case "ctrl+d":
		m.ctrl.ClearFavorites()
		m.refresh()
		m.SetStatus("Favorites cleared", statusDuration)

	case "g":
		f := m.ctrl.Filter()
		f.Generation = (f.Generation + 1) % (len(models.Generations) + 1)
		return m, m.applyFilter(f)

	case "t":
		return m, m.openFilters()

	case "v":
		mode := m.ctrl.ToggleViewMode()
		m.gridCol = 0
		m.rebuildTable()
		m.SetStatus("View: "+string(mode), statusDuration)

	case "n":
		if m.ctrl.LoadMore() {
			m.refresh()
			return m, m.startRequest()
		}
		m.SetStatus("Nothing more to load", statusDuration)

	case "r":
		if m.indexErr != nil {
			m.indexErr = nil
			return m, m.loadIndex()
		}
		if m.ctrl.Err() != nil && !m.ctrl.Loading() {
			m.StatusMsg = ""
			return m, m.startRequest()
		}

	case "left", "right", "h", "l":
		if m.ctrl.ViewMode() == models.ViewGrid {
			m.gridCol = HandleNavigationKeys(key.String(), m.gridCol, GridColumnCount(m.Layout.TableWidth))
			m.clampGridCol()
			m.rebuildTable()
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		m.clampGridCol()
		if m.ctrl.ViewMode() == models.ViewGrid {
			m.refreshRows()
		}
		return m, tea.Batch(cmd, m.observeScroll())
	}

	return m, nil
}

func (m BrowserModel) updateSearch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
	case "enter", "down", "tab":
		m.search.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(key)
		f := m.ctrl.Filter()
		f.SearchText = m.search.Value()
		return m, tea.Batch(cmd, m.applyFilter(f))
	}

	f := m.ctrl.Filter()
	f.SearchText = m.search.Value()
	return m, m.applyFilter(f)
}

// applyFilter installs a filter state and starts a request if the window changed
func (m *BrowserModel) applyFilter(f catalog.FilterState) tea.Cmd {
	changed := m.ctrl.SetFilter(f)
	m.table.GotoTop()
	m.gridCol = 0
	m.trigger.Reset()
	m.refresh()
	if changed {
		return m.startRequest()
	}
	return nil
}

// click performs a plain or modified click on r
func (m *BrowserModel) click(r models.FullRecord, modifier bool) tea.Cmd {
	switch m.ctrl.Click(r, modifier) {
	case catalog.ClickOpenDetail:
		return m.openDetail(r)
	case catalog.ClickAddToCompare:
		m.SetStatus(fmt.Sprintf("Added %s to compare (%d/%d)", models.FormatName(r.Name), len(m.ctrl.Compare()), catalog.MaxCompare), statusDuration)
		m.refreshRows()
	default:
		if m.ctrl.InCompare(r.ID) {
			m.SetStatus(models.FormatName(r.Name)+" is already in the compare set", statusDuration)
		} else {
			m.SetStatus(fmt.Sprintf("Compare set is full (%d records)", catalog.MaxCompare), statusDuration)
		}
	}
	return nil
}

func (m *BrowserModel) openDetail(r models.FullRecord) tea.Cmd {
	m.screen = screenDetail
	m.detail = &r
	m.species, m.speciesErr = nil, nil
	return m.loadSpecies(r.ID)
}

func (m *BrowserModel) toggleFavorite(r models.FullRecord) {
	if m.ctrl.ToggleFavorite(r.ID) {
		m.SetStatus(models.FormatName(r.Name)+" added to favorites", statusDuration)
	} else {
		m.SetStatus(models.FormatName(r.Name)+" removed from favorites", statusDuration)
	}
	m.refresh()
}

// observeScroll feeds the scroll trigger and grows the window when it fires
func (m *BrowserModel) observeScroll() tea.Cmd {
	rows := len(m.table.Rows())
	atBottom := rows > 0 && m.table.Cursor() >= rows-sentinelRows
	if !m.trigger.Observe(atBottom, m.ctrl.CanLoadMore(), m.ctrl.Loading()) {
		return nil
	}
	if !m.ctrl.LoadMore() {
		return nil
	}
	return m.startRequest()
}

// refresh recomputes the visible records and the table rows
func (m *BrowserModel) refresh() {
	m.visible = m.ctrl.Visible()
	m.clampGridCol()
	m.refreshRows()
}

func (m *BrowserModel) refreshRows() {
	cursor := m.table.Cursor()
	m.table.SetRows(m.rows())
	if n := len(m.table.Rows()); cursor >= n {
		cursor = max(n-1, 0)
	}
	m.table.SetCursor(cursor)
}

// rebuildTable recreates the table for the current layout and view mode
func (m *BrowserModel) rebuildTable() {
	cursor := m.table.Cursor()
	var specs []ColumnSpec
	if m.ctrl.ViewMode() == models.ViewGrid {
		specs = GridColumns(m.Layout.TableWidth)
	} else {
		specs = ListColumns()
	}
	m.visible = m.ctrl.Visible()
	m.table = InitTable(CalculateColumns(specs, m.Layout.TableWidth), m.rows(), m.Layout)
	if n := len(m.table.Rows()); n > 0 {
		m.table.SetCursor(min(cursor, n-1))
	}
}

func (m *BrowserModel) rows() []table.Row {
	if m.ctrl.ViewMode() == models.ViewGrid {
		return m.gridRows()
	}
	return m.listRows()
}

func (m *BrowserModel) listRows() []table.Row {
	rows := make([]table.Row, 0, len(m.visible))
	for _, r := range m.visible {
		row := table.Row{m.favoriteMark(r.ID), models.FormatID(r.ID), models.FormatName(r.Name), strings.Join(r.Categories(), "/")}
		for _, s := range []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"} {
			row = append(row, strconv.Itoa(r.Stat(s)))
		}
		row = append(row, strconv.Itoa(r.StatTotal()), m.compareMark(r.ID))
		rows = append(rows, row)
	}
	return rows
}

func (m *BrowserModel) gridRows() []table.Row {
	n := GridColumnCount(m.Layout.TableWidth)
	cursor := m.table.Cursor()
	var rows []table.Row
	for start := 0; start < len(m.visible); start += n {
		row := make(table.Row, n)
		for i := range n {
			if start+i >= len(m.visible) {
				continue
			}
			r := m.visible[start+i]
			cell := fmt.Sprintf("%s%s %s%s", m.favoriteMark(r.ID), models.FormatID(r.ID), models.FormatName(r.Name), m.compareMark(r.ID))
			if len(rows) == cursor && i == m.gridCol {
				cell = "▸" + cell
			} else {
				cell = " " + cell
			}
			row[i] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

func (m *BrowserModel) favoriteMark(id int) string {
	if m.ctrl.IsFavorite(id) {
		return "★"
	}
	return " "
}

func (m *BrowserModel) compareMark(id int) string {
	if m.ctrl.InCompare(id) {
		return " ⚖"
	}
	return ""
}

func (m *BrowserModel) clampGridCol() {
	if m.ctrl.ViewMode() != models.ViewGrid {
		m.gridCol = 0
		return
	}
	n := GridColumnCount(m.Layout.TableWidth)
	lastRow := (len(m.visible) - 1) / n
	if m.table.Cursor() == lastRow {
		m.gridCol = min(m.gridCol, (len(m.visible)-1)%n)
	}
	m.gridCol = max(m.gridCol, 0)
}

// selected returns the record under the cursor
func (m BrowserModel) selected() (models.FullRecord, bool) {
	idx := m.table.Cursor()
	if m.ctrl.ViewMode() == models.ViewGrid {
		idx = idx*GridColumnCount(m.Layout.TableWidth) + m.gridCol
	}
	if idx < 0 || idx >= len(m.visible) {
		return models.FullRecord{}, false
	}
	return m.visible[idx], true
}

func (m BrowserModel) View() string {
	if m.Quitting {
		return ""
	}
	switch m.screen {
	case screenDetail:
		return m.detailView()
	case screenCompare:
		return m.compareView()
	case screenFilters:
		return m.filtersView()
	}
	return m.browseView()
}

func (m BrowserModel) browseView() string {
	b := NewPageView(m.Layout).
		Title("DEXSOME").
		Subtitle(m.filterSummary()).
		Divider().
		CustomContent(m.search.View()).
		QueryInfo(m.countLine())

	switch {
	case m.indexErr != nil:
		b.Error(m.indexErr).Text("Press r to try again.")
	case m.ctrl.Err() != nil:
		b.Table(m.table).Error(retryMessage(m.ctrl.Err())).Text("Press r to try again.")
	case len(m.visible) == 0 && !m.ctrl.Loading():
		b.Spacing(1).DimText("No records match. Press esc to clear filters.")
	default:
		b.Table(m.table)
	}

	return b.Status(m.StatusMsg).Help(m.browseHelp()).Build()
}

func (m BrowserModel) countLine() string {
	line := fmt.Sprintf("%d shown · %d of %d resolved", len(m.visible), len(m.ctrl.Resolved()), m.ctrl.TargetCount())
	if n := len(m.ctrl.Compare()); n > 0 {
		line += fmt.Sprintf(" · compare %d/%d", n, catalog.MaxCompare)
	}
	if m.ctrl.Loading() || (!m.ctrl.IndexLoaded() && m.indexErr == nil) {
		line = m.spinner.View() + " " + line
	}
	return line
}

func (m BrowserModel) filterSummary() string {
	f := m.ctrl.Filter()
	var parts []string
	if f.HasGeneration() {
		band := f.Band()
		parts = append(parts, fmt.Sprintf("Gen %d %s (%s-%s)", band.Number, band.Region, models.FormatID(band.Min), models.FormatID(band.Max)))
	}
	if types := f.SelectedTypes(); len(types) > 0 {
		parts = append(parts, "types: "+strings.Join(types, ", "))
	}
	if f.FavoritesOnly {
		parts = append(parts, "favorites only")
	}
	if len(parts) == 0 {
		return fmt.Sprintf("All generations · window %d · %s view", m.ctrl.Window(), m.ctrl.ViewMode())
	}
	return strings.Join(parts, " · ")
}

func (m BrowserModel) browseHelp() string {
	if m.search.Focused() {
		return "type to search | enter: done | esc: clear"
	}
	return "/: search | enter: details | c: compare | C: view compare | f: fav | F: favs only | g: gen | t: filters | v: view | n: more | q: quit"
}

// retryMessage shortens batch failures for the status area
func retryMessage(err error) error {
	var batchErr interface{ FailedIdentifiers() []string }
	if errors.As(err, &batchErr) {
		ids := batchErr.FailedIdentifiers()
		return fmt.Errorf("could not load %d record(s): %s", len(ids), strings.Join(ids, ", "))
	}
	return err
}
