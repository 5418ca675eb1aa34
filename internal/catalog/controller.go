package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/thesavant42/dexsome/internal/api"
	"github.com/thesavant42/dexsome/internal/models"
	"github.com/thesavant42/dexsome/internal/prefs"
)

// Source is the remote catalog. *api.CatalogClient satisfies it.
type Source interface {
	api.RecordFetcher
	FetchIndex(ctx context.Context, limit, offset int) (*models.IndexPage, error)
	FetchSpecies(ctx context.Context, id int) (*models.Species, error)
}

// Archive persists resolved records between sessions
type Archive interface {
	LoadRecords(ctx context.Context) ([]models.FullRecord, error)
	SaveRecords(ctx context.Context, records []models.FullRecord) error
}

// Options configures a Controller. Zero values get defaults: DefaultWindowConfig,
// an in-memory preference store, no archive and no logging.
type Options struct {
	Window  WindowConfig
	Prefs   *prefs.Store
	Archive Archive
	Logger  *log.Logger
}

// WindowRequest is a snapshot of what one window load must resolve
type WindowRequest struct {
	Generation  uint64
	IDs         []int    // every id the window covers
	Missing     []int    // ids not yet cached
	Identifiers []string // fetch identifiers for Missing, index-aligned
}

// WindowResult is the outcome of resolving a WindowRequest
type WindowResult struct {
	Generation uint64
	Resolved   int
	Err        error
}

// Controller owns the session state of the browser. All methods except
// Resolve, FetchIndex and Species must be called from a single goroutine.
type Controller struct {
	source  Source
	batch   *api.BatchFetcher
	window  *WindowManager
	cache   *RecordCache
	prefs   *prefs.Store
	compare *CompareSet
	archive Archive
	logger  *log.Logger

	sessionID  string
	filter     FilterState
	names      map[int]string // index entries by id
	indexCount int
	generation uint64
	loading    bool
	err        error
}

// NewController wires a controller over source
func NewController(source Source, opts Options) *Controller {
	if opts.Window == (WindowConfig{}) {
		opts.Window = DefaultWindowConfig()
	}
	store := opts.Prefs
	if store == nil {
		store = prefs.NewStore(prefs.NewMemoryBackend(0), opts.Logger)
	}

	c := &Controller{
		source:    source,
		batch:     api.NewBatchFetcher(source, opts.Logger),
		window:    NewWindowManager(opts.Window),
		cache:     NewRecordCache(),
		prefs:     store,
		compare:   NewCompareSet(store.CompareSelection()),
		archive:   opts.Archive,
		logger:    opts.Logger,
		sessionID: uuid.NewString(),
		names:     make(map[int]string),
	}
	if c.logger != nil {
		c.logger = c.logger.With("session", c.sessionID[:8])
	}
	return c
}

// SessionID identifies this controller in logs
func (c *Controller) SessionID() string {
	return c.sessionID
}

// WarmFromArchive seeds the session cache with archived records
func (c *Controller) WarmFromArchive(ctx context.Context) (int, error) {
	if c.archive == nil {
		return 0, nil
	}
	records, err := c.archive.LoadRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load archived records: %w", err)
	}
	c.cache.Put(records...)
	if c.logger != nil {
		c.logger.Info("Warmed cache from archive", "records", len(records))
	}
	return len(records), nil
}

// FetchIndex retrieves the catalog index. Safe to call from any goroutine.
func (c *Controller) FetchIndex(ctx context.Context) (*models.IndexPage, error) {
	return c.source.FetchIndex(ctx, c.window.Config().CatalogSize, 0)
}

// SetIndex installs the session's index. Later window requests fetch by name.
func (c *Controller) SetIndex(page *models.IndexPage) {
	if page == nil {
		return
	}
	c.indexCount = page.Count
	for _, s := range page.Results {
		if id := s.ID(); id > 0 {
			c.names[id] = s.Name
		}
	}
	if c.logger != nil {
		c.logger.Info("Index loaded", "entries", len(page.Results), "count", page.Count)
	}
}

// LoadIndex fetches and installs the index
func (c *Controller) LoadIndex(ctx context.Context) error {
	page, err := c.FetchIndex(ctx)
	if err != nil {
		return err
	}
	c.SetIndex(page)
	return nil
}

// IndexCount returns the remote catalog size reported by the index
func (c *Controller) IndexCount() int {
	return c.indexCount
}

// IndexLoaded reports whether SetIndex has been called with a page
func (c *Controller) IndexLoaded() bool {
	return len(c.names) > 0
}

// identifier is the fetch key for id: its index name when known
func (c *Controller) identifier(id int) string {
	if name, ok := c.names[id]; ok {
		return name
	}
	return strconv.Itoa(id)
}

// Filter returns the active filter state
func (c *Controller) Filter() FilterState {
	return c.filter
}

// SetFilter replaces the filter state and reports whether the set of ids to
// resolve changed, in which case the caller should start a new request.
func (c *Controller) SetFilter(state FilterState) bool {
	oldLo, oldHi := c.window.Range(c.filter)
	oldBand := c.filter.Generation
	c.filter = state
	lo, hi := c.window.Range(state)
	return lo != oldLo || hi != oldHi || state.Generation != oldBand
}

// ClearFilters resets every filter to its default
func (c *Controller) ClearFilters() bool {
	return c.SetFilter(FilterState{})
}

// BeginRequest starts a new window request generation. Any result of an
// earlier generation will be discarded by Apply.
func (c *Controller) BeginRequest() WindowRequest {
	c.generation++
	c.loading = true
	c.err = nil

	ids := c.window.Identifiers(c.filter)
	missing := c.cache.Missing(ids)
	identifiers := make([]string, len(missing))
	for i, id := range missing {
		identifiers[i] = c.identifier(id)
	}

	if c.logger != nil {
		c.logger.Debug("Window request", "generation", c.generation, "target", len(ids), "missing", len(missing))
	}
	return WindowRequest{
		Generation:  c.generation,
		IDs:         ids,
		Missing:     missing,
		Identifiers: identifiers,
	}
}

// Resolve fetches the missing records of req and stores them in the session
// cache. It does not touch controller state and may run on any goroutine.
// Records resolved before a failure are kept.
func (c *Controller) Resolve(ctx context.Context, req WindowRequest) WindowResult {
	res := WindowResult{Generation: req.Generation}
	if len(req.Identifiers) == 0 {
		return res
	}

	records, err := c.batch.Resolve(ctx, req.Identifiers, c.window.Config().BatchSize)

	resolved := make([]models.FullRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			resolved = append(resolved, *r)
		}
	}
	c.cache.Put(resolved...)
	res.Resolved = len(resolved)
	res.Err = err

	if c.archive != nil && len(resolved) > 0 {
		if aerr := c.archive.SaveRecords(ctx, resolved); aerr != nil && c.logger != nil {
			c.logger.Warn("Failed to archive records", "count", len(resolved), "error", aerr)
		}
	}
	return res
}

// Apply installs the outcome of a request. Results from a superseded
// generation are dropped and Apply returns false.
func (c *Controller) Apply(res WindowResult) bool {
	if res.Generation != c.generation {
		if c.logger != nil {
			c.logger.Debug("Discarding stale window result", "generation", res.Generation, "current", c.generation)
		}
		return false
	}
	c.loading = false
	c.err = res.Err
	if res.Err != nil && c.logger != nil {
		c.logger.Error("Window load failed", "generation", res.Generation, "resolved", res.Resolved, "error", res.Err)
	}
	return true
}

// Sync runs a whole request on the calling goroutine
func (c *Controller) Sync(ctx context.Context) error {
	res := c.Resolve(ctx, c.BeginRequest())
	c.Apply(res)
	return res.Err
}

// Loading reports whether the newest request is still in flight
func (c *Controller) Loading() bool {
	return c.loading
}

// Err returns the failure of the newest applied request, if any
func (c *Controller) Err() error {
	return c.err
}

// Retryable reports whether the last load failed in a way a retry could fix
func (c *Controller) Retryable() bool {
	return c.err != nil && (errors.Is(c.err, api.ErrNetworkFailure) || errors.Is(c.err, context.DeadlineExceeded))
}

// Generation returns the newest request generation
func (c *Controller) Generation() uint64 {
	return c.generation
}

// Window returns the incremental window size
func (c *Controller) Window() int {
	return c.window.Window()
}

// TargetCount returns how many records the current filter needs
func (c *Controller) TargetCount() int {
	return c.window.TargetCount(c.filter)
}

// CanLoadMore reports whether the window may grow
func (c *Controller) CanLoadMore() bool {
	return c.window.CanLoadMore(c.filter)
}

// LoadMore grows the window; the caller starts a request when it returns true
func (c *Controller) LoadMore() bool {
	ok := c.window.LoadMore(c.filter)
	if ok && c.logger != nil {
		c.logger.Debug("Window grown", "window", c.window.Window())
	}
	return ok
}

// Resolved returns the cached records of the current window in ascending id order
func (c *Controller) Resolved() []models.FullRecord {
	return c.cache.Records(c.window.Identifiers(c.filter))
}

// Visible returns the filtered records of the current window
func (c *Controller) Visible() []models.FullRecord {
	return Apply(c.Resolved(), c.filter, c.prefs.FavoriteSet())
}

// Record returns a cached record
func (c *Controller) Record(id int) (models.FullRecord, bool) {
	return c.cache.Get(id)
}

// CachedCount returns the number of records resolved this session
func (c *Controller) CachedCount() int {
	return c.cache.Len()
}

// Species returns the species entry for id, fetching it once per session.
// Safe to call from any goroutine.
func (c *Controller) Species(ctx context.Context, id int) (*models.Species, error) {
	if s, ok := c.cache.Species(id); ok {
		return s, nil
	}
	s, err := c.source.FetchSpecies(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.PutSpecies(id, s)
	return s, nil
}

// IsFavorite reports whether id is a favorite
func (c *Controller) IsFavorite(id int) bool {
	return c.prefs.IsFavorite(id)
}

// ToggleFavorite flips id's favorite flag and returns the new value
func (c *Controller) ToggleFavorite(id int) bool {
	return c.prefs.ToggleFavorite(id)
}

// Favorites returns favorite ids in insertion order
func (c *Controller) Favorites() []int {
	return c.prefs.Favorites()
}

func (c *Controller) ClearFavorites() {
	c.prefs.ClearFavorites()
}

// ViewMode returns the persisted view mode
func (c *Controller) ViewMode() models.ViewMode {
	return c.prefs.ViewMode()
}

func (c *Controller) ToggleViewMode() models.ViewMode {
	return c.prefs.ToggleViewMode()
}

// Compare returns the compare selection in insertion order
func (c *Controller) Compare() []models.FullRecord {
	return c.compare.Records()
}

func (c *Controller) InCompare(id int) bool {
	return c.compare.Contains(id)
}

func (c *Controller) CanAddToCompare() bool {
	return c.compare.CanAddMore()
}

// AddToCompare adds r to the selection and persists it
func (c *Controller) AddToCompare(r models.FullRecord) bool {
	if !c.compare.Add(r) {
		return false
	}
	c.prefs.SetCompareSelection(c.compare.Records())
	return true
}

func (c *Controller) RemoveFromCompare(id int) {
	c.compare.Remove(id)
	c.prefs.SetCompareSelection(c.compare.Records())
}

func (c *Controller) ClearCompare() {
	c.compare.Clear()
	c.prefs.ClearCompare()
}

// Click performs the action a click on r maps to and returns it. Opening the
// detail view is left to the caller.
func (c *Controller) Click(r models.FullRecord, modifierHeld bool) ClickAction {
	action := ClassifyClick(modifierHeld, c.compare.CanAddMore())
	if action == ClickAddToCompare && !c.AddToCompare(r) {
		return ClickNoop
	}
	return action
}
