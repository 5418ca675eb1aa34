package catalog

import (
	"fmt"

	"github.com/thesavant42/dexsome/internal/api"
	"github.com/thesavant42/dexsome/internal/models"
)

// Window defaults
const (
	DefaultInitialWindow = 151
	DefaultIncrementSize = 50
)

// WindowConfig sizes the incremental window and the fetch batches
type WindowConfig struct {
	InitialWindow int
	IncrementSize int
	BatchSize     int
	CatalogSize   int
}

// DefaultWindowConfig returns the stock sizes
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		InitialWindow: DefaultInitialWindow,
		IncrementSize: DefaultIncrementSize,
		BatchSize:     api.DefaultBatchSize,
		CatalogSize:   models.CatalogSize,
	}
}

// Validate rejects non-positive sizes
func (c WindowConfig) Validate() error {
	switch {
	case c.InitialWindow <= 0:
		return fmt.Errorf("initial window must be positive, got %d", c.InitialWindow)
	case c.IncrementSize <= 0:
		return fmt.Errorf("increment size must be positive, got %d", c.IncrementSize)
	case c.BatchSize <= 0:
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	case c.CatalogSize <= 0:
		return fmt.Errorf("catalog size must be positive, got %d", c.CatalogSize)
	}
	return nil
}

// WindowManager decides how many and which record ids must be resolved for a filter state
type WindowManager struct {
	cfg    WindowConfig
	window int
}

// NewWindowManager starts the incremental window at cfg.InitialWindow
func NewWindowManager(cfg WindowConfig) *WindowManager {
	return &WindowManager{
		cfg:    cfg,
		window: min(cfg.InitialWindow, cfg.CatalogSize),
	}
}

// Config returns the sizes the manager was created with
func (w *WindowManager) Config() WindowConfig {
	return w.cfg
}

// Window returns the current incremental window size
func (w *WindowManager) Window() int {
	return w.window
}

// Range returns the inclusive id range to resolve for state.
// A selected band takes precedence over every other filter.
func (w *WindowManager) Range(state FilterState) (lo, hi int) {
	switch {
	case state.HasGeneration():
		band := state.Band()
		return band.Min, min(band.Max, w.cfg.CatalogSize)
	case state.NeedsFullSet():
		return 1, w.cfg.CatalogSize
	default:
		return 1, w.window
	}
}

// TargetCount returns how many records must be resolved for state
func (w *WindowManager) TargetCount(state FilterState) int {
	lo, hi := w.Range(state)
	return max(hi-lo+1, 0)
}

// Identifiers returns the ids to resolve for state in ascending order
func (w *WindowManager) Identifiers(state FilterState) []int {
	lo, hi := w.Range(state)
	ids := make([]int, 0, max(hi-lo+1, 0))
	for id := lo; id <= hi; id++ {
		ids = append(ids, id)
	}
	return ids
}

// CanLoadMore reports whether the incremental window can grow under state
func (w *WindowManager) CanLoadMore(state FilterState) bool {
	return state.IsDefault() && w.window < w.cfg.CatalogSize
}

// LoadMore grows the window by one increment, capped at the catalog size.
// It is refused while a filter is active because those modes already resolve their full set.
func (w *WindowManager) LoadMore(state FilterState) bool {
	if !w.CanLoadMore(state) {
		return false
	}
	w.window = min(w.window+w.cfg.IncrementSize, w.cfg.CatalogSize)
	return true
}
