// Package prefs persists the small pieces of user state that survive a session:
// favorites, the compare selection and the view mode.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/dexsome/internal/models"
)

// Persistence keys
const (
	KeyFavorites = "favorites"
	KeyCompare   = "compareSelection"
	KeyViewMode  = "viewMode"
)

// MaxCompare is the largest compare selection that is persisted
const MaxCompare = 3

// ErrPersistenceUnavailable is returned when the backend fails or holds unreadable data
var ErrPersistenceUnavailable = errors.New("persistence unavailable")

// Backend is a synchronous string key/value store
type Backend interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Store is a typed view over a Backend. Reads that fail degrade to defaults
// (no favorites, empty compare selection, grid view); writes that fail are
// logged and otherwise ignored. A nil backend behaves as permanently unavailable.
//
// Store is not safe for concurrent use; it is owned by the UI goroutine.
type Store struct {
	backend Backend
	logger  *log.Logger

	loaded    bool
	favorites []int
	compare   []models.FullRecord
	viewMode  models.ViewMode
}

// NewStore creates a store over backend. Nothing is read until first access or Load.
func NewStore(backend Backend, logger *log.Logger) *Store {
	return &Store{
		backend:  backend,
		logger:   logger,
		viewMode: models.ViewGrid,
	}
}

// Load (re)reads every key from the backend
func (s *Store) Load() {
	s.favorites = s.loadFavorites()
	s.compare = s.loadCompare()
	s.viewMode = s.loadViewMode()
	s.loaded = true
}

func (s *Store) ensureLoaded() {
	if !s.loaded {
		s.Load()
	}
}

// Save writes the in-memory value of key to the backend.
// The error is for callers that care; mutators log it and carry on.
func (s *Store) Save(key string) error {
	s.ensureLoaded()

	var value string
	switch key {
	case KeyFavorites:
		data, err := json.Marshal(nonNil(s.favorites))
		if err != nil {
			return fmt.Errorf("encode favorites: %w", err)
		}
		value = string(data)
	case KeyCompare:
		data, err := json.Marshal(nonNil(s.compare))
		if err != nil {
			return fmt.Errorf("encode compare selection: %w", err)
		}
		value = string(data)
	case KeyViewMode:
		value = string(s.viewMode)
	default:
		return fmt.Errorf("unknown preference key %q", key)
	}

	if s.backend == nil {
		return fmt.Errorf("%w: no backend", ErrPersistenceUnavailable)
	}
	if err := s.backend.SetItem(key, value); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistenceUnavailable, key, err)
	}
	return nil
}

// save is Save for mutators: failures are logged, never returned
func (s *Store) save(key string) {
	if err := s.Save(key); err != nil && s.logger != nil {
		s.logger.Warn("Failed to persist preference", "key", key, "error", err)
	}
}

// Favorites returns favorite ids in the order they were added
func (s *Store) Favorites() []int {
	s.ensureLoaded()
	return slices.Clone(s.favorites)
}

// FavoriteSet returns favorites as a lookup set
func (s *Store) FavoriteSet() map[int]bool {
	s.ensureLoaded()
	set := make(map[int]bool, len(s.favorites))
	for _, id := range s.favorites {
		set[id] = true
	}
	return set
}

// IsFavorite reports whether id is a favorite
func (s *Store) IsFavorite(id int) bool {
	s.ensureLoaded()
	return slices.Contains(s.favorites, id)
}

// ToggleFavorite adds or removes id and returns whether it is now a favorite
func (s *Store) ToggleFavorite(id int) bool {
	s.ensureLoaded()
	if i := slices.Index(s.favorites, id); i >= 0 {
		s.favorites = slices.Delete(s.favorites, i, i+1)
		s.save(KeyFavorites)
		return false
	}
	s.favorites = append(s.favorites, id)
	s.save(KeyFavorites)
	return true
}

// ClearFavorites empties the favorite set
func (s *Store) ClearFavorites() {
	s.ensureLoaded()
	s.favorites = nil
	s.save(KeyFavorites)
}

// CompareSelection returns the persisted compare selection in insertion order
func (s *Store) CompareSelection() []models.FullRecord {
	s.ensureLoaded()
	return slices.Clone(s.compare)
}

// SetCompareSelection replaces and persists the compare selection.
// Duplicates are dropped and the list is capped at MaxCompare.
func (s *Store) SetCompareSelection(records []models.FullRecord) {
	s.ensureLoaded()
	s.compare = sanitizeCompare(records)
	s.save(KeyCompare)
}

// ClearCompare empties the compare selection
func (s *Store) ClearCompare() {
	s.SetCompareSelection(nil)
}

// ViewMode returns the persisted view mode
func (s *Store) ViewMode() models.ViewMode {
	s.ensureLoaded()
	return s.viewMode
}

// SetViewMode persists v; unknown modes are ignored
func (s *Store) SetViewMode(v models.ViewMode) {
	s.ensureLoaded()
	if !v.Valid() {
		return
	}
	s.viewMode = v
	s.save(KeyViewMode)
}

// ToggleViewMode flips between grid and list and returns the new mode
func (s *Store) ToggleViewMode() models.ViewMode {
	s.SetViewMode(s.ViewMode().Toggle())
	return s.viewMode
}

func (s *Store) read(key string) (string, bool) {
	if s.backend == nil {
		return "", false
	}
	value, ok, err := s.backend.GetItem(key)
	if err != nil {
		s.warn(key, fmt.Errorf("%w: read: %v", ErrPersistenceUnavailable, err))
		return "", false
	}
	return value, ok
}

func (s *Store) loadFavorites() []int {
	raw, ok := s.read(KeyFavorites)
	if !ok {
		return nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.warn(KeyFavorites, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err))
		return nil
	}
	// drop duplicates and non-ids, keep first occurrence order
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store) loadCompare() []models.FullRecord {
	raw, ok := s.read(KeyCompare)
	if !ok {
		return nil
	}
	var records []models.FullRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.warn(KeyCompare, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err))
		return nil
	}
	return sanitizeCompare(records)
}

func (s *Store) loadViewMode() models.ViewMode {
	raw, ok := s.read(KeyViewMode)
	if !ok {
		return models.ViewGrid
	}
	v := models.ViewMode(raw)
	if !v.Valid() {
		s.warn(KeyViewMode, fmt.Errorf("%w: unknown view mode %q", ErrPersistenceUnavailable, raw))
		return models.ViewGrid
	}
	return v
}

func (s *Store) warn(key string, err error) {
	if s.logger != nil {
		s.logger.Warn("Using default preference", "key", key, "error", err)
	}
}

func sanitizeCompare(records []models.FullRecord) []models.FullRecord {
	out := make([]models.FullRecord, 0, MaxCompare)
	for _, r := range records {
		if len(out) == MaxCompare {
			break
		}
		if r.ID < 1 || slices.ContainsFunc(out, func(o models.FullRecord) bool { return o.ID == r.ID }) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
