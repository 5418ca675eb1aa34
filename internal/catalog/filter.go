// Package catalog is the data controller behind the browser: it decides which
// records to resolve, merges them into a session cache and derives the visible set.
package catalog

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/thesavant42/dexsome/internal/models"
)

// FilterState is the transient filter selection of a session.
// Generation 0 means no band is selected.
type FilterState struct {
	SearchText    string
	Types         map[string]bool
	Generation    int
	FavoritesOnly bool
}

// IsDefault reports whether no filter is active
func (f FilterState) IsDefault() bool {
	return !f.HasGeneration() && !f.NeedsFullSet()
}

// HasGeneration reports whether a generation band is selected
func (f FilterState) HasGeneration() bool {
	return f.Generation != 0
}

// NeedsFullSet reports whether a filter is active whose matches can appear anywhere in id order
func (f FilterState) NeedsFullSet() bool {
	return f.SearchText != "" || len(f.Types) > 0 || f.FavoritesOnly
}

// Band returns the selected band, or the full range when none is selected
func (f FilterState) Band() models.GenerationBand {
	return models.BandFor(f.Generation)
}

// SelectedTypes returns the type set in sorted order
func (f FilterState) SelectedTypes() []string {
	return slices.Sorted(maps.Keys(f.Types))
}

// WithType returns a copy of f with category t toggled
func (f FilterState) WithType(t string) FilterState {
	types := maps.Clone(f.Types)
	if types == nil {
		types = make(map[string]bool)
	}
	if types[t] {
		delete(types, t)
	} else {
		types[t] = true
	}
	f.Types = types
	return f
}

// WithTypes returns a copy of f with exactly the given categories selected
func (f FilterState) WithTypes(ts []string) FilterState {
	f.Types = nil
	if len(ts) > 0 {
		f.Types = make(map[string]bool, len(ts))
		for _, t := range ts {
			f.Types[t] = true
		}
	}
	return f
}

// Apply returns the records that satisfy every predicate of state, in ascending id order.
// records is not modified.
func Apply(records []models.FullRecord, state FilterState, favorites map[int]bool) []models.FullRecord {
	band := state.Band()
	search := strings.ToLower(state.SearchText)

	out := make([]models.FullRecord, 0, len(records))
	for _, r := range records {
		if matchesSearch(r, search) &&
			matchesType(r, state.Types) &&
			matchesGeneration(r, state.HasGeneration(), band) &&
			matchesFavorites(r, state.FavoritesOnly, favorites) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b models.FullRecord) int { return a.ID - b.ID })
	return out
}

// matchesSearch expects search already lower-cased
func matchesSearch(r models.FullRecord, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), search) ||
		strings.Contains(strconv.Itoa(r.ID), search)
}

func matchesType(r models.FullRecord, types map[string]bool) bool {
	if len(types) == 0 {
		return true
	}
	for _, c := range r.Categories() {
		if types[c] {
			return true
		}
	}
	return false
}

func matchesGeneration(r models.FullRecord, selected bool, band models.GenerationBand) bool {
	return !selected || band.Contains(r.ID)
}

func matchesFavorites(r models.FullRecord, only bool, favorites map[int]bool) bool {
	return !only || favorites[r.ID]
}
