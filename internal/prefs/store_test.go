package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/dexsome/internal/models"
)

// failingBackend fails every operation
type failingBackend struct{}

var errDisk = errors.New("disk on fire")

func (failingBackend) GetItem(string) (string, bool, error) { return "", false, errDisk }
func (failingBackend) SetItem(string, string) error         { return errDisk }
func (failingBackend) RemoveItem(string) error              { return errDisk }

func record(id int, name string) models.FullRecord {
	return models.FullRecord{ID: id, Name: name}
}

func TestStoreDefaults(t *testing.T) {
	s := NewStore(NewMemoryBackend(0), nil)

	assert.Empty(t, s.Favorites())
	assert.Empty(t, s.CompareSelection())
	assert.Equal(t, models.ViewGrid, s.ViewMode())
}

func TestStoreRoundTrip(t *testing.T) {
	backend := NewMemoryBackend(0)

	s := NewStore(backend, nil)
	assert.True(t, s.ToggleFavorite(25))
	assert.True(t, s.ToggleFavorite(150))
	s.SetCompareSelection([]models.FullRecord{record(1, "bulbasaur"), record(4, "charmander")})
	s.SetViewMode(models.ViewList)

	raw, ok, err := backend.GetItem(KeyViewMode)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "list", raw)

	// a fresh session over the same backend sees the same state
	reloaded := NewStore(backend, nil)
	assert.Equal(t, []int{25, 150}, reloaded.Favorites())
	assert.Equal(t, models.ViewList, reloaded.ViewMode())
	sel := reloaded.CompareSelection()
	require.Len(t, sel, 2)
	assert.Equal(t, "bulbasaur", sel[0].Name)
	assert.Equal(t, "charmander", sel[1].Name)
}

func TestToggleFavoriteRemoves(t *testing.T) {
	s := NewStore(NewMemoryBackend(0), nil)

	s.ToggleFavorite(7)
	assert.True(t, s.IsFavorite(7))
	assert.False(t, s.ToggleFavorite(7))
	assert.False(t, s.IsFavorite(7))
	assert.Empty(t, s.FavoriteSet())
}

func TestClearFavoritesPersists(t *testing.T) {
	backend := NewMemoryBackend(0)
	s := NewStore(backend, nil)
	s.ToggleFavorite(1)
	s.ToggleFavorite(2)
	s.ClearFavorites()

	raw, _, _ := backend.GetItem(KeyFavorites)
	assert.Equal(t, "[]", raw)
	assert.Empty(t, NewStore(backend, nil).Favorites())
}

func TestCompareSelectionIsCapped(t *testing.T) {
	s := NewStore(NewMemoryBackend(0), nil)
	s.SetCompareSelection([]models.FullRecord{
		record(1, "a"), record(1, "dup"), record(2, "b"), record(3, "c"), record(4, "d"),
	})

	sel := s.CompareSelection()
	require.Len(t, sel, MaxCompare)
	assert.Equal(t, []int{1, 2, 3}, []int{sel[0].ID, sel[1].ID, sel[2].ID})
	assert.Equal(t, "a", sel[0].Name)
}

func TestMalformedValuesDegradeToDefaults(t *testing.T) {
	backend := NewMemoryBackend(0)
	require.NoError(t, backend.SetItem(KeyFavorites, "not json"))
	require.NoError(t, backend.SetItem(KeyCompare, `{"id": 1}`))
	require.NoError(t, backend.SetItem(KeyViewMode, "carousel"))

	s := NewStore(backend, nil)
	assert.Empty(t, s.Favorites())
	assert.Empty(t, s.CompareSelection())
	assert.Equal(t, models.ViewGrid, s.ViewMode())
}

func TestUnavailableBackend(t *testing.T) {
	for name, backend := range map[string]Backend{
		"failing": failingBackend{},
		"nil":     nil,
	} {
		t.Run(name, func(t *testing.T) {
			s := NewStore(backend, nil)
			assert.Equal(t, models.ViewGrid, s.ViewMode())

			// writes fail silently and in-memory state still moves
			assert.True(t, s.ToggleFavorite(9))
			assert.True(t, s.IsFavorite(9))
			assert.Equal(t, models.ViewList, s.ToggleViewMode())

			assert.ErrorIs(t, s.Save(KeyFavorites), ErrPersistenceUnavailable)
		})
	}
}

func TestQuotaExceeded(t *testing.T) {
	backend := NewMemoryBackend(32)
	s := NewStore(backend, nil)

	s.SetCompareSelection([]models.FullRecord{record(1, "bulbasaur")})
	err := s.Save(KeyCompare)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)

	_, ok, _ := backend.GetItem(KeyCompare)
	assert.False(t, ok)
	// the session keeps its selection
	assert.Len(t, s.CompareSelection(), 1)
}

func TestSaveUnknownKey(t *testing.T) {
	s := NewStore(NewMemoryBackend(0), nil)
	assert.Error(t, s.Save("theme"))
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	backend := NewFileBackend(path)

	_, ok, err := backend.GetItem(KeyViewMode)
	require.NoError(t, err)
	assert.False(t, ok)

	s := NewStore(backend, nil)
	s.ToggleFavorite(25)
	s.SetViewMode(models.ViewList)

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded := NewStore(NewFileBackend(path), nil)
	assert.Equal(t, []int{25}, reloaded.Favorites())
	assert.Equal(t, models.ViewList, reloaded.ViewMode())

	require.NoError(t, backend.RemoveItem(KeyViewMode))
	_, ok, err = backend.GetItem(KeyViewMode)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileBackendCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	backend := NewFileBackend(path)
	_, _, err := backend.GetItem(KeyFavorites)
	assert.Error(t, err)

	s := NewStore(backend, nil)
	assert.Empty(t, s.Favorites())
	assert.Equal(t, models.ViewGrid, s.ViewMode())
}
