package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/dexsome/internal/models"
	"github.com/thesavant42/dexsome/internal/prefs"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func testRecord(id int, name string, types ...string) models.FullRecord {
	r := models.FullRecord{ID: id, Name: name, Height: 4, Weight: 60}
	for i, t := range types {
		r.Types = append(r.Types, models.TypeSlot{Slot: i + 1, Type: models.NamedRef{Name: t}})
	}
	for _, s := range []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"} {
		r.Stats = append(r.Stats, models.StatEntry{BaseStat: 50, Stat: models.NamedRef{Name: s}})
	}
	return r
}

func TestSaveAndLoadRecords(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.SaveRecords(ctx, []models.FullRecord{
		testRecord(4, "charmander", "fire"),
		testRecord(1, "bulbasaur", "grass", "poison"),
	}))
	// replace keeps one row per id
	require.NoError(t, database.SaveRecords(ctx, []models.FullRecord{testRecord(1, "bulbasaur", "grass", "poison")}))

	records, err := database.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, []string{"grass", "poison"}, records[0].Categories())
	assert.Equal(t, 300, records[1].StatTotal())

	count, err := database.RecordCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ranged, err := database.LoadRecordRange(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "charmander", ranged[0].Name)
}

func TestTypeCounts(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.SaveRecords(ctx, []models.FullRecord{
		testRecord(1, "bulbasaur", "grass", "poison"),
		testRecord(2, "ivysaur", "grass", "poison"),
		testRecord(4, "charmander", "fire"),
		testRecord(23, "ekans", "poison"),
	}))

	counts, err := database.TypeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []TypeCount{{"poison", 3}, {"grass", 2}, {"fire", 1}}, counts)

	require.NoError(t, database.ClearRecords(ctx))
	count, err := database.RecordCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPreferencesBackend(t *testing.T) {
	database := newTestDB(t)
	backend := database.Preferences()

	_, ok, err := backend.GetItem("viewMode")
	require.NoError(t, err)
	assert.False(t, ok)

	store := prefs.NewStore(backend, nil)
	store.SetViewMode(models.ViewList)
	store.ToggleFavorite(25)

	reloaded := prefs.NewStore(database.Preferences(), nil)
	assert.Equal(t, models.ViewList, reloaded.ViewMode())
	assert.Equal(t, []int{25}, reloaded.Favorites())

	require.NoError(t, backend.RemoveItem("viewMode"))
	_, ok, err = backend.GetItem("viewMode")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profiles")
	database, err := New(filepath.Join(dir, "ash.db"))
	require.NoError(t, err)
	require.NoError(t, database.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	profiles, err := ListProfiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"ash.db"}, profiles)
}
