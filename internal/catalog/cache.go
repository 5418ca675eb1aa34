package catalog

import (
	"maps"
	"slices"
	"sync"

	"github.com/thesavant42/dexsome/internal/models"
)

// RecordCache holds every record resolved during a session, keyed by id.
// Entries are never evicted. It is shared between the UI goroutine and fetch goroutines.
type RecordCache struct {
	mu      sync.RWMutex
	records map[int]models.FullRecord
	species map[int]*models.Species
}

func NewRecordCache() *RecordCache {
	return &RecordCache{
		records: make(map[int]models.FullRecord),
		species: make(map[int]*models.Species),
	}
}

func (c *RecordCache) Get(id int) (models.FullRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.records[id]
	return r, ok
}

func (c *RecordCache) Put(records ...models.FullRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range records {
		c.records[r.ID] = r
	}
}

func (c *RecordCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Missing returns the ids not yet cached, preserving order
func (c *RecordCache) Missing(ids []int) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []int
	for _, id := range ids {
		if _, ok := c.records[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Records returns the cached records among ids, in the order of ids
func (c *RecordCache) Records(ids []int) []models.FullRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.FullRecord, 0, len(ids))
	for _, id := range ids {
		if r, ok := c.records[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// All returns every cached record in ascending id order
func (c *RecordCache) All() []models.FullRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.FullRecord, 0, len(c.records))
	for _, id := range slices.Sorted(maps.Keys(c.records)) {
		out = append(out, c.records[id])
	}
	return out
}

func (c *RecordCache) Species(id int) (*models.Species, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.species[id]
	return s, ok
}

func (c *RecordCache) PutSpecies(id int, s *models.Species) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.species[id] = s
}
