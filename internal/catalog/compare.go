package catalog

import (
	"slices"

	"github.com/thesavant42/dexsome/internal/models"
)

// MaxCompare is the capacity of a compare set
const MaxCompare = 3

// CompareSet is a bounded, insertion-ordered set of records unique by id
type CompareSet struct {
	records []models.FullRecord
}

// NewCompareSet seeds a set from a persisted selection, dropping duplicates and overflow
func NewCompareSet(initial []models.FullRecord) *CompareSet {
	c := &CompareSet{}
	for _, r := range initial {
		c.Add(r)
	}
	return c
}

// Add appends r unless the set is full or already holds r's id
func (c *CompareSet) Add(r models.FullRecord) bool {
	if !c.CanAddMore() || c.Contains(r.ID) {
		return false
	}
	c.records = append(c.records, r)
	return true
}

// Remove drops id if present
func (c *CompareSet) Remove(id int) {
	c.records = slices.DeleteFunc(c.records, func(r models.FullRecord) bool { return r.ID == id })
}

func (c *CompareSet) Clear() {
	c.records = nil
}

func (c *CompareSet) Contains(id int) bool {
	return slices.ContainsFunc(c.records, func(r models.FullRecord) bool { return r.ID == id })
}

func (c *CompareSet) CanAddMore() bool {
	return len(c.records) < MaxCompare
}

func (c *CompareSet) Len() int {
	return len(c.records)
}

// Records returns the selection in insertion order
func (c *CompareSet) Records() []models.FullRecord {
	return slices.Clone(c.records)
}

// StatComparison is how one record's stat relates to the rest of a selection
type StatComparison string

const (
	StatHigher  StatComparison = "higher"
	StatLower   StatComparison = "lower"
	StatNeutral StatComparison = "neutral"
)

// CompareStat ranks records[index]'s stat against the other records: higher
// if it beats all of them, lower if it trails all of them, neutral otherwise.
func CompareStat(records []models.FullRecord, index int, stat string) StatComparison {
	if index < 0 || index >= len(records) || len(records) < 2 {
		return StatNeutral
	}
	current := records[index].Stat(stat)

	higher, lower := true, true
	for i, r := range records {
		if i == index {
			continue
		}
		v := r.Stat(stat)
		if current <= v {
			higher = false
		}
		if current >= v {
			lower = false
		}
	}

	switch {
	case higher:
		return StatHigher
	case lower:
		return StatLower
	default:
		return StatNeutral
	}
}
