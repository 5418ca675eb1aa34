package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StatCount is the number of base stats every record carries
const StatCount = 6

// MaxStatValue is the largest base stat value the catalog uses
const MaxStatValue = 255

// ErrMalformedRecord is returned when a record response is missing required fields
var ErrMalformedRecord = errors.New("malformed record")

// NamedRef is a name/url pair as returned by the remote API
type NamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// RecordSummary is a single entry from the catalog index
type RecordSummary struct {
	Name string `json:"name"`
	URL  string `json:"url"` // resolve reference, ends in the numeric id
}

// ID extracts the numeric identifier from the resolve reference.
// Returns 0 if the reference does not end in a number.
func (s RecordSummary) ID() int {
	return ExtractID(s.URL)
}

// ExtractID returns the last numeric path segment of a resource URL
// Example: "https://pokeapi.co/api/v2/pokemon/25/" -> 25
func ExtractID(ref string) int {
	parts := strings.Split(strings.TrimRight(ref, "/"), "/")
	if len(parts) == 0 {
		return 0
	}
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || id < 1 {
		return 0
	}
	return id
}

// IndexPage is the response of the catalog index endpoint
type IndexPage struct {
	Count    int             `json:"count"`
	Next     string          `json:"next,omitempty"`
	Previous string          `json:"previous,omitempty"`
	Results  []RecordSummary `json:"results"`
}

// TypeSlot is one category tag of a record
type TypeSlot struct {
	Slot int      `json:"slot"`
	Type NamedRef `json:"type"`
}

// StatEntry is one base stat of a record
type StatEntry struct {
	BaseStat int      `json:"base_stat"`
	Effort   int      `json:"effort"`
	Stat     NamedRef `json:"stat"`
}

// AbilitySlot references an ability a record can have
type AbilitySlot struct {
	Ability  NamedRef `json:"ability"`
	IsHidden bool     `json:"is_hidden"`
	Slot     int      `json:"slot"`
}

// MoveSlot references a move a record can learn
type MoveSlot struct {
	Move NamedRef `json:"move"`
}

// Sprites holds the artwork URLs used by the detail view
type Sprites struct {
	FrontDefault string `json:"front_default,omitempty"`
}

// FullRecord is the complete catalog entry, in the same JSON shape as the remote API
type FullRecord struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Height    int           `json:"height"` // decimetres
	Weight    int           `json:"weight"` // hectograms
	Types     []TypeSlot    `json:"types"`
	Stats     []StatEntry   `json:"stats"`
	Abilities []AbilitySlot `json:"abilities"`
	Moves     []MoveSlot    `json:"moves"`
	Sprites   Sprites       `json:"sprites"`
}

// Categories returns the record's type names in slot order
func (r FullRecord) Categories() []string {
	names := make([]string, 0, len(r.Types))
	for _, t := range r.Types {
		names = append(names, t.Type.Name)
	}
	return names
}

// HasCategory reports whether the record carries the given type
func (r FullRecord) HasCategory(name string) bool {
	for _, t := range r.Types {
		if t.Type.Name == name {
			return true
		}
	}
	return false
}

// Stat returns the base value for the named stat, or 0 if absent
func (r FullRecord) Stat(name string) int {
	for _, s := range r.Stats {
		if s.Stat.Name == name {
			return s.BaseStat
		}
	}
	return 0
}

// StatTotal returns the sum of all base stats
func (r FullRecord) StatTotal() int {
	total := 0
	for _, s := range r.Stats {
		total += s.BaseStat
	}
	return total
}

// AbilityNames returns ability names in slot order
func (r FullRecord) AbilityNames() []string {
	names := make([]string, 0, len(r.Abilities))
	for _, a := range r.Abilities {
		names = append(names, a.Ability.Name)
	}
	return names
}

// Validate checks the fields every consumer relies on.
// Errors wrap ErrMalformedRecord.
func (r FullRecord) Validate() error {
	if r.ID < 1 {
		return fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: record %d has no name", ErrMalformedRecord, r.ID)
	}
	if len(r.Types) == 0 || len(r.Types) > 2 {
		return fmt.Errorf("%w: record %d has %d types", ErrMalformedRecord, r.ID, len(r.Types))
	}
	if len(r.Stats) != StatCount {
		return fmt.Errorf("%w: record %d has %d stats, want %d", ErrMalformedRecord, r.ID, len(r.Stats), StatCount)
	}
	for _, s := range r.Stats {
		if s.Stat.Name == "" {
			return fmt.Errorf("%w: record %d has an unnamed stat", ErrMalformedRecord, r.ID)
		}
		if s.BaseStat < 0 || s.BaseStat > MaxStatValue {
			return fmt.Errorf("%w: record %d stat %s out of range: %d", ErrMalformedRecord, r.ID, s.Stat.Name, s.BaseStat)
		}
	}
	return nil
}

// Species holds the descriptive data shown in the detail view
type Species struct {
	ID                int                `json:"id"`
	Name              string             `json:"name"`
	FlavorTextEntries []FlavorTextEntry  `json:"flavor_text_entries"`
	Genera            []GenusEntry       `json:"genera"`
	EvolutionChain    *EvolutionChainRef `json:"evolution_chain,omitempty"`
}

// FlavorTextEntry is a localized description
type FlavorTextEntry struct {
	FlavorText string   `json:"flavor_text"`
	Language   NamedRef `json:"language"`
}

// GenusEntry is a localized genus ("Mouse Pokémon")
type GenusEntry struct {
	Genus    string   `json:"genus"`
	Language NamedRef `json:"language"`
}

// EvolutionChainRef points at the evolution chain resource
type EvolutionChainRef struct {
	URL string `json:"url"`
}

// Description returns the first flavor text in the given language with
// form feeds and line breaks collapsed to spaces
func (s Species) Description(lang string) string {
	for _, e := range s.FlavorTextEntries {
		if e.Language.Name == lang {
			text := strings.NewReplacer("\f", " ", "\n", " ", "\r", " ").Replace(e.FlavorText)
			return strings.Join(strings.Fields(text), " ")
		}
	}
	return ""
}

// Genus returns the genus in the given language
func (s Species) Genus(lang string) string {
	for _, g := range s.Genera {
		if g.Language.Name == lang {
			return g.Genus
		}
	}
	return ""
}
