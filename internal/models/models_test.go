package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		ref  string
		want int
	}{
		{"https://pokeapi.co/api/v2/pokemon/25/", 25},
		{"https://pokeapi.co/api/v2/pokemon/1010", 1010},
		{"https://pokeapi.co/api/v2/pokemon/pikachu/", 0},
		{"", 0},
		{"https://pokeapi.co/api/v2/pokemon/0/", 0},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractID(tt.ref))
		})
	}
}

func TestGenerationsAreContiguous(t *testing.T) {
	require.Len(t, Generations, 9)
	next := 1
	for _, b := range Generations {
		assert.Equal(t, next, b.Min, "band %d starts at %d", b.Number, b.Min)
		assert.GreaterOrEqual(t, b.Max, b.Min)
		next = b.Max + 1
	}
	assert.Equal(t, CatalogSize+1, next)
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, 151, BandFor(1).Size())
	assert.Equal(t, 100, BandFor(2).Size())
	assert.Equal(t, AllGenerations, BandFor(42))
	assert.Equal(t, CatalogSize, BandFor(0).Size())

	b, ok := BandOf(152)
	require.True(t, ok)
	assert.Equal(t, 2, b.Number)

	_, ok = BandOf(CatalogSize + 1)
	assert.False(t, ok)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "#0025", FormatID(25))
	assert.Equal(t, "#1010", FormatID(1010))
	assert.Equal(t, "Mr Mime", FormatName("mr-mime"))
	assert.Equal(t, "Pikachu", FormatName("pikachu"))
	assert.Equal(t, "Sp. Atk", FormatStatName("special-attack"))
	assert.Equal(t, "accuracy", FormatStatName("accuracy"))
	assert.InDelta(t, 100.0, StatPercentage(255), 0.001)
	assert.InDelta(t, 100.0, StatPercentage(300), 0.001)
	assert.InDelta(t, 20.0, StatPercentage(51), 0.001)
	assert.Equal(t, "0.4 m", FormatHeight(4))
	assert.Equal(t, "6.0 kg", FormatWeight(60))
}

func TestViewModeToggle(t *testing.T) {
	assert.Equal(t, ViewList, ViewGrid.Toggle())
	assert.Equal(t, ViewGrid, ViewList.Toggle())
	assert.False(t, ViewMode("tiles").Valid())
}

func TestFullRecordValidate(t *testing.T) {
	const payload = `{
		"id": 25, "name": "pikachu", "height": 4, "weight": 60,
		"types": [{"slot": 1, "type": {"name": "electric"}}],
		"stats": [
			{"base_stat": 35, "stat": {"name": "hp"}},
			{"base_stat": 55, "stat": {"name": "attack"}},
			{"base_stat": 40, "stat": {"name": "defense"}},
			{"base_stat": 50, "stat": {"name": "special-attack"}},
			{"base_stat": 50, "stat": {"name": "special-defense"}},
			{"base_stat": 90, "stat": {"name": "speed"}}
		],
		"abilities": [{"ability": {"name": "static"}, "is_hidden": false, "slot": 1}],
		"moves": [{"move": {"name": "thunder-shock"}}]
	}`

	var rec FullRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))
	require.NoError(t, rec.Validate())
	assert.Equal(t, []string{"electric"}, rec.Categories())
	assert.Equal(t, 320, rec.StatTotal())
	assert.Equal(t, 90, rec.Stat("speed"))
	assert.Equal(t, []string{"static"}, rec.AbilityNames())

	rec.Stats = rec.Stats[:5]
	assert.ErrorIs(t, rec.Validate(), ErrMalformedRecord)

	assert.ErrorIs(t, FullRecord{Name: "missingno"}.Validate(), ErrMalformedRecord)
}

func TestSpeciesDescription(t *testing.T) {
	s := Species{
		FlavorTextEntries: []FlavorTextEntry{
			{FlavorText: "Une souris", Language: NamedRef{Name: "fr"}},
			{FlavorText: "When several of\fthese POKéMON\ngather", Language: NamedRef{Name: "en"}},
		},
		Genera: []GenusEntry{{Genus: "Mouse Pokémon", Language: NamedRef{Name: "en"}}},
	}
	assert.Equal(t, "When several of these POKéMON gather", s.Description("en"))
	assert.Equal(t, "Mouse Pokémon", s.Genus("en"))
	assert.Equal(t, "", s.Genus("de"))
}
