package models

// CatalogSize is the number of records across all generations
const CatalogSize = 1010

// GenerationBand is a contiguous range of record ids released together
type GenerationBand struct {
	Number int
	Region string
	Min    int
	Max    int
}

// Size returns the number of ids in the band
func (b GenerationBand) Size() int {
	return b.Max - b.Min + 1
}

// Contains reports whether id falls inside the band
func (b GenerationBand) Contains(id int) bool {
	return id >= b.Min && id <= b.Max
}

// Generations is the static band table, ordered and gap-free over 1..CatalogSize
var Generations = []GenerationBand{
	{Number: 1, Region: "Kanto", Min: 1, Max: 151},
	{Number: 2, Region: "Johto", Min: 152, Max: 251},
	{Number: 3, Region: "Hoenn", Min: 252, Max: 386},
	{Number: 4, Region: "Sinnoh", Min: 387, Max: 493},
	{Number: 5, Region: "Unova", Min: 494, Max: 649},
	{Number: 6, Region: "Kalos", Min: 650, Max: 721},
	{Number: 7, Region: "Alola", Min: 722, Max: 809},
	{Number: 8, Region: "Galar", Min: 810, Max: 905},
	{Number: 9, Region: "Paldea", Min: 906, Max: 1010},
}

// AllGenerations is returned for unknown band numbers
var AllGenerations = GenerationBand{Number: 0, Region: "All", Min: 1, Max: CatalogSize}

// BandFor looks up a band by number, falling back to the full range
func BandFor(number int) GenerationBand {
	for _, b := range Generations {
		if b.Number == number {
			return b
		}
	}
	return AllGenerations
}

// BandOf returns the band containing id, or false if id is outside the catalog
func BandOf(id int) (GenerationBand, bool) {
	for _, b := range Generations {
		if b.Contains(id) {
			return b, true
		}
	}
	return GenerationBand{}, false
}
