package models

import (
	"fmt"
	"strings"
)

// Types lists every category tag the catalog uses, in display order
var Types = []string{
	"normal", "fire", "water", "electric", "grass", "ice",
	"fighting", "poison", "ground", "flying", "psychic", "bug",
	"rock", "ghost", "dragon", "dark", "steel", "fairy",
}

// ViewMode is the persisted layout preference
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Valid reports whether v is a known view mode
func (v ViewMode) Valid() bool {
	return v == ViewGrid || v == ViewList
}

// Toggle returns the other view mode
func (v ViewMode) Toggle() ViewMode {
	if v == ViewGrid {
		return ViewList
	}
	return ViewGrid
}

var statNames = map[string]string{
	"hp":              "HP",
	"attack":          "Attack",
	"defense":         "Defense",
	"special-attack":  "Sp. Atk",
	"special-defense": "Sp. Def",
	"speed":           "Speed",
}

// FormatID renders an id as "#0025"
func FormatID(id int) string {
	return fmt.Sprintf("#%04d", id)
}

// FormatName title-cases each hyphen-separated word: "mr-mime" -> "Mr Mime"
func FormatName(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormatStatName returns the short label for a stat, or the raw name if unknown
func FormatStatName(name string) string {
	if label, ok := statNames[name]; ok {
		return label
	}
	return name
}

// StatPercentage scales a base stat to 0..100 against MaxStatValue
func StatPercentage(value int) float64 {
	pct := float64(value) / MaxStatValue * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// FormatHeight renders decimetres as metres
func FormatHeight(dm int) string {
	return fmt.Sprintf("%.1f m", float64(dm)/10)
}

// FormatWeight renders hectograms as kilograms
func FormatWeight(hg int) string {
	return fmt.Sprintf("%.1f kg", float64(hg)/10)
}
