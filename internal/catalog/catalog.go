// Package catalog provides the garment background colour slate and
// optional per-colour market overrides consumed by the scoring engine.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flowmable/swatch/internal/colour"
)

// NamedColor is one garment background colour offered for printing.
type NamedColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// colors is the production apparel slate, in catalogue order.
var colors = []NamedColor{
	{"White", "#ffffff"},
	{"Brick", "#915C5C"},
	{"Ivory", "#FFF7E7"},
	{"Mustard", "#D0AE6E"},
	{"Yam", "#C9814F"},
	{"Espresso", "#846b5b"},
	{"Butter", "#F5E1A4"},
	{"Pepper", "#5F605B"},
	{"Grey", "#7A7F79"},
	{"Bay", "#C3CFC1"},
	{"Moss", "#747F66"},
	{"Island Reef", "#A2D8C2"},
	{"Chalky Mint", "#A7D9D4"},
	{"Light Green", "#738874"},
	{"Blue Spruce", "#536758"},
	{"Lagoon Blue", "#89E4ED"},
	{"Sapphire", "#03b2d3"},
	{"Chambray", "#D9EDF5"},
	{"Flo Blue", "#7682C2"},
	{"Blue Jean", "#788CA1"},
	{"Graphite", "#373231"},
	{"Black", "#000000"},
	{"Navy", "#263040"},
	{"Violet", "#A88FD7"},
	{"Neon Violet", "#e8ace3"},
	{"Orchid", "#CBB3CC"},
	{"Blossom", "#F8D1E2"},
	{"Neon Pink", "#f57caf"},
	{"Crunchberry", "#EB7CA2"},
	{"Berry", "#775568"},
	{"Watermelon", "#DA807B"},
	{"Chili", "#853F44"},
	{"Crimson", "#B66A74"},
	{"Red", "#A80D27"},
}

// Colors returns the full slate in catalogue order.
func Colors() []NamedColor {
	out := make([]NamedColor, len(colors))
	copy(out, colors)
	return out
}

// Hexes returns the hex codes of the full slate in catalogue order.
func Hexes() []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex
	}
	return out
}

// NameOf returns the catalogue name for a hex code, or the canonical
// hex itself when the colour is not in the slate.
func NameOf(hex string) string {
	canonical := Canonical(hex)
	for _, c := range colors {
		if Canonical(c.Hex) == canonical {
			return c.Name
		}
	}
	return canonical
}

// Canonical lower-cases a hex colour and ensures the leading "#".
// Unparseable input is returned unchanged.
func Canonical(hex string) string {
	rgb, err := colour.ParseHex(hex)
	if err != nil {
		return hex
	}
	return rgb.Hex()
}

// ParseOverrides decodes a JSON object mapping hex colours to market
// weights, e.g. {"#a80d27": 0.4}. Keys are canonicalised; weights must
// lie in [-2, 2].
func ParseOverrides(data []byte) (map[string]float64, error) {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse market overrides: %w", err)
	}

	overrides := make(map[string]float64, len(raw))
	for hex, weight := range raw {
		rgb, err := colour.ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("invalid override colour %q: %w", hex, err)
		}
		if weight < -2 || weight > 2 {
			return nil, fmt.Errorf("override weight for %s out of range [-2, 2]: %v", strings.ToLower(hex), weight)
		}
		overrides[rgb.Hex()] = weight
	}
	return overrides, nil
}
