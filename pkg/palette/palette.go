// Package palette holds the fixed color palettes used for plasmid maps and
// resolves free-form color tokens to renderable colors.
//
// The palette names are a compatibility surface: datasets written by earlier
// tools reference these exact strings, so they must not be reordered or
// renamed.
package palette

import (
	"maps"
	"math/rand/v2"
	"slices"
)

// Default is the ink color used when a token cannot be resolved.
const Default = "black"

// Pastel is the pool used for automatic color assignment.
var Pastel = []string{
	"lightblue", "lightcoral", "lightgreen", "lightpink",
	"lightsalmon", "lightyellow", "lavender", "mistyrose",
	"peachpuff", "powderblue", "paleturquoise", "thistle",
	"plum", "wheat", "lightcyan", "honeydew", "azure",
}

var bright = []string{
	"blue", "green", "red", "purple", "gold", "orange",
	"yellow", "cyan", "magenta", "lime", "hotpink",
}

var standard = []string{
	"brown", "dodgerblue", "forestgreen", "darkred",
	"darkorchid", "darkturquoise", "aquamarine", "coral",
	"teal", "olive",
}

// All is the extended palette offered for manual overrides:
// the first 14 pastels, then the bright and standard groups.
var All = slices.Concat(Pastel[:14], bright, standard)

// legacy maps numbered R color names onto their base hue.
var legacy = map[string]string{
	"darkorchid4":   "darkorchid",
	"darkorchid3":   "darkorchid",
	"darkorchid2":   "darkorchid",
	"darkorchid1":   "orchid",
	"darkturquoise": "darkturquoise",
	"brown1":        "brown",
	"brown2":        "brown",
	"brown3":        "brown",
	"brown4":        "brown",
	"gold1":         "gold",
	"gold2":         "gold",
	"gold3":         "goldenrod",
	"gold4":         "goldenrod",
	"aquamarine1":   "aquamarine",
	"aquamarine2":   "aquamarine",
	"aquamarine3":   "mediumaquamarine",
	"aquamarine4":   "mediumaquamarine",
}

// Group is a named slice of the extended palette.
type Group struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// Groups returns the extended palette split into its display groups.
func Groups() []Group {
	return []Group{
		{Name: "Pastel", Colors: slices.Clone(Pastel)},
		{Name: "Bright", Colors: slices.Clone(bright)},
		{Name: "Standard", Colors: slices.Clone(standard)},
	}
}

// Aliases returns a copy of the legacy alias table.
func Aliases() map[string]string {
	return maps.Clone(legacy)
}

// RandomPastel draws a color uniformly from Pastel.
func RandomPastel(rng *rand.Rand) string {
	return Pastel[rng.IntN(len(Pastel))]
}

// Next returns the color after name in All, wrapping around.
// Unknown names start the cycle at the first entry.
func Next(name string) string {
	i := slices.Index(All, name)
	return All[(i+1)%len(All)]
}
