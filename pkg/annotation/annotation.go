// Package annotation converts raw annotation records into canonical
// [plasmid.Element] values.
//
// A [Normalizer] owns the random source used for default colors, so tests can
// fix a seed and production callers get a fresh one per instance.
package annotation

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/palette"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// Feature is one annotation record as produced by a sequence-file reader.
// Start and End are 0-based, half-open.
type Feature struct {
	Type       string
	Start      int
	End        int
	Strand     plasmid.Strand
	Qualifiers map[string][]string
}

// Qualifier returns the first value stored under key.
func (f Feature) Qualifier(key string) (string, bool) {
	v := f.Qualifiers[key]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

var (
	// nameKeys is the qualifier priority for display names.
	nameKeys = []string{"standard_name", "label", "gene", "product"}

	// promoterKeys are searched for the word "promoter" on regulatory features.
	promoterKeys = []string{"note", "standard_name", "regulatory_class", "label"}
)

// ToInclusive converts a 0-based half-open interval to 1-based inclusive.
func ToInclusive(start, end int) (int, int) { return start + 1, end }

// ToHalfOpen converts a 1-based inclusive interval back to 0-based half-open.
func ToHalfOpen(start, end int) (int, int) { return start - 1, end }

// Normalizer turns features into elements.
type Normalizer struct {
	rng *rand.Rand
}

// NewNormalizer returns a Normalizer whose default colors are drawn from a
// PCG source seeded with seed. A zero seed picks a random one.
func NewNormalizer(seed uint64) *Normalizer {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Normalizer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// DefaultColor draws a color from the pastel palette.
func (n *Normalizer) DefaultColor() string {
	return palette.RandomPastel(n.rng)
}

// Element converts f. ok is false when the feature must be skipped.
func (n *Normalizer) Element(f Feature) (e plasmid.Element, ok bool) {
	if strings.EqualFold(f.Type, "source") {
		return plasmid.Element{}, false
	}
	start, end := ToInclusive(f.Start, f.End)
	promoter := IsPromoter(f)
	e = plasmid.Element{
		Name:       Name(f, start, end),
		Start:      start,
		End:        end,
		Side:       DefaultSide(f.Type, f.Strand),
		Color:      n.DefaultColor(),
		Shape:      DefaultShape(promoter),
		Connector:  plasmid.Pointed,
		Strand:     f.Strand,
		IsPromoter: promoter,
		Visible:    true,
		Type:       f.Type,
	}
	return e, true
}

// Normalize converts all features. It fails without returning elements when
// no feature other than "source" is present.
func (n *Normalizer) Normalize(features []Feature) ([]plasmid.Element, error) {
	out := make([]plasmid.Element, 0, len(features))
	for _, f := range features {
		if e, ok := n.Element(f); ok {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyAnnotation, "no features found (only source annotations)")
	}
	return out, nil
}

// Name picks the display name for f, falling back to "{type}_{start}_{end}"
// with 1-based coordinates.
func Name(f Feature, start, end int) string {
	for _, k := range nameKeys {
		if v, ok := f.Qualifier(k); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return fmt.Sprintf("%s_%d_%d", f.Type, start, end)
}

// IsPromoter reports whether f is a regulatory feature annotated as a promoter.
func IsPromoter(f Feature) bool {
	if !strings.EqualFold(f.Type, "regulatory") {
		return false
	}
	var b strings.Builder
	for _, k := range promoterKeys {
		for _, v := range f.Qualifiers[k] {
			b.WriteString(v)
			b.WriteByte(' ')
		}
	}
	return strings.Contains(strings.ToLower(b.String()), "promoter")
}

// DefaultSide places forward features above the baseline and reverse ones
// below. Without strand information misc_feature goes below, everything else
// above.
func DefaultSide(featureType string, strand plasmid.Strand) plasmid.Side {
	switch strand {
	case plasmid.Forward:
		return plasmid.Up
	case plasmid.Reverse:
		return plasmid.Down
	}
	if strings.EqualFold(featureType, "misc_feature") {
		return plasmid.Down
	}
	return plasmid.Up
}

// DefaultShape draws promoters as arrows and everything else as boxes.
func DefaultShape(promoter bool) plasmid.Shape {
	if promoter {
		return plasmid.Arrow
	}
	return plasmid.Rectangle
}
