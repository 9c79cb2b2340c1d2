package layout

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/plasmidmap/plasmidmap/pkg/palette"
	"github.com/plasmidmap/plasmidmap/pkg/plasmid"
)

// Geometry constants. x values are base pairs, y values scene units.
const (
	Margin        = 50.0  // baseline overhang past the outermost elements
	MinWidth      = 50.0  // drawn width of point features
	BoxHeight     = 80.0  // element box height
	TextDistance  = 250.0 // box edge to label centre, level 0
	SizeOffset    = 30.0  // box edge to size text
	MaxPointWidth = 40.0  // cap on the arrow point length
	PointFraction = 0.3   // arrow point length relative to element width
	ConnectorGap  = 20.0  // connector end to label centre
	OuterMargin   = 100.0 // viewport overhang past the baseline
	StaggerTiers  = 3
	StaggerFactor = 0.35
	LabelPad      = 70.0
	MinHalfHeight = 400.0
)

// Stroke widths and colors.
const (
	BaselineWidth = 3.0
	OutlineWidth  = 1.5
	StrokeColor   = "black"
	LabelColor    = "black"
	SizeColor     = "gray"
	MinSizeFont   = 6
)

// ErrNothingToRender is returned when no element survives the visibility and
// region filters.
var ErrNothingToRender = errors.New("nothing to render: every element is hidden or outside the region")

// Build lays out elements under cfg. Elements are drawn in input order; the
// Element field of each primitive is the element's index in elements.
func Build(elements []plasmid.Element, cfg plasmid.RenderConfig) (Scene, error) {
	cfg = cfg.Normalized()

	drawn := filter(elements, cfg.Region)
	if len(drawn) == 0 {
		return Scene{}, ErrNothingToRender
	}

	ext := extent(elements, drawn, cfg.Region)
	levels := stagger(elements, drawn, cfg.Orientation)

	s := Scene{
		Extent: ext,
		Stats: Stats{
			Elements: len(drawn),
			Filtered: len(elements) - len(drawn),
		},
	}
	for _, lv := range levels {
		s.Stats.MaxLevel = max(s.Stats.MaxLevel, lv)
	}

	s.Primitives = make([]Primitive, 0, 1+len(drawn)*4)
	s.Primitives = append(s.Primitives, Primitive{
		Kind:    Line,
		Points:  []Point{{ext.Start, 0}, {ext.End, 0}},
		Stroke:  StrokeColor,
		Width:   BaselineWidth,
		Element: -1,
	})

	for _, i := range drawn {
		e := elements[i]
		if e.IsPoint() {
			s.Stats.Widened++
		}
		s.Primitives = append(s.Primitives, element(i, e, levels[i], cfg)...)
	}

	half := max(MinHalfHeight, BoxHeight+labelDistance(s.Stats.MaxLevel)+LabelPad)
	s.Viewport = Viewport{
		MinX: ext.Start - OuterMargin,
		MaxX: ext.End + OuterMargin,
		MinY: -half,
		MaxY: half,
	}
	return s, nil
}

// filter returns the indices of visible elements overlapping region.
func filter(elements []plasmid.Element, region *plasmid.Region) []int {
	out := make([]int, 0, len(elements))
	for i, e := range elements {
		if !e.Visible {
			continue
		}
		if region != nil && !region.Overlaps(e.Start, e.End) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func extent(elements []plasmid.Element, drawn []int, region *plasmid.Region) Extent {
	if region != nil {
		return Extent{Start: float64(region.Start), End: float64(region.End)}
	}
	lo, hi := math.MaxInt, math.MinInt
	for _, i := range drawn {
		e := elements[i]
		lo = min(lo, e.Start, e.End)
		hi = max(hi, e.Start, e.End)
	}
	return Extent{Start: float64(lo) - Margin, End: float64(hi) + Margin}
}

// stagger assigns label levels keyed by input index.
func stagger(elements []plasmid.Element, drawn []int, o plasmid.Orientation) map[int]int {
	levels := make(map[int]int, len(drawn))
	if o == plasmid.Vertical {
		for _, i := range drawn {
			levels[i] = 0
		}
		return levels
	}
	ranked := slices.Clone(drawn)
	slices.SortStableFunc(ranked, func(a, b int) int {
		return cmp.Compare(elements[a].Start, elements[b].Start)
	})
	for r, i := range ranked {
		levels[i] = r % StaggerTiers
	}
	return levels
}

func labelDistance(level int) float64 {
	return TextDistance * (1 + float64(level)*StaggerFactor)
}

// element emits shape, connector, label and optional size text for e.
func element(idx int, e plasmid.Element, level int, cfg plasmid.RenderConfig) []Primitive {
	s, t := float64(e.Start), float64(e.End)
	if e.IsPoint() {
		s -= MinWidth / 2
		t += MinWidth / 2
	}
	center := (s + t) / 2

	sign := 1.0
	if e.Side == plasmid.Down {
		sign = -1
	}
	boxY := sign * BoxHeight / 2
	labelY := sign * (BoxHeight + labelDistance(level))

	out := make([]Primitive, 0, 4)
	out = append(out, Primitive{
		Kind:    Polygon,
		Points:  shape(e, s, t, boxY),
		Fill:    palette.Resolve(e.Color),
		Stroke:  StrokeColor,
		Width:   OutlineWidth,
		Element: idx,
	})
	out = append(out, Primitive{
		Kind:    Line,
		Points:  []Point{{center, sign * BoxHeight}, {center, labelY - sign*ConnectorGap}},
		Stroke:  StrokeColor,
		Width:   OutlineWidth,
		Arrow:   e.Connector == plasmid.Pointed,
		Element: idx,
	})

	label := Primitive{
		Kind:    Text,
		Points:  []Point{{center, labelY}},
		Text:    e.Name,
		Size:    float64(cfg.FontSize),
		Color:   LabelColor,
		Element: idx,
	}
	if cfg.Orientation == plasmid.Vertical {
		label.Rotate = 90
	}
	out = append(out, label)

	if cfg.ShowSizes {
		out = append(out, Primitive{
			Kind:    Text,
			Points:  []Point{{center, boxY + sign*(BoxHeight/2+SizeOffset)}},
			Text:    SizeText(e),
			Size:    float64(max(MinSizeFont, cfg.FontSize-3)),
			Color:   SizeColor,
			Element: idx,
		})
	}
	return out
}

// shape returns the outline of e drawn over [s, t] around boxY.
func shape(e plasmid.Element, s, t, boxY float64) []Point {
	bot, top := boxY-BoxHeight/2, boxY+BoxHeight/2
	if e.Shape != plasmid.Arrow {
		return []Point{{s, bot}, {t, bot}, {t, top}, {s, top}}
	}
	p := min(MaxPointWidth, (t-s)*PointFraction)
	if e.Strand == plasmid.Reverse {
		return []Point{{t, bot}, {s + p, bot}, {s, boxY}, {s + p, top}, {t, top}}
	}
	return []Point{{s, bot}, {t - p, bot}, {t, boxY}, {t - p, top}, {s, top}}
}

// SizeText formats the element length, counting both ends.
func SizeText(e plasmid.Element) string {
	return fmt.Sprintf("%d bp", e.Size())
}
