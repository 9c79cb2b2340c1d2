package layout

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates primitives.
type Kind int

const (
	Line Kind = iota
	Polygon
	Text
)

var kindNames = [...]string{"line", "polygon", "text"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for i, n := range kindNames {
		if n == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown primitive kind %q", b)
}

// Point is a scene-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Primitive is one drawable item.
//
// A Line has two points and may end in an arrowhead at the second point. A
// Polygon is closed implicitly. A Text has a single centre anchor point.
type Primitive struct {
	Kind    Kind    `json:"kind"`
	Points  []Point `json:"points"`
	Fill    string  `json:"fill,omitempty"`
	Stroke  string  `json:"stroke,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Arrow   bool    `json:"arrow,omitempty"`
	Text    string  `json:"text,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Color   string  `json:"color,omitempty"`
	Rotate  float64 `json:"rotation,omitempty"` // degrees, counter-clockwise
	Element int     `json:"element"`            // input index, -1 for the baseline
}

// Viewport is the visible scene window.
type Viewport struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

func (v Viewport) Width() float64  { return v.MaxX - v.MinX }
func (v Viewport) Height() float64 { return v.MaxY - v.MinY }

// Extent is the span of the baseline.
type Extent struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Stats summarizes a build.
type Stats struct {
	Elements int `json:"elements"` // drawn
	Widened  int `json:"widened"`  // point features given MinWidth
	Filtered int `json:"filtered"` // hidden or outside the region
	MaxLevel int `json:"max_level"`
}

// Scene is the output of [Build].
type Scene struct {
	Primitives []Primitive `json:"primitives"`
	Viewport   Viewport    `json:"viewport"`
	Extent     Extent      `json:"extent"`
	Stats      Stats       `json:"stats"`
}

// Labels returns the element label primitives in drawing order.
func (s Scene) Labels() []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if p.Kind == Text && p.Element >= 0 && p.Color == LabelColor {
			out = append(out, p)
		}
	}
	return out
}

// ElementPrimitives returns all primitives drawn for input element i.
func (s Scene) ElementPrimitives(i int) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if p.Element == i {
			out = append(out, p)
		}
	}
	return out
}

// MarshalJSON keeps nil primitive lists as [] for consumers that iterate.
func (s Scene) MarshalJSON() ([]byte, error) {
	type scene Scene
	if s.Primitives == nil {
		s.Primitives = []Primitive{}
	}
	return json.Marshal(scene(s))
}
