package plasmid

// Element is one genetic feature to draw.
//
// Start and End are 1-based and inclusive. Start <= End is not enforced;
// point features (Start == End) are valid and are widened by the layout.
type Element struct {
	Name       string    `json:"name"`
	Start      int       `json:"start"`
	End        int       `json:"end"`
	Side       Side      `json:"side"`
	Color      string    `json:"color"`
	Shape      Shape     `json:"shape"`
	Connector  Connector `json:"connector"`
	Strand     Strand    `json:"strand"`
	IsPromoter bool      `json:"is_promoter"`
	Visible    bool      `json:"visible"`
	Type       string    `json:"type,omitempty"`
}

// Size returns the element length in base pairs, counting both ends.
func (e Element) Size() int {
	if e.End >= e.Start {
		return e.End - e.Start + 1
	}
	return e.Start - e.End + 1
}

// IsPoint reports whether the element covers a single coordinate.
func (e Element) IsPoint() bool { return e.Start == e.End }

// Dataset is the result of reading one input source.
type Dataset struct {
	Name     string    `json:"name,omitempty"`
	Length   int       `json:"length,omitempty"` // sequence length when known, else 0
	Circular bool      `json:"circular,omitempty"`
	Elements []Element `json:"elements"`
}

// Bounds returns the smallest start and the largest end over elements, the
// range offered to users when choosing a region. ok is false for an empty slice.
func Bounds(elements []Element) (lo, hi int, ok bool) {
	for i, e := range elements {
		if i == 0 {
			lo, hi = e.Start, e.End
			continue
		}
		lo = min(lo, e.Start)
		hi = max(hi, e.End)
	}
	return lo, hi, len(elements) > 0
}

// Visible returns the elements marked visible, in order.
func Visible(elements []Element) []Element {
	out := make([]Element, 0, len(elements))
	for _, e := range elements {
		if e.Visible {
			out = append(out, e)
		}
	}
	return out
}
