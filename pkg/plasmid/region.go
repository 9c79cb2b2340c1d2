package plasmid

import "fmt"

// Region is an inclusive sub-interval of the construct to render in isolation.
type Region struct {
	Start int `json:"start" toml:"start" yaml:"start"`
	End   int `json:"end" toml:"end" yaml:"end"`
}

func (r Region) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// Overlaps reports whether [start, end] overlaps the region: either endpoint
// lies inside it, or the interval spans it completely.
func (r Region) Overlaps(start, end int) bool {
	in := func(v int) bool { return v >= r.Start && v <= r.End }
	return in(start) || in(end) || (start <= r.Start && end >= r.End)
}

// Clamp limits the region to [lo, hi], keeping Start <= End.
func (r Region) Clamp(lo, hi int) Region {
	r.Start = min(max(r.Start, lo), hi)
	r.End = min(max(r.End, lo), hi)
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// InRegion returns the elements overlapping r, in order.
func InRegion(elements []Element, r Region) []Element {
	out := make([]Element, 0, len(elements))
	for _, e := range elements {
		if r.Overlaps(e.Start, e.End) {
			out = append(out, e)
		}
	}
	return out
}

// ParseRegion parses "start-end" or "start..end".
func ParseRegion(s string) (Region, error) {
	var r Region
	if _, err := fmt.Sscanf(s, "%d-%d", &r.Start, &r.End); err == nil {
		return r, nil
	}
	if _, err := fmt.Sscanf(s, "%d..%d", &r.Start, &r.End); err == nil {
		return r, nil
	}
	return Region{}, fmt.Errorf("invalid region %q (want start-end)", s)
}
