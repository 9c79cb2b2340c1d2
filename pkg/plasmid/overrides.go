package plasmid

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// ElementKey identifies an element for override purposes by its position in
// the parsed list and its name as parsed. Names alone are not unique once
// users start editing labels.
type ElementKey struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

func (k ElementKey) String() string { return fmt.Sprintf("%d:%s", k.Index, k.Name) }

// ParseElementKey parses the "index:name" form produced by String. ok is
// false when s has no colon or the index is not a non-negative integer.
func ParseElementKey(s string) (k ElementKey, ok bool) {
	idx, name, found := strings.Cut(s, ":")
	if !found {
		return ElementKey{}, false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return ElementKey{}, false
	}
	return ElementKey{Index: i, Name: name}, true
}

// KeyOf returns the key of the element at index i of the original list.
func KeyOf(elements []Element, i int) ElementKey {
	return ElementKey{Index: i, Name: elements[i].Name}
}

// Overrides holds user display choices keyed by element identity.
// A nil map means no overrides of that kind.
type Overrides struct {
	Colors  map[ElementKey]string
	Sides   map[ElementKey]Side
	Labels  map[ElementKey]string
	Visible map[ElementKey]bool
}

// Empty reports whether no override is set.
func (o Overrides) Empty() bool {
	return len(o.Colors) == 0 && len(o.Sides) == 0 && len(o.Labels) == 0 && len(o.Visible) == 0
}

// Len returns the number of individual override entries.
func (o Overrides) Len() int {
	return len(o.Colors) + len(o.Sides) + len(o.Labels) + len(o.Visible)
}

// Clone returns a deep copy.
func (o Overrides) Clone() Overrides {
	return Overrides{
		Colors:  maps.Clone(o.Colors),
		Sides:   maps.Clone(o.Sides),
		Labels:  maps.Clone(o.Labels),
		Visible: maps.Clone(o.Visible),
	}
}

// SetColor records a color override.
func (o *Overrides) SetColor(k ElementKey, color string) {
	if o.Colors == nil {
		o.Colors = make(map[ElementKey]string)
	}
	o.Colors[k] = color
}

// SetSide records a side override.
func (o *Overrides) SetSide(k ElementKey, s Side) {
	if o.Sides == nil {
		o.Sides = make(map[ElementKey]Side)
	}
	o.Sides[k] = s
}

// SetLabel records a label override.
func (o *Overrides) SetLabel(k ElementKey, label string) {
	if o.Labels == nil {
		o.Labels = make(map[ElementKey]string)
	}
	o.Labels[k] = label
}

// SetVisible records a visibility override.
func (o *Overrides) SetVisible(k ElementKey, visible bool) {
	if o.Visible == nil {
		o.Visible = make(map[ElementKey]bool)
	}
	o.Visible[k] = visible
}

// Keys returns every key that has at least one override.
func (o Overrides) Keys() []ElementKey {
	seen := make(map[ElementKey]struct{})
	for _, m := range []map[ElementKey]struct{}{
		keySet(o.Colors), keySet(o.Sides), keySet(o.Labels), keySet(o.Visible),
	} {
		maps.Copy(seen, m)
	}
	out := make([]ElementKey, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out
}

func keySet[V any](m map[ElementKey]V) map[ElementKey]struct{} {
	out := make(map[ElementKey]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

// Apply returns a display-ready copy of elements with o applied. Lookups use
// the key of each element in the input list, so a renamed element keeps its
// other overrides. The input slice is not modified.
func Apply(elements []Element, o Overrides) []Element {
	out := make([]Element, len(elements))
	for i, e := range elements {
		k := ElementKey{Index: i, Name: e.Name}
		if c, ok := o.Colors[k]; ok {
			e.Color = c
		}
		if s, ok := o.Sides[k]; ok {
			e.Side = s
		}
		if v, ok := o.Visible[k]; ok {
			e.Visible = v
		}
		if l, ok := o.Labels[k]; ok && l != "" {
			e.Name = l
		}
		out[i] = e
	}
	return out
}
