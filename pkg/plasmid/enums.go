package plasmid

import (
	"fmt"
	"strings"

	"github.com/biogo/biogo/feat"
)

// Side is the half-plane, relative to the baseline, an element is drawn in.
type Side int

const (
	Up Side = iota
	Down
)

func (s Side) String() string {
	if s == Down {
		return "Down"
	}
	return "Up"
}

// Flip returns the opposite side.
func (s Side) Flip() Side {
	if s == Down {
		return Up
	}
	return Down
}

// ParseSide parses "up"/"down" in any case, ignoring surrounding whitespace.
func ParseSide(s string) (Side, error) {
	switch fold(s) {
	case "up", "above", "top":
		return Up, nil
	case "down", "below", "bottom":
		return Down, nil
	}
	return Up, fmt.Errorf("invalid box position %q (want Up or Down)", s)
}

func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Shape is the outline used for an element box.
type Shape int

const (
	Rectangle Shape = iota
	Arrow
)

func (s Shape) String() string {
	if s == Arrow {
		return "Arrow"
	}
	return "Rectangle"
}

// ParseShape parses "rectangle"/"box" or "arrow"/"promoter".
func ParseShape(s string) (Shape, error) {
	switch fold(s) {
	case "rectangle", "rect", "box":
		return Rectangle, nil
	case "arrow", "promoter":
		return Arrow, nil
	}
	return Rectangle, fmt.Errorf("invalid shape %q (want rectangle or arrow)", s)
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	v, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Connector is the end style of the line joining a box to its label.
type Connector int

const (
	Pointed Connector = iota
	Flat
)

func (c Connector) String() string {
	if c == Flat {
		return "flat"
	}
	return "arrow"
}

// ParseConnector parses the "Arrow end type" column values "arrow" and "flat".
func ParseConnector(s string) (Connector, error) {
	switch fold(s) {
	case "arrow", "pointed", "-|>":
		return Pointed, nil
	case "flat", "line", "none":
		return Flat, nil
	}
	return Pointed, fmt.Errorf("invalid arrow end type %q (want arrow or flat)", s)
}

func (c Connector) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Connector) UnmarshalText(b []byte) error {
	v, err := ParseConnector(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Strand is the reading direction of an element. It shares its
// representation with biogo so coordinates and orientation can be handed to
// biogo feature code unchanged: +1 forward, -1 reverse, 0 unknown.
type Strand = feat.Orientation

const (
	Forward Strand = feat.Forward
	Reverse Strand = feat.Reverse
	Unknown Strand = feat.NotOriented
)

// ParseStrand accepts the spellings found in GenBank exports and spreadsheets.
// An empty string is Unknown.
func ParseStrand(s string) (Strand, error) {
	switch fold(s) {
	case "":
		return Unknown, nil
	case "1", "+1", "+", "forward", "fwd", "plus":
		return Forward, nil
	case "-1", "-", "reverse", "rev", "minus", "complement":
		return Reverse, nil
	case "0", ".", "unknown", "none":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("invalid strand %q", s)
}

// Orientation controls how element labels are drawn.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation parses "horizontal" or "vertical".
func ParseOrientation(s string) (Orientation, error) {
	switch fold(s) {
	case "", "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("invalid text orientation %q (want horizontal or vertical)", s)
}

func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
