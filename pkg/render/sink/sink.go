package sink

import (
	"math"
	"strings"

	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/fonts"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Page geometry.
const (
	PageWidthIn  = 14.0
	PageHeightIn = 4.0
	SVGUnitsIn   = 100.0
	PointsIn     = 72.0
	DefaultDPI   = 300.0
	MaxDPI       = 1200.0
)

// Arrowhead size in points.
const (
	HeadLength    = 8.0
	HeadHalfWidth = 4.0
)

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Render dispatches to the sink for format.
func Render(format string, s layout.Scene, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(s, opts...)
	case FormatPNG:
		return RenderPNG(s, opts...)
	case FormatPDF:
		return RenderPDF(s, opts...)
	case FormatJSON:
		return RenderJSON(s)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q", format)
}

// Option configures a sink.
type Option func(*options)

type options struct {
	dpi        float64
	family     string
	background string
}

// WithDPI sets the raster resolution. Ignored by vector sinks.
func WithDPI(dpi float64) Option { return func(o *options) { o.dpi = dpi } }

// WithFontFamily overrides the SVG font-family list.
func WithFontFamily(f string) Option { return func(o *options) { o.family = f } }

// WithBackground sets the page color. "none" leaves it transparent.
func WithBackground(c string) Option { return func(o *options) { o.background = c } }

func newOptions(opts []Option) options {
	o := options{dpi: DefaultDPI, family: fonts.FallbackFontFamily, background: "white"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dpi <= 0 {
		o.dpi = DefaultDPI
	}
	o.dpi = min(o.dpi, MaxDPI)
	return o
}

func (o options) transparent() bool {
	b := strings.ToLower(strings.TrimSpace(o.background))
	return b == "" || b == "none" || b == "transparent"
}

type vec struct{ x, y float64 }

// device maps scene coordinates onto a page of w × h device units.
type device struct {
	view layout.Viewport
	w, h float64
	pt   float64 // device units per point
}

func newDevice(v layout.Viewport, w, h, unitsPerInch float64) device {
	return device{view: v, w: w, h: h, pt: unitsPerInch / PointsIn}
}

func (d device) at(p layout.Point) vec {
	return vec{
		x: (p.X - d.view.MinX) * d.w / d.view.Width(),
		y: (d.view.MaxY - p.Y) * d.h / d.view.Height(),
	}
}

func (d device) all(ps []layout.Point) []vec {
	out := make([]vec, len(ps))
	for i, p := range ps {
		out[i] = d.at(p)
	}
	return out
}

// arrow splits a connector from a to b into the shaft, which stops at the
// base of the head, and the three corners of a filled head with its tip at b.
func (d device) arrow(a, b vec) (shaftEnd vec, head [3]vec) {
	dx, dy := b.x-a.x, b.y-a.y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return b, [3]vec{b, b, b}
	}
	ux, uy := dx/n, dy/n
	l := min(HeadLength*d.pt, n)
	hw := HeadHalfWidth * d.pt
	base := vec{b.x - ux*l, b.y - uy*l}
	return base, [3]vec{
		b,
		{base.x - uy*hw, base.y + ux*hw},
		{base.x + uy*hw, base.y - ux*hw},
	}
}
