package sink

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/plasmidmap/plasmidmap/pkg/palette"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

// RenderSVG renders s as a standalone SVG document.
func RenderSVG(s layout.Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	w, h := PageWidthIn*SVGUnitsIn, PageHeightIn*SVGUnitsIn
	d := newDevice(s.Viewport, w, h, SVGUnitsIn)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.StartviewUnit(int(PageWidthIn), int(PageHeightIn), "in", 0, 0, int(w), int(h))
	if !o.transparent() {
		canvas.Rect(0, 0, int(w), int(h), "fill:"+palette.Hex(o.background))
	}
	canvas.Gstyle(fmt.Sprintf("font-family:%s", o.family))

	for _, p := range s.Primitives {
		switch p.Kind {
		case layout.Line:
			svgLine(canvas, d, p)
		case layout.Polygon:
			xs, ys := ints(d.all(p.Points))
			canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.2f;stroke-linejoin:miter",
				palette.Hex(p.Fill), palette.Hex(p.Stroke), p.Width*d.pt))
		case layout.Text:
			svgText(canvas, d, p)
		}
	}

	canvas.Gend()
	canvas.End()
	return buf.Bytes(), nil
}

func svgLine(canvas *svg.SVG, d device, p layout.Primitive) {
	a, b := d.at(p.Points[0]), d.at(p.Points[1])
	stroke := palette.Hex(p.Stroke)
	style := fmt.Sprintf("stroke:%s;stroke-width:%.2f", stroke, p.Width*d.pt)
	if !p.Arrow {
		canvas.Line(round(a.x), round(a.y), round(b.x), round(b.y), style)
		return
	}
	end, head := d.arrow(a, b)
	canvas.Line(round(a.x), round(a.y), round(end.x), round(end.y), style)
	xs, ys := ints(head[:])
	canvas.Polygon(xs, ys, "fill:"+stroke)
}

func svgText(canvas *svg.SVG, d device, p layout.Primitive) {
	at := d.at(p.Points[0])
	x, y := round(at.x), round(at.y)
	style := fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-size:%.2fpx;fill:%s",
		p.Size*d.pt, palette.Hex(p.Color))
	if p.Rotate == 0 {
		canvas.Text(x, y, p.Text, style)
		return
	}
	// SVG rotates clockwise, scene rotation is counter-clockwise.
	canvas.Gtransform(fmt.Sprintf("rotate(%g %d %d)", -p.Rotate, x, y))
	canvas.Text(x, y, p.Text, style)
	canvas.Gend()
}

func ints(vs []vec) (xs, ys []int) {
	xs, ys = make([]int, len(vs)), make([]int, len(vs))
	for i, v := range vs {
		xs[i], ys[i] = round(v.x), round(v.y)
	}
	return xs, ys
}

func round(f float64) int { return int(math.Round(f)) }
