package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/fonts"
	"github.com/plasmidmap/plasmidmap/pkg/palette"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

// RenderPNG rasterizes s at the configured DPI.
func RenderPNG(s layout.Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	w := int(math.Round(PageWidthIn * o.dpi))
	h := int(math.Round(PageHeightIn * o.dpi))
	d := newDevice(s.Viewport, float64(w), float64(h), o.dpi)

	dc := gg.NewContext(w, h)
	if !o.transparent() {
		dc.SetColor(palette.RGBA(o.background))
		dc.Clear()
	}

	var faceSize float64
	for _, p := range s.Primitives {
		switch p.Kind {
		case layout.Line:
			pngLine(dc, d, p)
		case layout.Polygon:
			pts := d.all(p.Points)
			for i, v := range pts {
				if i == 0 {
					dc.MoveTo(v.x, v.y)
				} else {
					dc.LineTo(v.x, v.y)
				}
			}
			dc.ClosePath()
			dc.SetColor(palette.RGBA(p.Fill))
			dc.FillPreserve()
			dc.SetColor(palette.RGBA(p.Stroke))
			dc.SetLineWidth(p.Width * d.pt)
			dc.Stroke()
		case layout.Text:
			if p.Size != faceSize {
				face, err := fonts.Face(p.Size, o.dpi)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
				}
				dc.SetFontFace(face)
				faceSize = p.Size
			}
			at := d.at(p.Points[0])
			dc.SetColor(palette.RGBA(p.Color))
			if p.Rotate != 0 {
				dc.Push()
				dc.RotateAbout(gg.Radians(-p.Rotate), at.x, at.y)
				dc.DrawStringAnchored(p.Text, at.x, at.y, 0.5, 0.35)
				dc.Pop()
			} else {
				dc.DrawStringAnchored(p.Text, at.x, at.y, 0.5, 0.35)
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func pngLine(dc *gg.Context, d device, p layout.Primitive) {
	a, b := d.at(p.Points[0]), d.at(p.Points[1])
	c := palette.RGBA(p.Stroke)
	dc.SetColor(c)
	dc.SetLineWidth(p.Width * d.pt)
	if !p.Arrow {
		dc.DrawLine(a.x, a.y, b.x, b.y)
		dc.Stroke()
		return
	}
	end, head := d.arrow(a, b)
	dc.DrawLine(a.x, a.y, end.x, end.y)
	dc.Stroke()
	dc.MoveTo(head[0].x, head[0].y)
	dc.LineTo(head[1].x, head[1].y)
	dc.LineTo(head[2].x, head[2].y)
	dc.ClosePath()
	dc.Fill()
}
