package sink

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/plasmidmap/plasmidmap/pkg/errors"
	"github.com/plasmidmap/plasmidmap/pkg/fonts"
	"github.com/plasmidmap/plasmidmap/pkg/palette"
	"github.com/plasmidmap/plasmidmap/pkg/render/layout"
)

// pdfEpoch is stamped as the creation date so identical scenes produce
// identical files.
var pdfEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// RenderPDF renders s as a single-page PDF.
func RenderPDF(s layout.Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	w, h := PageWidthIn*PointsIn, PageHeightIn*PointsIn
	d := newDevice(s.Viewport, w, h, PointsIn)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(fonts.PDFFamily, "", fonts.TTF())
	pdf.AddPage()

	if !o.transparent() {
		setFill(pdf, o.background)
		pdf.Rect(0, 0, w, h, "F")
	}

	for _, p := range s.Primitives {
		switch p.Kind {
		case layout.Line:
			pdfLine(pdf, d, p)
		case layout.Polygon:
			pts := make([]fpdf.PointType, 0, len(p.Points))
			for _, v := range d.all(p.Points) {
				pts = append(pts, fpdf.PointType{X: v.x, Y: v.y})
			}
			setFill(pdf, p.Fill)
			setDraw(pdf, p.Stroke)
			pdf.SetLineWidth(p.Width)
			pdf.Polygon(pts, "DF")
		case layout.Text:
			pdfText(pdf, d, p)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render pdf")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write pdf")
	}
	return buf.Bytes(), nil
}

func pdfLine(pdf *fpdf.Fpdf, d device, p layout.Primitive) {
	a, b := d.at(p.Points[0]), d.at(p.Points[1])
	setDraw(pdf, p.Stroke)
	pdf.SetLineWidth(p.Width)
	if !p.Arrow {
		pdf.Line(a.x, a.y, b.x, b.y)
		return
	}
	end, head := d.arrow(a, b)
	pdf.Line(a.x, a.y, end.x, end.y)
	setFill(pdf, p.Stroke)
	pdf.Polygon([]fpdf.PointType{
		{X: head[0].x, Y: head[0].y},
		{X: head[1].x, Y: head[1].y},
		{X: head[2].x, Y: head[2].y},
	}, "F")
}

func pdfText(pdf *fpdf.Fpdf, d device, p layout.Primitive) {
	at := d.at(p.Points[0])
	pdf.SetFont(fonts.PDFFamily, "", p.Size)
	c := palette.RGBA(p.Color)
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))

	// Text() places the baseline; shift so the string is centred on the anchor.
	x := at.x - pdf.GetStringWidth(p.Text)/2
	y := at.y + p.Size*0.35
	if p.Rotate == 0 {
		pdf.Text(x, y, p.Text)
		return
	}
	pdf.TransformBegin()
	pdf.TransformRotate(p.Rotate, at.x, at.y)
	pdf.Text(x, y, p.Text)
	pdf.TransformEnd()
}

func setFill(pdf *fpdf.Fpdf, token string) {
	c := palette.RGBA(token)
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setDraw(pdf *fpdf.Fpdf, token string) {
	c := palette.RGBA(token)
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}
