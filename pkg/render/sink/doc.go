// Package sink renders a [layout.Scene] to bytes.
//
// # Overview
//
// Every sink draws onto the same 14 × 4 inch page, the figure size of the
// classic plasmid map. The scene viewport is stretched over the whole page
// and y is flipped so that "Up" elements appear above the baseline.
//
//   - SVG: vector output via github.com/ajstarks/svgo, 100 user units per inch
//   - PNG: raster output via github.com/fogleman/gg, 14·dpi × 4·dpi pixels
//   - PDF: vector output via github.com/go-pdf/fpdf, a 1008 × 288 pt page
//   - JSON: the scene itself, for tooling
//
// Line widths and font sizes in the scene are typographic points and are
// scaled to each device, so a label is the same physical size in every
// format.
//
// # Usage
//
//	svg, err := sink.RenderSVG(scene)
//	png, err := sink.RenderPNG(scene, sink.WithDPI(150))
//	out, err := sink.Render(sink.FormatPDF, scene, sink.WithBackground("none"))
package sink
