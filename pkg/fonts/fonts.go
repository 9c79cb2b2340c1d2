// Package fonts provides the label font for raster and PDF rendering and the
// matching font-family names for SVG.
//
// The TrueType data is Go Regular from golang.org/x/image, compiled into the
// binary, so rendering never depends on system fonts.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family used in SVG output.
const FontFamily = "Helvetica"

// FallbackFontFamily lists fallbacks for viewers without Helvetica.
const FallbackFontFamily = `Helvetica, Arial, 'Go', sans-serif`

// PDFFamily is the name Go Regular is embedded under in PDF output, as a
// UTF-8 font.
const PDFFamily = "Go"

// TTF returns the raw Go Regular font file for writers that embed it.
func TTF() []byte { return goregular.TTF }

// Regular returns the parsed Go Regular font. Parsing happens once.
var Regular = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// Face returns a face of Regular at size points for a device of dpi dots
// per inch.
func Face(size, dpi float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	}), nil
}
