package palette

import (
	"image/color"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Resolve maps any color token to a renderable color name or hex string.
//
// Resolution order: legacy alias table, recognized color, recognized color
// after stripping trailing digits, then Default. It never fails.
func Resolve(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if alias, ok := legacy[t]; ok {
		return alias
	}
	if Recognized(t) {
		return t
	}
	if base := strings.TrimRightFunc(t, unicode.IsDigit); base != t && Recognized(base) {
		return base
	}
	return Default
}

// Recognized reports whether token is an SVG color keyword or a #rgb / #rrggbb hex color.
func Recognized(token string) bool {
	if token == "" {
		return false
	}
	if _, ok := colornames.Map[token]; ok {
		return true
	}
	if strings.HasPrefix(token, "#") {
		_, err := colorful.Hex(token)
		return err == nil
	}
	return false
}

// RGBA resolves token and returns its opaque RGBA value.
func RGBA(token string) color.RGBA {
	name := Resolve(token)
	if c, ok := colornames.Map[name]; ok {
		return c
	}
	if c, err := colorful.Hex(name); err == nil {
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return colornames.Black
}

// Hex resolves token and returns it as #rrggbb.
func Hex(token string) string {
	c, _ := colorful.MakeColor(RGBA(token))
	return c.Hex()
}
