// Package text defines the font-resolution boundary of the renderers and
// the measured text helpers built on top of it.
//
// Renderers never load font files themselves. They ask a Source for a face
// by logical role (regular, light, bold) and pixel size, and use the face
// both to measure glyph advances and to draw. pkg/fonts provides the
// disk-backed Source used by the CLI and server.
package text

import (
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Role identifies a logical font weight.
type Role int

// Font roles resolvable by a Source.
const (
	Regular Role = iota
	Light
	Bold
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case Regular:
		return "regular"
	case Light:
		return "light"
	case Bold:
		return "bold"
	default:
		return "unknown"
	}
}

// Source resolves a font role and pixel size to a glyph-measuring,
// glyph-rendering face. Implementations should cache faces; renderers
// request the same (role, size) pairs repeatedly.
type Source interface {
	Face(role Role, size float64) (font.Face, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(role Role, size float64) (font.Face, error)

// Face implements Source.
func (f SourceFunc) Face(role Role, size float64) (font.Face, error) {
	return f(role, size)
}

// Width returns the advance width of s in pixels.
func Width(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// Draw renders s with its top-left corner at (x, y). gg anchors strings at
// the baseline; this compensates with the face ascent so callers can lay
// out with top coordinates.
func Draw(dc *gg.Context, face font.Face, s string, x, y float64, c color.Color) {
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawString(s, x, y+float64(face.Metrics().Ascent)/64)
}
