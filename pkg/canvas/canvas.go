// Package canvas provides the raster primitives used by the card renderers:
// rounded-rectangle alpha masking, linear gradients, and progress bars.
//
// All functions return freshly allocated NRGBA buffers and never mutate
// their inputs. Degenerate geometry (non-positive width or height) is
// recovered locally by returning a 1×1 transparent placeholder so that a
// composition pipeline never fails on an empty fill segment.
package canvas

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Option configures RoundedRect.
type Option func(*maskOptions)

type maskOptions struct {
	border      bool
	borderWidth float64
	borderColor color.Color
}

// WithBorder draws an outline of the given width and color along the
// rounded-rectangle path on top of the clipped image.
func WithBorder(width float64, c color.Color) Option {
	return func(o *maskOptions) {
		o.border = true
		o.borderWidth = width
		o.borderColor = c
	}
}

// RoundedRect clips src to a rounded-rectangle alpha stencil with the given
// corner radius. The output canvas is one pixel larger in each dimension
// than the input so anti-aliased corners are not cut off at the edges.
// A radius of zero degenerates to an unclipped copy (still padded by 1px).
func RoundedRect(src image.Image, radius float64, opts ...Option) *image.NRGBA {
	var o maskOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return Transparent1x1()
	}

	dc := gg.NewContext(w+1, h+1)
	tracePath(dc, w, h, radius)
	dc.Clip()
	dc.DrawImage(src, 0, 0)
	dc.ResetClip()

	if o.border {
		dc.SetColor(o.borderColor)
		dc.SetLineWidth(o.borderWidth)
		tracePath(dc, w, h, radius)
		dc.Stroke()
	}
	return imaging.Clone(dc.Image())
}

func tracePath(dc *gg.Context, w, h int, radius float64) {
	if radius <= 0 {
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		return
	}
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), radius)
}

// VerticalGradient interpolates all four channels from start at row 0 to
// end at the last row, replicated across columns.
func VerticalGradient(width, height int, start, end color.NRGBA) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return Transparent1x1()
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		c := lerpNRGBA(start, end, rowT(y, height))
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// HorizontalGradient interpolates all four channels from start at column 0
// to end at the last column, replicated across rows.
func HorizontalGradient(width, height int, start, end color.NRGBA) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return Transparent1x1()
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		c := lerpNRGBA(start, end, rowT(x, width))
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Transparent1x1 returns the placeholder produced for degenerate geometry.
func Transparent1x1() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

func rowT(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func lerpNRGBA(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: lerpByte(a.R, b.R, t),
		G: lerpByte(a.G, b.G, t),
		B: lerpByte(a.B, b.B, t),
		A: lerpByte(a.A, b.A, t),
	}
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// Offset shifts each color channel by delta, clamped to [0, 255].
// Alpha is left untouched.
func Offset(c color.NRGBA, delta int) color.NRGBA {
	return color.NRGBA{
		R: clampByte(int(c.R) + delta),
		G: clampByte(int(c.G) + delta),
		B: clampByte(int(c.B) + delta),
		A: c.A,
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Hex parses a 6-digit hex color string (without '#') into an opaque NRGBA.
// Invalid input yields black; the display palettes below are all literals.
func Hex(s string) color.NRGBA {
	var c color.NRGBA
	c.A = 0xff
	if len(s) != 6 {
		return c
	}
	v := 0
	for _, r := range s {
		v <<= 4
		switch {
		case r >= '0' && r <= '9':
			v |= int(r - '0')
		case r >= 'a' && r <= 'f':
			v |= int(r-'a') + 10
		case r >= 'A' && r <= 'F':
			v |= int(r-'A') + 10
		default:
			return color.NRGBA{A: 0xff}
		}
	}
	c.R = uint8(v >> 16)
	c.G = uint8(v >> 8)
	c.B = uint8(v)
	return c
}

func toHSV(c color.NRGBA) (h, s, v float64) {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsv()
}

func fromHSV(h, s, v float64) color.NRGBA {
	if s > 1 {
		s = 1
	}
	if v > 1 {
		v = 1
	}
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
