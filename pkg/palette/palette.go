// Package palette extracts accent colors from photos.
//
// The extraction is biased toward "vivid" pixels (saturation above a
// threshold) so that a pair of genuinely contrasting accents is picked even
// from photos dominated by gray UI chrome. Thresholds operate on the
// byte-scaled HSV values (0–255 per channel) used by the upstream data.
package palette

import (
	"image"
	"image/color"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Defaults for VividExtremes.
const (
	DefaultSaturationThreshold = 100
	DefaultHueDiffThreshold    = 30
)

// minVividPixels is the smallest sample considered representative before
// the saturation threshold is relaxed.
const minVividPixels = 10

// Palette holds the two accent colors derived from a background photo.
// It is scoped to a single render call.
type Palette struct {
	Brightest color.NRGBA
	Darkest   color.NRGBA
}

// AverageColor returns the per-channel mean over all pixels, truncated to
// integers. Alpha is fixed at 255. A zero-size image yields black.
func AverageColor(img image.Image) color.NRGBA {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n <= 0 {
		return color.NRGBA{A: 0xff}
	}
	var rSum, gSum, bSum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(bb >> 8)
		}
	}
	return color.NRGBA{
		R: uint8(rSum / uint64(n)),
		G: uint8(gSum / uint64(n)),
		B: uint8(bSum / uint64(n)),
		A: 0xff,
	}
}

type hsvPixel struct {
	h, s, v int // byte scale, 0-255
}

// VividExtremes selects the brightest and darkest colors among vivid pixels
// using the default thresholds. See VividExtremesAt.
func VividExtremes(img image.Image) (brightest, darkest color.NRGBA) {
	return VividExtremesAt(img, DefaultSaturationThreshold, DefaultHueDiffThreshold)
}

// VividExtremesAt converts the image to HSV and considers pixels whose
// saturation strictly exceeds satThreshold. If fewer than ten qualify, the
// threshold is relaxed by 10 and the selection retried; the threshold may go
// negative, at which point every pixel qualifies, so the loop always
// terminates. Brightest is the maximum-value vivid pixel and darkest the
// minimum-value one; if their hue distance is under hueDiffThreshold the
// darkest is re-selected among vivid pixels of a different hue (kept as-is
// when no such pixel exists).
func VividExtremesAt(img image.Image, satThreshold, hueDiffThreshold int) (color.NRGBA, color.NRGBA) {
	pixels := hsvPixels(img)
	if len(pixels) == 0 {
		black := color.NRGBA{A: 0xff}
		return black, black
	}

	var vivid []hsvPixel
	for {
		vivid = vivid[:0]
		for _, p := range pixels {
			if p.s > satThreshold {
				vivid = append(vivid, p)
			}
		}
		if len(vivid) >= minVividPixels || satThreshold < 0 {
			break
		}
		satThreshold -= 10
	}
	if len(vivid) == 0 {
		// Only possible when the image itself has fewer than ten pixels.
		vivid = pixels
	}

	brightest := vivid[0]
	darkest := vivid[0]
	for _, p := range vivid[1:] {
		if p.v > brightest.v {
			brightest = p
		}
		if p.v < darkest.v {
			darkest = p
		}
	}

	if abs(brightest.h-darkest.h) < hueDiffThreshold {
		found := false
		var alt hsvPixel
		for _, p := range vivid {
			if p.h == brightest.h {
				continue
			}
			if !found || p.v < alt.v {
				alt = p
				found = true
			}
		}
		if found {
			darkest = alt
		}
	}

	return fromBytesHSV(brightest), fromBytesHSV(darkest)
}

func hsvPixels(img image.Image) []hsvPixel {
	b := img.Bounds()
	out := make([]hsvPixel, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			h, s, v := colorful.Color{
				R: float64(r>>8) / 255,
				G: float64(g>>8) / 255,
				B: float64(bb>>8) / 255,
			}.Hsv()
			out = append(out, hsvPixel{
				h: int(h / 360 * 255),
				s: int(s * 255),
				v: int(v * 255),
			})
		}
	}
	return out
}

func fromBytesHSV(p hsvPixel) color.NRGBA {
	r, g, b := colorful.Hsv(
		float64(p.h)/255*360,
		float64(p.s)/255,
		float64(p.v)/255,
	).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Jitter offsets each color channel by a uniform random amount in
// [-offset, offset], clamped to [0, 255]. Alpha is untouched. Two renders of
// the same photo may therefore differ slightly in accent hue; callers that
// need reproducible output should pass a seeded generator.
func Jitter(c color.NRGBA, offset int, rng *rand.Rand) color.NRGBA {
	return color.NRGBA{
		R: jitterByte(c.R, offset, rng),
		G: jitterByte(c.G, offset, rng),
		B: jitterByte(c.B, offset, rng),
		A: c.A,
	}
}

func jitterByte(b uint8, offset int, rng *rand.Rand) uint8 {
	v := int(b) + rng.Intn(2*offset+1) - offset
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Derive extracts the accent pair for a profile render: the vivid extremes
// of photo, with the brightest pulled 30 units darker and the darkest 30
// units lighter, alpha fixed at 128, and a ±20 jitter applied per channel.
func Derive(photo image.Image, rng *rand.Rand) Palette {
	brightest, darkest := VividExtremes(photo)

	brightest = shift(brightest, -30)
	darkest = shift(darkest, +30)
	brightest.A = 128
	darkest.A = 128

	return Palette{
		Brightest: Jitter(brightest, 20, rng),
		Darkest:   Jitter(darkest, 20, rng),
	}
}

func shift(c color.NRGBA, delta int) color.NRGBA {
	return color.NRGBA{
		R: shiftByte(c.R, delta),
		G: shiftByte(c.G, delta),
		B: shiftByte(c.B, delta),
		A: c.A,
	}
}

func shiftByte(b uint8, delta int) uint8 {
	v := int(b) + delta
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Accent rescales the saturation and value of c in HSV space. It is used to
// derive the achievement strip tone from the brightest palette color.
func Accent(c color.NRGBA, satScale, valScale float64) color.NRGBA {
	h, s, v := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsv()
	s *= satScale
	v *= valScale
	if s > 1 {
		s = 1
	}
	if v > 1 {
		v = 1
	}
	r, g, b := colorful.Hsv(h, s, v).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}
