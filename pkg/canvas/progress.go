package canvas

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Default progress bar dimensions, matching the achievement strip layout.
const (
	ProgressBarWidth  = 186
	ProgressBarHeight = 16
)

// ProgressBar renders a bar at the default size. See ProgressBarSized.
func ProgressBar(progress float64, accent color.NRGBA) *image.NRGBA {
	return ProgressBarSized(progress, accent, ProgressBarWidth, ProgressBarHeight)
}

// ProgressBarSized renders a beveled progress bar. The background is accent
// darkened to 80% value with a 1px border 20 units darker per channel; the
// filled portion is a vertical gradient (half saturation, lightened top)
// rounded with a 6px radius. progress is clamped to [0, 1]; a fill of
// non-positive width collapses to the 1×1 transparent placeholder.
func ProgressBarSized(progress float64, accent color.NRGBA, width, height int) *image.NRGBA {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	if width <= 0 || height <= 0 {
		return Transparent1x1()
	}

	h, s, v := toHSV(accent)
	barColor := fromHSV(h, s, v*0.8)
	borderColor := Offset(accent, -20)

	bar := RoundedRect(
		imaging.New(width, height, barColor),
		8,
		WithBorder(1, borderColor),
	)

	top := fromHSV(h, s/2, v*2.5)
	bottom := fromHSV(h, s/2, v)
	fill := RoundedRect(VerticalGradient(int(float64(width)*progress)-6, height-4, top, bottom), 6)

	return imaging.Overlay(bar, fill, image.Pt(3, 2), 1.0)
}
