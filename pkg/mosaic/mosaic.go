// Package mosaic turns a sharp photo into a soft, abstracted color backdrop.
//
// The transform tiles the photo into a grid, paints a circle of each tile's
// average color onto a canvas pre-filled with the whole-image average, then
// smooths and heavily blurs the result. It is deliberately lossy: there is
// no round-trip back to the source photo.
package mosaic

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/statuscard/pkg/palette"
)

// blurSigma is the final gaussian pass that melts the circles together.
const blurSigma = 50

// smoothKernel is a mild 3x3 smoothing convolution applied before the blur.
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// Recolor renders the mosaic backdrop for img using a rows × cols tile grid.
// Tiles use integer division; a partial remainder row or column is not
// covered by circles and keeps the background fill. The output has the same
// dimensions as the input. Degenerate grids (non-positive counts, or tiles
// smaller than a pixel) skip the circle pass and return the blurred average
// fill instead.
func Recolor(img image.Image, rows, cols int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}

	avg := palette.AverageColor(img)
	dc := gg.NewContext(w, h)
	dc.SetColor(avg)
	dc.Clear()

	if rows > 0 && cols > 0 {
		tileW := w / cols
		tileH := h / rows
		if tileW >= 1 && tileH >= 1 {
			src := imaging.Clone(img)
			radius := float64(min(tileW, tileH)) / 2
			for row := 0; row < rows; row++ {
				for col := 0; col < cols; col++ {
					tile := imaging.Crop(src, image.Rect(
						col*tileW, row*tileH,
						(col+1)*tileW, (row+1)*tileH,
					))
					dc.SetColor(palette.AverageColor(tile))
					cx := float64(col*tileW) + float64(tileW)/2
					cy := float64(row*tileH) + float64(tileH)/2
					dc.DrawCircle(cx, cy, radius)
					dc.Fill()
				}
			}
		}
	}

	out := imaging.Convolve3x3(dc.Image(), smoothKernel, &imaging.ConvolveOptions{Normalize: true})
	return imaging.Blur(out, blurSigma)
}
