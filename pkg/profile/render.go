package profile

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/statuscard/pkg/canvas"
	"github.com/matzehuels/statuscard/pkg/errors"
	"github.com/matzehuels/statuscard/pkg/mosaic"
	"github.com/matzehuels/statuscard/pkg/palette"
	"github.com/matzehuels/statuscard/pkg/text"
)

// Overlay geometry. The card is composed on a 960px-wide band centered on
// the background photo; the final output keeps the photo's own dimensions.
const (
	overlayWidth = 960
	mosaicGrid   = 10

	avatarSize = 200
	avatarX    = 40
	avatarY    = 40

	bioMaxWidth = 640
	bioMaxLines = 4
	bioLineStep = 25

	panelWidth = 920
	panelX     = 20
	panelY     = 272

	blockWidth   = 880
	blockHeaderH = 110
	blockGap     = 26

	stripWidth  = 860
	stripHeight = 64

	iconSize  = 48
	iconGap   = 10
	iconSlots = 6
)

var (
	avatarBorder = color.NRGBA{R: 83, G: 164, B: 196, A: 255}
	fadedText    = color.NRGBA{R: 191, G: 191, B: 191, A: 255}
	mutedText    = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	counterText  = color.NRGBA{R: 130, G: 130, B: 130, A: 255}
	badgeFill    = color.NRGBA{R: 34, G: 34, B: 34, A: 255}
	white        = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Composer renders profile cards. The random source drives the palette
// jitter; pass a seeded generator for reproducible output, or nil to use a
// time-seeded one.
type Composer struct {
	fonts text.Source
	rng   *rand.Rand
}

// NewComposer creates a profile card composer.
func NewComposer(fonts text.Source, rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{fonts: fonts, rng: rng}
}

// Render composes the status card for p. The output canvas has the same
// dimensions as the background photo. Backgrounds narrower than the 960px
// overlay band are upscaled to the band width first.
func (c *Composer) Render(p Profile) (*image.NRGBA, error) {
	if p.Background == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "profile render requires a background photo")
	}

	photo := imaging.Clone(p.Background)
	if photo.Bounds().Dx() < overlayWidth {
		photo = imaging.Resize(photo, overlayWidth, 0, imaging.Lanczos)
	}
	w, h := photo.Bounds().Dx(), photo.Bounds().Dy()

	band := imaging.Crop(photo, image.Rect((w-overlayWidth)/2, 0, (w+overlayWidth)/2, h))
	backdrop := mosaic.Recolor(band, mosaicGrid, mosaicGrid)
	backdrop = imaging.AdjustFunc(backdrop, darken70)

	dc := gg.NewContextForImage(backdrop)

	if p.Avatar != nil {
		avatar := canvas.RoundedRect(
			imaging.Resize(p.Avatar, avatarSize, avatarSize, imaging.CatmullRom),
			avatarSize/2,
			canvas.WithBorder(3, avatarBorder),
		)
		dc.DrawImage(avatar, avatarX, avatarY)
	}

	nameFace, err := c.fonts.Face(text.Light, 40)
	if err != nil {
		return nil, err
	}
	idFace, err := c.fonts.Face(text.Regular, 19)
	if err != nil {
		return nil, err
	}
	bioFace, err := c.fonts.Face(text.Light, 22)
	if err != nil {
		return nil, err
	}
	text.Draw(dc, nameFace, p.Name, 280, 48, white)
	text.Draw(dc, idFace, "好友代码: "+p.ID, 280, 100, fadedText)

	for i, line := range text.Wrap(bioFace, p.Bio, bioMaxWidth, bioMaxLines) {
		text.Draw(dc, bioFace, line, 280, float64(132+bioLineStep*i), white)
	}

	// The palette comes from the original, uncropped photo; the mosaic
	// backdrop is too washed out to yield contrasting accents.
	pal := palette.Derive(p.Background, c.rng)
	accent := palette.Accent(pal.Brightest, 0.85, 0.6)
	accent.A = 255

	blocks := make([]*image.NRGBA, 0, len(p.Titles))
	panelHeight := 106
	for _, t := range p.Titles {
		block, err := c.titleBlock(t, accent)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
		panelHeight += block.Bounds().Dy() + blockGap
	}

	if len(blocks) > 0 {
		dc.SetColor(color.NRGBA{A: 120})
		dc.DrawRectangle(panelX, panelY, panelWidth, float64(panelHeight))
		dc.Fill()
		dc.DrawImage(canvas.HorizontalGradient(panelWidth, 50, pal.Brightest, pal.Darkest), panelX, panelY)

		headerFace, err := c.fonts.Face(text.Light, 26)
		if err != nil {
			return nil, err
		}
		text.Draw(dc, headerFace, "最新动态", 34, 279, white)
		if p.RecentLabel != "" {
			text.Draw(dc, headerFace, p.RecentLabel, overlayWidth-text.Width(headerFace, p.RecentLabel)-34, 279, white)
		}

		y := 350
		for _, block := range blocks {
			dc.DrawImage(block, (panelWidth-block.Bounds().Dx())/2+panelX, y)
			y += block.Bounds().Dy() + blockGap
		}
	}

	return imaging.Overlay(photo, dc.Image(), image.Pt((w-overlayWidth)/2, 0), 1.0), nil
}

// darken70 reduces brightness to 70%, the backdrop dimming step.
func darken70(c color.NRGBA) color.NRGBA {
	c.R = uint8(float64(c.R) * 0.7)
	c.G = uint8(float64(c.G) * 0.7)
	c.B = uint8(float64(c.B) * 0.7)
	return c
}

// titleBlock renders one title's header block and, when achievement counts
// are present, the strip beneath it. Missing counts shrink the block to the
// header height; there is no placeholder.
func (c *Composer) titleBlock(t TitleActivity, accent color.NRGBA) (*image.NRGBA, error) {
	height := blockHeaderH
	if t.Counts != nil {
		height += stripHeight + 10
	}

	dc := gg.NewContext(blockWidth, height)
	dc.SetColor(color.NRGBA{A: 110})
	dc.Clear()

	if t.Header != nil {
		header := imaging.Resize(t.Header, 229, 86, imaging.CatmullRom)
		dc.DrawImage(header, 10, (blockHeaderH-86)/2)
	}

	titleFace, err := c.fonts.Face(text.Regular, 26)
	if err != nil {
		return nil, err
	}
	detailFace, err := c.fonts.Face(text.Light, 22)
	if err != nil {
		return nil, err
	}
	text.Draw(dc, titleFace, t.Title, 260, 10, white)

	playtime := "总时数 " + t.TotalPlaytime
	text.Draw(dc, detailFace, playtime, float64(blockWidth)-text.Width(detailFace, playtime)-10, 50, mutedText)
	text.Draw(dc, detailFace, t.LastPlayed, float64(blockWidth)-text.Width(detailFace, t.LastPlayed)-10, 75, mutedText)

	if t.Counts == nil {
		return imaging.Clone(dc.Image()), nil
	}

	strip, err := c.achievementStrip(t, accent)
	if err != nil {
		return nil, err
	}
	dc.DrawImage(strip, 10, blockHeaderH)
	return imaging.Clone(dc.Image()), nil
}

// achievementStrip renders the label, counter, progress bar and up to six
// icons. When the completed count exceeds six, the sixth slot becomes a
// dark "+N" overflow badge with N = completed - 5.
func (c *Composer) achievementStrip(t TitleActivity, accent color.NRGBA) (*image.NRGBA, error) {
	dc := gg.NewContext(stripWidth, stripHeight)
	dc.SetColor(accent)
	dc.Clear()

	face, err := c.fonts.Face(text.Light, 18)
	if err != nil {
		return nil, err
	}

	x := 14.0
	text.Draw(dc, face, "成就进度", x, 20, white)
	x += text.Width(face, "成就进度") + 10

	counter := fmt.Sprintf("%d / %d", t.Counts.Completed, t.Counts.Total)
	text.Draw(dc, face, counter, x, 20, counterText)
	x += text.Width(face, counter) + 10

	// Guard the zero-total case explicitly: no achievements defined means
	// no progress, not a division fault.
	progress := 0.0
	if t.Counts.Total > 0 {
		progress = float64(t.Counts.Completed) / float64(t.Counts.Total)
	}
	dc.DrawImage(canvas.ProgressBar(progress, accent), int(x), 24)

	iconX := stripWidth - (iconSize+iconGap)*iconSlots
	overflow := t.Counts.Completed > iconSlots
	shown := min(len(t.Achievements), iconSlots)
	if overflow {
		shown = min(shown, iconSlots-1)
	}
	for i := 0; i < shown; i++ {
		if t.Achievements[i].Icon == nil {
			continue
		}
		icon := imaging.Resize(t.Achievements[i].Icon, iconSize, iconSize, imaging.CatmullRom)
		dc.DrawImage(icon, iconX+(iconSize+iconGap)*i, 8)
	}

	if overflow {
		badgeFace, err := c.fonts.Face(text.Regular, 22)
		if err != nil {
			return nil, err
		}
		bx := float64(iconX + (iconSize+iconGap)*(iconSlots-1))
		dc.SetColor(badgeFill)
		dc.DrawRectangle(bx, 8, iconSize, iconSize)
		dc.Fill()
		label := fmt.Sprintf("+%d", t.Counts.Completed-(iconSlots-1))
		text.Draw(dc, badgeFace, label, bx+iconSize/2-text.Width(badgeFace, label)/2, 18, white)
	}

	return imaging.Clone(dc.Image()), nil
}
