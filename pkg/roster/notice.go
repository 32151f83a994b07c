package roster

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/statuscard/pkg/canvas"
	"github.com/matzehuels/statuscard/pkg/text"
)

// Notice banner geometry.
const (
	noticeHeight     = 104
	noticeAvatarSize = 66
)

// StartGamingNotice renders the small banner announcing that a person
// started playing a title: avatar on the left, name, the "正在玩" label and
// the title name stacked beside it.
func (r *Renderer) StartGamingNotice(avatar image.Image, name, nickname, title string) (*image.NRGBA, error) {
	dc := gg.NewContext(Width, noticeHeight)
	dc.DrawImage(canvas.HorizontalGradient(Width, noticeHeight, canvas.Hex("1e2024"), canvas.Hex("2a2e35")), 0, 0)

	if avatar == nil {
		avatar = r.assets.DefaultAvatar
	}
	if avatar != nil {
		dc.DrawImage(imaging.Resize(avatar, noticeAvatarSize, noticeAvatarSize, imaging.CatmullRom), 15, 20)
	}

	nameFace, err := r.fonts.Face(text.Regular, 19)
	if err != nil {
		return nil, err
	}
	labelFace, err := r.fonts.Face(text.Regular, 17)
	if err != nil {
		return nil, err
	}
	titleFace, err := r.fonts.Face(text.Bold, 14)
	if err != nil {
		return nil, err
	}

	display := name
	if nickname != "" {
		display = name + " (" + nickname + ")"
	}
	text.Draw(dc, nameFace, display, 104, 14, canvas.Hex("e3ffc2"))
	text.Draw(dc, labelFace, "正在玩", 103, 42, canvas.Hex("969696"))
	text.Draw(dc, titleFace, title, 104, 66, canvas.Hex("91c257"))

	return imaging.Clone(dc.Image()), nil
}
