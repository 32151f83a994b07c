package roster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/statuscard/pkg/canvas"
	"github.com/matzehuels/statuscard/pkg/text"
)

// Layout constants. All coordinates below are in pixels on the fixed-width
// roster canvas.
const (
	// Width is the fixed roster canvas width.
	Width = 400

	parentAvatarSize   = 72
	memberAvatarSize   = 50
	parentHeaderHeight = 120
	searchBarHeight    = 50

	rowHeight     = 64
	rowStep       = memberAvatarSize + 16
	rowLeftMargin = 22
	textGap       = 16

	sectionHeaderHeight = 64
	sectionBottomPad    = 16
)

var (
	rowBG        = canvas.Hex("1e2024")
	separatorBG  = canvas.Hex("333439")
	searchBG     = canvas.Hex("434953")
	searchText   = canvas.Hex("b7ccd5")
	headerText   = canvas.Hex("c5d6d4")
	countText    = canvas.Hex("67665c")
	parentName   = canvas.Hex("6dcff6")
	parentStatus = canvas.Hex("4c91ac")

	// Per-state (name, status) colors. Busy and Snooze rows are drawn with
	// the Online look and receive an icon overlay instead.
	offlineColors = [2]color.NRGBA{canvas.Hex("969697"), canvas.Hex("656565")}
	onlineColors  = [2]color.NRGBA{canvas.Hex("6dcef5"), canvas.Hex("4c91ac")}
	awayColors    = [2]color.NRGBA{canvas.Hex("45778e"), canvas.Hex("365969")}
	activeColors  = [2]color.NRGBA{canvas.Hex("e3ffc2"), canvas.Hex("8ebe56")}
)

// Assets are the optional image resources overlaid on roster rows. A nil
// entry means the corresponding decoration is skipped; missing icons never
// fail a render.
type Assets struct {
	ParentHeader  image.Image // backdrop behind the group header
	SearchBar     image.Image // search-bar decoration, pasted right-aligned
	BusyBadge     image.Image // badge after the name of a busy person
	SnoozeOnline  image.Image // zzz icon for snoozing people with the generic label
	SnoozeGaming  image.Image // zzz icon for snoozing people in an activity
	DefaultAvatar image.Image // fallback for records without an avatar
}

// Renderer draws roster images. It holds no per-render state; a single
// Renderer can serve concurrent renders.
type Renderer struct {
	fonts  text.Source
	assets Assets
}

// NewRenderer creates a roster renderer using the given font source and
// optional assets.
func NewRenderer(fonts text.Source, assets Assets) *Renderer {
	return &Renderer{fonts: fonts, assets: assets}
}

// Render composes the full roster image: group header, search divider, then
// each non-empty section in order Gaming, Online, Offline with a 1px
// separator between adjacent sections. The canvas height is the sum of all
// block heights.
func (r *Renderer) Render(parentAvatar image.Image, parentDisplayName string, people []Person) (*image.NRGBA, error) {
	sections := Classify(people)

	parent, err := r.renderParent(parentAvatar, parentDisplayName)
	if err != nil {
		return nil, err
	}
	search, err := r.renderSearchBar()
	if err != nil {
		return nil, err
	}

	images := make([]*image.NRGBA, 0, len(sections))
	height := parent.Bounds().Dy() + search.Bounds().Dy()
	for _, sec := range sections {
		img, err := r.renderSection(sec)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
		height += img.Bounds().Dy()
	}

	dc := gg.NewContext(Width, height)
	dc.SetColor(rowBG)
	dc.Clear()
	dc.DrawImage(parent, 0, 0)
	dc.DrawImage(search, 0, parent.Bounds().Dy())

	y := parent.Bounds().Dy() + search.Bounds().Dy()
	for i, img := range images {
		dc.DrawImage(img, 0, y)
		y += img.Bounds().Dy()
		if i != len(images)-1 {
			dc.SetColor(separatorBG)
			dc.DrawRectangle(0, float64(y-1), Width, 1)
			dc.Fill()
		}
	}
	return imaging.Clone(dc.Image()), nil
}

// SectionHeight returns the canvas height of a section with n members.
func SectionHeight(n int) int {
	return sectionHeaderHeight + rowStep*n + sectionBottomPad
}

func (r *Renderer) renderSection(sec Section) (*image.NRGBA, error) {
	dc := gg.NewContext(Width, SectionHeight(len(sec.Members)))
	dc.SetColor(rowBG)
	dc.Clear()

	headerFace, err := r.fonts.Face(text.Regular, 22)
	if err != nil {
		return nil, err
	}
	text.Draw(dc, headerFace, sec.Kind.Title(), rowLeftMargin, 22, headerText)

	// Online and Offline headers carry a member-count badge.
	if sec.Kind != SectionGaming {
		countFace, err := r.fonts.Face(text.Regular, 18)
		if err != nil {
			return nil, err
		}
		countX := 72.0
		if sec.Kind == SectionOnline {
			countX = 115
		}
		text.Draw(dc, countFace, fmt.Sprintf("(%d)", len(sec.Members)), countX, 25, countText)
	}

	for i, p := range sec.Members {
		row, err := r.renderRow(p)
		if err != nil {
			return nil, err
		}
		dc.DrawImage(row, 0, sectionHeaderHeight+rowStep*i)
	}
	return imaging.Clone(dc.Image()), nil
}

// renderRow draws one member row: avatar, display name, status text, plus
// the busy or snooze icon overlay anchored past the measured name width.
func (r *Renderer) renderRow(p Person) (*image.NRGBA, error) {
	dc := gg.NewContext(Width, rowHeight)
	dc.SetColor(rowBG)
	dc.Clear()

	avatar := p.Avatar
	if avatar == nil {
		avatar = r.assets.DefaultAvatar
	}
	if avatar != nil {
		dc.DrawImage(imaging.Resize(avatar, memberAvatarSize, memberAvatarSize, imaging.CatmullRom), rowLeftMargin, 8)
	}

	nameColor, statusColor := rowColors(p)

	nameFace, err := r.fonts.Face(text.Bold, 20)
	if err != nil {
		return nil, err
	}
	statusFace, err := r.fonts.Face(text.Regular, 18)
	if err != nil {
		return nil, err
	}

	textLeft := rowLeftMargin + memberAvatarSize
	text.Draw(dc, nameFace, p.DisplayName(), float64(textLeft+18), 12, nameColor)
	text.Draw(dc, statusFace, p.Status, float64(textLeft+textGap), 36, statusColor)

	if icon := r.stateIcon(p); icon != nil {
		badgeOffset := 4
		if p.State == Snooze {
			badgeOffset = 8
		}
		nameWidth := int(text.Width(nameFace, p.DisplayName()))
		dc.DrawImage(icon, textLeft+textGap+nameWidth+badgeOffset, 18)
	}
	return imaging.Clone(dc.Image()), nil
}

// rowColors resolves the (name, status) color pair. Busy and Snooze use the
// Online look; Online and Away in an activity get the active override.
func rowColors(p Person) (color.NRGBA, color.NRGBA) {
	state := p.State
	if state == Busy || state == Snooze {
		state = Online
	}
	var pair [2]color.NRGBA
	switch {
	case state == Online && p.Status != Online.GenericLabel():
		pair = activeColors
	case state == Away && p.Status != Away.GenericLabel():
		pair = activeColors
	case state == Offline:
		pair = offlineColors
	case state == Away:
		pair = awayColors
	default:
		pair = onlineColors
	}
	return pair[0], pair[1]
}

func (r *Renderer) stateIcon(p Person) image.Image {
	switch p.State {
	case Busy:
		return r.assets.BusyBadge
	case Snooze:
		if p.Status == Snooze.GenericLabel() {
			return r.assets.SnoozeOnline
		}
		return r.assets.SnoozeGaming
	default:
		return nil
	}
}

func (r *Renderer) renderParent(avatar image.Image, name string) (*image.NRGBA, error) {
	dc := gg.NewContext(Width, parentHeaderHeight)
	if r.assets.ParentHeader != nil {
		dc.DrawImage(imaging.Resize(r.assets.ParentHeader, Width, parentHeaderHeight, imaging.CatmullRom), 0, 0)
	} else {
		dc.DrawImage(canvas.VerticalGradient(Width, parentHeaderHeight, canvas.Hex("1b2838"), canvas.Hex("2a475e")), 0, 0)
	}

	avatarTop := parentHeaderHeight - 16 - parentAvatarSize
	if avatar != nil {
		circle := canvas.RoundedRect(
			imaging.Resize(avatar, parentAvatarSize, parentAvatarSize, imaging.CatmullRom),
			parentAvatarSize/2,
		)
		dc.DrawImage(circle, 16, avatarTop)
	}

	nameFace, err := r.fonts.Face(text.Bold, 20)
	if err != nil {
		return nil, err
	}
	labelFace, err := r.fonts.Face(text.Light, 18)
	if err != nil {
		return nil, err
	}
	textLeft := float64(16 + parentAvatarSize + 16)
	text.Draw(dc, nameFace, name, textLeft, float64(avatarTop+12), parentName)
	text.Draw(dc, labelFace, "在线", textLeft, float64(avatarTop+36), parentStatus)

	return imaging.Clone(dc.Image()), nil
}

func (r *Renderer) renderSearchBar() (*image.NRGBA, error) {
	dc := gg.NewContext(Width, searchBarHeight)
	dc.SetColor(searchBG)
	dc.Clear()

	if r.assets.SearchBar != nil {
		dc.DrawImage(r.assets.SearchBar, Width-r.assets.SearchBar.Bounds().Dx(), 0)
	}

	face, err := r.fonts.Face(text.Regular, 20)
	if err != nil {
		return nil, err
	}
	text.Draw(dc, face, "好友", 24, 10, searchText)
	return imaging.Clone(dc.Image()), nil
}
