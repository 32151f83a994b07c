package profile

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/statuscard/pkg/text"
)

var testFonts = text.SourceFunc(func(role text.Role, size float64) (font.Face, error) {
	return basicfont.Face7x13, nil
})

func testComposer() *Composer {
	return NewComposer(testFonts, rand.New(rand.NewSource(1)))
}

func TestRender_KeepsBackgroundDimensions(t *testing.T) {
	p := Profile{
		Name:       "alice",
		ID:         "123456",
		Bio:        "hello",
		Background: imaging.New(1200, 800, color.NRGBA{40, 60, 90, 255}),
	}

	img, err := testComposer().Render(p)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(1200, 800) {
		t.Errorf("size = %v, want 1200x800", got)
	}
}

func TestRender_UpscalesNarrowBackground(t *testing.T) {
	p := Profile{
		Name:       "bob",
		Background: imaging.New(600, 400, color.NRGBA{40, 60, 90, 255}),
	}

	img, err := testComposer().Render(p)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	// 600x400 scales to the 960 band width, keeping aspect.
	if got := img.Bounds().Size(); got != image.Pt(960, 640) {
		t.Errorf("size = %v, want 960x640", got)
	}
}

func TestRender_AvatarRegionAndPanelAbsence(t *testing.T) {
	bg := color.NRGBA{40, 60, 90, 255}
	p := Profile{
		Name:       "alice",
		ID:         "123456",
		Bio:        "Hello\nWorld",
		Avatar:     imaging.New(128, 128, color.NRGBA{255, 0, 0, 255}),
		Background: imaging.New(1200, 800, bg),
	}

	plain, err := testComposer().Render(p)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	// The avatar sits at (40,40) on the 960 band, which is pasted at
	// x=(1200-960)/2=120; a point well inside the circle must be the
	// opaque source red, not backdrop or border.
	got := plain.NRGBAAt(260, 140)
	if got.A != 255 || got.R < 200 || got.G > 50 || got.B > 50 {
		t.Errorf("avatar region = %v, want opaque red", got)
	}

	// With zero titles no activity panel is drawn: the panel region shows
	// only the darkened mosaic backdrop (uniform input, so near 70% of the
	// background color).
	want := color.NRGBA{uint8(float64(bg.R) * 0.7), uint8(float64(bg.G) * 0.7), uint8(float64(bg.B) * 0.7), 255}
	panel := plain.NRGBAAt(620, 400)
	if panel.A != 255 {
		t.Fatalf("panel region should be opaque, got %v", panel)
	}
	if channelDiff(panel, want) > 12 {
		t.Errorf("panel region = %v, want backdrop near %v", panel, want)
	}

	// The same point darkens once a title adds the panel fill.
	p.Titles = []TitleActivity{{Title: "Dota 2", TotalPlaytime: "1 小时"}}
	titled, err := testComposer().Render(p)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if titled.NRGBAAt(620, 400) == panel {
		t.Error("panel region should change when a title is present")
	}
}

func channelDiff(a, b color.NRGBA) int {
	diff := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return max(diff(a.R, b.R), diff(a.G, b.G), diff(a.B, b.B))
}

func TestRender_RequiresBackground(t *testing.T) {
	if _, err := testComposer().Render(Profile{Name: "x"}); err == nil {
		t.Fatal("expected error for missing background")
	}
}

func TestRender_WithAvatarAndTitles(t *testing.T) {
	p := Profile{
		Name:        "carol",
		ID:          "987654",
		Bio:         "playing games\nand more",
		Avatar:      imaging.New(184, 184, color.NRGBA{200, 180, 60, 255}),
		Background:  imaging.New(1000, 700, color.NRGBA{30, 40, 56, 255}),
		RecentLabel: "过去 2 周 12.5 小时",
		Titles: []TitleActivity{
			{
				Title:         "Dota 2",
				Header:        imaging.New(184, 69, color.NRGBA{120, 30, 30, 255}),
				TotalPlaytime: "102 小时",
				LastPlayed:    "最后运行日期：8 月 20 日",
				Counts:        &AchievementCounts{Completed: 3, Total: 50},
				Achievements: []Achievement{
					{Name: "a", Icon: imaging.New(64, 64, color.NRGBA{255, 255, 255, 255})},
				},
			},
			{
				Title:         "Stardew Valley",
				TotalPlaytime: "8.5 小时",
				LastPlayed:    "最后运行日期：8 月 1 日",
			},
		},
	}

	img, err := testComposer().Render(p)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(1000, 700) {
		t.Errorf("size = %v, want 1000x700", got)
	}
}

func TestTitleBlock_Heights(t *testing.T) {
	c := testComposer()
	accent := color.NRGBA{140, 190, 90, 255}

	plain, err := c.titleBlock(TitleActivity{Title: "x", TotalPlaytime: "1 小时"}, accent)
	if err != nil {
		t.Fatalf("titleBlock error: %v", err)
	}
	if got := plain.Bounds().Size(); got != image.Pt(blockWidth, blockHeaderH) {
		t.Errorf("header-only block size = %v, want %dx%d", got, blockWidth, blockHeaderH)
	}

	counted, err := c.titleBlock(TitleActivity{
		Title:         "y",
		TotalPlaytime: "2 小时",
		Counts:        &AchievementCounts{Completed: 1, Total: 10},
	}, accent)
	if err != nil {
		t.Fatalf("titleBlock error: %v", err)
	}
	want := image.Pt(blockWidth, blockHeaderH+stripHeight+10)
	if got := counted.Bounds().Size(); got != want {
		t.Errorf("counted block size = %v, want %v", got, want)
	}
}

func TestAchievementStrip_ZeroTotal(t *testing.T) {
	c := testComposer()
	strip, err := c.achievementStrip(TitleActivity{
		Counts: &AchievementCounts{Completed: 0, Total: 0},
	}, color.NRGBA{140, 190, 90, 255})
	if err != nil {
		t.Fatalf("achievementStrip error: %v", err)
	}
	if got := strip.Bounds().Size(); got != image.Pt(stripWidth, stripHeight) {
		t.Errorf("strip size = %v, want %dx%d", got, stripWidth, stripHeight)
	}
}

func TestAchievementStrip_OverflowBadge(t *testing.T) {
	c := testComposer()
	icons := make([]Achievement, 8)
	for i := range icons {
		icons[i] = Achievement{Icon: imaging.New(64, 64, color.NRGBA{255, 255, 255, 255})}
	}

	strip, err := c.achievementStrip(TitleActivity{
		Achievements: icons,
		Counts:       &AchievementCounts{Completed: 8, Total: 20},
	}, color.NRGBA{140, 190, 90, 255})
	if err != nil {
		t.Fatalf("achievementStrip error: %v", err)
	}

	// The sixth slot holds the dark overflow badge instead of a white icon.
	bx := stripWidth - (iconSize + iconGap)
	got := strip.NRGBAAt(bx+2, 10)
	if got.R > 100 {
		t.Errorf("overflow slot should show the dark badge, got %v", got)
	}
}
