package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"000000", color.NRGBA{0, 0, 0, 255}},
		{"ffffff", color.NRGBA{255, 255, 255, 255}},
		{"1e2024", color.NRGBA{30, 32, 36, 255}},
		{"6dcff6", color.NRGBA{109, 207, 246, 255}},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name  string
		in    color.NRGBA
		delta int
		want  color.NRGBA
	}{
		{"lighten", color.NRGBA{100, 100, 100, 255}, 20, color.NRGBA{120, 120, 120, 255}},
		{"darken", color.NRGBA{100, 100, 100, 255}, -20, color.NRGBA{80, 80, 80, 255}},
		{"clamp high", color.NRGBA{250, 250, 250, 255}, 20, color.NRGBA{255, 255, 255, 255}},
		{"clamp low", color.NRGBA{5, 5, 5, 255}, -20, color.NRGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Offset(tt.in, tt.delta); got != tt.want {
				t.Errorf("Offset(%v, %d) = %v, want %v", tt.in, tt.delta, got, tt.want)
			}
		})
	}
}

func TestVerticalGradient(t *testing.T) {
	start := color.NRGBA{0, 0, 0, 255}
	end := color.NRGBA{255, 255, 255, 255}
	img := VerticalGradient(10, 100, start, end)

	if got := img.Bounds().Size(); got != image.Pt(10, 100) {
		t.Fatalf("size = %v", got)
	}
	if got := img.NRGBAAt(5, 0); got != start {
		t.Errorf("top = %v, want %v", got, start)
	}
	if got := img.NRGBAAt(5, 99); got != end {
		t.Errorf("bottom = %v, want %v", got, end)
	}
	mid := img.NRGBAAt(5, 50)
	if mid.R < 100 || mid.R > 155 {
		t.Errorf("middle should interpolate, got %v", mid)
	}
}

func TestHorizontalGradient_InterpolatesAlpha(t *testing.T) {
	img := HorizontalGradient(100, 10, color.NRGBA{0, 0, 0, 0}, color.NRGBA{0, 0, 0, 255})
	if got := img.NRGBAAt(0, 5).A; got != 0 {
		t.Errorf("left alpha = %d, want 0", got)
	}
	if got := img.NRGBAAt(99, 5).A; got != 255 {
		t.Errorf("right alpha = %d, want 255", got)
	}
}

func TestGradient_DegenerateGeometry(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		img := VerticalGradient(dims[0], dims[1], Hex("000000"), Hex("ffffff"))
		if got := img.Bounds().Size(); got != image.Pt(1, 1) {
			t.Errorf("VerticalGradient(%d, %d) size = %v, want 1x1", dims[0], dims[1], got)
		}
		if img.NRGBAAt(0, 0).A != 0 {
			t.Error("degenerate gradient should be transparent")
		}
	}
}

func TestRoundedRect_PadsOnePixel(t *testing.T) {
	src := imaging.New(50, 50, color.NRGBA{200, 50, 50, 255})
	out := RoundedRect(src, 12)
	// The canvas is one pixel larger per dimension so anti-aliased corners
	// are not cut off.
	if got := out.Bounds().Size(); got != image.Pt(51, 51) {
		t.Errorf("size = %v, want 51x51", got)
	}
	// Corner pixel is outside the rounded path.
	if out.NRGBAAt(0, 0).A != 0 {
		t.Error("corner should be transparent")
	}
	// Center is opaque source.
	if got := out.NRGBAAt(25, 25); got.A == 0 {
		t.Errorf("center should be opaque, got %v", got)
	}
}

func TestRoundedRect_WithBorder(t *testing.T) {
	src := imaging.New(40, 40, color.NRGBA{0, 0, 0, 255})
	out := RoundedRect(src, 20, WithBorder(3, color.NRGBA{255, 0, 0, 255}))
	if got := out.Bounds().Size(); got != image.Pt(41, 41) {
		t.Errorf("size = %v, want 41x41", got)
	}
	// Edge midpoint sits on the stroke.
	edge := out.NRGBAAt(20, 0)
	if edge.R < 200 {
		t.Errorf("edge should show border color, got %v", edge)
	}
}

func TestProgressBar(t *testing.T) {
	accent := Hex("8ebe56")
	wantSize := image.Pt(ProgressBarWidth+1, ProgressBarHeight+1) // 1px rounding pad

	full := ProgressBar(1, accent)
	if got := full.Bounds().Size(); got != wantSize {
		t.Fatalf("size = %v, want %v", got, wantSize)
	}

	empty := ProgressBar(0, accent)
	if got := empty.Bounds().Size(); got != wantSize {
		t.Fatalf("size = %v, want %v", got, wantSize)
	}

	// Clamped inputs render like the extremes.
	over := ProgressBar(1.5, accent)
	if got := over.Bounds().Size(); got != wantSize {
		t.Fatalf("size = %v, want %v", got, wantSize)
	}

	// A full bar has fill pixels where the empty one has only backdrop.
	x, y := ProgressBarWidth/2, ProgressBarHeight/2
	if full.NRGBAAt(x, y) == empty.NRGBAAt(x, y) {
		t.Error("full and empty bars should differ at the center")
	}
}

func TestProgressBarSized_Degenerate(t *testing.T) {
	img := ProgressBarSized(0.5, Hex("8ebe56"), 0, 0)
	if got := img.Bounds().Size(); got != image.Pt(1, 1) {
		t.Errorf("size = %v, want 1x1", got)
	}
}
