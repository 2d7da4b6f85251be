package canvas

import (
	"fmt"
	"image"
	"image/color"
	"testing"
)

var red = color.NRGBA{R: 255, A: 255}

func TestCompositeClipping(t *testing.T) {
	src := Filled(10, 10, red)

	tests := []struct {
		name     string
		x, y     int
		inside   image.Point
		outside  image.Point
		wantSame bool
	}{
		{"fully inside", 5, 5, image.Pt(5, 5), image.Pt(4, 4), false},
		{"bottom right overflow", 15, 15, image.Pt(19, 19), image.Pt(14, 14), false},
		{"top left overflow", -5, -5, image.Pt(0, 0), image.Pt(5, 5), false},
		{"fully right", 20, 0, image.Point{}, image.Point{}, true},
		{"fully above", 0, -10, image.Point{}, image.Point{}, true},
		{"far away", -1000, 5000, image.Point{}, image.Point{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := New(20, 20)
			before := dst.Clone()
			Composite(dst, src.Image(), tt.x, tt.y)

			if dst.Width() != 20 || dst.Height() != 20 {
				t.Fatalf("Composite changed size to %v", dst.Size())
			}
			if tt.wantSame {
				if !Equal(dst, before) {
					t.Error("out-of-bounds Composite modified dst")
				}
				return
			}
			if got := dst.At(tt.inside.X, tt.inside.Y); got != red {
				t.Errorf("At(%v) = %v, want %v", tt.inside, got, red)
			}
			if got := dst.At(tt.outside.X, tt.outside.Y); got.A != 0 {
				t.Errorf("At(%v) = %v, want transparent", tt.outside, got)
			}
		})
	}
}

func TestCompositeBlend(t *testing.T) {
	dst := Filled(4, 4, color.NRGBA{B: 255, A: 255})
	half := Filled(4, 4, color.NRGBA{R: 255, A: 128})
	Composite(dst, half.Image(), 0, 0)

	got := dst.At(1, 1)
	if got.A < 254 {
		t.Errorf("alpha = %d, want opaque", got.A)
	}
	if got.R < 120 || got.R > 136 || got.B < 120 || got.B > 136 {
		t.Errorf("blend = %v, want roughly half red half blue", got)
	}
}

func TestRoundedMask(t *testing.T) {
	t.Run("radius zero is fully opaque", func(t *testing.T) {
		m := RoundedMask(50, 30, 0)
		for i, a := range m.Pix {
			if a != 0xff {
				t.Fatalf("Pix[%d] = %d, want 255", i, a)
			}
		}
	})

	sizes := []struct{ w, h int }{{100, 60}, {60, 100}, {7, 7}, {2, 2}, {3, 9}}
	for _, s := range sizes {
		for _, r := range []float64{float64(min(s.w, s.h)) / 2, 1e6} {
			t.Run(fmt.Sprintf("%dx%d radius %.0f", s.w, s.h, r), func(t *testing.T) {
				m := RoundedMask(s.w, s.h, r)
				corners := []image.Point{{0, 0}, {s.w - 1, 0}, {0, s.h - 1}, {s.w - 1, s.h - 1}}
				for _, c := range corners {
					if a := m.AlphaAt(c.X, c.Y).A; a != 0 {
						t.Errorf("corner %v alpha = %d, want 0", c, a)
					}
				}
				if min(s.w, s.h) < 3 {
					return
				}
				if a := m.AlphaAt(s.w/2, s.h/2).A; a != 0xff {
					t.Errorf("center alpha = %d, want 255", a)
				}
			})
		}
	}

	t.Run("mid radius keeps edges opaque", func(t *testing.T) {
		m := RoundedMask(100, 100, 20)
		if a := m.AlphaAt(50, 0).A; a != 0xff {
			t.Errorf("top edge center alpha = %d, want 255", a)
		}
		if a := m.AlphaAt(0, 0).A; a != 0 {
			t.Errorf("corner alpha = %d, want 0", a)
		}
	})
}

func TestApplyMask(t *testing.T) {
	b := Filled(40, 40, red)
	RoundCorners(b, 20)
	if a := b.At(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if got := b.At(20, 20); got != red {
		t.Errorf("center = %v, want %v", got, red)
	}
}

func TestResample(t *testing.T) {
	src := Filled(100, 50, red)
	for _, f := range []Filter{Lanczos, CatmullRom, Linear, Nearest} {
		got := Resample(src.Image(), 30, 90, f)
		if got.Width() != 30 || got.Height() != 90 {
			t.Errorf("filter %d: size = %v, want 30x90", f, got.Size())
		}
	}

	fit := FitWidth(src.Image(), 50, Lanczos)
	if fit.Width() != 50 || fit.Height() != 25 {
		t.Errorf("FitWidth size = %v, want 50x25", fit.Size())
	}
}

func TestFade(t *testing.T) {
	b := Filled(2, 2, red)
	Fade(b, 0.4)
	if a := b.At(0, 0).A; a != 102 {
		t.Errorf("alpha = %d, want 102", a)
	}
	Fade(b, -1)
	if a := b.At(0, 0).A; a != 0 {
		t.Errorf("alpha = %d, want 0", a)
	}
}

func TestFlatten(t *testing.T) {
	b := New(10, 10)
	FillRect(b, image.Rect(0, 0, 5, 10), red)
	out := Flatten(b, color.Black)
	if !Opaque(out) {
		t.Fatal("Flatten() result is not opaque")
	}
	if got := out.At(8, 5); got != (color.NRGBA{A: 255}) {
		t.Errorf("backdrop pixel = %v, want black", got)
	}
	if got := out.At(2, 5); got.R < 250 {
		t.Errorf("shape pixel = %v, want red", got)
	}
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder(PlaceholderWidth, PlaceholderHeight)
	if p.Width() != 390 || p.Height() != 844 {
		t.Errorf("size = %v", p.Size())
	}
	if got := p.At(100, 100); got != PlaceholderColor {
		t.Errorf("fill = %v, want %v", got, PlaceholderColor)
	}
}

func TestAverageColor(t *testing.T) {
	b := Filled(10, 10, color.NRGBA{R: 100, G: 50, B: 0, A: 255})
	FillRect(b, image.Rect(0, 0, 5, 10), color.NRGBA{R: 200, G: 150, B: 100, A: 255})
	got := AverageColor(b, b.Bounds())
	want := color.NRGBA{R: 150, G: 100, B: 50, A: 255}
	if got != want {
		t.Errorf("AverageColor() = %v, want %v", got, want)
	}
	if got := AverageColor(b, image.Rect(50, 50, 60, 60)); got != (color.NRGBA{A: 255}) {
		t.Errorf("AverageColor(outside) = %v, want black", got)
	}
}

func TestFillShapes(t *testing.T) {
	b := New(100, 100)
	FillEllipse(b, image.Rect(10, 10, 90, 90), red)
	if got := b.At(50, 50); got != red {
		t.Errorf("ellipse center = %v, want %v", got, red)
	}
	if got := b.At(11, 11); got.A != 0 {
		t.Errorf("ellipse bbox corner = %v, want transparent", got)
	}

	FillRoundedRect(b, image.Rect(0, 0, 40, 20), 10, color.White)
	if got := b.At(20, 10); got.R != 255 || got.A != 255 {
		t.Errorf("rounded rect center = %v, want white", got)
	}
}

func ExampleComposite() {
	bg := Filled(100, 100, color.Black)
	badge := Filled(30, 30, color.White)
	Composite(bg, badge.Image(), 85, 85) // lower-right corner is clipped
	fmt.Println(bg.At(99, 99).R, bg.At(84, 84).R)
	// Output: 255 0
}
