package effects

import (
	"fmt"
	"image"
	"testing"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/palette"
)

func TestShadowSize(t *testing.T) {
	tests := []struct {
		name   string
		shape  Shape
		blur   int
		offset image.Point
		wantW  int
		wantH  int
	}{
		{"no offset", Shape{W: 100, H: 50, Radius: 20}, 10, image.Point{}, 140, 90},
		{"downward offset", Shape{W: 100, H: 50, Radius: 20}, 10, image.Pt(0, 15), 140, 90},
		{"negative offset", Shape{W: 100, H: 50}, 5, image.Pt(-8, -3), 120, 70},
		{"offset beyond padding", Shape{W: 100, H: 50}, 5, image.Pt(40, -40), 120, 70},
		{"ellipse", Shape{Kind: Ellipse, W: 60, H: 60}, 25, image.Point{}, 160, 160},
		{"zero blur", Shape{W: 30, H: 20}, 0, image.Point{}, 30, 20},
		{"negative blur clamps", Shape{W: 30, H: 20}, -4, image.Point{}, 30, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Shadow(tt.shape, tt.blur, 80, tt.offset)
			if got.Width() != tt.wantW || got.Height() != tt.wantH {
				t.Errorf("Shadow() size = %dx%d, want %dx%d", got.Width(), got.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestShadowPlacement(t *testing.T) {
	tests := []struct {
		name   string
		offset image.Point
		body   image.Point // inside the shifted shape
		empty  image.Point // inside the padding, outside the shape
	}{
		{"downward", image.Pt(0, 6), image.Pt(28, 34), image.Pt(28, 8)},
		{"upward left", image.Pt(-6, -4), image.Pt(22, 24), image.Pt(48, 28)},
		{"clamped to padding", image.Pt(0, 99), image.Pt(28, 40), image.Pt(28, 10)},
	}

	// 40x40 shape, blur 4: 56x56 buffer, offsets clamp at ±8.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := ShadowColor(Shape{W: 40, H: 40}, 4, 255, tt.offset, palette.Black)
			if buf.Width() != 56 || buf.Height() != 56 {
				t.Fatalf("size = %v, want 56x56", buf.Size())
			}
			if got := buf.At(tt.body.X, tt.body.Y).A; got < 200 {
				t.Errorf("alpha at %v = %d, want shadow body", tt.body, got)
			}
			if got := buf.At(tt.empty.X, tt.empty.Y).A; got > 60 {
				t.Errorf("alpha at %v = %d, want mostly transparent", tt.empty, got)
			}
		})
	}

	for _, blur := range []int{-3, 0, 3, 20} {
		want := 2 * max(blur, 0)
		if got := Anchor(blur); got != image.Pt(want, want) {
			t.Errorf("Anchor(%d) = %v, want (%d,%d)", blur, got, want, want)
		}
	}
}

func TestShadowOpacity(t *testing.T) {
	buf := Shadow(Shape{W: 40, H: 40}, 0, 80, image.Point{})
	if got := buf.At(20, 20).A; got != 80 {
		t.Errorf("alpha = %d, want 80", got)
	}

	blurred := Shadow(Shape{W: 40, H: 40, Radius: 10}, 8, 60, image.Point{})
	if got := blurred.At(0, 0).A; got > 5 {
		t.Errorf("padding corner alpha = %d, want near zero", got)
	}
	center := blurred.Width() / 2
	if got := blurred.At(center, center).A; got < 50 || got > 60 {
		t.Errorf("center alpha = %d, want close to 60", got)
	}
}

func TestFalloff(t *testing.T) {
	tests := []struct {
		rn, intensity float64
		want          float64
	}{
		{0, 1, 255},
		{0.5, 1, 63.75},
		{0.5, 0.5, 31.875},
		{1, 1, 0},
		{2, 1, 0},
		{-1, 1, 255},
		{0, 3, 255},
	}
	for _, tt := range tests {
		if got := Falloff(tt.rn, tt.intensity); got != tt.want {
			t.Errorf("Falloff(%v, %v) = %v, want %v", tt.rn, tt.intensity, got, tt.want)
		}
	}

	prev := Falloff(0, 0.8)
	for i := 1; i <= 200; i++ {
		v := Falloff(float64(i)/100, 0.8)
		if v > prev {
			t.Fatalf("Falloff increased at rn=%v: %v > %v", float64(i)/100, v, prev)
		}
		prev = v
	}
}

func TestGlowMonotonic(t *testing.T) {
	c := palette.MustParse("#4361ee")
	for _, g := range []*canvas.Buffer{
		GlowBlur(101, 101, c, 0.6, 0),
		Glow(160, 120, c, 0.6),
	} {
		cx, cy := g.Width()/2, g.Height()/2
		if g.At(cx, cy).A == 0 {
			t.Fatal("glow center is transparent")
		}
		prev := g.At(cx, cy).A
		for x := cx + 1; x < g.Width(); x++ {
			a := g.At(x, cy).A
			if int(a) > int(prev)+1 {
				t.Fatalf("alpha increased at x=%d: %d > %d", x, a, prev)
			}
			prev = a
		}
		prev = g.At(cx, cy).A
		for y := cy - 1; y >= 0; y-- {
			a := g.At(cx, y).A
			if int(a) > int(prev)+1 {
				t.Fatalf("alpha increased at y=%d: %d > %d", y, a, prev)
			}
			prev = a
		}
	}
}

func TestGlowColor(t *testing.T) {
	c := palette.MustParse("#7209b7")
	g := GlowBlur(51, 51, c, 1, 0)
	if got := palette.FromColor(g.At(25, 25)); got != c {
		t.Errorf("glow color = %v, want %v", got, c)
	}
	if got := g.At(0, 0).A; got != 0 {
		t.Errorf("corner alpha = %d, want 0", got)
	}
}

func TestDepth(t *testing.T) {
	red := palette.Color{R: 255}.NRGBA(255)
	buf := canvas.Filled(20, 20, red)

	if got := Depth(buf, Front); got != buf {
		t.Error("Depth(Front) should return the buffer untouched")
	}
	if got := Depth(buf, Mid); got != buf {
		t.Error("Depth(Mid) should return the buffer untouched")
	}

	back := Depth(buf, Back)
	if back == buf {
		t.Fatal("Depth(Back) should return a new buffer")
	}
	if got := back.At(10, 10).A; got != 102 {
		t.Errorf("back alpha = %d, want 102", got)
	}
	if got := buf.At(10, 10).A; got != 255 {
		t.Errorf("Depth(Back) modified its input: alpha = %d", got)
	}
}

func TestRender(t *testing.T) {
	s := Render(Spec{Kind: KindShadow, Shape: Shape{W: 10, H: 10}, Blur: 2, Opacity: 100})
	if s.Width() != 18 {
		t.Errorf("shadow width = %d, want 18", s.Width())
	}
	g := Render(Spec{Kind: KindGlow, Shape: Shape{W: 30, H: 20}, Intensity: 0.5, Color: palette.White})
	if g.Width() != 30 || g.Height() != 20 {
		t.Errorf("glow size = %v, want 30x20", g.Size())
	}
}

func ExampleShadow() {
	s := Shadow(Shape{W: 300, H: 600, Radius: 55}, 20, 60, image.Pt(0, 15))
	fmt.Println(s.Width(), s.Height(), Anchor(20))
	// Output: 380 680 (40,40)
}
