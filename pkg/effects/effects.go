// Package effects generates the soft light layers placed around composited
// elements: drop shadows, radial glows and depth-of-field treatment for
// parallax layers.
//
// Every generator returns a fresh [canvas.Buffer]. Shadow buffers are larger
// than the shape that casts them; use [Anchor] to find where the caster's
// top-left corner sits inside the shadow buffer.
package effects

import (
	"image"
	"math"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// ShapeKind is the outline of a shadow caster.
type ShapeKind int

const (
	RoundedRect ShapeKind = iota
	Ellipse
)

// Shape is the bounds of an element casting a shadow or glow.
type Shape struct {
	Kind   ShapeKind
	W, H   int
	Radius float64 // RoundedRect only
}

// Kind selects the generator used by [Render].
type Kind int

const (
	KindShadow Kind = iota
	KindGlow
)

// Spec describes one effect layer.
type Spec struct {
	Kind    Kind
	Shape   Shape
	Blur    int
	Opacity uint8
	Color   palette.Color
	Offset  image.Point
	// Intensity scales glow alpha; ignored for shadows.
	Intensity float64
}

// Render dispatches spec to the matching generator.
func Render(spec Spec) *canvas.Buffer {
	if spec.Kind == KindGlow {
		return GlowBlur(spec.Shape.W, spec.Shape.H, spec.Color, spec.Intensity, float64(spec.Blur))
	}
	return ShadowColor(spec.Shape, spec.Blur, spec.Opacity, spec.Offset, spec.Color)
}

// Shadow renders a black drop shadow for shape. See [ShadowColor].
func Shadow(shape Shape, blur int, opacity uint8, offset image.Point) *canvas.Buffer {
	return ShadowColor(shape, blur, opacity, offset, palette.Black)
}

// ShadowColor draws shape fully opaque in c, padded by 2·blur on every side
// and shifted by offset, blurs it, then scales alpha by opacity/255.
//
// The buffer is exactly shape.W + 4·blur wide and shape.H + 4·blur high.
// The offset moves the shape inside the padding and is clamped to ±2·blur
// per axis. Negative blur is treated as zero.
func ShadowColor(shape Shape, blur int, opacity uint8, offset image.Point, c palette.Color) *canvas.Buffer {
	blur = max(blur, 0)
	pad := 2 * blur
	buf := canvas.New(shape.W+2*pad, shape.H+2*pad)

	o := clampOffset(offset, pad)
	r := image.Rect(0, 0, shape.W, shape.H).Add(image.Pt(pad+o.X, pad+o.Y))
	fill := c.NRGBA(0xff)
	switch shape.Kind {
	case Ellipse:
		canvas.FillEllipse(buf, r, fill)
	default:
		canvas.FillRoundedRect(buf, r, shape.Radius, fill)
	}

	if blur > 0 {
		buf = canvas.Blur(buf, float64(blur))
	}
	canvas.Fade(buf, float64(opacity)/255)
	return buf
}

// Anchor returns the position of the casting element's top-left corner
// inside a shadow buffer built with the same blur. Composite the shadow at
// elementPos.Sub(Anchor(blur)); the offset is already inside the buffer.
func Anchor(blur int) image.Point {
	pad := 2 * max(blur, 0)
	return image.Pt(pad, pad)
}

func clampOffset(p image.Point, limit int) image.Point {
	return image.Pt(min(max(p.X, -limit), limit), min(max(p.Y, -limit), limit))
}

// Falloff returns the glow alpha (0-255 scale) at normalized radius
// rn = r/R: 255·intensity·(1−rn)². It is zero at and beyond the rim and
// non-increasing in rn. intensity is clamped to [0,1].
func Falloff(rn, intensity float64) float64 {
	if rn >= 1 {
		return 0
	}
	rn = math.Max(rn, 0)
	intensity = math.Min(math.Max(intensity, 0), 1)
	return 255 * intensity * (1 - rn) * (1 - rn)
}

// DefaultGlowBlur returns the blur sigma [Glow] uses for a w×h glow.
func DefaultGlowBlur(w, h int) float64 {
	return float64(min(w, h)) / 16
}

// Glow renders a w×h elliptical glow of color c using [Falloff] measured
// from the center, then blurs it with [DefaultGlowBlur].
func Glow(w, h int, c palette.Color, intensity float64) *canvas.Buffer {
	return GlowBlur(w, h, c, intensity, DefaultGlowBlur(w, h))
}

// GlowBlur is [Glow] with an explicit blur sigma.
func GlowBlur(w, h int, c palette.Color, intensity, sigma float64) *canvas.Buffer {
	buf := canvas.New(w, h)
	w, h = buf.Width(), buf.Height()
	img := buf.Image()
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		ny := (float64(y) + 0.5 - cy) / cy
		for x := 0; x < w; x++ {
			nx := (float64(x) + 0.5 - cx) / cx
			a := Falloff(math.Hypot(nx, ny), intensity)
			if a <= 0 {
				continue
			}
			row[x*4], row[x*4+1], row[x*4+2] = c.R, c.G, c.B
			row[x*4+3] = uint8(math.Round(a))
		}
	}
	return canvas.Blur(buf, sigma)
}

// Level is the parallax depth of an element.
type Level int

const (
	Front Level = iota
	Mid
	Back
)

// Depth treatment for background elements.
const (
	BackAlpha = 0.4
	BackBlur  = 3.0
)

// Depth returns buf adjusted for its parallax level. Back elements get alpha
// scaled by BackAlpha and a BackBlur blur; other levels are returned
// untouched (the same buffer, not a copy).
func Depth(buf *canvas.Buffer, level Level) *canvas.Buffer {
	if level != Back {
		return buf
	}
	out := canvas.Blur(buf, BackBlur)
	canvas.Fade(out, BackAlpha)
	return out
}
