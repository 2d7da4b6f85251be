// Package palette provides the color primitives of the composition engine:
// hex parsing, interpolation, perceptual luminance and palette extraction
// from screenshots.
//
// Colors are opaque 8-bit RGB triples. Transparency is a property of the
// raster buffers in package canvas, never of a palette entry.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/storeshot/pkg/errors"
)

// Color is an opaque RGB color with 8-bit channels.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
	// Ink is the dark text color chosen by auto-contrast on light backgrounds.
	Ink = Color{30, 30, 30}
)

// Parse converts a 6-digit hex string (optionally prefixed with '#') into a Color.
// Anything else fails with ErrCodeInvalidColorFormat.
func Parse(hex string) (Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return Color{}, errors.New(errors.ErrCodeInvalidColorFormat, "invalid color %q: want 6 hex digits", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, errors.New(errors.ErrCodeInvalidColorFormat, "invalid color %q: non-hex digit", hex)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParse is like Parse but panics on error. Use it for compile-time constants only.
func MustParse(hex string) Color {
	c, err := Parse(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseAll parses an ordered list of hex colors, stopping at the first invalid entry.
func ParseAll(hexes []string) ([]Color, error) {
	out := make([]Color, 0, len(hexes))
	for i, h := range hexes {
		c, err := Parse(h)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Hex returns the lowercase "#rrggbb" form of c.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// NRGBA returns c as a non-premultiplied color with the given alpha.
func (c Color) NRGBA(alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// RGBA implements color.Color; the result is always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// FromColor converts any color.Color to an opaque Color, dropping alpha.
func FromColor(cc color.Color) Color {
	n := color.NRGBAModel.Convert(cc).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B}
}

// Colorful returns c in go-colorful's float representation.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// FromColorful converts a (clamped) go-colorful color back to 8-bit channels.
func FromColorful(cf colorful.Color) Color {
	r, g, b := cf.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Lerp interpolates each channel linearly from c1 (t=0) to c2 (t=1).
// t is clamped to [0,1] and channels are rounded to the nearest integer,
// so the endpoints are reproduced exactly.
func Lerp(c1, c2 Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: lerp8(c1.R, c2.R, t),
		G: lerp8(c1.G, c2.G, t),
		B: lerp8(c1.B, c2.B, t),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// Luminance returns the perceptual luminance 0.299R + 0.587G + 0.114B
// normalized to [0,1].
func (c Color) Luminance() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// Darken scales every channel by (1-amount), amount clamped to [0,1].
func (c Color) Darken(amount float64) Color {
	return Lerp(c, Black, amount)
}

// Lighten moves every channel toward white by amount, clamped to [0,1].
func (c Color) Lighten(amount float64) Color {
	return Lerp(c, White, amount)
}

// At returns colors[i mod len(colors)], or fallback when colors is empty.
func At(colors []Color, i int, fallback Color) Color {
	if len(colors) == 0 {
		return fallback
	}
	if i < 0 {
		i = -i
	}
	return colors[i%len(colors)]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
