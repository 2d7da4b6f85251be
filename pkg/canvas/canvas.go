// Package canvas provides the raster buffer and the compositing primitives
// every other rendering package builds on.
//
// A [Buffer] owns one non-premultiplied RGBA image of fixed size. Operations
// either return a new Buffer or mutate exactly one receiver in place; two
// Buffers never share pixel memory.
//
// # Compositing
//
// [Composite] alpha-blends a source image onto a Buffer at an offset. Sources
// that extend past the destination, partially or completely, are clipped
// silently:
//
//	bg := canvas.Filled(1290, 2796, color.Black)
//	canvas.Composite(bg, shot, -40, 900) // left edge is clipped
//
// # Masks
//
// [RoundedMask] builds an 8-bit coverage mask for a rounded rectangle and
// [ApplyMask] multiplies a Buffer's alpha by it. Decorative shapes (pills,
// cards, circles) are drawn with fogleman/gg through [FillRoundedRect],
// [FillEllipse] and friends.
package canvas

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Buffer is an owned RGBA pixel grid.
type Buffer struct {
	img *image.NRGBA
}

// New returns a fully transparent w×h buffer. Non-positive sizes yield 1×1.
func New(w, h int) *Buffer {
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))}
}

// Filled returns a w×h buffer filled with c.
func Filled(w, h int, c color.Color) *Buffer {
	return &Buffer{img: imaging.New(max(w, 1), max(h, 1), c)}
}

// FromImage copies img into a new buffer anchored at the origin.
func FromImage(img image.Image) *Buffer {
	return &Buffer{img: imaging.Clone(img)}
}

// Image exposes the underlying pixels. Callers may draw into it; the Buffer
// remains the owner.
func (b *Buffer) Image() *image.NRGBA { return b.img }

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the buffer rectangle, always anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// Size returns the buffer dimensions as a point.
func (b *Buffer) Size() image.Point { return b.img.Rect.Size() }

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) color.NRGBA { return b.img.NRGBAAt(x, y) }

// Set writes the pixel at (x, y). Out-of-range coordinates are ignored.
func (b *Buffer) Set(x, y int, c color.NRGBA) { b.img.SetNRGBA(x, y, c) }

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{img: imaging.Clone(b.img)}
}

// Clone copies any image into a new buffer. It is the package-level form of
// [Buffer.Clone] for callers holding a plain image.Image.
func Clone(img image.Image) *Buffer { return FromImage(img) }

// Equal reports whether a and b have identical size and pixels.
func Equal(a, b *Buffer) bool {
	if a.img.Rect != b.img.Rect {
		return false
	}
	for y := 0; y < a.Height(); y++ {
		ra := a.img.Pix[y*a.img.Stride : y*a.img.Stride+a.Width()*4]
		rb := b.img.Pix[y*b.img.Stride : y*b.img.Stride+b.Width()*4]
		if string(ra) != string(rb) {
			return false
		}
	}
	return true
}

// Composite alpha-blends src onto dst with its top-left corner at (x, y)
// using source-over. Any part of src outside dst is clipped; a fully
// out-of-bounds src leaves dst unchanged.
func Composite(dst *Buffer, src image.Image, x, y int) {
	CompositeOpacity(dst, src, x, y, 1)
}

// CompositeOpacity is like [Composite] but scales src alpha by opacity,
// clamped to [0,1].
func CompositeOpacity(dst *Buffer, src image.Image, x, y int, opacity float64) {
	if src == nil || opacity <= 0 {
		return
	}
	sb := src.Bounds()
	if !image.Rect(x, y, x+sb.Dx(), y+sb.Dy()).Overlaps(dst.img.Rect) {
		return
	}
	dst.img = imaging.Overlay(dst.img, src, image.Pt(x, y), opacity)
}

// CompositeCentered composites src horizontally centered on dst with its top
// edge at y.
func CompositeCentered(dst *Buffer, src image.Image, y int) {
	Composite(dst, src, (dst.Width()-src.Bounds().Dx())/2, y)
}

// Paste copies src onto dst at (x, y) replacing pixels, alpha included.
func Paste(dst *Buffer, src image.Image, x, y int) {
	dst.img = imaging.Paste(dst.img, src, image.Pt(x, y))
}
