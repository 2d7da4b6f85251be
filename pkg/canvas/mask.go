package canvas

import (
	"image"
	"math"
)

// RoundedMask returns a w×h coverage mask that is opaque inside a rounded
// rectangle and transparent outside it.
//
// radius is clamped to [0, min(w,h)/2]. With radius 0 the mask is fully
// opaque; at the maximum radius the four extreme corner pixels are fully
// transparent. Edge pixels of each arc are anti-aliased by their
// distance to the arc.
func RoundedMask(w, h int, radius float64) *image.Alpha {
	w, h = max(w, 1), max(h, 1)
	m := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}

	r := math.Min(math.Max(radius, 0), float64(min(w, h))/2)
	if r <= 0 {
		return m
	}

	// Only the corner squares need work; the rest stays opaque.
	n := int(math.Ceil(r))
	for dy := 0; dy < n; dy++ {
		for dx := 0; dx < n; dx++ {
			a := cornerCoverage(float64(dx)+0.5, float64(dy)+0.5, r)
			m.Pix[dy*m.Stride+dx] = a
			m.Pix[dy*m.Stride+(w-1-dx)] = a
			m.Pix[(h-1-dy)*m.Stride+dx] = a
			m.Pix[(h-1-dy)*m.Stride+(w-1-dx)] = a
		}
	}
	// Tiny masks at full radius keep some arc coverage in the corner pixel.
	if r >= float64(min(w, h))/2 {
		m.Pix[0] = 0
		m.Pix[w-1] = 0
		m.Pix[(h-1)*m.Stride] = 0
		m.Pix[(h-1)*m.Stride+w-1] = 0
	}
	return m
}

// cornerCoverage returns the mask value of the pixel centered at (px, py)
// measured from the top-left corner, for an arc of radius r.
func cornerCoverage(px, py, r float64) uint8 {
	if px >= r || py >= r {
		return 0xff
	}
	d := math.Hypot(r-px, r-py)
	switch {
	case d <= r-0.5:
		return 0xff
	case d >= r+0.5:
		return 0
	default:
		return uint8(math.Round((r + 0.5 - d) * 255))
	}
}

// ApplyMask multiplies the alpha of b by mask, aligned at the origin. Pixels
// of b outside the mask become transparent.
func ApplyMask(b *Buffer, mask *image.Alpha) {
	mb := mask.Bounds()
	for y := 0; y < b.Height(); y++ {
		row := b.img.Pix[y*b.img.Stride:]
		for x := 0; x < b.Width(); x++ {
			var a uint8
			if image.Pt(x+mb.Min.X, y+mb.Min.Y).In(mb) {
				a = mask.AlphaAt(x+mb.Min.X, y+mb.Min.Y).A
			}
			i := x*4 + 3
			row[i] = uint8((uint32(row[i])*uint32(a) + 127) / 255)
		}
	}
}

// RoundCorners masks b to a rounded rectangle of the given radius in place.
func RoundCorners(b *Buffer, radius float64) {
	ApplyMask(b, RoundedMask(b.Width(), b.Height(), radius))
}
