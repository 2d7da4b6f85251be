package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Filter selects the resampling kernel used by [Resample].
type Filter int

const (
	Lanczos Filter = iota
	CatmullRom
	Linear
	Nearest
)

func (f Filter) imaging() imaging.ResampleFilter {
	switch f {
	case CatmullRom:
		return imaging.CatmullRom
	case Linear:
		return imaging.Linear
	case Nearest:
		return imaging.NearestNeighbor
	default:
		return imaging.Lanczos
	}
}

// PlaceholderColor fills screenshots that could not be loaded.
var PlaceholderColor = color.NRGBA{R: 40, G: 40, B: 40, A: 255}

// Placeholder size matches a typical device capture's aspect ratio.
const (
	PlaceholderWidth  = 390
	PlaceholderHeight = 844
)

// Resample scales img to exactly w×h. Aspect ratio is the caller's concern.
func Resample(img image.Image, w, h int, f Filter) *Buffer {
	return &Buffer{img: imaging.Resize(img, max(w, 1), max(h, 1), f.imaging())}
}

// FitWidth scales img to width w, preserving its aspect ratio.
func FitWidth(img image.Image, w int, f Filter) *Buffer {
	b := img.Bounds()
	if b.Dx() == 0 {
		return New(w, 1)
	}
	h := int(float64(b.Dy()) * float64(w) / float64(b.Dx()))
	return Resample(img, w, h, f)
}

// Fill scales and center-crops img so it covers exactly w×h.
func Fill(img image.Image, w, h int) *Buffer {
	return &Buffer{img: imaging.Fill(img, max(w, 1), max(h, 1), imaging.Center, imaging.Lanczos)}
}

// Blur returns a Gaussian-blurred copy of b. sigma <= 0 returns a clone.
func Blur(b *Buffer, sigma float64) *Buffer {
	if sigma <= 0 {
		return b.Clone()
	}
	return &Buffer{img: imaging.Blur(b.img, sigma)}
}

// Fade scales the alpha channel of b by factor (clamped to [0,1]) in place.
func Fade(b *Buffer, factor float64) {
	factor = math.Min(math.Max(factor, 0), 1)
	if factor == 1 {
		return
	}
	for y := 0; y < b.Height(); y++ {
		row := b.img.Pix[y*b.img.Stride:]
		for x := 0; x < b.Width(); x++ {
			i := x*4 + 3
			row[i] = uint8(math.Round(float64(row[i]) * factor))
		}
	}
}

// Dim returns a copy of b with color channels multiplied by factor,
// the equivalent of lowering brightness. Alpha is preserved.
func Dim(b *Buffer, factor float64) *Buffer {
	factor = math.Max(factor, 0)
	return &Buffer{img: imaging.AdjustFunc(b.img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: uint8(math.Min(float64(c.R)*factor, 255)),
			G: uint8(math.Min(float64(c.G)*factor, 255)),
			B: uint8(math.Min(float64(c.B)*factor, 255)),
			A: c.A,
		}
	})}
}

// Flatten returns an opaque copy of b composited over backdrop.
func Flatten(b *Buffer, backdrop color.Color) *Buffer {
	out := Filled(b.Width(), b.Height(), backdrop)
	Composite(out, b.img, 0, 0)
	// Float rounding in the blend may leave 254; the result is opaque by definition.
	for i := 3; i < len(out.img.Pix); i += 4 {
		out.img.Pix[i] = 0xff
	}
	return out
}

// Opaque reports whether every pixel of b has full alpha.
func Opaque(b *Buffer) bool {
	for y := 0; y < b.Height(); y++ {
		row := b.img.Pix[y*b.img.Stride:]
		for x := 0; x < b.Width(); x++ {
			if row[x*4+3] != 0xff {
				return false
			}
		}
	}
	return true
}

// Placeholder returns the flat dark fill substituted for a missing screenshot.
func Placeholder(w, h int) *Buffer {
	return Filled(w, h, PlaceholderColor)
}

// Crop returns the part of b inside r, clipped to b's bounds.
func Crop(b *Buffer, r image.Rectangle) *Buffer {
	return &Buffer{img: imaging.Crop(b.img, r)}
}

// AverageColor returns the mean color of b within r (clipped to b),
// ignoring alpha. An empty region yields black.
func AverageColor(b *Buffer, r image.Rectangle) color.NRGBA {
	r = r.Intersect(b.img.Rect)
	if r.Empty() {
		return color.NRGBA{A: 0xff}
	}
	var sr, sg, sb uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.img.Pix[y*b.img.Stride:]
		for x := r.Min.X; x < r.Max.X; x++ {
			sr += uint64(row[x*4])
			sg += uint64(row[x*4+1])
			sb += uint64(row[x*4+2])
		}
	}
	n := uint64(r.Dx() * r.Dy())
	return color.NRGBA{
		R: uint8((sr + n/2) / n),
		G: uint8((sg + n/2) / n),
		B: uint8((sb + n/2) / n),
		A: 0xff,
	}
}
