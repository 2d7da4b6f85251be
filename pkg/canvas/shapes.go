package canvas

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// drawShape renders fn onto a transparent gg context covering r and
// composites the result onto dst at r.Min.
func drawShape(dst *Buffer, r image.Rectangle, fn func(dc *gg.Context, w, h float64)) {
	if r.Empty() {
		return
	}
	dc := gg.NewContext(r.Dx(), r.Dy())
	fn(dc, float64(r.Dx()), float64(r.Dy()))
	Composite(dst, dc.Image(), r.Min.X, r.Min.Y)
}

// FillRoundedRect fills r with c using corner radius.
func FillRoundedRect(dst *Buffer, r image.Rectangle, radius float64, c color.Color) {
	drawShape(dst, r, func(dc *gg.Context, w, h float64) {
		dc.SetColor(c)
		if radius > 0 {
			dc.DrawRoundedRectangle(0, 0, w, h, radius)
		} else {
			dc.DrawRectangle(0, 0, w, h)
		}
		dc.Fill()
	})
}

// StrokeRoundedRect outlines r with c. The stroke lies fully inside r.
func StrokeRoundedRect(dst *Buffer, r image.Rectangle, radius, width float64, c color.Color) {
	drawShape(dst, r, func(dc *gg.Context, w, h float64) {
		dc.SetColor(c)
		dc.SetLineWidth(width)
		half := width / 2
		dc.DrawRoundedRectangle(half, half, w-width, h-width, max(radius-half, 0))
		dc.Stroke()
	})
}

// FillEllipse fills the ellipse inscribed in r with c.
func FillEllipse(dst *Buffer, r image.Rectangle, c color.Color) {
	drawShape(dst, r, func(dc *gg.Context, w, h float64) {
		dc.SetColor(c)
		dc.DrawEllipse(w/2, h/2, w/2, h/2)
		dc.Fill()
	})
}

// FillCircle fills a circle of radius around (cx, cy).
func FillCircle(dst *Buffer, cx, cy, radius int, c color.Color) {
	FillEllipse(dst, image.Rect(cx-radius, cy-radius, cx+radius, cy+radius), c)
}

// FillRect fills r with c, blending over existing pixels.
func FillRect(dst *Buffer, r image.Rectangle, c color.Color) {
	drawShape(dst, r, func(dc *gg.Context, w, h float64) {
		dc.SetColor(c)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
	})
}

// HLine draws a horizontal line of the given thickness from x0 to x1 at y.
func HLine(dst *Buffer, x0, x1, y, thickness int, c color.Color) {
	FillRect(dst, image.Rect(x0, y, x1, y+thickness), c)
}
