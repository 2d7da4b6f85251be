package device

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/matzehuels/storeshot/pkg/canvas"
)

// Tilt shape parameters.
const (
	shearPerDegree = 0.01
	liftRatio      = 0.3
	scalePerDegree = 0.005
	minTiltScale   = 0.5
)

// TiltMatrix returns the forward (source to destination) linear part of the
// tilt transform for angle degrees, without translation. The shear is
// s = angle/100 with a vertical lift of 0.3·s, scaled by 1 − 0.005·|angle|.
func TiltMatrix(angle float64) (a, b, c, d float64) {
	s := angle * shearPerDegree
	k := math.Max(1-scalePerDegree*math.Abs(angle), minTiltScale)
	det := 1 + liftRatio*s*s
	return k / det, -s * k / det, liftRatio * s * k / det, k / det
}

// Tilt shears frame to simulate a rotated phone. The output canvas grows to
// hold the whole transformed frame. Angle 0 returns an identical copy with
// zero padding; negating the angle mirrors the skew.
func Tilt(frame *canvas.Buffer, angle float64) *canvas.Buffer {
	if angle == 0 {
		return frame.Clone()
	}
	a, b, c, d := TiltMatrix(angle)

	w, h := float64(frame.Width()), float64(frame.Height())
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x := a*p[0] + b*p[1]
		y := c*p[0] + d*p[1]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	dw := int(math.Ceil(maxX - minX))
	dh := int(math.Ceil(maxY - minY))
	dst := image.NewRGBA(image.Rect(0, 0, max(dw, 1), max(dh, 1)))
	s2d := f64.Aff3{
		a, b, -minX,
		c, d, -minY,
	}
	draw.CatmullRom.Transform(dst, s2d, frame.Image(), frame.Bounds(), draw.Src, nil)
	return canvas.FromImage(dst)
}
