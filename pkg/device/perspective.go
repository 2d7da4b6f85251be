package device

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/storeshot/pkg/canvas"
)

// Point is a 2D coordinate in pixels.
type Point struct{ X, Y float64 }

// Coeffs are the eight projective coefficients (a..h) mapping a destination
// pixel (x, y) to its source position:
//
//	sx = (a·x + b·y + c) / (g·x + h·y + 1)
//	sy = (d·x + e·y + f) / (g·x + h·y + 1)
type Coeffs [8]float64

// Map applies c to (x, y).
func (c Coeffs) Map(x, y float64) (float64, float64) {
	den := c[6]*x + c[7]*y + 1
	if den == 0 {
		return math.NaN(), math.NaN()
	}
	return (c[0]*x + c[1]*y + c[2]) / den, (c[3]*x + c[4]*y + c[5]) / den
}

// SolveCoeffs finds the projective transform taking each dst corner to the
// matching src corner by least squares over the 8×8 linear system.
func SolveCoeffs(src, dst [4]Point) (Coeffs, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := range 4 {
		s, t := src[i], dst[i]
		a.SetRow(2*i, []float64{t.X, t.Y, 1, 0, 0, 0, -s.X * t.X, -s.X * t.Y})
		a.SetRow(2*i+1, []float64{0, 0, 0, t.X, t.Y, 1, -s.Y * t.X, -s.Y * t.Y})
		b.SetVec(2*i, s.X)
		b.SetVec(2*i+1, s.Y)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Coeffs{}, fmt.Errorf("solve perspective: %w", err)
	}
	var c Coeffs
	for i := range c {
		c[i] = x.AtVec(i)
	}
	return c, nil
}

// Perspective skew per degree, relative to frame size.
const (
	skewXPerDegree = 0.08 / 15
	skewYPerDegree = 0.02 / 5
)

// PerspectiveQuad returns the source quadrilateral sampled into the full
// w×h output for a rotation of rotY degrees around the vertical axis and
// rotX degrees around the horizontal axis. Corners are ordered top-left,
// top-right, bottom-right, bottom-left.
func PerspectiveQuad(w, h int, rotY, rotX float64) [4]Point {
	fw, fh := float64(w), float64(h)
	sx := math.Trunc(fw * skewXPerDegree * rotY)
	sy := math.Trunc(fh * skewYPerDegree * rotX)
	return [4]Point{
		{sx, sy},
		{fw - sx/2, 0},
		{fw, fh - sy},
		{0, fh - sy/2},
	}
}

// Perspective warps frame so that it appears rotated rotY degrees around
// the vertical axis and rotX around the horizontal axis. The output has the
// frame's size; zero rotation returns an identical copy. If the system is
// singular the frame is returned unwarped.
func Perspective(frame *canvas.Buffer, rotY, rotX float64) *canvas.Buffer {
	if rotY == 0 && rotX == 0 {
		return frame.Clone()
	}
	w, h := frame.Width(), frame.Height()
	fw, fh := float64(w), float64(h)
	dst := [4]Point{{0, 0}, {fw, 0}, {fw, fh}, {0, fh}}
	coeffs, err := SolveCoeffs(PerspectiveQuad(w, h, rotY, rotX), dst)
	if err != nil {
		return frame.Clone()
	}

	out := canvas.New(w, h)
	src := frame.Image()
	pix := out.Image()
	for y := 0; y < h; y++ {
		row := pix.Pix[y*pix.Stride:]
		for x := 0; x < w; x++ {
			sx, sy := coeffs.Map(float64(x)+0.5, float64(y)+0.5)
			r, g, b, a := bilinear(src.Pix, src.Stride, w, h, sx-0.5, sy-0.5)
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = r, g, b, a
		}
	}
	return out
}

// bilinear samples a non-premultiplied RGBA buffer at (fx, fy) in pixel
// index space, weighting color by alpha. Samples outside the buffer are
// transparent.
func bilinear(pix []uint8, stride, w, h int, fx, fy float64) (r, g, b, a uint8) {
	if math.IsNaN(fx) || math.IsNaN(fy) || fx <= -1 || fy <= -1 || fx >= float64(w) || fy >= float64(h) {
		return 0, 0, 0, 0
	}
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	var sr, sg, sb, sa float64
	for j := range 2 {
		for i := range 2 {
			x, y := x0+i, y0+j
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			wx := 1 - tx
			if i == 1 {
				wx = tx
			}
			wy := 1 - ty
			if j == 1 {
				wy = ty
			}
			o := y*stride + x*4
			pa := float64(pix[o+3]) * wx * wy
			sr += float64(pix[o]) * pa
			sg += float64(pix[o+1]) * pa
			sb += float64(pix[o+2]) * pa
			sa += pa
		}
	}
	if sa == 0 {
		return 0, 0, 0, 0
	}
	return uint8(math.Round(sr / sa)), uint8(math.Round(sg / sa)), uint8(math.Round(sb / sa)), uint8(math.Round(sa))
}
