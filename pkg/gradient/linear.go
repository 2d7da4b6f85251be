package gradient

import (
	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// Diagonal band weights.
const (
	diagX = 0.3
	diagY = 0.7
)

// Linear renders an opaque w×h gradient.
//
// Vertical gradients compute one color per scanline at position y/(h-1), so
// row 0 is the first stop and row h-1 the last. Diagonal gradients compute
// t = 0.3·x/w + 0.7·y/h per pixel. Radial is not a linear direction and
// renders as Vertical.
func Linear(w, h int, stops []Stop, dir Direction) *canvas.Buffer {
	buf := canvas.New(w, h)
	w, h = buf.Width(), buf.Height()
	stops = normalize(stops)
	img := buf.Image()

	if dir != Diagonal {
		for y := 0; y < h; y++ {
			t := 0.0
			if h > 1 {
				t = float64(y) / float64(h-1)
			}
			fillRow(img.Pix[y*img.Stride:y*img.Stride+w*4], At(stops, t))
		}
		return buf
	}

	for y := 0; y < h; y++ {
		ty := diagY * float64(y) / float64(h)
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			c := At(stops, diagX*float64(x)/float64(w)+ty)
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, 0xff
		}
	}
	return buf
}

func fillRow(row []uint8, c palette.Color) {
	if len(row) < 4 {
		return
	}
	row[0], row[1], row[2], row[3] = c.R, c.G, c.B, 0xff
	for filled := 4; filled < len(row); filled *= 2 {
		copy(row[filled:], row[:filled])
	}
}
