package gradient

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// Mesh blob parameters, tuned at the 1290px reference width and scaled
// proportionally for other canvas sizes.
const (
	refWidth      = 1290.0
	blobMinRadius = 400
	blobMaxRadius = 800
	blobPeakAlpha = 40.0
	blobBlur      = 60.0
	// Blobs are blurred at reduced resolution and scaled back up.
	blobDownscale = 4
)

// DefaultBlobs is the blob count used when a config does not set one.
const DefaultBlobs = 4

// Mesh renders a vertical gradient of the first two colors, then composites
// blobs soft radial blobs on top. Blob position, radius and color are drawn
// from rng in that order, so the same rng state reproduces the same image.
// With one color the base is flat; with none it is black.
func Mesh(w, h int, colors []palette.Color, blobs int, rng *rand.Rand) *canvas.Buffer {
	first := palette.At(colors, 0, palette.Black)
	second := palette.At(colors, 1, first)
	buf := Linear(w, h, Even(first, second), Vertical)
	w, h = buf.Width(), buf.Height()
	if len(colors) == 0 || rng == nil {
		return buf
	}

	scale := float64(w) / refWidth
	for range max(blobs, 0) {
		cx := rng.IntN(w + 1)
		cy := rng.IntN(h + 1)
		r := blobMinRadius + rng.IntN(blobMaxRadius-blobMinRadius+1)
		c := colors[rng.IntN(len(colors))]

		radius := max(int(float64(r)*scale), 1)
		orb := blob(radius, blobBlur*scale, c)
		canvas.Composite(buf, orb.Image(), cx-orb.Width()/2, cy-orb.Height()/2)
	}
	return buf
}

// MeshSeeded is [Mesh] with a fresh PCG source for seed.
func MeshSeeded(w, h int, colors []palette.Color, blobs int, seed uint64) *canvas.Buffer {
	return Mesh(w, h, colors, blobs, NewRand(seed))
}

// blob renders one soft orb of the given radius: alpha falls linearly from
// blobPeakAlpha at the center to zero at the rim, then the orb is blurred.
// The returned buffer is square and centered on the orb.
func blob(radius int, sigma float64, c palette.Color) *canvas.Buffer {
	pad := int(math.Ceil(3 * sigma))
	size := 2 * (radius + pad)

	small := max(size/blobDownscale, 1)
	sr := float64(radius) / blobDownscale
	center := float64(small) / 2
	orb := canvas.New(small, small)
	img := orb.Image()
	for y := 0; y < small; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < small; x++ {
			d := math.Hypot(float64(x)+0.5-center, float64(y)+0.5-center)
			if d >= sr {
				continue
			}
			row[x*4], row[x*4+1], row[x*4+2] = c.R, c.G, c.B
			row[x*4+3] = uint8(math.Round(blobPeakAlpha * (1 - d/sr)))
		}
	}
	orb = canvas.Blur(orb, sigma/blobDownscale)
	return canvas.Resample(orb.Image(), size, size, canvas.Linear)
}
