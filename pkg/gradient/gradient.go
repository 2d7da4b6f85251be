// Package gradient rasterizes background gradients: multi-stop linear
// gradients running vertically or along a diagonal band, and mesh
// backgrounds built from soft radial blobs over a two-stop base.
//
// Mesh randomness always comes from an explicit *rand.Rand. The same seed
// reproduces byte-identical output, and concurrent renders never share a
// random source.
package gradient

import (
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// Direction is the gradient axis.
type Direction int

const (
	// Vertical interpolates top to bottom, one color per scanline.
	Vertical Direction = iota
	// Diagonal interpolates along t = 0.3·x/w + 0.7·y/h.
	Diagonal
	// Radial renders a mesh of soft blobs over a vertical base.
	Radial
)

// ParseDirection maps a config value to a Direction. Unknown values map to Vertical.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "diagonal":
		return Diagonal
	case "radial", "mesh":
		return Radial
	default:
		return Vertical
	}
}

// Stop is a color at a normalized position along the gradient axis.
type Stop struct {
	Color palette.Color
	Pos   float64
}

// Spec describes a complete gradient background.
type Spec struct {
	Stops     []Stop
	Direction Direction
	Blobs     int    // Radial only
	Seed      uint64 // Radial only
	// Rand, when set, replaces Seed as the blob source so a render can keep
	// drawing from one stream.
	Rand *rand.Rand
}

// Even spreads colors at evenly spaced positions from 0 to 1.
func Even(colors ...palette.Color) []Stop {
	stops := make([]Stop, len(colors))
	for i, c := range colors {
		if len(colors) > 1 {
			stops[i].Pos = float64(i) / float64(len(colors)-1)
		}
		stops[i].Color = c
	}
	return stops
}

// Render dispatches spec to [Linear] or [Mesh].
func Render(w, h int, spec Spec) *canvas.Buffer {
	if spec.Direction == Radial {
		colors := make([]palette.Color, len(spec.Stops))
		for i, s := range spec.Stops {
			colors[i] = s.Color
		}
		rng := spec.Rand
		if rng == nil {
			rng = NewRand(spec.Seed)
		}
		return Mesh(w, h, colors, spec.Blobs, rng)
	}
	return Linear(w, h, spec.Stops, spec.Direction)
}

// NewRand returns the PCG source used for reproducible renders.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// normalize returns a copy of stops with positions clamped to [0,1] and made
// non-decreasing. When every position is zero the stops are spread evenly.
func normalize(stops []Stop) []Stop {
	out := make([]Stop, len(stops))
	copy(out, stops)

	omitted := true
	for _, s := range out {
		if s.Pos != 0 {
			omitted = false
			break
		}
	}
	if omitted && len(out) > 1 {
		for i := range out {
			out[i].Pos = float64(i) / float64(len(out)-1)
		}
		return out
	}

	prev := 0.0
	for i := range out {
		p := min(max(out[i].Pos, 0), 1)
		if p < prev {
			p = prev
		}
		out[i].Pos, prev = p, p
	}
	return out
}

// At returns the gradient color at position t for normalized stops. The
// bracketing pair is searched for any stop count.
func At(stops []Stop, t float64) palette.Color {
	switch len(stops) {
	case 0:
		return palette.Black
	case 1:
		return stops[0].Color
	}
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Pos {
		return last.Color
	}
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if t > b.Pos {
			continue
		}
		span := b.Pos - a.Pos
		if span <= 0 {
			return b.Color
		}
		return palette.Lerp(a.Color, b.Color, (t-a.Pos)/span)
	}
	return last.Color
}
