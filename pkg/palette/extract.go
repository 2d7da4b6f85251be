package palette

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Method selects the palette extraction algorithm.
type Method int

const (
	// MethodDominant uses dominantcolor's weighted buckets. Deterministic.
	MethodDominant Method = iota
	// MethodKMeans clusters subsampled pixels. Cluster seeding is random,
	// so repeated runs may differ slightly.
	MethodKMeans
)

// String returns the flag spelling of m.
func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	default:
		return "dominant"
	}
}

// ParseMethod maps a flag value to a Method. Unknown values select MethodDominant.
func ParseMethod(s string) Method {
	if s == "kmeans" {
		return MethodKMeans
	}
	return MethodDominant
}

// minLabDistance keeps extracted colors visually distinct.
const minLabDistance = 0.12

type weighted struct {
	col    colorful.Color
	weight float64
}

// Extract returns up to k visually distinct colors from img, ordered by weight.
// KMeans falls back to the dominant method when clustering yields nothing.
func Extract(img image.Image, k int, method Method) []Color {
	if k <= 0 || img == nil {
		return nil
	}
	var cands []weighted
	if method == MethodKMeans {
		cands = kmeansCandidates(img, k)
	}
	if len(cands) == 0 {
		cands = dominantCandidates(img, k)
	}
	return selectDistinct(cands, k)
}

func dominantCandidates(img image.Image, k int) []weighted {
	found := dominantcolor.FindWeight(img, max(24, k*8))
	if len(found) == 0 {
		found = append(found, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1,
		})
	}
	out := make([]weighted, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		out = append(out, weighted{col: col.Clamped(), weight: math.Max(c.Weight, 1e-6)})
	}
	return out
}

func kmeansCandidates(img image.Image, k int) []weighted {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Subsample to keep clustering tractable on full-resolution screenshots.
	const maxSamples = 12000
	step := 1
	if w*h > maxSamples {
		step = int(math.Sqrt(float64(w*h)/maxSamples)) + 1
	}

	dataset := make(clusters.Observations, 0, min(w*h, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 0xffff,
				float64(g) / 0xffff,
				float64(bl) / 0xffff,
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(dataset, min(max(k*4, k+2), len(dataset)))
	if err != nil || len(cc) == 0 {
		return nil
	}

	out := make([]weighted, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		out = append(out, weighted{col: col, weight: float64(len(c.Observations))})
	}
	return out
}

// selectDistinct greedily takes the heaviest candidates whose Lab distance to
// every selected color exceeds minLabDistance, topping up with the remaining
// heaviest candidates when fewer than k qualify.
func selectDistinct(cands []weighted, k int) []Color {
	slices.SortStableFunc(cands, func(a, b weighted) int {
		switch {
		case a.weight > b.weight:
			return -1
		case a.weight < b.weight:
			return 1
		}
		return 0
	})

	picked := make([]bool, len(cands))
	var out []colorful.Color
	for i, c := range cands {
		if len(out) == k {
			break
		}
		distinct := true
		for _, p := range out {
			if c.col.DistanceLab(p) < minLabDistance {
				distinct = false
				break
			}
		}
		if distinct {
			out = append(out, c.col)
			picked[i] = true
		}
	}
	for i, c := range cands {
		if len(out) == k {
			break
		}
		if !picked[i] {
			out = append(out, c.col)
		}
	}

	res := make([]Color, len(out))
	for i, c := range out {
		res[i] = FromColorful(c)
	}
	return res
}

// SortByBrightness orders colors from darkest to brightest by luminance.
func SortByBrightness(colors []Color) {
	slices.SortStableFunc(colors, func(a, b Color) int {
		la, lb := a.Luminance(), b.Luminance()
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
}
