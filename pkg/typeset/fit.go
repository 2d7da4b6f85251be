// Package typeset lays out and draws headline, subtitle and label text.
//
// [AutoFit] searches for the largest font size at which text fits a width,
// [Wrap] breaks text into lines, [AutoContrast] picks a legible text color
// for a background, and [Render] combines them to draw a [Block] onto a
// canvas. Fonts come from an injected [fonts.Provider].
package typeset

import (
	"strings"

	"golang.org/x/image/font"

	"github.com/matzehuels/storeshot/pkg/errors"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// SizeStep is the decrement between candidate sizes in AutoFit.
const SizeStep = 5

// MinFontSize is the smallest size AutoFit will return.
const MinFontSize = 1

// Fit is the outcome of a size search.
type Fit struct {
	Face font.Face
	Size float64
}

// Measure returns the advance width in pixels of the widest line of text.
func Measure(face font.Face, text string) int {
	w := 0
	for _, line := range strings.Split(text, "\n") {
		w = max(w, font.MeasureString(face, line).Ceil())
	}
	return w
}

// AutoFit tries sizes start, start−5, start−10, … and returns the first
// whose widest line measures ≤ maxWidth. Sizes never go below minSize,
// which is itself raised to [MinFontSize].
//
// If even minSize is too wide, AutoFit returns the minSize face together
// with an ErrCodeTextDoesNotFit error. Callers may draw with that face
// anyway; the error only records that the text overflows.
func AutoFit(p fonts.Provider, text string, maxWidth int, start, minSize float64, weight fonts.Weight) (Fit, error) {
	minSize = max(minSize, MinFontSize)
	start = max(start, minSize)
	for size := start; size > minSize; size -= SizeStep {
		face, err := p.Face(size, weight)
		if err != nil {
			return Fit{}, err
		}
		if Measure(face, text) <= maxWidth {
			return Fit{Face: face, Size: size}, nil
		}
	}

	face, err := p.Face(minSize, weight)
	if err != nil {
		return Fit{}, err
	}
	fit := Fit{Face: face, Size: minSize}
	if w := Measure(face, text); w > maxWidth {
		return fit, errors.New(errors.ErrCodeTextDoesNotFit,
			"%q is %dpx wide at minimum size %.0f, limit %dpx", text, w, minSize, maxWidth)
	}
	return fit, nil
}

// AutoContrast returns white text for backgrounds with luminance below 0.5
// and dark ink otherwise. Luminance exactly 0.5 picks dark.
func AutoContrast(bg palette.Color) palette.Color {
	return ForLuminance(bg.Luminance())
}

// ForLuminance is AutoContrast for a precomputed luminance in [0,1].
func ForLuminance(l float64) palette.Color {
	if l < 0.5 {
		return palette.White
	}
	return palette.Ink
}

// Wrap breaks text into lines no wider than maxWidth, splitting at spaces.
// Explicit newlines always break. A single word wider than maxWidth gets a
// line of its own.
func Wrap(face font.Face, text string, maxWidth int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			trial := current + " " + word
			if font.MeasureString(face, trial).Ceil() <= maxWidth {
				current = trial
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	return lines
}
