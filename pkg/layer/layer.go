// Package layer defines layer recipes: ordered lists of drawing steps that a
// style emits and the pipeline composites.
//
// Layers are drawn strictly in ascending Z. Layers with equal Z keep the
// order in which they were added. Z values fall into three bands that match
// the pipeline phases:
//
//	[0, ZBackGlow)     background
//	[ZBackGlow, ZText) decorations: glows, icons, shadow, device, cards, badges
//	[ZText, ...)       text and call-to-action
//
// so drawing phase by phase is the same as drawing the whole recipe in Z
// order.
package layer

import (
	"fmt"
	"slices"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/errors"
)

// Kind is the role of a layer.
type Kind int

const (
	Background Kind = iota
	Glow
	BackElement
	DeviceFrame
	MidElement
	Badge
	Text
	CTAButton
)

var kindNames = [...]string{
	Background:  "background",
	Glow:        "glow",
	BackElement: "back-element",
	DeviceFrame: "device-frame",
	MidElement:  "mid-element",
	Badge:       "badge",
	Text:        "text",
	CTAButton:   "cta-button",
}

// String returns the kind's name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Standard Z positions. Recipes may use any value in between.
const (
	ZBackground   = 0
	ZBackGlow     = 100
	ZBackElement  = 200
	ZShadow       = 300
	ZDevice       = 400
	ZMidElement   = 500
	ZBadge        = 600
	ZFrontElement = 700
	ZText         = 900
	ZCTA          = 950
)

// DefaultZ returns the standard Z for a kind.
func DefaultZ(k Kind) int {
	switch k {
	case Background:
		return ZBackground
	case Glow:
		return ZBackGlow
	case BackElement:
		return ZBackElement
	case DeviceFrame:
		return ZDevice
	case MidElement:
		return ZMidElement
	case Badge:
		return ZBadge
	case Text:
		return ZText
	case CTAButton:
		return ZCTA
	}
	return ZMidElement
}

// Phase groups layers into pipeline phases by Z band.
type Phase int

const (
	PhaseBackground Phase = iota
	PhaseDecorations
	PhaseText
)

// Phases lists every phase in drawing order.
var Phases = []Phase{PhaseBackground, PhaseDecorations, PhaseText}

// PhaseOf returns the phase a Z value belongs to.
func PhaseOf(z int) Phase {
	switch {
	case z < ZBackGlow:
		return PhaseBackground
	case z < ZText:
		return PhaseDecorations
	default:
		return PhaseText
	}
}

// DrawFunc draws one layer onto dst.
type DrawFunc func(dst *canvas.Buffer) error

// Layer is one drawing step.
type Layer struct {
	Kind Kind
	Z    int
	Name string
	Draw DrawFunc
}

// Recipe is an ordered collection of layers.
type Recipe struct {
	layers []Layer
}

// Add appends a layer at the kind's default Z.
func (r *Recipe) Add(kind Kind, name string, draw DrawFunc) {
	r.AddZ(kind, DefaultZ(kind), name, draw)
}

// AddZ appends a layer at an explicit Z.
func (r *Recipe) AddZ(kind Kind, z int, name string, draw DrawFunc) {
	r.layers = append(r.layers, Layer{Kind: kind, Z: z, Name: name, Draw: draw})
}

// Len returns the number of layers.
func (r *Recipe) Len() int { return len(r.layers) }

// Ordered returns the layers sorted by ascending Z, stable for equal Z.
func (r *Recipe) Ordered() []Layer {
	out := slices.Clone(r.layers)
	slices.SortStableFunc(out, func(a, b Layer) int { return a.Z - b.Z })
	return out
}

// Render draws the layers of one phase in Z order. Recoverable errors (see
// errors.Recoverable) are collected as warnings and drawing continues; any
// other error stops the phase.
func (r *Recipe) Render(dst *canvas.Buffer, phase Phase) (warnings []error, err error) {
	for _, l := range r.Ordered() {
		if PhaseOf(l.Z) != phase || l.Draw == nil {
			continue
		}
		if err := l.Draw(dst); err != nil {
			if errors.Recoverable(err) {
				warnings = append(warnings, fmt.Errorf("%s layer %q: %w", l.Kind, l.Name, err))
				continue
			}
			return warnings, fmt.Errorf("%s layer %q: %w", l.Kind, l.Name, err)
		}
	}
	return warnings, nil
}
