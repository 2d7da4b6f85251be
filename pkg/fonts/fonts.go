// Package fonts supplies font faces to the text layout engine.
//
// Rendering code never locates font files itself. It asks a [Provider] for
// a face of a given size and weight. Two providers ship with the package:
//
//   - [Embedded] serves the Go font family compiled into the binary, so
//     output is identical on every machine.
//   - [System] looks fonts up by name with go-findfont and falls back to
//     another provider (usually Embedded) when nothing is installed.
//
// # Concurrency
//
// Parsed fonts are shared and safe for concurrent use. The font.Face values
// returned by a Provider are NOT: they carry glyph caches. Each render should
// wrap the shared provider in a [Cache] and use it from one goroutine only.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight is the stroke weight of a face.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// String returns the config spelling of w.
func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

// ParseWeight maps "bold" to Bold and anything else to Regular.
func ParseWeight(s string) Weight {
	if s == "bold" {
		return Bold
	}
	return Regular
}

// Provider returns font faces by pixel size and weight.
type Provider interface {
	Face(size float64, weight Weight) (font.Face, error)
}

// Family names an embedded font family.
type Family string

const (
	FamilySans Family = "sans"
	FamilyMono Family = "mono"
)

// DPI used for every face: sizes are in pixels.
const DPI = 72

// Embedded serves the Go fonts from golang.org/x/image. The zero value
// serves the sans family.
type Embedded struct {
	Family Family
}

var (
	parsedMu sync.Mutex
	parsed   = map[string]*opentype.Font{}
)

func embeddedTTF(family Family, weight Weight) (string, []byte) {
	switch {
	case family == FamilyMono && weight == Bold:
		return "gomonobold", gomonobold.TTF
	case family == FamilyMono:
		return "gomono", gomono.TTF
	case weight == Bold:
		return "gobold", gobold.TTF
	default:
		return "goregular", goregular.TTF
	}
}

// parseOnce parses ttf under name and memoizes the result.
func parseOnce(name string, ttf []byte) (*opentype.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[name]; ok {
		return f, nil
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	parsed[name] = f
	return f, nil
}

// Face returns a new face of the embedded family.
func (e Embedded) Face(size float64, weight Weight) (font.Face, error) {
	name, ttf := embeddedTTF(e.Family, weight)
	f, err := parseOnce(name, ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
}
