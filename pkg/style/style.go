// Package style holds the closed set of screenshot styles. Each style turns
// one configured shot into a [layer.Recipe]; the pipeline composites it.
//
// Unknown style names resolve to [Premium]. Geometry is tuned at a 1290px
// wide canvas and scaled proportionally for other widths.
package style

import (
	"image"
	"io"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/config"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/gradient"
	"github.com/matzehuels/storeshot/pkg/layer"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// Name identifies a style recipe.
type Name string

const (
	Premium      Name = "premium"
	Minimal      Name = "minimal"
	Storytelling Name = "storytelling"
	Authentic    Name = "authentic"
	Parallax     Name = "parallax"
)

// Builder emits the layer recipe for one shot.
type Builder func(in *Input) *layer.Recipe

var builders = map[Name]Builder{
	Premium:      premium,
	Minimal:      minimal,
	Storytelling: storytelling,
	Authentic:    authentic,
	Parallax:     parallax,
}

var descriptions = map[Name]string{
	Premium:      "Mesh gradient, colored glow and soft shadow behind the screenshot",
	Minimal:      "Solid background from the color scheme with auto-contrast headline",
	Storytelling: "Evolving gradient per step with a progress bar and step badge",
	Authentic:    "Native-looking iMessage, Notes, Twitter and POV formats",
	Parallax:     "Tilted phone with glows, stat cards, badges and a CTA button",
}

// Names returns the styles in display order.
func Names() []Name {
	return []Name{Premium, Minimal, Storytelling, Authentic, Parallax}
}

// Describe returns a one-line summary of a style.
func Describe(n Name) string { return descriptions[n] }

// Resolve maps a style string to a known name. Unknown names resolve to
// Premium with ok false.
func Resolve(name string) (n Name, ok bool) {
	n = Name(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := builders[n]; ok {
		return n, true
	}
	return Premium, false
}

// Build emits the recipe for name, falling back to premium for unknown
// names. The fallback is logged at debug level.
func Build(name string, in *Input, logger *log.Logger) (*layer.Recipe, Name) {
	n, ok := Resolve(name)
	if !ok {
		if logger == nil {
			logger = log.New(io.Discard)
		}
		logger.Debug("unknown style, using premium", "style", name)
	}
	return builders[n](in), n
}

// RefWidth is the canvas width all style geometry is designed at.
const RefWidth = 1290.0

// CornerRadius is the screenshot corner radius at the reference width.
const CornerRadius = 55

// Input is everything a style needs to build one shot.
type Input struct {
	Index int
	Total int

	AppName string
	Shot    config.Shot
	Colors  []palette.Color

	Width, Height int

	// Subject is the decoded screenshot. The pipeline sets it after the
	// background phase; layers read it when they draw. A nil Subject draws
	// the placeholder.
	Subject image.Image
	// SubjectMissing is set when Subject is a placeholder.
	SubjectMissing bool

	// Background is the config's gradient override, if any.
	Background *config.Background

	Rand  *rand.Rand
	Fonts fonts.Provider
}

// scale is the ratio of the canvas width to RefWidth.
func (in *Input) scale() float64 { return float64(in.Width) / RefWidth }

// px scales a reference-width pixel value.
func (in *Input) px(v float64) int { return int(math.Round(v * in.scale())) }

// pt scales a reference-width font size.
func (in *Input) pt(v float64) float64 { return v * in.scale() }

// fy returns a fraction of the canvas height.
func (in *Input) fy(frac float64) int { return int(float64(in.Height) * frac) }

// fromBottom returns y for a reference distance from the bottom edge.
func (in *Input) fromBottom(v float64) int { return in.Height - in.px(v) }

// fromRight returns x for a reference distance from the right edge.
func (in *Input) fromRight(v float64) int { return in.Width - in.px(v) }

// color returns the scheme color for i, cycling through the scheme.
func (in *Input) color(i int) palette.Color {
	if len(in.Colors) == 0 {
		return palette.MustParse(config.DefaultColors[i%len(config.DefaultColors)])
	}
	return in.Colors[i%len(in.Colors)]
}

// subject returns the screenshot or the placeholder.
func (in *Input) subject() image.Image {
	if in.Subject == nil {
		return canvas.Placeholder(canvas.PlaceholderWidth, canvas.PlaceholderHeight).Image()
	}
	return in.Subject
}

// screenshot scales the subject to ratio·Width and rounds its corners.
func (in *Input) screenshot(ratio float64) *canvas.Buffer {
	b := canvas.FitWidth(in.subject(), int(float64(in.Width)*ratio), canvas.Lanczos)
	canvas.RoundCorners(b, in.pt(CornerRadius))
	return b
}

// backdrop renders def as a full-canvas gradient after applying the
// config's background override. Radial meshes draw from in.Rand.
func (in *Input) backdrop(def gradient.Spec) *canvas.Buffer {
	spec := def
	if bg := in.Background; bg != nil {
		if bg.Direction != "" {
			spec.Direction = gradient.ParseDirection(bg.Direction)
		}
		if bg.Blobs != nil {
			spec.Blobs = max(*bg.Blobs, 0)
		} else if spec.Direction == gradient.Radial && def.Direction != gradient.Radial {
			spec.Blobs = gradient.DefaultBlobs
		}
	}
	if spec.Direction == gradient.Radial && spec.Rand == nil {
		spec.Rand = in.Rand
	}
	return gradient.Render(in.Width, in.Height, spec)
}

// lazy memoizes a buffer computed on first draw, after the subject is set.
type lazy struct {
	fn  func() *canvas.Buffer
	buf *canvas.Buffer
}

func newLazy(fn func() *canvas.Buffer) *lazy { return &lazy{fn: fn} }

func (l *lazy) get() *canvas.Buffer {
	if l.buf == nil {
		l.buf = l.fn()
	}
	return l.buf
}
