// Package device wraps screenshots in a stylized phone frame and tilts the
// result to fake a 3D rotation.
//
// [Build] draws the chassis: a dark rounded body, an edge highlight, the
// screenshot masked to rounded corners, a dynamic-island notch and a side
// button. [Tilt] applies an affine shear with a slight depth scale;
// [Perspective] applies a projective warp whose coefficients are solved by
// least squares.
package device

import (
	"image"
	"strings"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// Mode selects the 3D transform used by [Render].
type Mode int

const (
	ModeShear Mode = iota
	ModePerspective
)

// String returns the config name of m.
func (m Mode) String() string {
	if m == ModePerspective {
		return "perspective"
	}
	return "shear"
}

// ParseMode maps a config transform name to a Mode. Anything other than
// "perspective" selects ModeShear.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "perspective") {
		return ModePerspective
	}
	return ModeShear
}

// Notch is the dynamic-island cutout, positioned Top pixels below the top of
// the screen and centered horizontally.
type Notch struct {
	W, H   int
	Radius float64
	Top    int
}

// Frame describes the phone chassis drawn around a screenshot.
type Frame struct {
	Bezel        int
	CornerRadius float64
	Notch        Notch
	// Tilt is the rotation in degrees; positive skews the top to the right.
	Tilt float64
	// TiltX is the vertical rotation used by ModePerspective.
	TiltX      float64
	Mode       Mode
	Body       palette.Color
	Edge       palette.Color
	SideButton bool
}

// Default chassis colors.
var (
	BodyColor   = palette.Color{R: 25, G: 25, B: 30}
	EdgeColor   = palette.Color{R: 60, G: 60, B: 70}
	ButtonColor = palette.Color{R: 40, G: 40, B: 45}
)

// DefaultFrame returns the chassis used by the parallax style.
func DefaultFrame() Frame {
	return Frame{
		Bezel:        25,
		CornerRadius: 55,
		Notch:        Notch{W: 160, H: 45, Radius: 22, Top: 20},
		Body:         BodyColor,
		Edge:         EdgeColor,
		SideButton:   true,
	}
}

// screenInset shrinks the screen corner radius relative to the body.
const screenInset = 15

// Build draws frame f around screenshot and returns the untilted phone.
// The result is exactly screenshot width + 2·Bezel by height + 2·Bezel.
// A notch larger than the screen is clamped to fit inside it.
func Build(screenshot image.Image, f Frame) *canvas.Buffer {
	screen := canvas.FromImage(screenshot)
	sw, sh := screen.Width(), screen.Height()
	bezel := max(f.Bezel, 0)
	pw, ph := sw+2*bezel, sh+2*bezel

	phone := canvas.New(pw, ph)
	canvas.FillRoundedRect(phone, phone.Bounds(), f.CornerRadius, f.Body.NRGBA(0xff))
	if bezel >= 4 {
		canvas.StrokeRoundedRect(phone, phone.Bounds().Inset(2), f.CornerRadius-2, 2, f.Edge.NRGBA(0xff))
	}

	canvas.RoundCorners(screen, max(f.CornerRadius-screenInset, 0))
	canvas.Composite(phone, screen.Image(), bezel, bezel)

	if n := clampNotch(f.Notch, sw, sh); n.W > 0 && n.H > 0 {
		x := (pw - n.W) / 2
		y := bezel + n.Top
		canvas.FillRoundedRect(phone, image.Rect(x, y, x+n.W, y+n.H), n.Radius, palette.Black.NRGBA(0xff))
	}

	if f.SideButton && bezel >= 4 {
		y := ph * 12 / 100
		canvas.FillRoundedRect(phone, image.Rect(pw-4, y, pw, y+ph*55/1000), 2, ButtonColor.NRGBA(0xff))
	}
	return phone
}

// clampNotch keeps the notch strictly inside a sw×sh screen.
func clampNotch(n Notch, sw, sh int) Notch {
	n.W = min(max(n.W, 0), sw-1)
	n.H = min(max(n.H, 0), sh-1)
	n.Top = min(max(n.Top, 0), sh-1-n.H)
	return n
}

// Render builds the frame and applies its 3D transform.
func Render(screenshot image.Image, f Frame) *canvas.Buffer {
	phone := Build(screenshot, f)
	if f.Mode == ModePerspective {
		return Perspective(phone, f.Tilt, f.TiltX)
	}
	return Tilt(phone, f.Tilt)
}
