package typeset

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// Align is the horizontal alignment of lines relative to the anchor.
type Align int

const (
	Center Align = iota
	Left
	Right
)

// ColorPolicy decides the text color.
type ColorPolicy int

const (
	// Auto picks white or ink from the average background under the block.
	Auto ColorPolicy = iota
	// Fixed uses Block.Color.
	Fixed
)

// Shadow is an optional drop shadow under text.
type Shadow struct {
	Offset  image.Point
	Blur    float64
	Opacity uint8
	Color   palette.Color
}

// Block is a piece of text to lay out and draw.
type Block struct {
	Text     string
	MaxSize  float64
	MinSize  float64
	MaxWidth int
	Weight   fonts.Weight
	// Anchor is the top of the first line; its X is the center, left or
	// right edge depending on Align.
	Anchor image.Point
	Align  Align
	Policy ColorPolicy
	Color  palette.Color
	// Wrap enables multi-line layout at the fitted size.
	Wrap        bool
	LineSpacing float64
	Shadow      *Shadow
}

// DefaultLineSpacing multiplies the face height between lines.
const DefaultLineSpacing = 1.2

// Layout is the resolved geometry of a block.
type Layout struct {
	Lines  []string
	Fit    Fit
	Bounds image.Rectangle
	// Color is the resolved text color.
	Color palette.Color
}

// Place computes line breaks and bounds for b without drawing. The returned
// error is non-nil only for provider failures or ErrCodeTextDoesNotFit; in
// the latter case the layout is still usable.
func Place(p fonts.Provider, b Block) (Layout, error) {
	var (
		fit    Fit
		fitErr error
		lines  []string
	)
	if b.Wrap {
		// Shrink until the wrapped block has no overlong word.
		ref, err := p.Face(max(b.MaxSize, MinFontSize), b.Weight)
		if err != nil {
			return Layout{}, err
		}
		fit, fitErr = AutoFit(p, widestWord(ref, b.Text), b.MaxWidth, b.MaxSize, b.MinSize, b.Weight)
		if fit.Face == nil {
			return Layout{}, fitErr
		}
		lines = Wrap(fit.Face, b.Text, b.MaxWidth)
	} else {
		fit, fitErr = AutoFit(p, b.Text, b.MaxWidth, b.MaxSize, b.MinSize, b.Weight)
		if fit.Face == nil {
			return Layout{}, fitErr
		}
		lines = strings.Split(b.Text, "\n")
	}

	lh := lineHeight(fit.Face, b.LineSpacing)
	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(fit.Face, l).Ceil())
	}
	height := lh*(len(lines)-1) + fit.Face.Metrics().Height.Ceil()

	x := b.Anchor.X
	switch b.Align {
	case Center:
		x -= width / 2
	case Right:
		x -= width
	}
	return Layout{
		Lines:  lines,
		Fit:    fit,
		Bounds: image.Rect(x, b.Anchor.Y, x+width, b.Anchor.Y+height),
		Color:  b.Color,
	}, fitErr
}

// widestWord returns the word of text that renders widest in face.
func widestWord(face font.Face, text string) string {
	widest, wmax := "", fixed.Int26_6(-1)
	for _, w := range strings.Fields(text) {
		if adv := font.MeasureString(face, w); adv > wmax {
			widest, wmax = w, adv
		}
	}
	return widest
}

func lineHeight(face font.Face, spacing float64) int {
	if spacing <= 0 {
		spacing = DefaultLineSpacing
	}
	return int(float64(face.Metrics().Height.Ceil()) * spacing)
}

// Render lays out b, resolves its color and draws it onto dst. Empty text
// draws nothing and returns an empty layout. An ErrCodeTextDoesNotFit error
// is returned after drawing at the minimum size.
func Render(dst *canvas.Buffer, p fonts.Provider, b Block) (Layout, error) {
	if strings.TrimSpace(b.Text) == "" {
		return Layout{}, nil
	}
	l, err := Place(p, b)
	if l.Fit.Face == nil {
		return l, err
	}
	if b.Policy == Auto {
		l.Color = AutoContrast(AverageColor(dst, l.Bounds))
	}
	Draw(dst, l, b.Align, b.LineSpacing, b.Shadow)
	return l, err
}

// Draw renders a placed layout onto dst, shadow first.
func Draw(dst *canvas.Buffer, l Layout, align Align, spacing float64, shadow *Shadow) {
	if l.Fit.Face == nil || l.Bounds.Empty() {
		return
	}
	pad := 0
	if shadow != nil {
		pad = int(shadow.Blur*3) + max(abs(shadow.Offset.X), abs(shadow.Offset.Y))
	}

	if shadow != nil {
		sl := drawLines(l, align, spacing, pad, shadow.Color)
		sl = canvas.Blur(sl, shadow.Blur)
		canvas.Fade(sl, float64(shadow.Opacity)/255)
		canvas.Composite(dst, sl.Image(), l.Bounds.Min.X-pad+shadow.Offset.X, l.Bounds.Min.Y-pad+shadow.Offset.Y)
	}
	tl := drawLines(l, align, spacing, pad, l.Color)
	canvas.Composite(dst, tl.Image(), l.Bounds.Min.X-pad, l.Bounds.Min.Y-pad)
}

// drawLines rasterizes the layout into a transparent buffer covering its
// bounds plus pad on every side.
func drawLines(l Layout, align Align, spacing float64, pad int, c palette.Color) *canvas.Buffer {
	face := l.Fit.Face
	layer := canvas.New(l.Bounds.Dx()+2*pad, l.Bounds.Dy()+2*pad)
	d := &font.Drawer{
		Dst:  layer.Image(),
		Src:  image.NewUniform(c.NRGBA(0xff)),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	lh := lineHeight(face, spacing)
	for i, line := range l.Lines {
		w := font.MeasureString(face, line).Ceil()
		x := pad
		switch align {
		case Center:
			x += (l.Bounds.Dx() - w) / 2
		case Right:
			x += l.Bounds.Dx() - w
		}
		d.Dot = fixed.P(x, pad+ascent+i*lh)
		d.DrawString(line)
	}
	return layer
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// AverageColor returns the mean background color of dst under r.
func AverageColor(dst *canvas.Buffer, r image.Rectangle) palette.Color {
	return palette.FromColor(canvas.AverageColor(dst, r))
}
