package style

import (
	"image"
	"strings"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/config"
	"github.com/matzehuels/storeshot/pkg/effects"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/palette"
	"github.com/matzehuels/storeshot/pkg/typeset"
)

// drawText renders b. With middle set, Anchor.Y is the vertical center of
// the block instead of its top.
func drawText(dst *canvas.Buffer, p fonts.Provider, b typeset.Block, middle bool) error {
	if strings.TrimSpace(b.Text) == "" {
		return nil
	}
	if !middle {
		_, err := typeset.Render(dst, p, b)
		return err
	}
	l, err := typeset.Place(p, b)
	if l.Fit.Face == nil {
		return err
	}
	l.Bounds = l.Bounds.Sub(image.Pt(0, l.Bounds.Dy()/2))
	if b.Policy == typeset.Auto {
		l.Color = typeset.AutoContrast(typeset.AverageColor(dst, l.Bounds))
	}
	typeset.Draw(dst, l, b.Align, b.LineSpacing, b.Shadow)
	return err
}

// line is a single fixed-color line of text anchored at its top-left.
func (in *Input) line(text string, size float64, weight fonts.Weight, x, y int, c palette.Color) typeset.Block {
	return typeset.Block{
		Text:     text,
		MaxSize:  in.pt(size),
		MinSize:  in.pt(20),
		MaxWidth: in.Width - x - in.px(60),
		Weight:   weight,
		Anchor:   image.Pt(x, y),
		Align:    typeset.Left,
		Policy:   typeset.Fixed,
		Color:    c,
	}
}

// centered is an auto-fitted line centered horizontally on the canvas.
func (in *Input) centered(text string, size float64, weight fonts.Weight, y int) typeset.Block {
	return typeset.Block{
		Text:     text,
		MaxSize:  in.pt(size),
		MinSize:  in.pt(20),
		MaxWidth: in.Width - in.px(160),
		Weight:   weight,
		Anchor:   image.Pt(in.Width/2, y),
		Align:    typeset.Center,
	}
}

func fixedColor(b typeset.Block, c palette.Color) typeset.Block {
	b.Policy = typeset.Fixed
	b.Color = c
	return b
}

// castShadow draws a drop shadow for a rounded element occupying at.
func castShadow(dst *canvas.Buffer, at image.Rectangle, radius float64, blur int, opacity uint8, offset image.Point) {
	cast(dst, at.Min, effects.Spec{
		Kind:    effects.KindShadow,
		Shape:   effects.Shape{Kind: effects.RoundedRect, W: at.Dx(), H: at.Dy(), Radius: radius},
		Blur:    blur,
		Opacity: opacity,
		Color:   palette.Black,
		Offset:  offset,
	})
}

// castHalo draws a soft colored rounded halo around an element occupying at.
func castHalo(dst *canvas.Buffer, at image.Rectangle, radius float64, blur int, opacity uint8, c palette.Color) {
	cast(dst, at.Min, effects.Spec{
		Kind:    effects.KindShadow,
		Shape:   effects.Shape{Kind: effects.RoundedRect, W: at.Dx(), H: at.Dy(), Radius: radius},
		Blur:    blur,
		Opacity: opacity,
		Color:   c,
	})
}

// glowAt composites a radial glow of size w×h with its top-left at (x, y).
func glowAt(dst *canvas.Buffer, x, y, w, h int, c palette.Color, intensity float64, blur int) {
	g := effects.Render(effects.Spec{
		Kind:      effects.KindGlow,
		Shape:     effects.Shape{Kind: effects.Ellipse, W: w, H: h},
		Blur:      blur,
		Color:     c,
		Intensity: intensity,
	})
	canvas.Composite(dst, g.Image(), x, y)
}

// cast composites the shadow for spec so its caster lands at pos.
func cast(dst *canvas.Buffer, pos image.Point, spec effects.Spec) {
	p := pos.Sub(effects.Anchor(spec.Blur))
	canvas.Composite(dst, effects.Render(spec).Image(), p.X, p.Y)
}

// pill is a rounded label: badges and the CTA button.
type pill struct {
	Text   string
	Size   float64
	PadX   int
	PadY   int
	Height int // fixed height; 0 derives it from the text
	Radius float64
	Fill   palette.Color
	Alpha  uint8
	Ink    palette.Color
}

// measure fits the text and returns the layout and pill size.
func (pl pill) measure(p fonts.Provider, maxWidth int) (typeset.Layout, image.Point, error) {
	l, err := typeset.Place(p, typeset.Block{
		Text:     pl.Text,
		MaxSize:  pl.Size,
		MinSize:  min(pl.Size, 12),
		MaxWidth: maxWidth - 2*pl.PadX,
		Weight:   fonts.Bold,
		Align:    typeset.Left,
		Policy:   typeset.Fixed,
		Color:    pl.Ink,
	})
	if l.Fit.Face == nil {
		return l, image.Point{}, err
	}
	textH := l.Fit.Face.Metrics().Ascent.Ceil()
	h := pl.Height
	if h <= 0 {
		h = textH + 2*pl.PadY
	}
	return l, image.Pt(l.Bounds.Dx()+2*pl.PadX, h), err
}

// draw renders the pill with its top-left at at.
func (pl pill) draw(dst *canvas.Buffer, l typeset.Layout, size, at image.Point) {
	r := image.Rectangle{Min: at, Max: at.Add(size)}
	radius := pl.Radius
	if radius <= 0 {
		radius = float64(size.Y) / 2
	}
	canvas.FillRoundedRect(dst, r, radius, pl.Fill.NRGBA(pl.Alpha))

	th := l.Bounds.Dy()
	l.Bounds = image.Rect(0, 0, l.Bounds.Dx(), th).Add(image.Pt(at.X+pl.PadX, at.Y+(size.Y-th)/2))
	typeset.Draw(dst, l, typeset.Left, 0, nil)
}

// iconCircle returns a filled circle of diameter size.
func iconCircle(size int, c palette.Color) *canvas.Buffer {
	b := canvas.New(size, size)
	canvas.FillEllipse(b, b.Bounds(), c.NRGBA(230))
	return b
}

// statCard draws a translucent card with a large value over a small label.
func (in *Input) statCard(dst *canvas.Buffer, at image.Point, s config.Stat) error {
	w, h := in.px(180), in.px(120)
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(w, h))}
	radius := in.pt(20)

	castShadow(dst, r, radius, in.px(8), 60, image.Pt(0, in.px(10)))
	canvas.FillRoundedRect(dst, r, radius, palette.White.NRGBA(30))
	canvas.StrokeRoundedRect(dst, r, radius, max(in.pt(1), 1), palette.White.NRGBA(80))

	cx := at.X + w/2
	value := typeset.Block{
		Text: s.Value, MaxSize: in.pt(48), MinSize: in.pt(16), MaxWidth: w - in.px(16),
		Weight: fonts.Bold, Anchor: image.Pt(cx, at.Y+in.px(35)), Align: typeset.Center,
		Policy: typeset.Fixed, Color: palette.White,
	}
	label := typeset.Block{
		Text: s.Label, MaxSize: in.pt(24), MinSize: in.pt(12), MaxWidth: w - in.px(16),
		Anchor: image.Pt(cx, at.Y+in.px(80)), Align: typeset.Center,
		Policy: typeset.Fixed, Color: labelGrey,
	}
	if err := drawText(dst, in.Fonts, value, true); err != nil {
		return err
	}
	return drawText(dst, in.Fonts, label, true)
}

var labelGrey = palette.Color{R: 215, G: 215, B: 225}
