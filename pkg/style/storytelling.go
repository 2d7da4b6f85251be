package style

import (
	"image"
	"strconv"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/gradient"
	"github.com/matzehuels/storeshot/pkg/layer"
	"github.com/matzehuels/storeshot/pkg/palette"
	"github.com/matzehuels/storeshot/pkg/typeset"
)

// storyPalettes evolve from purple night to dawn green across the carousel.
var storyPalettes = [][2]palette.Color{
	{palette.MustParse("#2D1B4E"), palette.MustParse("#1A1A2E")},
	{palette.MustParse("#1A1A2E"), palette.MustParse("#16213E")},
	{palette.MustParse("#16213E"), palette.MustParse("#0F3460")},
	{palette.MustParse("#0F3460"), palette.MustParse("#1A4B1A")},
	{palette.MustParse("#1A4B1A"), palette.MustParse("#2D2D0D")},
}

var (
	storyAccent = palette.Color{R: 255, G: 200, B: 100}
	storyTrack  = palette.Color{R: 60, G: 60, B: 60}
)

// storytelling: one step of a connected carousel with a progress bar and a
// numbered step badge.
func storytelling(in *Input) *layer.Recipe {
	var r layer.Recipe

	colors := storyPalettes[in.Index%len(storyPalettes)]
	r.Add(layer.Background, "gradient", func(dst *canvas.Buffer) error {
		bg := in.backdrop(gradient.Spec{Stops: gradient.Even(colors[0], colors[1]), Direction: gradient.Vertical})
		canvas.Paste(dst, bg.Image(), 0, 0)
		return nil
	})

	r.AddZ(layer.MidElement, layer.ZBackElement, "progress", func(dst *canvas.Buffer) error {
		total := max(in.Total, 1)
		left, y := in.px(80), in.px(120)
		segment := float64(in.Width-2*left) / float64(total)
		gap, h := in.px(5), max(in.px(8), 1)
		for i := range total {
			x0 := left + int(float64(i)*segment) + gap
			x1 := left + int(float64(i+1)*segment) - gap
			c := storyTrack
			if i <= in.Index {
				c = storyAccent
			}
			canvas.FillRoundedRect(dst, image.Rect(x0, y, x1, y+h), float64(h)/2, c.NRGBA(0xff))
		}
		return nil
	})

	screen := newLazy(func() *canvas.Buffer { return in.screenshot(0.65) })
	r.Add(layer.DeviceFrame, "screenshot", func(dst *canvas.Buffer) error {
		canvas.CompositeCentered(dst, screen.get().Image(), in.fy(0.35))
		return nil
	})

	r.Add(layer.Badge, "step", func(dst *canvas.Buffer) error {
		cx, cy, radius := in.fromRight(100), in.fromBottom(150), in.px(50)
		canvas.FillCircle(dst, cx, cy, radius, storyAccent.NRGBA(0xff))
		return drawText(dst, in.Fonts, typeset.Block{
			Text:     strconv.Itoa(in.Index + 1),
			MaxSize:  in.pt(55),
			MinSize:  in.pt(20),
			MaxWidth: 2 * radius,
			Weight:   fonts.Bold,
			Anchor:   image.Pt(cx, cy),
			Policy:   typeset.Fixed,
			Color:    palette.Black,
		}, true)
	})

	r.Add(layer.Text, "headline", func(dst *canvas.Buffer) error {
		return drawText(dst, in.Fonts, fixedColor(in.centered(in.Shot.Headline, 0.065*RefWidth, fonts.Bold, in.fy(0.16)), palette.White), false)
	})
	return &r
}
