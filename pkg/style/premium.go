package style

import (
	"image"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/gradient"
	"github.com/matzehuels/storeshot/pkg/layer"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// premium: mesh gradient, a halo in the entry's scheme color, a drop shadow
// and white headline text.
func premium(in *Input) *layer.Recipe {
	var r layer.Recipe

	r.Add(layer.Background, "mesh", func(dst *canvas.Buffer) error {
		bg := in.backdrop(gradient.Spec{
			Stops:     gradient.Even(in.Colors...),
			Direction: gradient.Radial,
			Blobs:     gradient.DefaultBlobs,
		})
		canvas.Paste(dst, bg.Image(), 0, 0)
		return nil
	})

	screen := newLazy(func() *canvas.Buffer { return in.screenshot(0.65) })
	bounds := func() image.Rectangle {
		s := screen.get()
		at := image.Pt((in.Width-s.Width())/2, in.fy(0.35))
		return image.Rectangle{Min: at, Max: at.Add(s.Size())}
	}
	radius := in.pt(CornerRadius)

	r.Add(layer.Glow, "halo", func(dst *canvas.Buffer) error {
		castHalo(dst, bounds(), radius, in.px(20), 50, in.color(in.Index))
		return nil
	})
	r.AddZ(layer.MidElement, layer.ZShadow, "shadow", func(dst *canvas.Buffer) error {
		castShadow(dst, bounds(), radius, in.px(12), 80, image.Pt(0, in.px(15)))
		return nil
	})
	r.Add(layer.DeviceFrame, "screenshot", func(dst *canvas.Buffer) error {
		b := bounds()
		canvas.Composite(dst, screen.get().Image(), b.Min.X, b.Min.Y)
		return nil
	})

	r.Add(layer.Text, "headline", func(dst *canvas.Buffer) error {
		return drawText(dst, in.Fonts, fixedColor(in.centered(in.Shot.Headline, 0.07*RefWidth, fonts.Bold, in.fy(0.08)), palette.White), false)
	})
	r.AddZ(layer.Text, layer.ZText+1, "subtitle", func(dst *canvas.Buffer) error {
		return drawText(dst, in.Fonts, fixedColor(in.centered(in.Shot.Subtitle, 0.04*RefWidth, fonts.Regular, in.fy(0.16)), palette.White), false)
	})
	return &r
}
