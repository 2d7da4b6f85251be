package style

import (
	"image"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/layer"
)

// minimal: a solid scheme color, the screenshot with a soft shadow, and a
// headline whose color follows the background.
func minimal(in *Input) *layer.Recipe {
	var r layer.Recipe

	r.Add(layer.Background, "solid", func(dst *canvas.Buffer) error {
		canvas.Paste(dst, canvas.Filled(in.Width, in.Height, in.color(in.Index).NRGBA(0xff)).Image(), 0, 0)
		return nil
	})

	screen := newLazy(func() *canvas.Buffer { return in.screenshot(0.7) })
	bounds := func() image.Rectangle {
		s := screen.get()
		at := image.Pt((in.Width-s.Width())/2, in.fy(0.32))
		return image.Rectangle{Min: at, Max: at.Add(s.Size())}
	}

	r.AddZ(layer.MidElement, layer.ZShadow, "shadow", func(dst *canvas.Buffer) error {
		castShadow(dst, bounds(), in.pt(CornerRadius), in.px(10), 60, image.Pt(0, in.px(15)))
		return nil
	})
	r.Add(layer.DeviceFrame, "screenshot", func(dst *canvas.Buffer) error {
		b := bounds()
		canvas.Composite(dst, screen.get().Image(), b.Min.X, b.Min.Y)
		return nil
	})
	r.Add(layer.Text, "headline", func(dst *canvas.Buffer) error {
		return drawText(dst, in.Fonts, in.centered(in.Shot.Headline, 0.07*RefWidth, fonts.Bold, in.fy(0.1)), false)
	})
	return &r
}
