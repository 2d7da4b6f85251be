package style

import (
	"image"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/config"
	"github.com/matzehuels/storeshot/pkg/device"
	"github.com/matzehuels/storeshot/pkg/effects"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/gradient"
	"github.com/matzehuels/storeshot/pkg/layer"
	"github.com/matzehuels/storeshot/pkg/palette"
	"github.com/matzehuels/storeshot/pkg/typeset"
)

var (
	nightSky = []palette.Color{
		palette.MustParse("#1a1a2e"),
		palette.MustParse("#16213e"),
		palette.MustParse("#0f3460"),
	}
	royalBlue = palette.MustParse("#4361ee")
	violet    = palette.MustParse("#7209b7")
	cyan      = palette.MustParse("#4cc9f0")
	magenta   = palette.MustParse("#f72585")
	ctaInk    = palette.Color{R: 20, G: 20, B: 30}
)

// DefaultTilt is the parallax phone rotation when a shot does not set one.
const DefaultTilt = 10.0

var defaultStats = []config.Stat{
	{Value: "47", Label: "Day Streak"},
	{Value: "92%", Label: "Consistency"},
}

var defaultBadges = []string{"4.9 Rating", "50K+ Users", "Free to Start"}

// badgeColors gives fill and ink per badge slot.
var badgeColors = [][2]palette.Color{
	{palette.White, palette.Black},
	{cyan, palette.White},
	{violet, palette.White},
}

type icon struct {
	size  float64
	x, y  func(in *Input) int
	color palette.Color
}

func left(v float64) func(*Input) int   { return func(in *Input) int { return in.px(v) } }
func right(v float64) func(*Input) int  { return func(in *Input) int { return in.fromRight(v) } }
func bottom(v float64) func(*Input) int { return func(in *Input) int { return in.fromBottom(v) } }

var backIcons = []icon{
	{60, left(100), left(400), royalBlue},
	{55, right(150), left(600), magenta},
	{50, left(150), bottom(600), cyan},
	{45, right(120), bottom(400), violet},
}

var frontIcons = []icon{
	{75, left(50), bottom(500), magenta},
	{70, right(130), left(350), cyan},
	{65, right(100), bottom(450), royalBlue},
}

func (in *Input) drawIcons(dst *canvas.Buffer, icons []icon, level effects.Level) {
	for _, ic := range icons {
		b := effects.Depth(iconCircle(in.px(ic.size), ic.color), level)
		canvas.Composite(dst, b.Image(), ic.x(in), ic.y(in))
	}
}

// parallax stacks glows, icons, a tilted phone, floating cards and badges
// at several depths under a large headline and a call-to-action button.
func parallax(in *Input) *layer.Recipe {
	var r layer.Recipe
	glowBlur := in.px(30)

	r.Add(layer.Background, "gradient", func(dst *canvas.Buffer) error {
		bg := in.backdrop(gradient.Spec{Stops: gradient.Even(nightSky...), Direction: gradient.Diagonal})
		canvas.Paste(dst, bg.Image(), 0, 0)
		return nil
	})

	r.Add(layer.Glow, "ambient", func(dst *canvas.Buffer) error {
		glowAt(dst, in.fromRight(400), -in.px(100), in.px(600), in.px(600), royalBlue, 0.3, glowBlur)
		glowAt(dst, -in.px(200), in.fromBottom(500), in.px(700), in.px(700), violet, 0.25, glowBlur)
		glowAt(dst, in.px(100), in.Height/2-in.px(200), in.px(400), in.px(400), cyan, 0.2, glowBlur)
		return nil
	})
	r.Add(layer.BackElement, "back-icons", func(dst *canvas.Buffer) error {
		in.drawIcons(dst, backIcons, effects.Back)
		return nil
	})

	tilt, tiltX := DefaultTilt, 0.0
	if in.Shot.Tilt != nil {
		tilt = *in.Shot.Tilt
	}
	if in.Shot.TiltX != nil {
		tiltX = *in.Shot.TiltX
	}
	phone := newLazy(func() *canvas.Buffer {
		src := in.subject()
		h := in.fy(0.55)
		w := src.Bounds().Dx() * h / max(src.Bounds().Dy(), 1)
		frame := device.DefaultFrame()
		frame.Bezel = in.px(float64(frame.Bezel))
		frame.CornerRadius = in.pt(frame.CornerRadius)
		frame.Notch = device.Notch{
			W: in.px(160), H: in.px(45), Radius: in.pt(22), Top: in.px(20),
		}
		frame.Tilt = tilt
		frame.TiltX = tiltX
		frame.Mode = device.ParseMode(in.Shot.Transform)
		return device.Render(canvas.Resample(src, w, h, canvas.Lanczos).Image(), frame)
	})
	phoneBounds := func() image.Rectangle {
		p := phone.get()
		at := image.Pt((in.Width-p.Width())/2+in.px(50), in.fy(0.28))
		return image.Rectangle{Min: at, Max: at.Add(p.Size())}
	}

	r.AddZ(layer.MidElement, layer.ZShadow, "phone-shadow", func(dst *canvas.Buffer) error {
		castShadow(dst, phoneBounds(), in.pt(CornerRadius), in.px(20), 100, image.Pt(0, in.px(10)))
		return nil
	})
	r.Add(layer.DeviceFrame, "phone", func(dst *canvas.Buffer) error {
		b := phoneBounds()
		canvas.Composite(dst, phone.get().Image(), b.Min.X, b.Min.Y)
		return nil
	})
	r.AddZ(layer.Glow, layer.ZDevice+10, "phone-glow", func(dst *canvas.Buffer) error {
		b := phoneBounds().Inset(-in.px(100))
		glowAt(dst, b.Min.X, b.Min.Y, b.Dx(), b.Dy(), cyan, 0.15, glowBlur)
		return nil
	})

	stats := in.Shot.Stats
	if len(stats) == 0 {
		stats = defaultStats
	}
	r.Add(layer.MidElement, "stat-cards", func(dst *canvas.Buffer) error {
		slots := []image.Point{
			image.Pt(in.px(60), in.fy(0.35)),
			image.Pt(in.fromRight(220), in.fy(0.55)),
			image.Pt(in.px(60), in.fy(0.70)),
		}
		var first error
		for i, s := range stats[:min(len(stats), len(slots))] {
			if err := in.statCard(dst, slots[i], s); err != nil && first == nil {
				first = err
			}
		}
		return first
	})

	badges := in.Shot.Badges
	if len(badges) == 0 {
		badges = defaultBadges
	}
	r.Add(layer.Badge, "badges", func(dst *canvas.Buffer) error {
		var first error
		for i, text := range badges[:min(len(badges), len(badgeColors))] {
			pl := pill{
				Text: text, Size: in.pt(38), PadX: in.px(35), PadY: in.px(20),
				Fill: badgeColors[i][0], Alpha: 240, Ink: badgeColors[i][1],
			}
			l, size, err := pl.measure(in.Fonts, in.Width/2)
			if l.Fit.Face == nil {
				return err
			}
			if err != nil && first == nil {
				first = err
			}
			var at image.Point
			switch i {
			case 0:
				at = image.Pt(in.px(80), in.fy(0.18))
			case 1:
				at = image.Pt(in.Width-size.X-in.px(80), in.fy(0.22))
			default:
				at = image.Pt((in.Width-size.X)/2-in.px(100), in.fromBottom(350))
			}
			pl.draw(dst, l, size, at)
		}
		return first
	})
	r.AddZ(layer.Badge, layer.ZFrontElement, "front-icons", func(dst *canvas.Buffer) error {
		in.drawIcons(dst, frontIcons, effects.Front)
		return nil
	})

	headlineY := in.fy(0.05)
	r.Add(layer.Text, "headline", func(dst *canvas.Buffer) error {
		b := fixedColor(in.centered(in.Shot.Headline, 110, fonts.Bold, headlineY), palette.White)
		b.Shadow = &typeset.Shadow{Offset: image.Pt(in.px(3), in.px(3)), Opacity: 100}
		return drawText(dst, in.Fonts, b, false)
	})
	r.AddZ(layer.Text, layer.ZText+1, "subhead", func(dst *canvas.Buffer) error {
		b := fixedColor(in.centered(in.Shot.Subtitle, 85, fonts.Bold, headlineY+in.px(120)), cyan)
		return drawText(dst, in.Fonts, b, false)
	})

	cta := orDefault(in.Shot.CTA, "Download Free")
	r.Add(layer.CTAButton, "cta", func(dst *canvas.Buffer) error {
		pl := pill{
			Text: cta, Size: in.pt(55), PadX: in.px(40), Height: in.px(100),
			Radius: in.pt(50), Fill: palette.White, Alpha: 0xff, Ink: ctaInk,
		}
		l, size, err := pl.measure(in.Fonts, in.Width-in.px(160))
		if l.Fit.Face == nil {
			return err
		}
		at := image.Pt((in.Width-size.X)/2, in.fromBottom(200))
		halo := image.Rectangle{Min: at, Max: at.Add(size)}.Inset(-in.px(30))
		glowAt(dst, halo.Min.X, halo.Min.Y, halo.Dx(), halo.Dy(), cyan, 0.4, glowBlur)
		pl.draw(dst, l, size, at)
		return err
	})
	return &r
}
