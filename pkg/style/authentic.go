package style

import (
	"image"
	"strings"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/config"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/layer"
	"github.com/matzehuels/storeshot/pkg/palette"
	"github.com/matzehuels/storeshot/pkg/typeset"
)

// Authentic formats, cycled by entry index when a shot does not set one.
const (
	FormatIMessage = "imessage"
	FormatNotes    = "notes"
	FormatTwitter  = "twitter"
	FormatPOV      = "pov"
)

var authenticFormats = []string{FormatIMessage, FormatNotes, FormatTwitter, FormatPOV}

// FormatFor returns the authentic format used for shot at index.
func FormatFor(shot config.Shot, index int) string {
	if f := strings.ToLower(shot.Format); f != "" {
		return f
	}
	return authenticFormats[index%len(authenticFormats)]
}

var (
	iosGrey      = palette.Color{R: 242, G: 242, B: 247}
	bubbleBlue   = palette.Color{R: 0, G: 122, B: 255}
	bubbleGrey   = palette.Color{R: 229, G: 229, B: 234}
	iosInk       = palette.Color{R: 28, G: 28, B: 30}
	notesPaper   = palette.Color{R: 255, G: 252, B: 225}
	notesRule    = palette.Color{R: 200, G: 200, B: 180}
	tweetText    = palette.Color{R: 231, G: 233, B: 234}
	tweetHandle  = palette.Color{R: 142, G: 142, B: 147}
	avatarGrey   = palette.Color{R: 50, G: 50, B: 50}
	povBackdrop  = palette.Color{R: 20, G: 20, B: 20}
	povDimFactor = 0.4
)

var defaultMessages = []config.Message{
	{From: "friend", Text: "you need to try this app"},
	{From: "me", Text: "which one"},
	{From: "friend", Text: "the habit tracker, its actually good"},
}

// authentic imitates native app surfaces instead of marketing layouts.
func authentic(in *Input) *layer.Recipe {
	var r layer.Recipe
	switch FormatFor(in.Shot, in.Index) {
	case FormatIMessage:
		imessage(in, &r)
	case FormatNotes:
		notes(in, &r)
	case FormatTwitter:
		twitter(in, &r)
	default:
		pov(in, &r)
	}
	return &r
}

func solid(in *Input, c palette.Color) layer.DrawFunc {
	return func(dst *canvas.Buffer) error {
		canvas.Paste(dst, canvas.Filled(in.Width, in.Height, c.NRGBA(0xff)).Image(), 0, 0)
		return nil
	}
}

func imessage(in *Input, r *layer.Recipe) {
	r.Add(layer.Background, "messages-bg", solid(in, iosGrey))

	messages := in.Shot.Messages
	if len(messages) == 0 {
		messages = defaultMessages
	}
	margin, bubbleH, gap := in.px(60), in.px(80), in.px(15)
	top := in.px(300)
	bottom := top + len(messages)*(bubbleH+gap)

	r.Add(layer.MidElement, "bubbles", func(dst *canvas.Buffer) error {
		var errs []error
		y := top
		maxW := int(float64(in.Width) * 0.7)
		for _, m := range messages {
			fill, ink := bubbleGrey, iosInk
			if m.FromMe() {
				fill, ink = bubbleBlue, palette.White
			}
			pad := in.px(25)
			b := in.line(m.Text, 48, fonts.Regular, 0, 0, ink)
			b.MaxWidth = maxW - 2*pad
			l, err := typeset.Place(in.Fonts, b)
			if l.Fit.Face == nil {
				return err
			}
			if err != nil {
				errs = append(errs, err)
			}
			w := min(l.Bounds.Dx()+2*pad, maxW)
			x := margin
			if m.FromMe() {
				x = in.Width - margin - w
			}
			canvas.FillRoundedRect(dst, image.Rect(x, y, x+w, y+bubbleH), in.pt(30), fill.NRGBA(0xff))
			th := l.Bounds.Dy()
			l.Bounds = image.Rect(0, 0, l.Bounds.Dx(), th).Add(image.Pt(x+pad, y+(bubbleH-th)/2))
			l.Color = ink
			typeset.Draw(dst, l, typeset.Left, 0, nil)
			y += bubbleH + gap
		}
		if len(errs) > 0 {
			return errs[0]
		}
		return nil
	})

	screen := newLazy(func() *canvas.Buffer { return in.screenshot(0.5) })
	r.Add(layer.DeviceFrame, "screenshot", func(dst *canvas.Buffer) error {
		if in.SubjectMissing {
			return nil
		}
		canvas.Composite(dst, screen.get().Image(), margin, bottom+in.px(20))
		return nil
	})
}

func notes(in *Input, r *layer.Recipe) {
	r.Add(layer.Background, "paper", solid(in, notesPaper))
	r.AddZ(layer.Background, layer.ZBackground+1, "rules", func(dst *canvas.Buffer) error {
		step := max(in.px(70), 1)
		for y := in.px(200); y < in.Height; y += step {
			canvas.HLine(dst, in.px(60), in.fromRight(60), y, max(in.px(1), 1), notesRule.NRGBA(0xff))
		}
		return nil
	})

	title := in.Shot.Headline
	if title == "" {
		title = "Notes"
	}
	body := in.Shot.NoteText
	if body == "" {
		body = "Check out this app!"
	}
	r.Add(layer.Text, "title", func(dst *canvas.Buffer) error {
		return drawText(dst, in.Fonts, in.line(title, 65, fonts.Bold, in.px(80), in.px(100), iosInk), false)
	})
	r.AddZ(layer.Text, layer.ZText+1, "note", func(dst *canvas.Buffer) error {
		return drawLines(dst, in, body, 48, fonts.Regular, in.px(80), in.px(280), in.px(70), iosInk)
	})
}

func twitter(in *Input, r *layer.Recipe) {
	r.Add(layer.Background, "timeline", solid(in, palette.Black))
	r.Add(layer.MidElement, "avatar", func(dst *canvas.Buffer) error {
		x, y, d := in.px(80), in.px(280), in.px(100)
		canvas.FillEllipse(dst, image.Rect(x, y, x+d, y+d), avatarGrey.NRGBA(0xff))
		return nil
	})

	username := orDefault(in.Shot.Username, "user")
	handle := orDefault(in.Shot.Handle, "@user")
	tweet := orDefault(in.Shot.Tweet, "This app changed my life")

	r.Add(layer.Text, "username", func(dst *canvas.Buffer) error {
		return drawText(dst, in.Fonts, in.line(username, 50, fonts.Bold, in.px(200), in.px(285), tweetText), false)
	})
	r.AddZ(layer.Text, layer.ZText+1, "handle", func(dst *canvas.Buffer) error {
		return drawText(dst, in.Fonts, in.line(handle, 45, fonts.Regular, in.px(200), in.px(340), tweetHandle), false)
	})
	r.AddZ(layer.Text, layer.ZText+2, "tweet", func(dst *canvas.Buffer) error {
		return drawLines(dst, in, tweet, 52, fonts.Regular, in.px(80), in.px(450), in.px(65), tweetText)
	})
}

func pov(in *Input, r *layer.Recipe) {
	r.Add(layer.Background, "backdrop", solid(in, povBackdrop))
	// The screenshot is only known after the background phase, so the
	// darkened fill is the first decoration.
	r.AddZ(layer.DeviceFrame, layer.ZBackGlow, "dimmed-screenshot", func(dst *canvas.Buffer) error {
		if in.SubjectMissing {
			return nil
		}
		bg := canvas.Dim(canvas.Fill(in.subject(), in.Width, in.Height), povDimFactor)
		canvas.Paste(dst, bg.Image(), 0, 0)
		return nil
	})

	r.Add(layer.Text, "pov", func(dst *canvas.Buffer) error {
		b := fixedColor(in.centered("POV:", 55, fonts.Regular, in.px(250)), palette.White)
		return drawText(dst, in.Fonts, b, true)
	})
	r.AddZ(layer.Text, layer.ZText+1, "headline", func(dst *canvas.Buffer) error {
		b := fixedColor(in.centered(orDefault(in.Shot.Headline, "You found it"), 75, fonts.Bold, in.px(350)), palette.White)
		return drawText(dst, in.Fonts, b, true)
	})
}

// drawLines draws each newline-separated line of text at a fixed pitch.
func drawLines(dst *canvas.Buffer, in *Input, text string, size float64, weight fonts.Weight, x, y, pitch int, c palette.Color) error {
	var first error
	for i, line := range strings.Split(text, "\n") {
		err := drawText(dst, in.Fonts, in.line(line, size, weight, x, y+i*pitch, c), false)
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
