package pipeline

import (
	"context"
	"image"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/config"
	"github.com/matzehuels/storeshot/pkg/errors"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/gradient"
	sio "github.com/matzehuels/storeshot/pkg/io"
	"github.com/matzehuels/storeshot/pkg/layer"
	"github.com/matzehuels/storeshot/pkg/palette"
	"github.com/matzehuels/storeshot/pkg/style"
)

// entry is the resolved work for one screenshot.
type entry struct {
	index   int
	style   string
	colors  []palette.Color
	subject *sio.Source // nil when the screenshot is missing
	fonts   fonts.Provider
}

// renderEntry runs one entry through every stage and returns the PNG. The
// returned Stage is the last one completed, also on error. A panic in a
// layer is returned as INTERNAL_ERROR.
func renderEntry(ctx context.Context, opts *Options, e entry, logger *log.Logger) (data []byte, stage Stage, warnings []error, err error) {
	defer func() {
		if p := recover(); p != nil {
			data, err = nil, errors.New(errors.ErrCodeInternal, "render panicked: %v", p)
		}
	}()

	cfg := opts.resolved
	w, h := cfg.Canvas.Width, cfg.Canvas.Height
	// Faces are not safe for concurrent use; each entry gets its own cache.
	faces := fonts.NewCache(e.fonts)
	defer faces.Close()

	in := &style.Input{
		Index:      e.index,
		Total:      len(cfg.Screenshots),
		AppName:    cfg.AppName,
		Shot:       cfg.Screenshots[e.index],
		Colors:     e.colors,
		Width:      w,
		Height:     h,
		Background: cfg.Background,
		Rand:       gradient.NewRand(opts.seed(e.index)),
		Fonts:      faces,
	}
	recipe, _ := style.Build(e.style, in, logger)
	stage = StageInit

	dst := canvas.New(w, h)
	phase := func(p layer.Phase, next Stage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		ws, err := recipe.Render(dst, p)
		warnings = append(warnings, ws...)
		if err != nil {
			return err
		}
		stage = next
		return nil
	}

	if err := phase(layer.PhaseBackground, StageBackgroundRendered); err != nil {
		return nil, stage, warnings, err
	}

	if e.subject != nil {
		in.Subject = e.subject.Image
	} else {
		in.Subject = canvas.Placeholder(canvas.PlaceholderWidth, canvas.PlaceholderHeight).Image()
		in.SubjectMissing = true
	}
	stage = StageFramedSubjectPlaced

	if err := phase(layer.PhaseDecorations, StageDecorationsApplied); err != nil {
		return nil, stage, warnings, err
	}
	if err := phase(layer.PhaseText, StageTextApplied); err != nil {
		return nil, stage, warnings, err
	}

	out := canvas.Flatten(dst, palette.Black.NRGBA(0xff))
	data, err = sio.PNGBytes(out.Image())
	if err != nil {
		return nil, stage, warnings, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return data, StageFinalized, warnings, nil
}

// autoColors extracts a scheme from the screenshot, falling back to the
// default scheme when there is none.
func autoColors(img image.Image, method palette.Method) []palette.Color {
	if img != nil {
		if cs := palette.Extract(img, AutoColorCount, method); len(cs) > 0 {
			return cs
		}
	}
	cs, _ := palette.ParseAll(config.DefaultColors)
	return cs
}
