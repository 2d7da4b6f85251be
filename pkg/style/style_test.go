package style

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/config"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/gradient"
	"github.com/matzehuels/storeshot/pkg/layer"
	"github.com/matzehuels/storeshot/pkg/palette"
)

var subjectRed = color.NRGBA{R: 200, A: 255}

// input returns a reduced-size input (scale 0.2) with a red subject.
func input(index int, shot config.Shot) *Input {
	return &Input{
		Index:   index,
		Total:   4,
		AppName: "HabitFlow",
		Shot:    shot,
		Colors:  []palette.Color{palette.MustParse("#667eea"), palette.MustParse("#764ba2")},
		Width:   258,
		Height:  560,
		Subject: canvas.Filled(78, 169, subjectRed).Image(),
		Rand:    gradient.NewRand(uint64(index) * 17),
		Fonts:   fonts.NewCache(nil),
	}
}

func render(t *testing.T, r *layer.Recipe, in *Input) *canvas.Buffer {
	t.Helper()
	dst := canvas.New(in.Width, in.Height)
	for _, p := range layer.Phases {
		if _, err := r.Render(dst, p); err != nil {
			t.Fatalf("Render(%v) error = %v", p, err)
		}
	}
	return dst
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		want   Name
		wantOK bool
	}{
		{"premium", Premium, true},
		{"Minimal", Minimal, true},
		{" parallax ", Parallax, true},
		{"authentic", Authentic, true},
		{"storytelling", Storytelling, true},
		{"glassmorphism", Premium, false},
		{"", Premium, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBuildUnknownFallsBackToPremium(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	in := input(0, config.Shot{Headline: "Test"})
	r, name := Build("glassmorphism", in, logger)
	if name != Premium {
		t.Errorf("Build() style = %q, want premium", name)
	}
	if !strings.Contains(buf.String(), "unknown style") || !strings.Contains(buf.String(), "glassmorphism") {
		t.Errorf("fallback not logged at debug: %q", buf.String())
	}

	want, _ := Build("premium", in, nil)
	if r.Len() != want.Len() {
		t.Errorf("fallback recipe has %d layers, premium has %d", r.Len(), want.Len())
	}
}

func TestEveryStyleRendersOpaque(t *testing.T) {
	for _, n := range Names() {
		for i := range 4 {
			t.Run(fmt.Sprintf("%s/%d", n, i), func(t *testing.T) {
				in := input(i, config.Shot{Headline: "Build Habits", Subtitle: "One day at a time"})
				r, got := Build(string(n), in, nil)
				if got != n {
					t.Fatalf("Build(%q) resolved to %q", n, got)
				}

				// Backgrounds cover the canvas before anything else draws.
				dst := canvas.New(in.Width, in.Height)
				if _, err := r.Render(dst, layer.PhaseBackground); err != nil {
					t.Fatal(err)
				}
				if !canvas.Opaque(dst) {
					t.Error("background phase left transparent pixels")
				}

				dst = render(t, r, in)
				if !canvas.Opaque(dst) {
					t.Error("rendered shot is not opaque")
				}
			})
		}
	}
}

func TestRecipeOrder(t *testing.T) {
	for _, n := range Names() {
		r, _ := Build(string(n), input(0, config.Shot{Headline: "x"}), nil)
		layers := r.Ordered()
		if layers[0].Kind != layer.Background {
			t.Errorf("%s: first layer is %s, want background", n, layers[0].Kind)
		}
		for i := 1; i < len(layers); i++ {
			if layers[i].Z < layers[i-1].Z {
				t.Errorf("%s: layer %q (z=%d) after %q (z=%d)", n, layers[i].Name, layers[i].Z, layers[i-1].Name, layers[i-1].Z)
			}
		}
	}

	r, _ := Build("parallax", input(0, config.Shot{}), nil)
	var kinds []string
	for _, l := range r.Ordered() {
		kinds = append(kinds, l.Name)
	}
	want := "gradient ambient back-icons phone-shadow phone phone-glow stat-cards badges front-icons headline subhead cta"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("parallax order:\n got %s\nwant %s", got, want)
	}
}

func TestMinimalPlacesScreenshot(t *testing.T) {
	in := input(0, config.Shot{Headline: "Test"})
	in.Colors = []palette.Color{palette.White}
	r, _ := Build("minimal", in, nil)
	dst := render(t, r, in)

	// 0.7 of 258 is 180 wide; centered at 0.32 of the height.
	cx, cy := in.Width/2, in.fy(0.32)+in.px(200)
	if got := dst.At(cx, cy); got != subjectRed {
		t.Errorf("screenshot center = %v, want %v", got, subjectRed)
	}
	if got := dst.At(2, in.Height-2); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("background = %v, want white", got)
	}
}

func TestStorytellingProgress(t *testing.T) {
	in := input(1, config.Shot{Headline: "Step"})
	in.Width, in.Height = 645, 1398
	in.Total = 3
	r, _ := Build("storytelling", in, nil)
	dst := render(t, r, in)

	left, y := in.px(80), in.px(120)+in.px(8)/2
	segment := float64(in.Width-2*left) / 3
	for i := range 3 {
		x := left + int((float64(i)+0.5)*segment)
		got := dst.At(x, y)
		lit := got.R > 200 && got.G > 150
		if want := i <= 1; lit != want {
			t.Errorf("segment %d at (%d,%d) = %v, lit %v want %v", i, x, y, got, lit, want)
		}
	}
}

func TestFormatFor(t *testing.T) {
	var got []string
	for i := range 5 {
		got = append(got, FormatFor(config.Shot{}, i))
	}
	if want := "[imessage notes twitter pov imessage]"; fmt.Sprint(got) != want {
		t.Errorf("cycled formats = %v, want %s", got, want)
	}
	if f := FormatFor(config.Shot{Format: "Twitter"}, 0); f != FormatTwitter {
		t.Errorf("explicit format = %q", f)
	}
}

func TestAuthenticFormats(t *testing.T) {
	tests := []struct {
		format  string
		missing bool
		at      image.Point
		want    color.NRGBA
	}{
		{FormatNotes, false, image.Pt(5, 5), notesPaper.NRGBA(255)},
		{FormatTwitter, false, image.Pt(5, 5), palette.Black.NRGBA(255)},
		{FormatIMessage, true, image.Pt(5, 555), iosGrey.NRGBA(255)},
		{FormatPOV, true, image.Pt(5, 555), povBackdrop.NRGBA(255)},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			in := input(0, config.Shot{Format: tt.format, Headline: "You found it"})
			if tt.missing {
				in.Subject, in.SubjectMissing = nil, true
			}
			r, _ := Build("authentic", in, nil)
			dst := render(t, r, in)
			if got := dst.At(tt.at.X, tt.at.Y); got != tt.want {
				t.Errorf("pixel %v = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestPOVDimsScreenshot(t *testing.T) {
	in := input(0, config.Shot{Format: FormatPOV})
	r, _ := Build("authentic", in, nil)
	dst := render(t, r, in)

	got := dst.At(5, in.Height-5)
	if d := int(got.R) - 80; d < -2 || d > 2 || got.G > 2 {
		t.Errorf("dimmed screenshot = %v, want about (80,0,0)", got)
	}
}

func TestBackdropOverride(t *testing.T) {
	zero, two := 0, 2
	tests := []struct {
		name  string
		style string
		bg    *config.Background
		want  func(in *Input) *canvas.Buffer
	}{
		{"premium default mesh", "premium", nil, func(in *Input) *canvas.Buffer {
			return gradient.Mesh(in.Width, in.Height, in.Colors, gradient.DefaultBlobs, gradient.NewRand(0))
		}},
		{"premium as vertical", "premium", &config.Background{Direction: "vertical"}, func(in *Input) *canvas.Buffer {
			return gradient.Linear(in.Width, in.Height, gradient.Even(in.Colors...), gradient.Vertical)
		}},
		{"premium without blobs", "premium", &config.Background{Blobs: &zero}, func(in *Input) *canvas.Buffer {
			return gradient.Mesh(in.Width, in.Height, in.Colors, 0, nil)
		}},
		{"parallax as mesh", "parallax", &config.Background{Direction: "mesh", Blobs: &two}, func(in *Input) *canvas.Buffer {
			return gradient.Mesh(in.Width, in.Height, nightSky, 2, gradient.NewRand(0))
		}},
		{"parallax radial default blobs", "parallax", &config.Background{Direction: "radial"}, func(in *Input) *canvas.Buffer {
			return gradient.Mesh(in.Width, in.Height, nightSky, gradient.DefaultBlobs, gradient.NewRand(0))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input(0, config.Shot{Headline: "x"})
			in.Background = tt.bg
			r, _ := Build(tt.style, in, nil)

			dst := canvas.New(in.Width, in.Height)
			if _, err := r.Render(dst, layer.PhaseBackground); err != nil {
				t.Fatal(err)
			}
			if !canvas.Equal(dst, tt.want(in)) {
				t.Error("background phase does not match the expected gradient")
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	for _, n := range Names() {
		if Describe(n) == "" {
			t.Errorf("%s has no description", n)
		}
	}
}
