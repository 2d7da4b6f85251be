package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"

	"github.com/matzehuels/storeshot/pkg/buildinfo"
	"github.com/matzehuels/storeshot/pkg/cache"
	"github.com/matzehuels/storeshot/pkg/canvas"
	"github.com/matzehuels/storeshot/pkg/config"
	"github.com/matzehuels/storeshot/pkg/errors"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/observability"
	"github.com/matzehuels/storeshot/pkg/style"
)

// smallConfig renders at a fifth of the iPhone size to keep tests fast.
func smallConfig(styleName string, shots ...config.Shot) *config.StyleConfig {
	if len(shots) == 0 {
		shots = []config.Shot{
			{Headline: "Build Habits"},
			{Headline: "Track Progress"},
			{Headline: "Celebrate"},
		}
	}
	return &config.StyleConfig{
		AppName:     "HabitFlow",
		Style:       styleName,
		ColorScheme: []string{"#667eea", "#764ba2"},
		Canvas:      config.Canvas{Width: 258, Height: 560},
		Screenshots: shots,
	}
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func TestStageString(t *testing.T) {
	var got []string
	for s := StageInit; s <= StageFinalized; s++ {
		got = append(got, s.String())
	}
	want := "[init background-rendered framed-subject-placed decorations-applied text-applied finalized]"
	if fmt.Sprint(got) != want {
		t.Errorf("stages = %v", got)
	}
	if Stage(42).String() != "unknown" {
		t.Error("out of range stage should be unknown")
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	t.Run("requires config", func(t *testing.T) {
		var o Options
		if err := o.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeConfigValidation) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("applies overrides without touching config", func(t *testing.T) {
		cfg := smallConfig("premium")
		o := Options{Config: cfg, Style: "Minimal", Device: "ipad"}
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		if got := o.Resolved(); got.Style != "minimal" || got.Canvas != config.IPad {
			t.Errorf("resolved = %s %v", got.Style, got.Canvas)
		}
		if cfg.Style != "premium" || cfg.Canvas.Width != 258 {
			t.Error("input config was modified")
		}
		if o.Jobs <= 0 || o.Fonts != DefaultFonts || o.PaletteMethod != "dominant" || o.Logger == nil {
			t.Errorf("defaults not applied: %+v", o)
		}
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Errorf("second call: %v", err)
		}
	})

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad device", Options{Config: smallConfig("premium"), Device: "watch"}, errors.ErrCodeInvalidInput},
		{"entry out of range", Options{Config: smallConfig("premium"), Entries: []int{3}}, errors.ErrCodeInvalidInput},
		{"bad color", Options{Config: &config.StyleConfig{ColorScheme: []string{"#12"}, Screenshots: []config.Shot{{}}}}, errors.ErrCodeConfigValidation},
		{"no screenshots", Options{Config: &config.StyleConfig{}}, errors.ErrCodeConfigValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestMinimalPlaceholderScenario(t *testing.T) {
	cfg := &config.StyleConfig{
		Style:       "minimal",
		ColorScheme: []string{"#000000"},
		Screenshots: []config.Shot{{Headline: "Test"}},
	}
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	e := res.Entries[0]
	if !e.OK() || !e.SubjectMissing {
		t.Fatalf("entry = stage %s err %v missing %v", e.Stage, e.Err, e.SubjectMissing)
	}
	if e.Name != "1_minimal.png" {
		t.Errorf("name = %s", e.Name)
	}

	// Opaque images are written without an alpha channel (color type 2).
	if ct := e.PNG[25]; ct != 2 {
		t.Errorf("PNG color type = %d, want 2 (RGB)", ct)
	}
	img := decode(t, e.PNG)
	if b := img.Bounds(); b.Dx() != 1290 || b.Dy() != 2796 {
		t.Fatalf("size = %v", b)
	}
	buf := canvas.FromImage(img)
	if !canvas.Opaque(buf) {
		t.Error("output not opaque")
	}
	if got := buf.At(645, 1500); got != canvas.PlaceholderColor {
		t.Errorf("screenshot area = %v, want placeholder %v", got, canvas.PlaceholderColor)
	}

	// The headline is white on black; its ink must be centered.
	minX, maxX := buf.Width(), -1
	for y := 270; y < 700; y++ {
		for x := range buf.Width() {
			if buf.At(x, y).R > 200 {
				minX, maxX = min(minX, x), max(maxX, x)
			}
		}
	}
	if maxX < 0 {
		t.Fatal("no headline pixels found")
	}
	if mid := (minX + maxX) / 2; mid < 645-12 || mid > 645+12 {
		t.Errorf("headline spans x %d..%d, center %d; want about 645", minX, maxX, mid)
	}
}

func TestExecuteWritesInOrder(t *testing.T) {
	out := t.TempDir()
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Config: smallConfig("premium"),
		OutDir: out,
		Jobs:   3,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 3 || res.RunID == "" {
		t.Fatalf("result = %d entries, run %q", len(res.Entries), res.RunID)
	}
	for i, e := range res.Entries {
		if e.Index != i {
			t.Errorf("entry %d has index %d", i, e.Index)
		}
		want := filepath.Join(out, fmt.Sprintf("%d_premium.png", i+1))
		if e.Path != want {
			t.Errorf("path = %s, want %s", e.Path, want)
		}
		data, err := os.ReadFile(want)
		if err != nil || !bytes.Equal(data, e.PNG) {
			t.Errorf("written file differs from result (err %v)", err)
		}
	}
	if res.Stats.Rendered != 3 || res.Stats.Failed != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	run := func(jobs int) [][]byte {
		res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: smallConfig("premium"), Jobs: jobs})
		if err != nil {
			t.Fatal(err)
		}
		var out [][]byte
		for _, e := range res.Entries {
			out = append(out, e.PNG)
		}
		return out
	}
	serial, parallel := run(1), run(3)
	for i := range serial {
		if !bytes.Equal(serial[i], parallel[i]) {
			t.Errorf("entry %d differs between serial and parallel runs", i)
		}
	}
}

func TestExecuteUnknownStyleFallsBack(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Config:  smallConfig("glassmorphism"),
		Entries: []int{1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("got %d entries", len(res.Entries))
	}
	if e := res.Entries[0]; e.Style != style.Premium || e.Name != "2_premium.png" || !e.OK() {
		t.Errorf("entry = %s %s %v", e.Style, e.Name, e.Err)
	}
}

func TestExecuteParallaxTransforms(t *testing.T) {
	tiltX, seed := 6.0, uint64(3)
	cfg := smallConfig("parallax",
		config.Shot{Headline: "Tilted", Seed: &seed},
		config.Shot{Headline: "Tilted", Seed: &seed, Transform: config.TransformPerspective, TiltX: &tiltX},
	)
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: cfg})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range res.Entries {
		if !e.OK() {
			t.Fatalf("entry %d: stage %s, err %v", e.Index, e.Stage, e.Err)
		}
		if b := decode(t, e.PNG).Bounds(); b.Dx() != 258 || b.Dy() != 560 {
			t.Errorf("entry %d size = %v", e.Index, b.Size())
		}
	}
	// The shots differ only in the device transform.
	shear, persp := decode(t, res.Entries[0].PNG), decode(t, res.Entries[1].PNG)
	if sameImage(shear, persp) {
		t.Error("perspective transform rendered identically to shear")
	}
}

func sameImage(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			if a.At(x, y) != b.At(x, y) {
				return false
			}
		}
	}
	return true
}

func TestExecuteCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	opts := Options{Config: smallConfig("storytelling")}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.Stats.Cached != 3 {
		t.Errorf("second run cached %d, want 3", second.Stats.Cached)
	}
	for i := range first.Entries {
		if first.Entries[i].CacheHit {
			t.Errorf("entry %d hit an empty cache", i)
		}
		if !bytes.Equal(first.Entries[i].PNG, second.Entries[i].PNG) {
			t.Errorf("entry %d cached bytes differ", i)
		}
	}

	opts.Refresh = true
	third, _ := r.Execute(context.Background(), opts)
	if third.Stats.Cached != 0 {
		t.Errorf("refresh run cached %d", third.Stats.Cached)
	}

	changed := smallConfig("storytelling")
	changed.Screenshots[0].Headline = "Different"
	fourth, _ := r.Execute(context.Background(), Options{Config: changed})
	if fourth.Entries[0].CacheHit || !fourth.Entries[1].CacheHit {
		t.Error("cache key does not follow shot content")
	}
}

func TestExecuteCacheKeyedByVersionAndBackground(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	prev := buildinfo.Version
	t.Cleanup(func() { buildinfo.Version = prev })

	r := NewRunner(fc, nil, nil)
	cfg := smallConfig("storytelling", config.Shot{Headline: "Step"})
	run := func(c *config.StyleConfig) EntryResult {
		t.Helper()
		res, err := r.Execute(context.Background(), Options{Config: c})
		if err != nil {
			t.Fatal(err)
		}
		return res.Entries[0]
	}

	buildinfo.Version = "v1.0.0"
	base := run(cfg)
	if !run(cfg).CacheHit {
		t.Fatal("identical run missed the cache")
	}

	buildinfo.Version = "v1.1.0"
	if run(cfg).CacheHit {
		t.Error("render from another version served from cache")
	}

	diag := cfg.Clone()
	diag.Background = &config.Background{Direction: "diagonal"}
	got := run(diag)
	if got.CacheHit {
		t.Error("background override served the plain gradient from cache")
	}
	if bytes.Equal(got.PNG, base.PNG) {
		t.Error("background override did not change the render")
	}
}

func TestExecuteEntryFailureDoesNotStopRun(t *testing.T) {
	raw := t.TempDir()
	os.WriteFile(filepath.Join(raw, "broken.png"), []byte("not a png"), 0o644)

	cfg := smallConfig("minimal",
		config.Shot{Headline: "ok"},
		config.Shot{Headline: "bad", Image: "broken.png"},
		config.Shot{Headline: "missing", Image: "nope.png"},
	)
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: cfg, RawDir: raw})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Entries[0].OK() || !res.Entries[2].OK() {
		t.Error("healthy entries failed")
	}
	if !res.Entries[2].SubjectMissing {
		t.Error("missing image not replaced by placeholder")
	}
	bad := res.Entries[1]
	if bad.OK() || !errors.Is(bad.Err, errors.ErrCodeInvalidImage) || bad.Stage != StageInit {
		t.Errorf("broken entry = stage %s err %v", bad.Stage, bad.Err)
	}
	if res.Stats.Failed != 1 || len(res.Failed()) != 1 {
		t.Errorf("failed = %d", res.Stats.Failed)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewRunner(nil, nil, nil).Execute(ctx, Options{Config: smallConfig("minimal")})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if res == nil || res.Stats.Failed != 3 {
		t.Errorf("cancelled run result = %+v", res)
	}
}

func TestAutoColorsFromScreenshot(t *testing.T) {
	raw := t.TempDir()
	red := canvas.Filled(60, 120, color.NRGBA{R: 220, G: 30, B: 30, A: 255})
	f, _ := os.Create(filepath.Join(raw, "red.png"))
	png.Encode(f, red.Image())
	f.Close()

	cfg := smallConfig("minimal", config.Shot{Image: "red.png"})
	cfg.ColorScheme = []string{"auto"}
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: cfg, RawDir: raw})
	if err != nil {
		t.Fatal(err)
	}
	img := decode(t, res.Entries[0].PNG)
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 < 150 || g>>8 > 80 || b>>8 > 80 {
		t.Errorf("background = (%d,%d,%d), want extracted red", r>>8, g>>8, b>>8)
	}
}

func TestRenderEntry(t *testing.T) {
	e, err := NewRunner(nil, nil, nil).RenderEntry(context.Background(), Options{
		Config: smallConfig("authentic"),
		OutDir: t.TempDir(),
	}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if e.Index != 2 || e.Path != "" || len(e.PNG) == 0 {
		t.Errorf("entry = index %d path %q png %d bytes", e.Index, e.Path, len(e.PNG))
	}
}

// panickingFonts fails every face lookup with a panic.
type panickingFonts struct{}

func (panickingFonts) Face(float64, fonts.Weight) (font.Face, error) {
	panic("face table corrupt")
}

func TestRenderEntryRecoversPanic(t *testing.T) {
	opts := &Options{Config: smallConfig("minimal")}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	data, stage, _, err := renderEntry(context.Background(), opts, entry{
		index:  0,
		style:  "minimal",
		colors: opts.colors,
		fonts:  panickingFonts{},
	}, log.New(io.Discard))
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Fatalf("err = %v, want %s", err, errors.ErrCodeInternal)
	}
	if data != nil {
		t.Error("panicked render returned image data")
	}
	if stage == StageFinalized {
		t.Error("panicked render reported finalized")
	}
}

type recordingHooks struct {
	observability.NoopRenderHooks
	mu     sync.Mutex
	starts int
	stages []string
}

func (h *recordingHooks) OnRenderStart(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, _ string, _ int, stage string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, stage)
}

func TestRenderHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetRenderHooks(h)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: smallConfig("minimal")}); err != nil {
		t.Fatal(err)
	}
	if h.starts != 3 || len(h.stages) != 3 {
		t.Fatalf("hooks saw %d starts, %d completions", h.starts, len(h.stages))
	}
	for _, s := range h.stages {
		if s != "finalized" {
			t.Errorf("completed at stage %s", s)
		}
	}
}
