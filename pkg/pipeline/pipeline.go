// Package pipeline renders the screenshot entries of a style config.
//
// Each entry moves through fixed stages:
//
//  1. Init: resolve the style, seed the RNG, build the layer recipe
//  2. BackgroundRendered: background layers are drawn
//  3. FramedSubjectPlaced: the screenshot (or a placeholder) is attached
//  4. DecorationsApplied: glows, shadows, device, cards and badges
//  5. TextApplied: headline, subtitle and call-to-action
//  6. Finalized: flattened to opaque and encoded as PNG
//
// Entries are independent. The [Runner] renders them concurrently up to
// [Options.Jobs], keeps results in config order and caches finished PNGs
// keyed by everything that affects their pixels.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config: cfg,
//	    RawDir: "raw",
//	    OutDir: "output",
//	})
//	for _, e := range result.Entries {
//	    fmt.Println(e.Name, e.Stage, e.Err)
//	}
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeshot/pkg/buildinfo"
	"github.com/matzehuels/storeshot/pkg/cache"
	"github.com/matzehuels/storeshot/pkg/config"
	"github.com/matzehuels/storeshot/pkg/errors"
	"github.com/matzehuels/storeshot/pkg/palette"
	"github.com/matzehuels/storeshot/pkg/style"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// SeedStride spreads default per-entry seeds: entry i uses i·SeedStride.
	SeedStride = 17

	// AutoColorCount is how many colors an auto scheme extracts per screenshot.
	AutoColorCount = 3

	// DefaultFonts selects the embedded sans family.
	DefaultFonts = "embedded"
)

// =============================================================================
// Stages
// =============================================================================

// Stage is the last step an entry completed.
type Stage int

const (
	StageInit Stage = iota
	StageBackgroundRendered
	StageFramedSubjectPlaced
	StageDecorationsApplied
	StageTextApplied
	StageFinalized
)

var stageNames = [...]string{
	"init",
	"background-rendered",
	"framed-subject-placed",
	"decorations-applied",
	"text-applied",
	"finalized",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// =============================================================================
// Options
// =============================================================================

// Options configures a run.
type Options struct {
	// Config is required. It is never modified.
	Config *config.StyleConfig `json:"config"`

	// Style overrides Config.Style when set.
	Style string `json:"style,omitempty"`

	// Device selects a canvas preset ("iphone", "ipad") overriding Config.Canvas.
	Device string `json:"device,omitempty"`

	// RawDir resolves relative image references.
	RawDir string `json:"raw_dir,omitempty"`

	// OutDir receives <n>_<style>.png per entry. Empty keeps PNGs in memory only.
	OutDir string `json:"out_dir,omitempty"`

	// Entries limits the run to these indexes. Empty renders all.
	Entries []int `json:"entries,omitempty"`

	// Jobs bounds concurrent entries. Zero means GOMAXPROCS.
	Jobs int `json:"jobs,omitempty"`

	// Fonts is passed to fonts.ForName: "embedded", "mono" or "system".
	Fonts string `json:"fonts,omitempty"`

	// PaletteMethod is used for auto color schemes: "dominant" or "kmeans".
	PaletteMethod string `json:"palette_method,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// resolved holds Config after Style and Device are applied.
	resolved *config.StyleConfig
	colors   []palette.Color

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the config and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == nil {
		return errors.New(errors.ErrCodeConfigValidation, "config is required")
	}

	cfg := o.Config.Clone()
	if o.Style != "" {
		cfg = cfg.WithStyle(o.Style)
	}
	if o.Device != "" {
		c, err := config.Preset(o.Device)
		if err != nil {
			return err
		}
		cfg.Canvas = c
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	colors, err := cfg.Colors()
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigValidation, err, "color_scheme")
	}
	for _, i := range o.Entries {
		if i < 0 || i >= len(cfg.Screenshots) {
			return errors.New(errors.ErrCodeInvalidInput, "entry %d out of range (have %d)", i, len(cfg.Screenshots))
		}
	}

	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.Fonts == "" {
		o.Fonts = DefaultFonts
	}
	if o.PaletteMethod == "" {
		o.PaletteMethod = palette.MethodDominant.String()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.resolved = cfg
	o.colors = colors
	o.validated = true
	return nil
}

// Resolved returns the effective config (style and device applied). It is
// nil before ValidateAndSetDefaults.
func (o *Options) Resolved() *config.StyleConfig { return o.resolved }

// indexes returns the entries to render, in order.
func (o *Options) indexes() []int {
	if len(o.Entries) > 0 {
		return o.Entries
	}
	out := make([]int, len(o.resolved.Screenshots))
	for i := range out {
		out[i] = i
	}
	return out
}

// seed returns the RNG seed for entry i.
func (o *Options) seed(i int) uint64 {
	if s := o.resolved.Screenshots[i].Seed; s != nil {
		return *s
	}
	return uint64(i) * SeedStride
}

// renderKeyOpts returns cache key options for entry i.
func (o *Options) renderKeyOpts(i int, styleName style.Name, colors []palette.Color) cache.RenderKeyOpts {
	hexes := make([]string, len(colors))
	for j, c := range colors {
		hexes[j] = c.Hex()
	}
	opts := cache.RenderKeyOpts{
		Version: buildinfo.Version,
		Style:   string(styleName),
		Width:   o.resolved.Canvas.Width,
		Height:  o.resolved.Canvas.Height,
		Colors:  hexes,
		Index:   i,
		Total:   len(o.resolved.Screenshots),
		Seed:    o.seed(i),
		Fonts:   o.Fonts,
		Shot:    o.resolved.Screenshots[i],
	}
	// A nil *Background must stay a nil interface to be omitted.
	if bg := o.resolved.Background; bg != nil {
		opts.Background = bg
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// EntryResult is the outcome of one entry.
type EntryResult struct {
	Index int
	Style style.Name
	// Name is the output file name, e.g. "1_premium.png".
	Name string
	// Path is set when the PNG was written to Options.OutDir.
	Path string
	PNG  []byte

	// Stage is the last stage reached. Finalized on success.
	Stage Stage
	Err   error
	// Warnings are recovered layer problems, e.g. text that did not fit at
	// the minimum size.
	Warnings []error

	// SubjectMissing is set when a placeholder stood in for the screenshot.
	SubjectMissing bool
	CacheHit       bool
	Duration       time.Duration
}

// OK reports whether the entry rendered.
func (e EntryResult) OK() bool { return e.Err == nil && e.Stage == StageFinalized }

// Result is the outcome of a run.
type Result struct {
	// RunID identifies the run in logs and hooks.
	RunID   string
	Entries []EntryResult
	Stats   Stats
}

// Stats summarizes a run.
type Stats struct {
	Rendered int
	Cached   int
	Failed   int
	Warnings int
	Duration time.Duration
}

// Failed returns the entries that did not finalize.
func (r *Result) Failed() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}
