package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/storeshot/pkg/cache"
	"github.com/matzehuels/storeshot/pkg/errors"
	"github.com/matzehuels/storeshot/pkg/fonts"
	"github.com/matzehuels/storeshot/pkg/httputil"
	sio "github.com/matzehuels/storeshot/pkg/io"
	"github.com/matzehuels/storeshot/pkg/observability"
	"github.com/matzehuels/storeshot/pkg/palette"
	"github.com/matzehuels/storeshot/pkg/style"
)

// DefaultFetchTimeout bounds one remote screenshot download.
const DefaultFetchTimeout = 30 * time.Second

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent Execute calls.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// HTTP fetches remote screenshots. nil disables http(s) references.
	HTTP *httputil.Client
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.NewDefaultKeyer] and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		HTTP:   httputil.NewClient(DefaultFetchTimeout),
	}
}

// Execute renders the selected entries. Per-entry failures are reported in
// [EntryResult.Err] and do not stop the run; an error is returned only for
// invalid options or cancellation.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	loader := &sio.Loader{
		RawDir: opts.RawDir,
		Client: r.HTTP,
		Cache:  r.Cache,
		Keyer:  r.Keyer,
		Logger: logger,
	}
	provider := fonts.ForName(opts.Fonts, logger)

	indexes := opts.indexes()
	result.Entries = make([]EntryResult, len(indexes))
	observability.Render().OnRunStart(ctx, result.RunID, len(indexes))
	logger.Info("rendering",
		"entries", len(indexes),
		"style", opts.resolved.Style,
		"canvas", fmt.Sprintf("%dx%d", opts.resolved.Canvas.Width, opts.resolved.Canvas.Height),
		"jobs", opts.Jobs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for slot, i := range indexes {
		g.Go(func() error {
			result.Entries[slot] = r.renderOne(gctx, &opts, i, loader, provider, logger)
			return nil
		})
	}
	_ = g.Wait()

	for _, e := range result.Entries {
		switch {
		case !e.OK():
			result.Stats.Failed++
		case e.CacheHit:
			result.Stats.Cached++
		default:
			result.Stats.Rendered++
		}
		result.Stats.Warnings += len(e.Warnings)
	}
	result.Stats.Duration = time.Since(start)
	observability.Render().OnRunComplete(ctx, result.RunID, result.Stats.Failed, result.Stats.Duration)

	logger.Info("render complete",
		"rendered", result.Stats.Rendered,
		"cached", result.Stats.Cached,
		"failed", result.Stats.Failed,
		"duration", result.Stats.Duration)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// RenderEntry renders one entry in memory, ignoring Options.Entries and
// Options.OutDir.
func (r *Runner) RenderEntry(ctx context.Context, opts Options, index int) (EntryResult, error) {
	opts.Entries = []int{index}
	opts.OutDir = ""
	res, err := r.Execute(ctx, opts)
	if err != nil {
		return EntryResult{}, err
	}
	e := res.Entries[0]
	return e, e.Err
}

// renderOne loads, renders, caches and writes one entry.
func (r *Runner) renderOne(ctx context.Context, opts *Options, i int, loader *sio.Loader, provider fonts.Provider, logger *log.Logger) (res EntryResult) {
	start := time.Now()
	shot := opts.resolved.Screenshots[i]
	name, _ := style.Resolve(opts.resolved.Style)
	res = EntryResult{Index: i, Style: name, Name: sio.OutputName(i, string(name))}
	elog := logger.With("entry", i+1)

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, string(name), i)
	defer func() {
		res.Duration = time.Since(start)
		hooks.OnRenderComplete(ctx, string(name), i, res.Stage.String(), res.Duration, res.Err)
		if res.Err != nil {
			elog.Error("entry failed", "stage", res.Stage, "err", res.Err)
		}
	}()

	src, err := loader.Load(ctx, shot.Image)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeMissingInputImage) {
			res.Err = err
			return res
		}
		if shot.Image != "" {
			elog.Warn("screenshot missing, using placeholder", "image", shot.Image)
		}
		elog.Debug("placeholder subject", "err", err)
		src = nil
		res.SubjectMissing = true
	}

	colors := opts.colors
	if opts.resolved.AutoColors() {
		colors = r.autoColors(ctx, src, palette.ParseMethod(opts.PaletteMethod), elog)
	}

	subjectHash := "placeholder"
	if src != nil {
		subjectHash = cache.Hash(src.Data)
	}
	key := r.Keyer.RenderKey(subjectHash, opts.renderKeyOpts(i, name, colors))

	if data, ok := r.cached(ctx, key, "render", opts.Refresh, elog); ok {
		res.PNG, res.Stage, res.CacheHit = data, StageFinalized, true
	} else {
		data, stage, warnings, err := renderEntry(ctx, opts, entry{
			index:   i,
			style:   opts.resolved.Style,
			colors:  colors,
			subject: src,
			fonts:   provider,
		}, elog)
		res.Stage, res.Warnings = stage, warnings
		for _, w := range warnings {
			elog.Warn("recovered", "err", w)
		}
		if err != nil {
			res.Err = fmt.Errorf("%s: %w", stage, err)
			return res
		}
		res.PNG = data
		r.store(ctx, key, "render", data, cache.TTLRender, elog)
	}

	if opts.OutDir != "" {
		path := filepath.Join(opts.OutDir, res.Name)
		if err := sio.WriteFile(path, res.PNG); err != nil {
			res.Err = err
			return res
		}
		res.Path = path
	}
	elog.Debug("entry done", "name", res.Name, "cached", res.CacheHit, "duration", time.Since(start))
	return res
}

// autoColors extracts (or recalls) the scheme of one screenshot.
func (r *Runner) autoColors(ctx context.Context, src *sio.Source, method palette.Method, logger *log.Logger) []palette.Color {
	if src == nil {
		return autoColors(nil, method)
	}
	key := r.Keyer.PaletteKey(cache.Hash(src.Data), cache.PaletteKeyOpts{K: AutoColorCount, Method: method.String()})
	if data, ok := r.cached(ctx, key, "palette", false, logger); ok {
		var hexes []string
		if err := json.Unmarshal(data, &hexes); err == nil {
			if cs, err := palette.ParseAll(hexes); err == nil && len(cs) > 0 {
				return cs
			}
		}
	}

	colors := autoColors(src.Image, method)
	hexes := make([]string, len(colors))
	for i, c := range colors {
		hexes[i] = c.Hex()
	}
	logger.Debug("extracted palette", "colors", hexes, "method", method)
	if data, err := json.Marshal(hexes); err == nil {
		r.store(ctx, key, "palette", data, cache.TTLPalette, logger)
	}
	return colors
}

// cached looks key up, reporting hits and misses to the cache hooks.
// Read errors are logged and treated as misses.
func (r *Runner) cached(ctx context.Context, key, keyType string, skip bool, logger *log.Logger) ([]byte, bool) {
	if skip {
		return nil, false
	}
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
