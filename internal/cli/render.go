package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storeshot/pkg/config"
	sio "github.com/matzehuels/storeshot/pkg/io"
	"github.com/matzehuels/storeshot/pkg/pipeline"
	"github.com/matzehuels/storeshot/pkg/style"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	rawDir    string // directory of raw screenshots, mapped onto entries in sorted order
	outDir    string // output directory (or base directory with --all-styles)
	style     string // style override
	demo      bool   // use the built-in demo config
	device    string // canvas preset: iphone or ipad
	jobs      int    // concurrent entries (0 = GOMAXPROCS)
	entries   []int  // 1-based entry numbers to render (empty = all)
	fonts     string // font provider: embedded, mono, system
	method    string // palette method for "auto" schemes
	refresh   bool   // ignore cached renders
	allStyles bool   // render every style into <out>/<style>
	pick      bool   // choose the style interactively
	cache     cacheFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		rawDir: defaultRawDir,
		outDir: defaultOutDir,
		fonts:  pipeline.DefaultFonts,
		method: "dominant",
	}

	cmd := &cobra.Command{
		Use:   "render [config]",
		Short: "Render screenshots into marketing images",
		Long: `Render screenshots into marketing images.

The config (JSON, YAML or TOML) names the app, a style, a color scheme and one
entry per output image. Without a config, or with --demo, the built-in demo is
used. Images in --raw are assigned to entries in sorted order, cycling when
there are fewer files than entries; missing images render a placeholder.

Each entry is written as <n>_<style>.png. Finished renders are cached, so
unchanged entries are not drawn again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runRender(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.rawDir, "raw", opts.rawDir, "directory of raw screenshots")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", opts.outDir, "output directory")
	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "style override: "+styleList())
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "use the built-in demo config")
	cmd.Flags().StringVar(&opts.device, "device", "", "canvas preset: iphone, ipad")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "entries rendered concurrently (default: number of CPUs)")
	cmd.Flags().IntSliceVarP(&opts.entries, "entry", "e", nil, "render only these entries (1-based, repeatable)")
	cmd.Flags().StringVar(&opts.fonts, "fonts", opts.fonts, "fonts: embedded, mono, system")
	cmd.Flags().StringVar(&opts.method, "method", opts.method, "palette method for auto color schemes: dominant, kmeans")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached renders")
	cmd.Flags().BoolVar(&opts.allStyles, "all-styles", false, "render every style into <out>/<style>")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the style interactively")
	cmd.Flags().BoolVar(&opts.cache.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.cache.redis, "redis", "", "use the redis cache at this address")
	cmd.MarkFlagsMutuallyExclusive("all-styles", "pick", "style")
	completeFlagValues(cmd, renderFlagValues())

	return cmd
}

// runRender loads the config and runs the pipeline once per selected style.
func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(path, opts.demo)
	if err != nil {
		return err
	}
	files, err := sio.ListRaw(opts.rawDir)
	if err != nil {
		return fmt.Errorf("list %s: %w", opts.rawDir, err)
	}
	if len(files) == 0 {
		logger.Warn("no raw screenshots, entries will use placeholders", "dir", opts.rawDir)
	}
	cfg = cfg.MapImages(files)

	styles, err := c.selectStyles(ctx, opts)
	if err != nil || len(styles) == 0 {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	entries := make([]int, len(opts.entries))
	for i, n := range opts.entries {
		entries[i] = n - 1
	}

	failed := 0
	prog := newProgress(logger)
	for _, name := range styles {
		outDir := opts.outDir
		if opts.allStyles {
			outDir = filepath.Join(opts.outDir, name)
		}

		label := fmt.Sprintf("Rendering %s...", styleLabel(cfg, name))
		spinner := newSpinner(ctx, label)
		restore := trackProgress(spinner, label)
		spinner.Start()

		result, err := runner.Execute(ctx, pipeline.Options{
			Config:        cfg,
			Style:         name,
			Device:        opts.device,
			RawDir:        opts.rawDir,
			OutDir:        outDir,
			Entries:       entries,
			Jobs:          opts.jobs,
			Fonts:         opts.fonts,
			PaletteMethod: opts.method,
			Refresh:       opts.refresh,
		})
		restore()
		if err != nil && result == nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
		if ctx.Err() != nil {
			return ctx.Err()
		}

		printResult(result)
		failed += result.Stats.Failed
	}
	prog.done("Rendered %d style(s)", len(styles))

	if failed > 0 {
		return fmt.Errorf("%d entries failed", failed)
	}
	printNewline()
	printNextStep("Preview", appName+" serve")
	return nil
}

// selectStyles returns the styles to render. An empty result with a nil
// error means the picker was dismissed.
func (c *CLI) selectStyles(ctx context.Context, opts renderOpts) ([]string, error) {
	switch {
	case opts.allStyles:
		names := style.Names()
		out := make([]string, len(names))
		for i, n := range names {
			out[i] = string(n)
		}
		return out, nil
	case opts.pick:
		n, err := pickStyle(ctx)
		if err != nil {
			return nil, fmt.Errorf("style picker: %w", err)
		}
		if n == "" {
			printInfo("No style selected")
			return nil, nil
		}
		return []string{string(n)}, nil
	}
	// Empty keeps the config's own style.
	return []string{opts.style}, nil
}

// loadConfig reads path, or returns the demo config when path is empty or
// demo is set.
func loadConfig(path string, demo bool) (*config.StyleConfig, error) {
	if demo || path == "" {
		return config.Demo(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// styleLabel names the style a run will use.
func styleLabel(cfg *config.StyleConfig, override string) string {
	s := override
	if s == "" {
		s = cfg.Style
	}
	n, _ := style.Resolve(s)
	return string(n)
}

func styleList() string {
	names := style.Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return strings.Join(out, ", ")
}
