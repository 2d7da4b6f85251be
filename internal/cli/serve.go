package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storeshot/pkg/cache"
	serr "github.com/matzehuels/storeshot/pkg/errors"
	sio "github.com/matzehuels/storeshot/pkg/io"
	"github.com/matzehuels/storeshot/pkg/pipeline"
	"github.com/matzehuels/storeshot/pkg/style"
)

const shutdownTimeout = 5 * time.Second

// serveCommand starts the HTTP preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		rawDir string
		demo   bool
		flags  cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [config]",
		Short: "Preview renders over HTTP",
		Long: `Serve rendered entries over HTTP for quick previews.

Endpoints:
  GET /styles                 list styles as JSON
  GET /render/{n}             entry n (1-based) as PNG
      ?style=NAME             override the config's style
      ?device=iphone|ipad     override the canvas size

The config is loaded once at startup. Renders share the cache with the
render command, under their own key prefix.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runServe(cmd.Context(), addr, path, rawDir, demo, flags)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&rawDir, "raw", defaultRawDir, "directory of raw screenshots")
	cmd.Flags().BoolVar(&demo, "demo", false, "use the built-in demo config")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&flags.redis, "redis", "", "use the redis cache at this address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, path, rawDir string, demo bool, flags cacheFlags) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(path, demo)
	if err != nil {
		return err
	}
	files, err := sio.ListRaw(rawDir)
	if err != nil {
		return fmt.Errorf("list %s: %w", rawDir, err)
	}

	cc, err := c.newCache(ctx, flags)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, "serve:"), logger)
	defer runner.Close()

	srv := &http.Server{
		Addr: addr,
		Handler: newServer(runner, pipeline.Options{
			Config: cfg.MapImages(files),
			RawDir: rawDir,
		}, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	printSuccess("Serving %d entries", len(cfg.Screenshots))
	printKeyValue("Listening", StyleLink.Render("http://localhost"+addr+"/render/1"))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// newServer builds the preview router. base carries the config and raw
// directory; each request may override style and device.
func newServer(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/styles", handleStyles)
	r.Get("/render/{entry}", func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "entry"))
		if err != nil || n < 1 {
			http.Error(w, "entry must be a positive integer", http.StatusBadRequest)
			return
		}
		opts := base
		opts.Style = r.URL.Query().Get("style")
		opts.Device = r.URL.Query().Get("device")
		opts.Jobs = 1

		res, err := runner.RenderEntry(r.Context(), opts, n-1)
		if err != nil {
			http.Error(w, serr.UserMessage(err), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", res.Name))
		if res.SubjectMissing {
			w.Header().Set("X-Storeshot-Placeholder", "1")
		}
		if res.CacheHit {
			w.Header().Set("X-Storeshot-Cache", "hit")
		}
		w.Write(res.PNG)
	})

	return r
}

type styleInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func handleStyles(w http.ResponseWriter, r *http.Request) {
	names := style.Names()
	out := make([]styleInfo, len(names))
	for i, n := range names {
		out[i] = styleInfo{Name: string(n), Description: style.Describe(n)}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// statusFor maps render errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	switch serr.GetCode(err) {
	case serr.ErrCodeInvalidInput, serr.ErrCodeConfigValidation, serr.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case serr.ErrCodeNotFound, serr.ErrCodeFileNotFound:
		return http.StatusNotFound
	case serr.ErrCodeInvalidImage:
		return http.StatusUnprocessableEntity
	case serr.ErrCodeNetwork, serr.ErrCodeTimeout, serr.ErrCodeRateLimited:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// requestLogger logs each request at debug level with status and duration.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"id", middleware.GetReqID(r.Context()),
				"duration", time.Since(start))
		})
	}
}
