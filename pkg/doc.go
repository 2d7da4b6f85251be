// Package pkg provides the core libraries for Storeshot screenshot composition.
//
// # Overview
//
// Storeshot turns raw app screenshots into App Store marketing images: a
// styled background, the screenshot inside a device frame, glows and
// shadows, and a headline fitted to the canvas. The pkg directory is
// organized into four areas:
//
//  1. Drawing primitives: [palette], [gradient], [canvas], [effects], [device], [typeset], [fonts]
//  2. Composition: [layer] recipes built by [style] and run by [pipeline]
//  3. Input and output: [config], [io], [httputil]
//  4. Infrastructure: [cache], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow for one entry:
//
//	config.StyleConfig entry
//	         ↓
//	    [style] builds a layer recipe (z-ordered draw steps)
//	         ↓
//	    [gradient] background → [device] frame → [effects] glow/shadow → [typeset] text
//	         ↓
//	    [canvas] composites and flattens
//	         ↓
//	    PNG via [io]
//
// # Quick Start
//
//	cfg, _ := config.Load("storeshot.yaml")
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config: cfg,
//	    RawDir: "raw",
//	    OutDir: "output",
//	})
//
// # Main Packages
//
// ## Drawing
//
// [palette] - RGB colors, hex parsing, interpolation and color scheme
// extraction from screenshots (dominant buckets or k-means).
//
// [gradient] - Vertical, diagonal and blob-mesh backgrounds.
//
// [canvas] - RGBA buffers, source-over compositing, rounded masks,
// resampling, blur and flattening.
//
// [effects] - Drop shadows, glows and depth fading.
//
// [device] - Phone frames with bezel, dynamic island and buttons, plus tilt
// and perspective warps.
//
// [typeset] - Auto-fitting, wrapping and anchored text with auto contrast.
//
// ## Composition
//
// [layer] - Recipes: ordered layers grouped in background, decoration and
// text phases.
//
// [style] - The five built-in styles (premium, minimal, storytelling,
// authentic, parallax).
//
// [pipeline] - Concurrent, cached rendering of every entry of a config.
//
// ## Infrastructure
//
// [cache] - Render, palette and download cache with null, file and Redis
// backends.
//
// [observability] - Hooks for render, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/pipeline/...           # Specific package
//	go test -run Example                 # Examples only
//
// [palette]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/palette
// [gradient]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/gradient
// [canvas]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/canvas
// [effects]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/effects
// [device]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/device
// [typeset]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/typeset
// [fonts]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/fonts
// [layer]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/layer
// [style]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/style
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/io
// [httputil]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/httputil
// [cache]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/storeshot/pkg/buildinfo
package pkg
