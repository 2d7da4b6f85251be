package io

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeshot/pkg/cache"
	"github.com/matzehuels/storeshot/pkg/errors"
	"github.com/matzehuels/storeshot/pkg/httputil"
	"github.com/matzehuels/storeshot/pkg/observability"
)

// Loader resolves image references to decoded images.
type Loader struct {
	// RawDir is the base for relative references.
	RawDir string
	// Client downloads remote references. nil disables them.
	Client *httputil.Client
	// Cache holds downloaded bodies under [cache.Keyer.HTTPKey].
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Source is a loaded reference: the raw bytes (used for cache keys) and
// the decoded image.
type Source struct {
	Ref   string
	Data  []byte
	Image image.Image
}

// Load reads and decodes ref. A local file that does not exist yields
// MISSING_INPUT_IMAGE; an empty ref is treated the same way.
func (l *Loader) Load(ctx context.Context, ref string) (*Source, error) {
	if ref == "" {
		return nil, errors.New(errors.ErrCodeMissingInputImage, "no input image")
	}
	if err := errors.ValidateImageRef(ref); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	if errors.IsRemoteRef(ref) {
		data, err = l.fetch(ctx, ref)
	} else {
		data, err = l.read(ref)
	}
	if err != nil {
		return nil, err
	}

	img, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	return &Source{Ref: ref, Data: data, Image: img}, nil
}

// Path returns the filesystem path of a local reference. References are
// validated as relative, so they always resolve under RawDir.
func (l *Loader) Path(ref string) string {
	if l.RawDir == "" {
		return ref
	}
	return filepath.Join(l.RawDir, ref)
}

func (l *Loader) read(ref string) ([]byte, error) {
	path := l.Path(ref)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeMissingInputImage, err, "input image %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.Client == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "remote images disabled: %s", url)
	}
	c, keyer := l.Cache, l.Keyer
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	logger := l.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	key := keyer.HTTPKey("input", url)
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "input")
		logger.Debug("input cache hit", "url", url)
		return data, nil
	} else if err != nil {
		logger.Warn("input cache read failed", "url", url, "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, "input")

	data, err := l.Client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, cache.TTLHTTP); err != nil {
		logger.Warn("input cache write failed", "url", url, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "input", len(data))
	}
	logger.Debug("fetched input", "url", url, "bytes", len(data))
	return data, nil
}
