// Package cache stores rendered artifacts and fetched inputs between runs.
//
// A [Cache] is a byte store keyed by strings produced by a [Keyer]. Three
// backends are provided: [FileCache] for the CLI, [RedisCache] for shared
// deployments of the preview server, and [NullCache] when caching is off.
//
// Keys are content hashes of everything that influences the output, so a
// change to a headline, a color, the style or the source screenshot yields
// a new key and stale entries simply age out.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per artifact type.
const (
	TTLRender  = 7 * 24 * time.Hour
	TTLPalette = 30 * 24 * time.Hour
	TTLHTTP    = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for each artifact type.
type Keyer interface {
	// HTTPKey keys a fetched remote input.
	HTTPKey(namespace, key string) string

	// RenderKey keys one rendered PNG.
	RenderKey(subjectHash string, opts RenderKeyOpts) string

	// PaletteKey keys a color scheme extracted from an image.
	PaletteKey(imageHash string, opts PaletteKeyOpts) string
}

// RenderKeyOpts holds the render inputs that change the output pixels.
// Shot and Background are serialized as configured. Version is the engine
// build, so an upgrade never serves renders from an older binary.
type RenderKeyOpts struct {
	Version    string   `json:"version"`
	Style      string   `json:"style"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Colors     []string `json:"colors"`
	Index      int      `json:"index"`
	Total      int      `json:"total"`
	Seed       uint64   `json:"seed"`
	Fonts      string   `json:"fonts,omitempty"`
	Shot       any      `json:"shot"`
	Background any      `json:"background,omitempty"`
}

// PaletteKeyOpts holds the extraction parameters.
type PaletteKeyOpts struct {
	K      int    `json:"k"`
	Method string `json:"method"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>" without hashing.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// RenderKey hashes the subject digest with all render options.
func (DefaultKeyer) RenderKey(subjectHash string, opts RenderKeyOpts) string {
	return hashKey("render", subjectHash, opts)
}

// PaletteKey hashes the image digest with the extraction options.
func (DefaultKeyer) PaletteKey(imageHash string, opts PaletteKeyOpts) string {
	return hashKey("palette", imageHash, opts)
}

var _ Keyer = DefaultKeyer{}
