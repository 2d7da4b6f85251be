// Package config loads and validates the screenshot configuration that drives
// a render run.
//
// A [StyleConfig] names the app, the style recipe, a color scheme and one
// [Shot] per output image. Configs are read from JSON, YAML or TOML files
// (chosen by extension) or taken from [Demo]. After [StyleConfig.Validate]
// a config is treated as read-only; many renders may share it.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/storeshot/pkg/errors"
	"github.com/matzehuels/storeshot/pkg/palette"
)

// AutoColors as the only color_scheme entry asks the pipeline to extract the
// palette from the first screenshot.
const AutoColors = "auto"

// DefaultStyle is used when a config does not name one.
const DefaultStyle = "premium"

// MaxBlobs bounds background.blobs.
const MaxBlobs = 32

// Device transforms accepted by Shot.Transform.
const (
	TransformShear       = "shear"
	TransformPerspective = "perspective"
)

// DefaultColors is the color scheme used when a config does not set one.
var DefaultColors = []string{"#667eea", "#764ba2"}

// StyleConfig is the top-level configuration.
type StyleConfig struct {
	AppName     string   `json:"app_name" yaml:"app_name" toml:"app_name"`
	Style       string   `json:"style" yaml:"style" toml:"style"`
	ColorScheme []string `json:"color_scheme" yaml:"color_scheme" toml:"color_scheme"`
	Canvas      Canvas   `json:"canvas" yaml:"canvas" toml:"canvas"`
	Screenshots []Shot   `json:"screenshots" yaml:"screenshots" toml:"screenshots"`

	// Background overrides the gradient of the premium, storytelling and
	// parallax styles.
	Background *Background `json:"background,omitempty" yaml:"background,omitempty" toml:"background,omitempty"`
}

// Background selects a gradient direction and, for radial meshes, the blob
// count. Unset fields keep the style's own choice.
type Background struct {
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction,omitempty"`
	Blobs     *int   `json:"blobs,omitempty" yaml:"blobs,omitempty" toml:"blobs,omitempty"`
}

// Canvas is the output size in pixels.
type Canvas struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// Shot is one output image. Fields beyond Image, Headline and Subtitle are
// read only by the styles that use them.
type Shot struct {
	Image    string `json:"image" yaml:"image" toml:"image"`
	Headline string `json:"headline" yaml:"headline" toml:"headline"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty" toml:"subtitle,omitempty"`

	// authentic
	Format   string    `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	Messages []Message `json:"messages,omitempty" yaml:"messages,omitempty" toml:"messages,omitempty"`
	NoteText string    `json:"note_text,omitempty" yaml:"note_text,omitempty" toml:"note_text,omitempty"`
	Username string    `json:"username,omitempty" yaml:"username,omitempty" toml:"username,omitempty"`
	Handle   string    `json:"handle,omitempty" yaml:"handle,omitempty" toml:"handle,omitempty"`
	Tweet    string    `json:"tweet,omitempty" yaml:"tweet,omitempty" toml:"tweet,omitempty"`

	// parallax
	Badges []string `json:"badges,omitempty" yaml:"badges,omitempty" toml:"badges,omitempty"`
	Stats  []Stat   `json:"stats,omitempty" yaml:"stats,omitempty" toml:"stats,omitempty"`
	CTA    string   `json:"cta,omitempty" yaml:"cta,omitempty" toml:"cta,omitempty"`
	Tilt   *float64 `json:"tilt,omitempty" yaml:"tilt,omitempty" toml:"tilt,omitempty"`

	// Transform is "shear" (default) or "perspective". TiltX is the
	// perspective rotation around the horizontal axis.
	Transform string   `json:"transform,omitempty" yaml:"transform,omitempty" toml:"transform,omitempty"`
	TiltX     *float64 `json:"tilt_x,omitempty" yaml:"tilt_x,omitempty" toml:"tilt_x,omitempty"`

	// Seed overrides the per-entry random seed (index·17).
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
}

// Message is one chat bubble in the iMessage format.
type Message struct {
	From string `json:"from" yaml:"from" toml:"from"`
	Text string `json:"text" yaml:"text" toml:"text"`
}

// FromMe reports whether the bubble is on the sender's side.
func (m Message) FromMe() bool { return strings.EqualFold(m.From, "me") }

// Stat is a value/label pair shown on a floating card.
type Stat struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Label string `json:"label" yaml:"label" toml:"label"`
}

// Format identifies a config file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the encoding from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported config extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
}

// Load reads, decodes and validates a config file.
func Load(path string) (*StyleConfig, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format, applies defaults and validates.
func Parse(data []byte, format Format) (*StyleConfig, error) {
	var cfg StyleConfig
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigValidation, err, "decode %s config", format)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset top-level fields.
func (c *StyleConfig) SetDefaults() {
	if strings.TrimSpace(c.AppName) == "" {
		c.AppName = "App"
	}
	if c.Style == "" {
		c.Style = DefaultStyle
	}
	c.Style = strings.ToLower(strings.TrimSpace(c.Style))
	if len(c.ColorScheme) == 0 {
		c.ColorScheme = append([]string(nil), DefaultColors...)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		c.Canvas = IPhone
	}
}

// Validate checks every field that would otherwise fail mid-render.
// Unknown style names are not an error: the renderer falls back to premium.
func (c *StyleConfig) Validate() error {
	if len(c.Screenshots) == 0 {
		return errors.New(errors.ErrCodeConfigValidation, "no screenshots configured")
	}
	if c.Canvas.Width > MaxDimension || c.Canvas.Height > MaxDimension {
		return errors.New(errors.ErrCodeConfigValidation, "canvas %dx%d exceeds %dpx", c.Canvas.Width, c.Canvas.Height, MaxDimension)
	}
	if !c.AutoColors() {
		if _, err := palette.ParseAll(c.ColorScheme); err != nil {
			return errors.Wrap(errors.ErrCodeConfigValidation, err, "color_scheme")
		}
	}
	if bg := c.Background; bg != nil {
		switch strings.ToLower(strings.TrimSpace(bg.Direction)) {
		case "", "vertical", "diagonal", "radial", "mesh":
		default:
			return errors.New(errors.ErrCodeConfigValidation, "unknown background direction %q", bg.Direction)
		}
		if bg.Blobs != nil && (*bg.Blobs < 0 || *bg.Blobs > MaxBlobs) {
			return errors.New(errors.ErrCodeConfigValidation, "background blobs %d outside 0..%d", *bg.Blobs, MaxBlobs)
		}
	}
	for i, s := range c.Screenshots {
		if err := s.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeConfigValidation, err, "screenshots[%d]", i)
		}
	}
	return nil
}

func (s Shot) validate() error {
	if s.Image != "" {
		if err := errors.ValidateImageRef(s.Image); err != nil {
			return err
		}
	}
	texts := map[string]string{
		"headline":  s.Headline,
		"subtitle":  s.Subtitle,
		"note_text": s.NoteText,
		"tweet":     s.Tweet,
		"cta":       s.CTA,
	}
	for field, text := range texts {
		if err := errors.ValidateText(field, text); err != nil {
			return err
		}
	}
	for i, m := range s.Messages {
		if err := errors.ValidateText(fmt.Sprintf("messages[%d]", i), m.Text); err != nil {
			return err
		}
	}
	switch strings.ToLower(s.Format) {
	case "", "imessage", "notes", "twitter", "pov":
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", s.Format)
	}
	switch strings.ToLower(strings.TrimSpace(s.Transform)) {
	case "", TransformShear, TransformPerspective:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown transform %q", s.Transform)
	}
	return nil
}

// AutoColors reports whether the color scheme is extracted from screenshots.
func (c *StyleConfig) AutoColors() bool {
	return len(c.ColorScheme) == 1 && strings.EqualFold(c.ColorScheme[0], AutoColors)
}

// Colors parses the color scheme. It returns nil for an auto scheme.
func (c *StyleConfig) Colors() ([]palette.Color, error) {
	if c.AutoColors() {
		return nil, nil
	}
	return palette.ParseAll(c.ColorScheme)
}

// Clone returns a deep copy so callers can rewrite shots without touching
// a shared config.
func (c *StyleConfig) Clone() *StyleConfig {
	out := *c
	out.ColorScheme = append([]string(nil), c.ColorScheme...)
	if c.Background != nil {
		bg := *c.Background
		if bg.Blobs != nil {
			n := *bg.Blobs
			bg.Blobs = &n
		}
		out.Background = &bg
	}
	out.Screenshots = make([]Shot, len(c.Screenshots))
	for i, s := range c.Screenshots {
		s.Messages = append([]Message(nil), s.Messages...)
		s.Badges = append([]string(nil), s.Badges...)
		s.Stats = append([]Stat(nil), s.Stats...)
		out.Screenshots[i] = s
	}
	return &out
}

// WithStyle returns a copy of c rendering with another style.
func (c *StyleConfig) WithStyle(style string) *StyleConfig {
	out := c.Clone()
	out.Style = strings.ToLower(strings.TrimSpace(style))
	return out
}

// MapImages returns a copy of c in which every shot that names an image is
// pointed at files[i % len(files)]. files is typically the sorted listing of
// a raw screenshot directory. An empty list leaves images unchanged.
func (c *StyleConfig) MapImages(files []string) *StyleConfig {
	out := c.Clone()
	if len(files) == 0 {
		return out
	}
	for i := range out.Screenshots {
		if out.Screenshots[i].Image != "" {
			out.Screenshots[i].Image = files[i%len(files)]
		}
	}
	return out
}
