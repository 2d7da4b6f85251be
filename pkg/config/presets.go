package config

import (
	"strings"

	"github.com/matzehuels/storeshot/pkg/errors"
)

// MaxDimension bounds either side of the canvas.
const MaxDimension = 8192

// Canvas presets for App Store screenshot sizes.
var (
	// IPhone is the 6.7" display size.
	IPhone = Canvas{Width: 1290, Height: 2796}
	// IPad is the 12.9" display size.
	IPad = Canvas{Width: 2048, Height: 2732}
)

// Preset returns the canvas for a device name ("iphone" or "ipad").
func Preset(device string) (Canvas, error) {
	switch strings.ToLower(strings.TrimSpace(device)) {
	case "", "iphone":
		return IPhone, nil
	case "ipad":
		return IPad, nil
	}
	return Canvas{}, errors.New(errors.ErrCodeInvalidInput, "unknown device %q (want iphone or ipad)", device)
}

// Demo returns the built-in demo configuration.
func Demo() *StyleConfig {
	cfg := &StyleConfig{
		AppName:     "HabitFlow",
		Style:       DefaultStyle,
		ColorScheme: []string{"#667eea", "#764ba2", "#f093fb"},
		Screenshots: []Shot{
			{Image: "1.png", Headline: "Build Habits That Stick", Subtitle: "One day at a time"},
			{Image: "2.png", Headline: "Track Your Progress", Subtitle: "Watch your streaks grow"},
			{Image: "3.png", Headline: "Celebrate Every Win", Subtitle: "Small wins matter"},
			{Image: "4.png", Headline: "Stay Motivated", Subtitle: "Join 50,000+ users"},
		},
	}
	cfg.SetDefaults()
	return cfg
}
