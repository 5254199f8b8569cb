// Package config loads engraving settings from YAML
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/engraver"
	"github.com/james-see/leadengrave/pkg/leadsheet"
	"github.com/james-see/leadengrave/pkg/notation"
	"github.com/james-see/leadengrave/pkg/spelling"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config holds engraving settings. Sizes are in output units (px for SVG, pt for PDF).
type Config struct {
	FontSize          float64 `yaml:"font_size" json:"font_size"`                   // symbol font size
	StaffLines        int     `yaml:"staff_lines" json:"staff_lines"`               // lines per staff
	BeatWidth         float64 `yaml:"beat_width" json:"beat_width"`                 // horizontal space per quarter beat
	Margin            float64 `yaml:"margin" json:"margin"`                         // page margin on every side
	FontPath          string  `yaml:"font_path" json:"font_path"`                   // TrueType symbol font for PDF output
	FontFamily        string  `yaml:"font_family" json:"font_family"`               // SVG font-family
	Color             string  `yaml:"color" json:"color"`                           // ink colour
	Background        string  `yaml:"background" json:"background"`                 // SVG background, empty for none
	StrokeWidth       float64 `yaml:"stroke_width" json:"stroke_width"`             // line width
	DefaultAlteration string  `yaml:"default_alteration" json:"default_alteration"` // auto, sharp or flat
	Clef              string  `yaml:"clef" json:"clef"`                             // used when a sheet names none
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		FontSize:          40,
		StaffLines:        5,
		BeatWidth:         48,
		Margin:            40,
		FontFamily:        "Bravura",
		Color:             "#000000",
		Background:        "#ffffff",
		StrokeWidth:       1.2,
		DefaultAlteration: "auto",
		Clef:              "treble",
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects sizes and enum values the renderer cannot use
func (c Config) Validate() error {
	switch {
	case c.FontSize <= 0:
		return fmt.Errorf("%w: font_size must be positive", ErrInvalidConfig)
	case c.StaffLines < 1:
		return fmt.Errorf("%w: staff_lines must be at least 1", ErrInvalidConfig)
	case c.BeatWidth <= 0:
		return fmt.Errorf("%w: beat_width must be positive", ErrInvalidConfig)
	case c.Margin < 0:
		return fmt.Errorf("%w: margin must not be negative", ErrInvalidConfig)
	case c.StrokeWidth <= 0:
		return fmt.Errorf("%w: stroke_width must be positive", ErrInvalidConfig)
	}
	if _, err := canvas.ParseHex(c.Color); err != nil {
		return fmt.Errorf("%w: color: %v", ErrInvalidConfig, err)
	}
	if c.Background != "" {
		if _, err := canvas.ParseHex(c.Background); err != nil {
			return fmt.Errorf("%w: background: %v", ErrInvalidConfig, err)
		}
	}
	if _, err := c.alteration(); err != nil {
		return err
	}
	if _, err := notation.ParseClef(c.Clef); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) alteration() (spelling.Alteration, error) {
	switch c.DefaultAlteration {
	case "", "auto":
		return spelling.AlterAuto, nil
	case "sharp":
		return spelling.AlterSharp, nil
	case "flat":
		return spelling.AlterFlat, nil
	}
	return 0, fmt.Errorf("%w: default_alteration %q", ErrInvalidConfig, c.DefaultAlteration)
}

// RenderOptions converts a validated config into leadsheet render options
func (c Config) RenderOptions() leadsheet.Options {
	ink, _ := canvas.ParseHex(c.Color)
	clef, _ := notation.ParseClef(c.Clef)
	alt, _ := c.alteration()
	return leadsheet.Options{
		Engraver: engraver.Options{
			FontSize:    c.FontSize,
			StaffLines:  c.StaffLines,
			Color:       ink,
			StrokeWidth: c.StrokeWidth,
		},
		BeatWidth:  c.BeatWidth,
		Margin:     c.Margin,
		Clef:       clef,
		Alteration: alt,
	}
}
