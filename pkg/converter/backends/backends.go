// Package backends renders leadsheets into SVG, PDF and JSON
package backends

import (
	"fmt"

	"github.com/james-see/leadengrave/pkg/config"
	"github.com/james-see/leadengrave/pkg/converter"
)

// New returns the backend for an output format, configured from cfg
func New(f converter.Format, cfg config.Config) (converter.Backend, error) {
	switch f {
	case converter.FormatSVG:
		return NewSVG(cfg.FontFamily, cfg.Background), nil
	case converter.FormatPDF:
		return NewPDF(cfg.FontPath), nil
	case converter.FormatJSON:
		return NewJSON(), nil
	}
	return nil, fmt.Errorf("%w: %s", converter.ErrNoBackend, f)
}

// All returns every rendering backend
func All(cfg config.Config) []converter.Backend {
	return []converter.Backend{
		NewSVG(cfg.FontFamily, cfg.Background),
		NewPDF(cfg.FontPath),
		NewJSON(),
	}
}

// NewConverter builds a converter with every backend and cfg's render options
func NewConverter(cfg config.Config) *converter.Converter {
	return converter.New(cfg.RenderOptions(), All(cfg)...)
}
