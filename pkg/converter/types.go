// Package converter imports leadsheets from YAML and Standard MIDI Files and
// hands them to an output backend
package converter

import (
	"sort"

	"github.com/james-see/leadengrave/pkg/leadsheet"
)

// ConversionResult holds the result of a conversion
type ConversionResult struct {
	Data     []byte
	Filename string
	Format   Format
	Render   leadsheet.Result
}

// Backend renders a sheet into one output format
type Backend interface {
	Name() string
	Format() Format
	Render(s *leadsheet.Sheet, opts leadsheet.Options) ([]byte, leadsheet.Result, error)
}

// Converter handles format conversions
type Converter struct {
	opts     leadsheet.Options
	backends map[Format]Backend
}

// New creates a Converter rendering with opts through the given backends
func New(opts leadsheet.Options, backends ...Backend) *Converter {
	c := &Converter{opts: opts, backends: make(map[Format]Backend)}
	for _, b := range backends {
		c.SetBackend(b)
	}
	return c
}

// GetBackend returns the backend registered for a format, or nil
func (c *Converter) GetBackend(f Format) Backend {
	return c.backends[f]
}

// SetBackend registers b for its format, replacing any previous one
func (c *Converter) SetBackend(b Backend) {
	c.backends[b.Format()] = b
}

// Backends lists the registered output formats in name order
func (c *Converter) Backends() []Format {
	out := make([]Format, 0, len(c.backends))
	for f := range c.backends {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Options returns the render options
func (c *Converter) Options() leadsheet.Options {
	return c.opts
}

// SetOptions replaces the render options
func (c *Converter) SetOptions(opts leadsheet.Options) {
	c.opts = opts
}
