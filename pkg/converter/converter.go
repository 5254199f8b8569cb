package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/james-see/leadengrave/pkg/leadsheet"
)

// Format represents a file format
type Format string

const (
	FormatMIDI    Format = "midi"
	FormatYAML    Format = "yaml"
	FormatSVG     Format = "svg"
	FormatPDF     Format = "pdf"
	FormatJSON    Format = "json"
	FormatUnknown Format = "unknown"
)

var (
	ErrUnknownFormat = errors.New("cannot determine format")
	ErrUnsupported   = errors.New("unsupported conversion")
	ErrNoBackend     = errors.New("no backend registered")
)

// ParseFormat parses a format name as accepted on the command line and API
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "midi", "mid":
		return FormatMIDI
	case "yaml", "yml":
		return FormatYAML
	case "svg":
		return FormatSVG
	case "pdf":
		return FormatPDF
	case "json":
		return FormatJSON
	}
	return FormatUnknown
}

// DetectFormat detects the format of a file based on its extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".yaml", ".yml":
		return FormatYAML
	case ".svg":
		return FormatSVG
	case ".pdf":
		return FormatPDF
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	// Check for MIDI file signature "MThd"
	if string(data[:4]) == "MThd" {
		return FormatMIDI
	}
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return FormatPDF
	}

	text := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(text, []byte("<?xml")), bytes.HasPrefix(text, []byte("<svg")):
		return FormatSVG
	case bytes.HasPrefix(text, []byte("{")):
		return FormatJSON
	}

	// Assume a YAML leadsheet for any other text
	if utf8.Valid(data) {
		return FormatYAML
	}
	return FormatUnknown
}

// Input reports whether f can be read as a leadsheet
func (f Format) Input() bool {
	return f == FormatMIDI || f == FormatYAML
}

// Parse decodes a leadsheet in the given input format
func (c *Converter) Parse(data []byte, f Format) (*leadsheet.Sheet, error) {
	switch f {
	case FormatMIDI:
		return NewMIDIConverter().ParseMIDI(data)
	case FormatYAML:
		return ParseYAML(data)
	}
	return nil, fmt.Errorf("%w: cannot read %s", ErrUnsupported, f)
}

// Load reads a leadsheet file, detecting its format from the extension and
// then the content
func (c *Converter) Load(path string) (*leadsheet.Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	f := DetectFormat(path)
	if !f.Input() {
		f = DetectFormatFromContent(data)
	}
	if !f.Input() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	s, err := c.Parse(data, f)
	if err != nil {
		return nil, err
	}
	if s.Title == "" {
		s.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Export writes s in the given output format. MIDI and YAML are written
// directly, everything else goes through the registered backend.
func (c *Converter) Export(s *leadsheet.Sheet, f Format) (ConversionResult, error) {
	res := ConversionResult{Format: f}
	var err error
	switch f {
	case FormatMIDI:
		res.Data, err = NewMIDIConverter().GenerateMIDI(s)
	case FormatYAML:
		res.Data, err = GenerateYAML(s)
	default:
		b := c.GetBackend(f)
		if b == nil {
			return res, fmt.Errorf("%w: %s", ErrNoBackend, f)
		}
		res.Data, res.Render, err = b.Render(s, c.opts)
	}
	if err != nil {
		return res, fmt.Errorf("conversion failed: %w", err)
	}
	return res, nil
}

// Convert converts raw input data from one format to another
func (c *Converter) Convert(data []byte, in, out Format) (ConversionResult, error) {
	if !in.Input() {
		return ConversionResult{}, fmt.Errorf("%w: %s to %s", ErrUnsupported, in, out)
	}
	if in == out {
		return ConversionResult{}, fmt.Errorf("%w: %s to %s", ErrUnsupported, in, out)
	}
	s, err := c.Parse(data, in)
	if err != nil {
		return ConversionResult{}, err
	}
	return c.Export(s, out)
}

// ConvertFile converts a file from one format to another
func (c *Converter) ConvertFile(inputPath, outputPath string) (ConversionResult, error) {
	outputFormat := DetectFormat(outputPath)
	if outputFormat == FormatUnknown {
		return ConversionResult{}, fmt.Errorf("%w: output %s", ErrUnknownFormat, outputPath)
	}

	s, err := c.Load(inputPath)
	if err != nil {
		return ConversionResult{}, err
	}
	if DetectFormat(inputPath) == outputFormat {
		return ConversionResult{}, fmt.Errorf("%w: %s to %s", ErrUnsupported, outputFormat, outputFormat)
	}

	res, err := c.Export(s, outputFormat)
	if err != nil {
		return res, err
	}
	res.Filename = outputPath

	// Write output
	if err := os.WriteFile(outputPath, res.Data, 0644); err != nil {
		return res, fmt.Errorf("failed to write output file: %w", err)
	}
	return res, nil
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"midi -> svg",
		"midi -> pdf",
		"midi -> json",
		"midi -> yaml",
		"yaml -> svg",
		"yaml -> pdf",
		"yaml -> json",
		"yaml -> midi",
	}
}
