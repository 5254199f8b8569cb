// Package canvas provides the drawing surface the engraver writes to
package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Point is a position in device units, y growing downward
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is a glyph's logical extent relative to its drawing origin
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Canvas is the drawing capability the engraver consumes.
// Implementations are not safe for concurrent use.
type Canvas interface {
	DrawLine(x1, y1, x2, y2 float64)
	DrawCubic(p0, p1, p2, p3 Point)
	FillPolygon(points []Point)
	DrawGlyph(glyph rune, x, y, sizePx float64)
	SetColor(c color.Color)
	SetStrokeWidth(width float64)
}

// Metrics measures glyphs of the symbol font
type Metrics interface {
	MeasureGlyph(glyph rune, sizePx float64) Bounds
}

// MeasureString sums the advance widths of every glyph in s
func MeasureString(m Metrics, s string, sizePx float64) Bounds {
	var out Bounds
	for _, r := range s {
		b := m.MeasureGlyph(r, sizePx)
		out.Width += b.Width
		if b.Height > out.Height {
			out.Height = b.Height
		}
		if b.Y < out.Y {
			out.Y = b.Y
		}
	}
	return out
}

// Hex formats a colour as #rrggbb
func Hex(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// ParseHex parses #rgb or #rrggbb
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func rgb(c color.Color) (int, int, int) {
	if c == nil {
		return 0, 0, 0
	}
	r, g, b, _ := c.RGBA()
	return int(r >> 8), int(g >> 8), int(b >> 8)
}
