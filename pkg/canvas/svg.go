package canvas

import (
	"fmt"
	"image/color"
	"strings"
)

// SVGCanvas renders primitives as an SVG document. Glyphs are emitted as text
// in the configured font family, so the viewer must have the symbol font.
type SVGCanvas struct {
	fontFamily string
	color      string
	stroke     float64
	body       strings.Builder
}

// NewSVG creates an SVG canvas
func NewSVG(fontFamily string) *SVGCanvas {
	if fontFamily == "" {
		fontFamily = "Bravura"
	}
	return &SVGCanvas{fontFamily: fontFamily, color: "#000000", stroke: 1}
}

func (s *SVGCanvas) DrawLine(x1, y1, x2, y2 float64) {
	s.body.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
		x1, y1, x2, y2, s.color, s.stroke))
}

func (s *SVGCanvas) DrawCubic(p0, p1, p2, p3 Point) {
	s.body.WriteString(fmt.Sprintf(`<path d="M%.2f,%.2f C%.2f,%.2f %.2f,%.2f %.2f,%.2f" stroke="%s" stroke-width="%.2f" fill="none"/>`+"\n",
		p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y, s.color, s.stroke))
}

func (s *SVGCanvas) FillPolygon(points []Point) {
	if len(points) == 0 {
		return
	}
	pts := make([]string, len(points))
	for i, p := range points {
		pts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	s.body.WriteString(fmt.Sprintf(`<polygon points="%s" fill="%s"/>`+"\n", strings.Join(pts, " "), s.color))
}

func (s *SVGCanvas) DrawGlyph(glyph rune, x, y, sizePx float64) {
	s.body.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" fill="%s">&#x%X;</text>`+"\n",
		x, y, s.fontFamily, sizePx, s.color, glyph))
}

func (s *SVGCanvas) SetColor(c color.Color) {
	s.color = Hex(c)
}

func (s *SVGCanvas) SetStrokeWidth(width float64) {
	s.stroke = width
}

// Bytes returns the complete document for a page of the given size
func (s *SVGCanvas) Bytes(width, height float64, background string) []byte {
	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg">
`, width, height, width, height))
	if background != "" {
		svg.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`+"\n", background))
	}
	svg.WriteString(s.body.String())
	svg.WriteString("</svg>\n")
	return []byte(svg.String())
}
