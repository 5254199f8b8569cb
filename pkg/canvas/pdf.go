package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// ErrNoSymbolFont is returned when glyphs were drawn on a PDF without a font
var ErrNoSymbolFont = errors.New("pdf: no symbol font loaded")

const symbolFamily = "symbols"

// PDFCanvas draws onto a single gofpdf page sized in points
type PDFCanvas struct {
	pdf      *gofpdf.Fpdf
	hasFont  bool
	glyphErr error
}

// NewPDF creates a one-page PDF of the given size. fontPath names a TrueType
// symbol font; it may be empty when no glyphs will be drawn.
func NewPDF(width, height float64, fontPath string) (*PDFCanvas, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("butt")

	c := &PDFCanvas{pdf: pdf}
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err != nil {
			return nil, fmt.Errorf("failed to load symbol font: %w", err)
		}
		pdf.AddUTF8Font(symbolFamily, "", fontPath)
		if pdf.Err() {
			return nil, fmt.Errorf("failed to load symbol font: %w", pdf.Error())
		}
		pdf.SetFont(symbolFamily, "", 12)
		c.hasFont = true
	}
	return c, nil
}

func (c *PDFCanvas) DrawLine(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *PDFCanvas) DrawCubic(p0, p1, p2, p3 Point) {
	c.pdf.CurveBezierCubic(p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y, "D")
}

func (c *PDFCanvas) FillPolygon(points []Point) {
	pts := make([]gofpdf.PointType, len(points))
	for i, p := range points {
		pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	c.pdf.Polygon(pts, "F")
}

func (c *PDFCanvas) DrawGlyph(glyph rune, x, y, sizePx float64) {
	if !c.hasFont {
		c.glyphErr = ErrNoSymbolFont
		return
	}
	c.pdf.SetFontUnitSize(sizePx)
	c.pdf.Text(x, y, string(glyph))
}

func (c *PDFCanvas) SetColor(col color.Color) {
	r, g, b := rgb(col)
	c.pdf.SetDrawColor(r, g, b)
	c.pdf.SetFillColor(r, g, b)
	c.pdf.SetTextColor(r, g, b)
}

func (c *PDFCanvas) SetStrokeWidth(width float64) {
	c.pdf.SetLineWidth(width)
}

// MeasureGlyph measures a glyph with the loaded font, falling back to the
// static table when no font is loaded.
func (c *PDFCanvas) MeasureGlyph(glyph rune, sizePx float64) Bounds {
	if !c.hasFont {
		return StaticMetrics{}.MeasureGlyph(glyph, sizePx)
	}
	c.pdf.SetFontUnitSize(sizePx)
	w := c.pdf.GetStringWidth(string(glyph))
	return Bounds{X: 0, Y: -sizePx / 8, Width: w, Height: sizePx / 4}
}

// HasFont reports whether a symbol font is loaded
func (c *PDFCanvas) HasFont() bool {
	return c.hasFont
}

// Bytes finishes the document
func (c *PDFCanvas) Bytes() ([]byte, error) {
	if c.glyphErr != nil {
		return nil, c.glyphErr
	}
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
