package backends

import (
	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/converter"
	"github.com/james-see/leadengrave/pkg/leadsheet"
)

// SVG writes a standalone SVG document referencing the symbol font by family
type SVG struct {
	FontFamily string
	Background string
}

// NewSVG creates an SVG backend
func NewSVG(fontFamily, background string) *SVG {
	return &SVG{FontFamily: fontFamily, Background: background}
}

func (b *SVG) Name() string { return "SVG" }

func (b *SVG) Format() converter.Format { return converter.FormatSVG }

// Render draws s and sizes the document to the rendered extent
func (b *SVG) Render(s *leadsheet.Sheet, opts leadsheet.Options) ([]byte, leadsheet.Result, error) {
	cv := canvas.NewSVG(b.FontFamily)
	res, err := leadsheet.Render(cv, s, opts)
	if err != nil {
		return nil, leadsheet.Result{}, err
	}
	return cv.Bytes(res.Width, res.Height, b.Background), res, nil
}
