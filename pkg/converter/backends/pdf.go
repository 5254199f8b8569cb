package backends

import (
	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/converter"
	"github.com/james-see/leadengrave/pkg/leadsheet"
)

// PDF writes a single-page PDF with the symbol font embedded
type PDF struct {
	FontPath string
}

// NewPDF creates a PDF backend. Without a font path every glyph fails the render.
func NewPDF(fontPath string) *PDF {
	return &PDF{FontPath: fontPath}
}

func (b *PDF) Name() string { return "PDF" }

func (b *PDF) Format() converter.Format { return converter.FormatPDF }

// Render measures s first, since the page size is fixed when the document is
// created, then draws it onto a page of exactly that size.
func (b *PDF) Render(s *leadsheet.Sheet, opts leadsheet.Options) ([]byte, leadsheet.Result, error) {
	if opts.Engraver.Metrics == nil {
		probe, err := canvas.NewPDF(1, 1, b.FontPath)
		if err != nil {
			return nil, leadsheet.Result{}, err
		}
		opts.Engraver.Metrics = probe
	}

	ext, err := leadsheet.Extent(s, opts)
	if err != nil {
		return nil, leadsheet.Result{}, err
	}
	cv, err := canvas.NewPDF(ext.Width, ext.Height, b.FontPath)
	if err != nil {
		return nil, leadsheet.Result{}, err
	}
	res, err := leadsheet.Render(cv, s, opts)
	if err != nil {
		return nil, leadsheet.Result{}, err
	}
	data, err := cv.Bytes()
	if err != nil {
		return nil, leadsheet.Result{}, err
	}
	return data, res, nil
}
