package backends

import (
	"encoding/json"
	"fmt"

	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/converter"
	"github.com/james-see/leadengrave/pkg/leadsheet"
)

// Document is the JSON backend's output
type Document struct {
	Title      string                    `json:"title,omitempty"`
	Result     leadsheet.Result          `json:"result"`
	Measures   []leadsheet.MeasureReport `json:"measures"`
	Primitives []canvas.Primitive        `json:"primitives"`
}

// JSON dumps every drawing call in order, for tests and other renderers
type JSON struct {
	Indent bool
}

// NewJSON creates an indenting JSON backend
func NewJSON() *JSON {
	return &JSON{Indent: true}
}

func (b *JSON) Name() string { return "JSON primitives" }

func (b *JSON) Format() converter.Format { return converter.FormatJSON }

func (b *JSON) Render(s *leadsheet.Sheet, opts leadsheet.Options) ([]byte, leadsheet.Result, error) {
	rec := canvas.NewRecorder()
	doc := Document{Title: s.Title}
	next := opts.OnMeasure
	opts.OnMeasure = func(r leadsheet.MeasureReport) {
		doc.Measures = append(doc.Measures, r)
		if next != nil {
			next(r)
		}
	}

	res, err := leadsheet.Render(rec, s, opts)
	if err != nil {
		return nil, leadsheet.Result{}, err
	}
	doc.Result = res
	doc.Primitives = rec.Primitives()

	var data []byte
	if b.Indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, leadsheet.Result{}, fmt.Errorf("failed to write JSON: %w", err)
	}
	return data, res, nil
}
