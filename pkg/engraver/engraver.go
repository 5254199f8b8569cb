// Package engraver lays out ScoreNotes on a staff and emits drawing primitives
package engraver

import (
	"fmt"
	"image/color"

	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/notation"
)

// Mode selects when the open note group is closed
type Mode int

const (
	// Immediate draws each note or simultaneous chord as soon as the next x arrives
	Immediate Mode = iota
	// Manual keeps notes together between StartGroup and EndGroup
	Manual
)

func (m Mode) String() string {
	if m == Manual {
		return "manual"
	}
	return "immediate"
}

// Options configures an Engraver. Zero fields take defaults.
type Options struct {
	FontSize    float64 // symbol font size in canvas units, default 40
	StaffLines  int     // default 5
	Metrics     canvas.Metrics
	Color       color.Color
	StrokeWidth float64
	SpanLimit   int // staff-line span for the mixed stem break, default 7

	// OnLayout observes every group layout before it is drawn
	OnLayout func(*GroupLayout)
}

// DefaultOptions returns the options used for zero fields
func DefaultOptions() Options {
	return Options{
		FontSize:    40,
		StaffLines:  5,
		Metrics:     canvas.StaticMetrics{},
		Color:       color.Black,
		StrokeWidth: 1.2,
		SpanLimit:   DefaultSpanLimit,
	}
}

func (o Options) withDefaults(cv canvas.Canvas) Options {
	d := DefaultOptions()
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.StaffLines <= 0 {
		o.StaffLines = d.StaffLines
	}
	if o.Metrics == nil {
		if m, ok := cv.(canvas.Metrics); ok {
			o.Metrics = m
		} else {
			o.Metrics = d.Metrics
		}
	}
	if o.Color == nil {
		o.Color = d.Color
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = d.StrokeWidth
	}
	if o.SpanLimit <= 0 {
		o.SpanLimit = d.SpanLimit
	}
	return o
}

// Engraver draws one staff onto a canvas. It is not safe for concurrent use.
type Engraver struct {
	cv      canvas.Canvas
	opts    Options
	geom    *geometry
	layout  *StemAndBeamLayout
	grouper *TimeGrouper
	mode    Mode
	x       float64
	clef    notation.Clef
	groups  int
	stems   map[headKey]notation.StemDirection
}

// headKey identifies a submitted note by position
type headKey struct {
	x    float64
	line int
}

// New creates an engraver whose staff bottom line starts at y = 0
func New(cv canvas.Canvas, opts Options) *Engraver {
	opts = opts.withDefaults(cv)
	geom := &geometry{
		fontSize:   opts.FontSize,
		staffLines: opts.StaffLines,
		metrics:    opts.Metrics,
	}
	grouper := NewTimeGrouper(geom.middleLine())
	grouper.SpanLimit = opts.SpanLimit

	e := &Engraver{
		cv:      cv,
		opts:    opts,
		geom:    geom,
		layout:  newStemAndBeamLayout(geom),
		grouper: grouper,
		stems:   make(map[headKey]notation.StemDirection),
	}
	cv.SetColor(opts.Color)
	cv.SetStrokeWidth(opts.StrokeWidth)
	return e
}

// GridUnit is one staff space in canvas units
func (e *Engraver) GridUnit() float64 {
	return e.geom.gridUnit()
}

// LineY converts a staff line to a canvas y for the current cursor
func (e *Engraver) LineY(line int) float64 {
	return e.geom.lineY(line)
}

// SetCursor moves the drawing origin; y is the bottom staff line
func (e *Engraver) SetCursor(x, y float64) {
	e.Flush()
	e.x = x
	e.geom.baseY = y
}

// Cursor returns the drawing origin
func (e *Engraver) Cursor() (float64, float64) {
	return e.x, e.geom.baseY
}

// Advance moves the cursor right by dx
func (e *Engraver) Advance(dx float64) {
	e.x += dx
}

// StaffLines returns the number of staff lines
func (e *Engraver) StaffLines() int {
	return e.geom.staffLines
}

// Clef returns the clef last drawn
func (e *Engraver) Clef() notation.Clef {
	return e.clef
}

// Mode reports the current grouping mode
func (e *Engraver) Mode() Mode {
	return e.mode
}

// Groups returns the number of note groups drawn so far
func (e *Engraver) Groups() int {
	return e.groups
}

// Metrics returns the glyph metrics in use
func (e *Engraver) Metrics() canvas.Metrics {
	return e.opts.Metrics
}

// StartGroup closes any open group and collects following notes into one
// beamed group until EndGroup.
func (e *Engraver) StartGroup() {
	e.Flush()
	e.mode = Manual
}

// EndGroup draws the group opened by StartGroup
func (e *Engraver) EndGroup() {
	e.Flush()
	e.mode = Immediate
}

// SubmitNote adds n to the open group, drawing any group it closes
func (e *Engraver) SubmitNote(n notation.ScoreNote) {
	if !n.Duration.Valid() {
		panic(fmt.Sprintf("engraver: unknown duration code %d", int(n.Duration)))
	}
	checkStem(n.StemDirection)
	if n.Dots < 0 {
		panic(fmt.Sprintf("engraver: negative dot count %d", n.Dots))
	}

	if e.mode == Immediate {
		if x, ok := e.grouper.OpenX(); ok && !sameX(x, n.X) {
			e.Flush()
		}
	}
	if closed, ok := e.grouper.Add(n); ok {
		e.emit(closed)
	}
}

// SubmitChord submits simultaneous notes
func (e *Engraver) SubmitChord(notes ...notation.ScoreNote) {
	for _, n := range notes {
		e.SubmitNote(n)
	}
}

// Flush draws the open group, if any
func (e *Engraver) Flush() {
	if g, ok := e.grouper.Flush(); ok {
		e.emit(g)
	}
}

func (e *Engraver) emit(g NoteGroup) {
	l := e.layout.Layout(g)
	if l == nil {
		return
	}
	if l.Direction.Explicit() {
		for _, h := range l.Heads {
			e.stems[headKey{h.Note.X, h.Note.StaffLine}] = l.Direction
		}
	}
	if e.opts.OnLayout != nil {
		e.opts.OnLayout(l)
	}
	e.draw(l)
	e.groups++
}

// stemOf returns the direction n was drawn with, or its own direction if it
// was never laid out
func (e *Engraver) stemOf(n notation.ScoreNote) notation.StemDirection {
	if d, ok := e.stems[headKey{n.X, n.StaffLine}]; ok {
		return d
	}
	return n.AutoStem(e.geom.middleLine())
}
