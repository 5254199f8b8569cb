package engraver

import (
	"image/color"

	"github.com/james-see/leadengrave/pkg/canvas"
)

// draw emits a group layout: ledger lines, noteheads, accidentals and dots
// first, then stems, flags and beams.
func (e *Engraver) draw(l *GroupLayout) {
	size := e.geom.fontSize

	for _, ll := range l.Ledgers {
		e.cv.DrawLine(ll.X1, ll.Y, ll.X2, ll.Y)
	}
	for _, h := range l.Heads {
		e.withColor(h.Note.Color, func() {
			e.cv.DrawGlyph(h.Glyph, h.X, h.Y, size)
		})
	}
	for _, a := range l.Accidentals {
		e.withColor(a.Note.Color, func() {
			e.cv.DrawGlyph(a.Glyph, a.X, a.Y, size)
		})
	}
	for _, d := range l.Dots {
		e.cv.DrawGlyph(d.Glyph, d.X, d.Y, size)
	}
	for _, s := range l.Stems {
		e.cv.DrawLine(s.X, s.Y1, s.X, s.Y2)
	}
	for _, f := range l.Flags {
		e.cv.DrawGlyph(f.Glyph, f.X, f.Y, size)
	}
	for _, b := range l.Beams {
		e.cv.FillPolygon(beamPolygon(b))
	}
}

func beamPolygon(b Beam) []canvas.Point {
	return []canvas.Point{
		{X: b.X1, Y: b.Y1},
		{X: b.X2, Y: b.Y2},
		{X: b.X2, Y: b.Y2 + b.Thickness},
		{X: b.X1, Y: b.Y1 + b.Thickness},
	}
}

func (e *Engraver) withColor(c color.Color, f func()) {
	if c == nil {
		f()
		return
	}
	e.cv.SetColor(c)
	f()
	e.cv.SetColor(e.opts.Color)
}
