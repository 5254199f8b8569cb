package engraver

import (
	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/notation"
)

// Proportions in grid units (one staff space)
const (
	stemLength      = 3.5
	beamThickness   = 0.5
	beamGap         = 0.25
	maxSlope        = 0.05
	ledgerOverhang  = 0.4
	dotGap          = 0.5
	dotSpacing      = 0.5
	normalInset     = 1.5
	wideInset       = 2.2
	stubLength      = 1.1
	tieCurve        = 1.0
	tieLift         = 0.4
	headerPadding   = 1.0
	keyGlyphPadding = 0.2
)

// geometry converts staff lines and grid units into canvas coordinates for
// one staff whose bottom line sits at baseY.
type geometry struct {
	fontSize   float64
	staffLines int
	metrics    canvas.Metrics
	baseY      float64
}

// gridUnit is one staff space: 25% of the font size
func (g *geometry) gridUnit() float64 {
	return 25 * g.fontSize / 100
}

func (g *geometry) lineY(line int) float64 {
	return g.baseY - float64(line)*g.gridUnit()*0.5
}

// topLine is the staff line number of the top staff line
func (g *geometry) topLine() int {
	return 2 * (g.staffLines - 1)
}

func (g *geometry) middleLine() int {
	return g.staffLines - 1
}

func (g *geometry) width(glyph rune) float64 {
	return g.metrics.MeasureGlyph(glyph, g.fontSize).Width
}

func (g *geometry) headWidth(d notation.DurationCode) float64 {
	return g.width(notation.NoteheadGlyph(d))
}

func (g *geometry) accidentalInset(a notation.Accidental) float64 {
	if a.Wide() {
		return wideInset * g.gridUnit()
	}
	return normalInset * g.gridUnit()
}

func (g *geometry) beamStep() float64 {
	return (beamThickness + beamGap) * g.gridUnit()
}
