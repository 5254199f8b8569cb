package engraver

import (
	"fmt"
	"strconv"

	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/notation"
)

// KeyAccidental is one accidental of a key signature
type KeyAccidental struct {
	StaffLine  int
	Accidental notation.Accidental
}

// treble staff lines of the key signature accidentals, in order
var (
	trebleSharpLines = []int{8, 5, 9, 6, 3, 7, 4}
	trebleFlatLines  = []int{4, 7, 3, 6, 2, 5, 1}
)

// KeySignatureFor returns the key signature accidentals for a number of
// fifths (positive sharps, negative flats), placed for clef.
func KeySignatureFor(clef notation.Clef, fifths int) []KeyAccidental {
	if fifths < -7 || fifths > 7 {
		panic(fmt.Sprintf("engraver: key signature with %d fifths", fifths))
	}
	offset := 0
	if clef == notation.Bass {
		offset = -2
	}
	lines, acc, n := trebleSharpLines, notation.AccSharp, fifths
	if fifths < 0 {
		lines, acc, n = trebleFlatLines, notation.AccFlat, -fifths
	}
	out := make([]KeyAccidental, n)
	for i := range out {
		out[i] = KeyAccidental{StaffLine: lines[i] + offset, Accidental: acc}
	}
	return out
}

// DrawStaff draws the staff lines from the cursor over width. The cursor does not move.
func (e *Engraver) DrawStaff(width float64) {
	e.Flush()
	for i := 0; i < e.geom.staffLines; i++ {
		y := e.geom.lineY(2 * i)
		e.cv.DrawLine(e.x, y, e.x+width, y)
	}
}

// DrawBarLine draws a bar line at the cursor
func (e *Engraver) DrawBarLine(kind notation.BarLine) {
	e.Flush()
	g := e.geom.gridUnit()
	bottom, top := e.geom.lineY(0), e.geom.lineY(e.geom.topLine())
	if e.geom.staffLines == 1 {
		bottom, top = e.geom.lineY(-2), e.geom.lineY(2)
	}

	switch kind {
	case notation.BarPlain:
		e.cv.DrawLine(e.x, bottom, e.x, top)
	case notation.BarDotted:
		dash := 0.25 * g
		for y := bottom; y-dash >= top-xTolerance; y -= 2 * dash {
			e.cv.DrawLine(e.x, y, e.x, y-dash)
		}
	case notation.BarDouble:
		e.cv.DrawLine(e.x-0.5*g, bottom, e.x-0.5*g, top)
		e.cv.DrawLine(e.x, bottom, e.x, top)
	default:
		panic(fmt.Sprintf("engraver: unknown bar line %d", int(kind)))
	}
}

// DrawClef draws a clef at the cursor and advances past it
func (e *Engraver) DrawClef(c notation.Clef) {
	e.Flush()
	glyph, line := notation.ClefGlyph(c)
	g := e.geom.gridUnit()
	x := e.x + 0.5*g
	e.cv.DrawGlyph(glyph, x, e.geom.lineY(line), e.geom.fontSize)
	e.clef = c
	e.x = x + e.geom.width(glyph) + headerPadding*g
}

// DrawKeySignature draws key accidentals left to right and advances past them
func (e *Engraver) DrawKeySignature(accs []KeyAccidental) {
	e.Flush()
	if len(accs) == 0 {
		return
	}
	g := e.geom.gridUnit()
	for _, a := range accs {
		glyph := notation.AccidentalGlyph(a.Accidental)
		if glyph == 0 {
			continue
		}
		e.cv.DrawGlyph(glyph, e.x, e.geom.lineY(a.StaffLine), e.geom.fontSize)
		e.x += e.geom.width(glyph) + keyGlyphPadding*g
	}
	e.x += headerPadding * g
}

// DrawSharps draws a key signature of n sharps for the current clef
func (e *Engraver) DrawSharps(n int) {
	e.DrawKeySignature(KeySignatureFor(e.clef, n))
}

// DrawFlats draws a key signature of n flats for the current clef
func (e *Engraver) DrawFlats(n int) {
	e.DrawKeySignature(KeySignatureFor(e.clef, -n))
}

func timeDigits(v int) []rune {
	var out []rune
	for _, c := range strconv.Itoa(v) {
		out = append(out, notation.TimeDigitGlyph(int(c-'0')))
	}
	return out
}

// DrawTimeSignature draws a numeric time signature and advances past it
func (e *Engraver) DrawTimeSignature(num, den int) {
	if num <= 0 || den <= 0 {
		panic(fmt.Sprintf("engraver: time signature %d/%d", num, den))
	}
	e.Flush()
	size := e.geom.fontSize
	top, bottom := string(timeDigits(num)), string(timeDigits(den))
	wTop := canvas.MeasureString(e.geom.metrics, top, size).Width
	wBottom := canvas.MeasureString(e.geom.metrics, bottom, size).Width
	w := max(wTop, wBottom)

	e.drawRun(top, e.x+(w-wTop)/2, e.geom.lineY(6))
	e.drawRun(bottom, e.x+(w-wBottom)/2, e.geom.lineY(2))
	e.x += w + headerPadding*e.geom.gridUnit()
}

func (e *Engraver) drawRun(s string, x, y float64) {
	for _, r := range s {
		e.cv.DrawGlyph(r, x, y, e.geom.fontSize)
		x += e.geom.width(r)
	}
}

// DrawTimeSymbol draws the common or cut time glyph and advances past it
func (e *Engraver) DrawTimeSymbol(sym notation.TimeSymbol) {
	e.Flush()
	glyph := notation.GlyphTimeSigCommon
	switch sym {
	case notation.TimeCommon:
	case notation.TimeCut:
		glyph = notation.GlyphTimeSigCut
	default:
		panic(fmt.Sprintf("engraver: unknown time symbol %d", int(sym)))
	}
	e.cv.DrawGlyph(glyph, e.x, e.geom.lineY(e.geom.middleLine()), e.geom.fontSize)
	e.x += e.geom.width(glyph) + headerPadding*e.geom.gridUnit()
}

// SubmitRest closes the open group and draws a rest at x
func (e *Engraver) SubmitRest(x float64, d notation.DurationCode, dots int) {
	e.Flush()
	glyph := notation.RestGlyph(d)
	line := e.geom.middleLine()
	if d >= notation.Whole && e.geom.staffLines > 1 {
		line = e.geom.topLine() - 2
	}
	e.cv.DrawGlyph(glyph, x, e.geom.lineY(line), e.geom.fontSize)

	g := e.geom.gridUnit()
	dotX := x + e.geom.width(glyph) + dotGap*g
	for i := 0; i < dots; i++ {
		e.cv.DrawGlyph(notation.GlyphAugmentationDot, dotX+float64(i)*dotSpacing*g,
			e.geom.lineY(e.geom.middleLine()+1), e.geom.fontSize)
	}
}

// DrawTie draws a tie curve between two notes. It bows away from the stem
// from was drawn with, which for a beamed note is the group's direction.
func (e *Engraver) DrawTie(from, to notation.ScoreNote) {
	e.Flush()
	g := e.geom.gridUnit()
	sign := 1.0
	if e.stemOf(from) == notation.StemDown {
		sign = -1
	}
	x1 := from.X + e.geom.headWidth(from.Duration)
	x2 := to.X
	if x2 <= x1 {
		x2 = x1 + g
	}
	y1 := e.geom.lineY(from.StaffLine)
	y2 := e.geom.lineY(to.StaffLine)
	third := (x2 - x1) / 3

	e.cv.DrawCubic(
		canvas.Point{X: x1, Y: y1 + sign*tieLift*g},
		canvas.Point{X: x1 + third, Y: y1 + sign*tieCurve*g},
		canvas.Point{X: x2 - third, Y: y2 + sign*tieCurve*g},
		canvas.Point{X: x2, Y: y2 + sign*tieLift*g},
	)
}
