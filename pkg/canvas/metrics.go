package canvas

import "github.com/james-see/leadengrave/pkg/notation"

// advance widths in staff spaces, taken from Bravura's metadata
var bravuraWidths = map[rune]float64{
	notation.GlyphNoteheadDoubleWhole:       2.5,
	notation.GlyphNoteheadDoubleWholeSquare: 2.0,
	notation.GlyphNoteheadWhole:             1.688,
	notation.GlyphNoteheadHalf:              1.18,
	notation.GlyphNoteheadBlack:             1.18,

	notation.GlyphFlag8thUp:    1.056,
	notation.GlyphFlag8thDown:  1.224,
	notation.GlyphFlag16thUp:   1.116,
	notation.GlyphFlag16thDown: 1.164,
	notation.GlyphFlag32ndUp:   1.044,
	notation.GlyphFlag32ndDown: 1.092,
	notation.GlyphFlag64thUp:   1.044,
	notation.GlyphFlag64thDown: 1.092,
	notation.GlyphFlag128thUp:  1.044,
	notation.GlyphFlag128thDwn: 1.092,

	notation.GlyphRestLonga:       0.5,
	notation.GlyphRestDoubleWhole: 0.5,
	notation.GlyphRestWhole:       1.128,
	notation.GlyphRestHalf:        1.128,
	notation.GlyphRestQuarter:     1.08,
	notation.GlyphRest8th:         0.988,
	notation.GlyphRest16th:        1.256,
	notation.GlyphRest32nd:        1.46,
	notation.GlyphRest64th:        1.704,
	notation.GlyphRest128th:       1.932,

	notation.GlyphAccFlat:              0.904,
	notation.GlyphAccNatural:           0.672,
	notation.GlyphAccSharp:             0.996,
	notation.GlyphAccDoubleSharp:       0.988,
	notation.GlyphAccDoubleFlat:        1.644,
	notation.GlyphAccQuarterSharp:      0.68,
	notation.GlyphAccThreeQuarterSharp: 1.336,
	notation.GlyphAccQuarterFlat:       0.904,
	notation.GlyphAccThreeQuarterFlat:  1.644,

	notation.GlyphGClef: 2.684,
	notation.GlyphFClef: 2.736,

	notation.GlyphTimeSigCommon: 1.592,
	notation.GlyphTimeSigCut:    1.592,

	notation.GlyphAugmentationDot: 0.4,
}

// StaticMetrics measures glyphs from a built-in advance table, so layout works
// without loading a font file.
type StaticMetrics struct{}

// MeasureGlyph returns the glyph's advance width and a one-space height box.
// The symbol font's em is four staff spaces.
func (StaticMetrics) MeasureGlyph(glyph rune, sizePx float64) Bounds {
	space := sizePx / 4
	w, ok := bravuraWidths[glyph]
	if !ok {
		w = 1.8 // time signature digits and anything unlisted
	}
	return Bounds{X: 0, Y: -space / 2, Width: w * space, Height: space}
}
