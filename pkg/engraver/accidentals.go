package engraver

import "github.com/james-see/leadengrave/pkg/notation"

// accidentalCollision is the staff-line distance within which consecutive
// accidentals in one slice alternate columns.
const accidentalCollision = 4

// AccidentalPlacement is one accidental glyph positioned left of its notehead
type AccidentalPlacement struct {
	Accidental notation.Accidental
	Glyph      rune
	X, Y       float64
	Second     bool
	Note       notation.ScoreNote
}

// AccidentalPlacer staggers the accidentals of one time slice
type AccidentalPlacer struct {
	geom *geometry
}

// Place positions accidentals for notes sorted by descending staff line.
// left is the x of the slice's leftmost notehead edge.
func (p AccidentalPlacer) Place(notes []notation.ScoreNote, left float64) []AccidentalPlacement {
	var out []AccidentalPlacement
	second := false
	last, haveLast := 0, false
	for _, n := range notes {
		if n.Accidental == notation.AccNone {
			continue
		}
		if haveLast && last-n.StaffLine <= accidentalCollision {
			second = !second
		} else {
			second = false
		}
		last, haveLast = n.StaffLine, true

		inset := p.geom.accidentalInset(n.Accidental)
		if second {
			inset *= 2
		}
		out = append(out, AccidentalPlacement{
			Accidental: n.Accidental,
			Glyph:      notation.AccidentalGlyph(n.Accidental),
			X:          left - inset,
			Y:          p.geom.lineY(n.StaffLine),
			Second:     second,
			Note:       n,
		})
	}
	return out
}
