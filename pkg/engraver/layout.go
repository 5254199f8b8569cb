package engraver

import (
	"fmt"
	"math"
	"sort"

	"github.com/james-see/leadengrave/pkg/notation"
)

// HeadPlacement is a positioned notehead
type HeadPlacement struct {
	Note    notation.ScoreNote
	Glyph   rune
	X, Y    float64
	Shifted bool
}

// LedgerLine is one short staff line extension
type LedgerLine struct {
	Line   int
	X1, X2 float64
	Y      float64
}

// Stem runs from the notehead end (Y1) to the free end (Y2)
type Stem struct {
	X, Y1, Y2 float64
	Direction notation.StemDirection
}

// Beam is a quadrilateral whose outer edge runs from (X1,Y1) to (X2,Y2).
// Thickness is signed: positive grows downward toward the noteheads of up-stems.
type Beam struct {
	Level     int
	X1, Y1    float64
	X2, Y2    float64
	Thickness float64
	Stub      bool
}

// GlyphMark is a glyph at a position
type GlyphMark struct {
	Glyph rune
	X, Y  float64
}

// GroupLayout is the computed geometry of one NoteGroup
type GroupLayout struct {
	Group       NoteGroup
	Direction   notation.StemDirection
	Slope       float64
	Heads       []HeadPlacement
	Accidentals []AccidentalPlacement
	Ledgers     []LedgerLine
	Dots        []GlyphMark
	Stems       []Stem
	Flags       []GlyphMark
	Beams       []Beam
}

// PrimaryBeams counts level-one beams
func (l *GroupLayout) PrimaryBeams() int {
	n := 0
	for _, b := range l.Beams {
		if b.Level == 1 {
			n++
		}
	}
	return n
}

// SecondaryBeams counts beams and stubs below the primary beam
func (l *GroupLayout) SecondaryBeams() int {
	return len(l.Beams) - l.PrimaryBeams()
}

// StemAndBeamLayout computes stems, beams and notehead placement for closed groups
type StemAndBeamLayout struct {
	geom   *geometry
	placer AccidentalPlacer
}

func newStemAndBeamLayout(geom *geometry) *StemAndBeamLayout {
	return &StemAndBeamLayout{geom: geom, placer: AccidentalPlacer{geom: geom}}
}

// Layout computes the geometry of g. It returns nil for an empty group.
func (l *StemAndBeamLayout) Layout(g NoteGroup) *GroupLayout {
	if g.Empty() {
		return nil
	}
	ordered := sortedSlices(g)
	out := &GroupLayout{Group: g, Direction: l.direction(ordered)}
	for _, s := range ordered {
		l.placeSlice(out, s)
	}
	switch {
	case out.Direction == notation.StemNone:
	case len(ordered) == 1 || sameX(ordered[0].X, ordered[len(ordered)-1].X):
		l.chordStem(out, ordered[0], len(ordered) == 1)
	default:
		l.beam(out, ordered)
	}
	return out
}

// sortedSlices copies the group's slices ordered by x, each slice's notes
// ordered by descending staff line.
func sortedSlices(g NoteGroup) []TimeSlice {
	out := make([]TimeSlice, len(g.Slices))
	for i, s := range g.Slices {
		notes := append([]notation.ScoreNote(nil), s.Notes...)
		sort.SliceStable(notes, func(a, b int) bool {
			return notes[a].StaffLine > notes[b].StaffLine
		})
		out[i] = TimeSlice{X: s.X, Notes: notes, Duration: s.Duration}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].X < out[b].X })
	return out
}

func checkStem(d notation.StemDirection) {
	switch d {
	case notation.StemAuto, notation.StemUp, notation.StemDown, notation.StemNone:
		return
	}
	panic(fmt.Sprintf("engraver: unknown stem direction %d", int(d)))
}

func (l *StemAndBeamLayout) direction(slices []TimeSlice) notation.StemDirection {
	stemmed := false
	lo, hi := math.MaxInt, math.MinInt
	for _, s := range slices {
		for _, n := range s.Notes {
			checkStem(n.StemDirection)
			if n.Duration < notation.Whole && n.StemDirection != notation.StemNone {
				stemmed = true
			}
			lo, hi = min(lo, n.StaffLine), max(hi, n.StaffLine)
		}
	}
	if !stemmed {
		return notation.StemNone
	}
	middle := l.geom.middleLine()

	if len(slices) == 1 {
		s := slices[0]
		if s.Duration < notation.Half {
			for _, n := range s.Notes {
				if n.StemDirection.Explicit() {
					return n.StemDirection
				}
			}
		}
		if hi > middle {
			return notation.StemDown
		}
		return notation.StemUp
	}

	for _, s := range slices {
		for _, n := range s.Notes {
			if n.StemDirection.Explicit() {
				return n.StemDirection
			}
		}
	}
	if hi-middle > middle-lo {
		return notation.StemDown
	}
	return notation.StemUp
}

// placeSlice lays out noteheads, ledger lines, accidentals and dots of one slice
func (l *StemAndBeamLayout) placeSlice(out *GroupLayout, s TimeSlice) {
	geom := l.geom
	g := geom.gridUnit()
	notes := s.Notes
	shift := make([]float64, len(notes))

	// seconds alternate sides, walking away from the stem end
	if out.Direction == notation.StemDown {
		for i := 1; i < len(notes); i++ {
			if notes[i-1].StaffLine-notes[i].StaffLine == 1 && shift[i-1] == 0 {
				shift[i] = -geom.headWidth(notes[i].Duration)
			}
		}
	} else {
		for i := len(notes) - 2; i >= 0; i-- {
			if notes[i].StaffLine-notes[i+1].StaffLine == 1 && shift[i+1] == 0 {
				shift[i] = geom.headWidth(notes[i].Duration)
			}
		}
	}

	left, right := s.X, s.X
	type span struct{ x1, x2 float64 }
	rows := make(map[int]span)
	var order []int
	addRow := func(row int, x1, x2 float64) {
		r, ok := rows[row]
		if !ok {
			order = append(order, row)
			rows[row] = span{x1, x2}
			return
		}
		rows[row] = span{min(r.x1, x1), max(r.x2, x2)}
	}

	top := geom.topLine()
	for i, n := range notes {
		x := s.X + shift[i]
		w := geom.headWidth(n.Duration)
		out.Heads = append(out.Heads, HeadPlacement{
			Note:    n,
			Glyph:   notation.NoteheadGlyph(n.Duration),
			X:       x,
			Y:       geom.lineY(n.StaffLine),
			Shifted: shift[i] != 0,
		})
		left, right = min(left, x), max(right, x+w)

		x1, x2 := x-ledgerOverhang*g, x+w+ledgerOverhang*g
		switch {
		case n.StaffLine < 0:
			count := (-n.StaffLine + 1) / 2
			for k := 1; k <= count; k++ {
				addRow(-2*k, x1, x2)
			}
		case n.StaffLine > top:
			count := (n.StaffLine - top + 1) / 2
			for k := 1; k <= count; k++ {
				addRow(top+2*k, x1, x2)
			}
		}
	}
	for _, row := range order {
		r := rows[row]
		out.Ledgers = append(out.Ledgers, LedgerLine{Line: row, X1: r.x1, X2: r.x2, Y: geom.lineY(row)})
	}

	out.Accidentals = append(out.Accidentals, l.placer.Place(notes, left)...)

	for _, n := range notes {
		line := n.StaffLine
		if line%2 == 0 {
			line++
		}
		for d := 0; d < n.Dots; d++ {
			out.Dots = append(out.Dots, GlyphMark{
				Glyph: notation.GlyphAugmentationDot,
				X:     right + dotGap*g + float64(d)*dotSpacing*g,
				Y:     geom.lineY(line),
			})
		}
	}
}

// stemExtension reserves room for sub-beams and flags of notes shorter than a sixteenth
func (l *StemAndBeamLayout) stemExtension(slices []TimeSlice) float64 {
	shortest := slices[0].Duration
	for _, s := range slices {
		for _, n := range s.Notes {
			shortest = min(shortest, n.Duration)
		}
	}
	extra := int(notation.Sixteenth - shortest)
	if extra <= 0 {
		return 0
	}
	return float64(extra) * l.geom.beamStep()
}

// stemX is where a stem attaches to a slice for the given direction
func (l *StemAndBeamLayout) stemX(s TimeSlice, dir notation.StemDirection) float64 {
	if dir == notation.StemUp {
		return s.X + l.geom.headWidth(min(s.Duration, notation.Half))
	}
	return s.X
}

func (l *StemAndBeamLayout) chordStem(out *GroupLayout, s TimeSlice, flagged bool) {
	if s.Duration >= notation.Whole {
		return
	}
	geom := l.geom
	length := stemLength*geom.gridUnit() + l.stemExtension([]TimeSlice{s})
	highest := s.Notes[0].StaffLine
	lowest := s.Notes[len(s.Notes)-1].StaffLine

	stem := Stem{X: l.stemX(s, out.Direction), Direction: out.Direction}
	if out.Direction == notation.StemUp {
		stem.Y1 = geom.lineY(lowest)
		stem.Y2 = geom.lineY(highest) - length
	} else {
		stem.Y1 = geom.lineY(highest)
		stem.Y2 = geom.lineY(lowest) + length
	}
	out.Stems = append(out.Stems, stem)

	if flagged && s.Duration < notation.Quarter {
		if glyph := notation.FlagGlyph(s.Duration, out.Direction); glyph != 0 {
			out.Flags = append(out.Flags, GlyphMark{Glyph: glyph, X: stem.X, Y: stem.Y2})
		}
	}
}

func (l *StemAndBeamLayout) beam(out *GroupLayout, slices []TimeSlice) {
	geom := l.geom
	g := geom.gridUnit()
	dir := out.Direction
	up := dir == notation.StemUp
	length := stemLength*g + l.stemExtension(slices)

	// the note nearest the beam in each slice
	near := func(s TimeSlice) int {
		if up {
			return s.Notes[0].StaffLine
		}
		return s.Notes[len(s.Notes)-1].StaffLine
	}
	far := func(s TimeSlice) int {
		if up {
			return s.Notes[len(s.Notes)-1].StaffLine
		}
		return s.Notes[0].StaffLine
	}

	last := len(slices) - 1
	extreme := near(slices[0])
	for _, s := range slices {
		if up {
			extreme = max(extreme, near(s))
		} else {
			extreme = min(extreme, near(s))
		}
	}
	atFirst := near(slices[0]) == extreme
	atLast := near(slices[last]) == extreme

	anchor, other := 0, last
	sloped := true
	switch {
	case atFirst && atLast:
		sloped = false
	case atFirst:
	case atLast:
		anchor, other = last, 0
	default:
		sloped = false
		for i, s := range slices {
			if near(s) == extreme {
				anchor = i
				break
			}
		}
	}

	tip := geom.lineY(extreme)
	if up {
		tip -= length
	} else {
		tip += length
	}

	h := 0.0
	if sloped {
		dx := math.Abs(slices[other].X - slices[anchor].X)
		dl := math.Abs(float64(near(slices[other]) - extreme))
		h = math.Min(dl*g*0.5/dx, maxSlope*g)
		for i, s := range slices {
			dist := math.Abs(s.X - slices[anchor].X)
			if i == anchor || dist <= xTolerance {
				continue
			}
			room := geom.lineY(near(s)) - tip
			if !up {
				room = tip - geom.lineY(near(s))
			}
			h = math.Min(h, room/dist)
		}
		h = math.Max(h, 0)
	}

	// slope signs: up-stem beams descend away from a left anchor, down-stem
	// beams rise away from it
	slope := h
	if up != (anchor == 0) {
		slope = -h
	}
	if !sloped {
		slope = 0
	}
	out.Slope = slope

	ax := slices[anchor].X
	beamY := func(x float64) float64 { return tip + slope*(x-ax) }

	thickness := beamThickness * g
	step := geom.beamStep()
	if !up {
		thickness, step = -thickness, -step
	}

	for _, s := range slices {
		sx := l.stemX(s, dir)
		out.Stems = append(out.Stems, Stem{
			X:         sx,
			Y1:        geom.lineY(far(s)),
			Y2:        beamY(s.X),
			Direction: dir,
		})
	}

	first, end := slices[0], slices[last]
	out.Beams = append(out.Beams, Beam{
		Level:     1,
		X1:        l.stemX(first, dir),
		Y1:        beamY(first.X),
		X2:        l.stemX(end, dir),
		Y2:        beamY(end.X),
		Thickness: thickness,
	})

	levels := make([]int, len(slices))
	deepest := 0
	for i, s := range slices {
		levels[i] = s.Duration.BeamLevels()
		deepest = max(deepest, levels[i])
	}
	for level := 2; level <= deepest; level++ {
		off := float64(level-1) * step
		for i := range slices {
			if levels[i] < level {
				continue
			}
			withNext := i < last && levels[i+1] >= level
			withPrev := i > 0 && levels[i-1] >= level
			a := slices[i]
			if withNext {
				b := slices[i+1]
				out.Beams = append(out.Beams, Beam{
					Level:     level,
					X1:        l.stemX(a, dir),
					Y1:        beamY(a.X) + off,
					X2:        l.stemX(b, dir),
					Y2:        beamY(b.X) + off,
					Thickness: thickness,
				})
				continue
			}
			if withPrev {
				continue
			}
			// lone slice at this level: stub toward its neighbour
			nb := i - 1
			if i == 0 {
				nb = 1
			}
			dx := slices[nb].X - a.X
			stub := math.Copysign(math.Min(stubLength*g, math.Abs(dx)/2), dx)
			x1 := l.stemX(a, dir)
			out.Beams = append(out.Beams, Beam{
				Level:     level,
				X1:        x1,
				Y1:        beamY(a.X) + off,
				X2:        x1 + stub,
				Y2:        beamY(a.X+stub) + off,
				Thickness: thickness,
				Stub:      true,
			})
		}
	}
}
