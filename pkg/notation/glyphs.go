package notation

import "fmt"

// Glyph codepoints in the SMuFL symbol font layout (Bravura and compatibles).
const (
	GlyphNoteheadDoubleWhole       rune = 0xE0A0
	GlyphNoteheadDoubleWholeSquare rune = 0xE0A1
	GlyphNoteheadWhole             rune = 0xE0A2
	GlyphNoteheadHalf              rune = 0xE0A3
	GlyphNoteheadBlack             rune = 0xE0A4

	GlyphFlag8thUp    rune = 0xE240
	GlyphFlag8thDown  rune = 0xE241
	GlyphFlag16thUp   rune = 0xE242
	GlyphFlag16thDown rune = 0xE243
	GlyphFlag32ndUp   rune = 0xE244
	GlyphFlag32ndDown rune = 0xE245
	GlyphFlag64thUp   rune = 0xE246
	GlyphFlag64thDown rune = 0xE247
	GlyphFlag128thUp  rune = 0xE248
	GlyphFlag128thDwn rune = 0xE249

	GlyphRestLonga       rune = 0xE4E1
	GlyphRestDoubleWhole rune = 0xE4E2
	GlyphRestWhole       rune = 0xE4E3
	GlyphRestHalf        rune = 0xE4E4
	GlyphRestQuarter     rune = 0xE4E5
	GlyphRest8th         rune = 0xE4E6
	GlyphRest16th        rune = 0xE4E7
	GlyphRest32nd        rune = 0xE4E8
	GlyphRest64th        rune = 0xE4E9
	GlyphRest128th       rune = 0xE4EA

	GlyphAccFlat              rune = 0xE260
	GlyphAccNatural           rune = 0xE261
	GlyphAccSharp             rune = 0xE262
	GlyphAccDoubleSharp       rune = 0xE263
	GlyphAccDoubleFlat        rune = 0xE264
	GlyphAccQuarterSharp      rune = 0xE282
	GlyphAccThreeQuarterSharp rune = 0xE283
	GlyphAccQuarterFlat       rune = 0xE284
	GlyphAccThreeQuarterFlat  rune = 0xE285

	GlyphGClef rune = 0xE050
	GlyphFClef rune = 0xE062

	GlyphTimeSig0      rune = 0xE080
	GlyphTimeSigCommon rune = 0xE08A
	GlyphTimeSigCut    rune = 0xE08B

	GlyphAugmentationDot rune = 0xE1E7
)

// NoteheadGlyph returns the notehead for a duration. Quarter and shorter share
// the black notehead; beams and flags carry the rest.
func NoteheadGlyph(d DurationCode) rune {
	switch d {
	case Whole4:
		return GlyphNoteheadDoubleWholeSquare
	case Whole2:
		return GlyphNoteheadDoubleWhole
	case Whole:
		return GlyphNoteheadWhole
	case Half:
		return GlyphNoteheadHalf
	case Quarter, Eighth, Sixteenth, Sixteenth2, Sixteenth3, Sixteenth4:
		return GlyphNoteheadBlack
	}
	panic(fmt.Sprintf("notation: unknown duration code %d", int(d)))
}

// FlagGlyph returns the flag for an unbeamed short note, or 0 when the duration has none
func FlagGlyph(d DurationCode, dir StemDirection) rune {
	var up, down rune
	switch d {
	case Eighth:
		up, down = GlyphFlag8thUp, GlyphFlag8thDown
	case Sixteenth:
		up, down = GlyphFlag16thUp, GlyphFlag16thDown
	case Sixteenth2:
		up, down = GlyphFlag32ndUp, GlyphFlag32ndDown
	case Sixteenth3:
		up, down = GlyphFlag64thUp, GlyphFlag64thDown
	case Sixteenth4:
		up, down = GlyphFlag128thUp, GlyphFlag128thDwn
	default:
		return 0
	}
	if dir == StemDown {
		return down
	}
	return up
}

// RestGlyph returns the rest symbol for a duration
func RestGlyph(d DurationCode) rune {
	switch d {
	case Whole4:
		return GlyphRestLonga
	case Whole2:
		return GlyphRestDoubleWhole
	case Whole:
		return GlyphRestWhole
	case Half:
		return GlyphRestHalf
	case Quarter:
		return GlyphRestQuarter
	case Eighth:
		return GlyphRest8th
	case Sixteenth:
		return GlyphRest16th
	case Sixteenth2:
		return GlyphRest32nd
	case Sixteenth3:
		return GlyphRest64th
	case Sixteenth4:
		return GlyphRest128th
	}
	panic(fmt.Sprintf("notation: unknown duration code %d", int(d)))
}

// AccidentalGlyph returns the glyph for an accidental, or 0 for AccNone
func AccidentalGlyph(a Accidental) rune {
	switch a {
	case AccNone:
		return 0
	case AccNatural:
		return GlyphAccNatural
	case AccSharp:
		return GlyphAccSharp
	case AccFlat:
		return GlyphAccFlat
	case AccDoubleSharp:
		return GlyphAccDoubleSharp
	case AccDoubleFlat:
		return GlyphAccDoubleFlat
	case AccQuarterSharp:
		return GlyphAccQuarterSharp
	case AccQuarterFlat:
		return GlyphAccQuarterFlat
	case AccSharpAndAHalf:
		return GlyphAccThreeQuarterSharp
	case AccFlatAndAHalf:
		return GlyphAccThreeQuarterFlat
	}
	panic(fmt.Sprintf("notation: unknown accidental %d", int(a)))
}

// ClefGlyph returns the clef symbol and the staff line its origin sits on
func ClefGlyph(c Clef) (rune, int) {
	switch c {
	case Treble:
		return GlyphGClef, 2
	case Bass:
		return GlyphFClef, 6
	}
	panic(fmt.Sprintf("notation: unknown clef %d", int(c)))
}

// TimeDigitGlyph returns the time signature glyph for a digit 0-9
func TimeDigitGlyph(digit int) rune {
	if digit < 0 || digit > 9 {
		panic(fmt.Sprintf("notation: time signature digit %d", digit))
	}
	return GlyphTimeSig0 + rune(digit)
}

// GlyphEntry documents one row of the codepoint table
type GlyphEntry struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	Codepoint rune   `json:"codepoint"`
}

// GlyphTable lists every codepoint the engraver emits
func GlyphTable() []GlyphEntry {
	var out []GlyphEntry
	for d := Whole4; d >= Sixteenth4; d-- {
		out = append(out, GlyphEntry{"notehead", d.String(), NoteheadGlyph(d)})
	}
	for d := Eighth; d >= Sixteenth4; d-- {
		out = append(out,
			GlyphEntry{"flag-up", d.String(), FlagGlyph(d, StemUp)},
			GlyphEntry{"flag-down", d.String(), FlagGlyph(d, StemDown)})
	}
	for d := Whole4; d >= Sixteenth4; d-- {
		out = append(out, GlyphEntry{"rest", d.String(), RestGlyph(d)})
	}
	for a := AccNatural; a <= AccFlatAndAHalf; a++ {
		out = append(out, GlyphEntry{"accidental", a.String(), AccidentalGlyph(a)})
	}
	for _, c := range []Clef{Treble, Bass} {
		g, _ := ClefGlyph(c)
		out = append(out, GlyphEntry{"clef", c.String(), g})
	}
	for i := 0; i <= 9; i++ {
		out = append(out, GlyphEntry{"time", fmt.Sprint(i), TimeDigitGlyph(i)})
	}
	out = append(out,
		GlyphEntry{"time", "common", GlyphTimeSigCommon},
		GlyphEntry{"time", "cut", GlyphTimeSigCut},
		GlyphEntry{"dot", "augmentation", GlyphAugmentationDot})
	return out
}
