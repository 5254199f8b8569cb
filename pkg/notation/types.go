// Package notation provides the data model shared by the spelling resolver and the engraver
package notation

import (
	"fmt"
	"image/color"
)

// DurationCode is the visual duration class of a notated event.
// Larger values are longer; everything below Quarter takes beams or flags.
type DurationCode int

const (
	Sixteenth4 DurationCode = iota - 5 // 128th
	Sixteenth3                         // 64th
	Sixteenth2                         // 32nd
	Sixteenth
	Eighth
	Quarter
	Half
	Whole
	Whole2 // breve
	Whole4 // longa
)

var durationNames = map[DurationCode]string{
	Sixteenth4: "128th",
	Sixteenth3: "64th",
	Sixteenth2: "32nd",
	Sixteenth:  "16th",
	Eighth:     "eighth",
	Quarter:    "quarter",
	Half:       "half",
	Whole:      "whole",
	Whole2:     "breve",
	Whole4:     "longa",
}

func (d DurationCode) String() string {
	if n, ok := durationNames[d]; ok {
		return n
	}
	return fmt.Sprintf("DurationCode(%d)", int(d))
}

// Valid reports whether d is one of the known duration codes
func (d DurationCode) Valid() bool {
	return d >= Sixteenth4 && d <= Whole4
}

// Beamable reports whether d is shorter than a quarter
func (d DurationCode) Beamable() bool {
	return d < Quarter
}

// BeamLevels returns the number of beams (or flags) a note of this duration carries
func (d DurationCode) BeamLevels() int {
	if d >= Quarter {
		return 0
	}
	return int(Quarter - d)
}

// ParseDurationCode parses a duration name as returned by String
func ParseDurationCode(s string) (DurationCode, error) {
	for d, n := range durationNames {
		if n == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown duration %q", s)
}

// Accidental is the alteration glyph shown before a notehead
type Accidental int

const (
	AccNone Accidental = iota
	AccNatural
	AccSharp
	AccFlat
	AccDoubleSharp
	AccDoubleFlat
	AccQuarterSharp
	AccQuarterFlat
	AccSharpAndAHalf
	AccFlatAndAHalf
)

var accidentalNames = []string{
	"none", "natural", "sharp", "flat", "double-sharp", "double-flat",
	"quarter-sharp", "quarter-flat", "sharp-and-a-half", "flat-and-a-half",
}

func (a Accidental) String() string {
	if a >= 0 && int(a) < len(accidentalNames) {
		return accidentalNames[a]
	}
	return fmt.Sprintf("Accidental(%d)", int(a))
}

// Wide reports whether the accidental belongs to the wide glyph class
func (a Accidental) Wide() bool {
	switch a {
	case AccDoubleSharp, AccDoubleFlat, AccSharpAndAHalf, AccFlatAndAHalf:
		return true
	}
	return false
}

// Semitones returns the chromatic alteration of the standard accidentals.
// Microtonal accidentals round toward zero.
func (a Accidental) Semitones() int {
	switch a {
	case AccSharp:
		return 1
	case AccFlat:
		return -1
	case AccDoubleSharp:
		return 2
	case AccDoubleFlat:
		return -2
	case AccSharpAndAHalf:
		return 1
	case AccFlatAndAHalf:
		return -1
	}
	return 0
}

// AccidentalFor returns the standard accidental for a semitone alteration
func AccidentalFor(alter int) Accidental {
	switch alter {
	case 0:
		return AccNatural
	case 1:
		return AccSharp
	case -1:
		return AccFlat
	case 2:
		return AccDoubleSharp
	case -2:
		return AccDoubleFlat
	}
	panic(fmt.Sprintf("notation: alteration %d has no accidental", alter))
}

// StemDirection selects which side of the notehead the stem is drawn on
type StemDirection int

const (
	StemAuto StemDirection = iota
	StemUp
	StemDown
	StemNone
)

func (s StemDirection) String() string {
	switch s {
	case StemAuto:
		return "auto"
	case StemUp:
		return "up"
	case StemDown:
		return "down"
	case StemNone:
		return "none"
	}
	return fmt.Sprintf("StemDirection(%d)", int(s))
}

// Explicit reports whether the caller forced a direction
func (s StemDirection) Explicit() bool {
	return s == StemUp || s == StemDown
}

// ScoreNote is one notated event
type ScoreNote struct {
	X             float64 // horizontal position in engraving units
	StaffLine     int     // 0 = bottom staff line, one unit per diatonic step
	Duration      DurationCode
	Dots          int
	Accidental    Accidental
	StemDirection StemDirection
	Mark          string      // opaque decoration, passed through
	Color         color.Color // nil uses the engraver colour
}

// MiddleLine is the middle line of a five-line staff
const MiddleLine = 4

// AutoStem resolves a direction for a note on its own: explicit overrides win,
// otherwise notes above the middle line point down.
func (n ScoreNote) AutoStem(middle int) StemDirection {
	if n.StemDirection.Explicit() {
		return n.StemDirection
	}
	if n.StaffLine > middle {
		return StemDown
	}
	return StemUp
}

// Clef selects the staff's pitch reference
type Clef int

const (
	Treble Clef = iota
	Bass
)

func (c Clef) String() string {
	switch c {
	case Treble:
		return "treble"
	case Bass:
		return "bass"
	}
	return fmt.Sprintf("Clef(%d)", int(c))
}

// ParseClef parses "treble" or "bass"
func ParseClef(s string) (Clef, error) {
	switch s {
	case "treble", "g", "":
		return Treble, nil
	case "bass", "f":
		return Bass, nil
	}
	return 0, fmt.Errorf("unknown clef %q", s)
}

// BarLine is the style of a measure separator
type BarLine int

const (
	BarPlain BarLine = iota
	BarDotted
	BarDouble
)

// ParseBarLine parses "plain", "dotted" or "double"
func ParseBarLine(s string) (BarLine, error) {
	switch s {
	case "", "plain", "single":
		return BarPlain, nil
	case "dotted":
		return BarDotted, nil
	case "double":
		return BarDouble, nil
	}
	return 0, fmt.Errorf("unknown bar line %q", s)
}

// TimeSymbol is a glyph replacing a numeric time signature
type TimeSymbol int

const (
	TimeCommon TimeSymbol = iota
	TimeCut
)
