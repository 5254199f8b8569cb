package spelling

import (
	"fmt"
	"math"

	"github.com/james-see/leadengrave/pkg/notation"
)

// Family is the undotted, untupled base of a symbolic duration
type Family int

const (
	FamilySixteenth Family = iota
	FamilyEighth
	FamilyQuarter
	FamilyHalf
	FamilyWhole
)

// Symbolic is a categorical note length
type Symbolic struct {
	Name    string
	Beats   float64 // quarter note = 1
	Family  Family
	Dotted  bool
	Triplet bool
}

// Symbolics lists the symbolic durations in increasing length
var Symbolics = []Symbolic{
	{"sixteenth-triplet", 1.0 / 6, FamilySixteenth, false, true},
	{"sixteenth", 0.25, FamilySixteenth, false, false},
	{"eighth-triplet", 1.0 / 3, FamilyEighth, false, true},
	{"dotted-sixteenth", 0.375, FamilySixteenth, true, false},
	{"eighth", 0.5, FamilyEighth, false, false},
	{"quarter-triplet", 2.0 / 3, FamilyQuarter, false, true},
	{"dotted-eighth", 0.75, FamilyEighth, true, false},
	{"quarter", 1, FamilyQuarter, false, false},
	{"half-triplet", 4.0 / 3, FamilyHalf, false, true},
	{"dotted-quarter", 1.5, FamilyQuarter, true, false},
	{"half", 2, FamilyHalf, false, false},
	{"dotted-half", 3, FamilyHalf, true, false},
	{"whole", 4, FamilyWhole, false, false},
	{"dotted-whole", 6, FamilyWhole, true, false},
}

// NearestSymbolic rounds a raw duration in beats to the closest symbolic duration
func NearestSymbolic(beats float64) (Symbolic, error) {
	if math.IsNaN(beats) || math.IsInf(beats, 0) || beats <= 0 {
		return Symbolic{}, fmt.Errorf("%w: %v beats", ErrInvalidDuration, beats)
	}
	best := Symbolics[0]
	bestDist := math.Abs(beats - best.Beats)
	for _, s := range Symbolics[1:] {
		if d := math.Abs(beats - s.Beats); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, nil
}

// LookupSymbolic finds a symbolic duration by name
func LookupSymbolic(name string) (Symbolic, error) {
	for _, s := range Symbolics {
		if s.Name == name {
			return s, nil
		}
	}
	return Symbolic{}, fmt.Errorf("%w: unknown symbolic duration %q", ErrInvalidDuration, name)
}

// Code maps a symbolic duration to its visual duration code and dot count
func (s Symbolic) Code() (notation.DurationCode, int) {
	dots := 0
	if s.Dotted {
		dots = 1
	}
	return familyCode(s.Family), dots
}

func familyCode(f Family) notation.DurationCode {
	switch f {
	case FamilySixteenth:
		return notation.Sixteenth
	case FamilyEighth:
		return notation.Eighth
	case FamilyQuarter:
		return notation.Quarter
	case FamilyHalf:
		return notation.Half
	case FamilyWhole:
		return notation.Whole
	}
	panic(fmt.Sprintf("spelling: unknown duration family %d", int(f)))
}
