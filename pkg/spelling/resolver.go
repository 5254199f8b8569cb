// Package spelling turns absolute pitches and raw durations into notated events,
// choosing enharmonic spellings and remembering accidentals within a measure.
package spelling

import (
	"fmt"

	"github.com/james-see/leadengrave/pkg/notation"
)

// Diatonic index of each clef's bottom staff line: E4 for treble, G2 for bass
const (
	trebleBottom = 4*7 + int(E)
	bassBottom   = 2*7 + int(G)
)

// Alteration selects the spelling family used when nothing else decides
type Alteration int

const (
	AlterAuto Alteration = iota // follow the key signature, sharps in C
	AlterSharp
	AlterFlat
)

// Resolver converts raw notes into ScoreNotes for one staff
type Resolver struct {
	Clef    notation.Clef
	Key     KeySignature
	Default Alteration
}

// NewResolver creates a resolver for a clef and key
func NewResolver(clef notation.Clef, key KeySignature) *Resolver {
	return &Resolver{Clef: clef, Key: key}
}

// NewMeasure returns a fresh spelling state for the resolver's key
func (r *Resolver) NewMeasure() *MeasureSpellingState {
	return NewMeasureState(r.Key)
}

// Resolve rounds a raw duration in beats to the nearest symbolic duration and
// resolves the note against the measure state.
func (r *Resolver) Resolve(state *MeasureSpellingState, pitch int, beats float64, chord *ChordSymbol) (notation.ScoreNote, error) {
	sym, err := NearestSymbolic(beats)
	if err != nil {
		return notation.ScoreNote{}, err
	}
	return r.ResolveSymbolic(state, pitch, sym, chord)
}

// ResolveSymbolic resolves a note whose symbolic duration is already known.
// The returned note has no X; callers place it at their cursor.
func (r *Resolver) ResolveSymbolic(state *MeasureSpellingState, pitch int, sym Symbolic, chord *ChordSymbol) (notation.ScoreNote, error) {
	if pitch < MinPitch || pitch > MaxPitch {
		return notation.ScoreNote{}, fmt.Errorf("%w: %d", ErrPitchOutOfRange, pitch)
	}
	code, dots := sym.Code()
	note := notation.ScoreNote{Duration: code, Dots: dots}
	if code >= notation.Whole {
		note.StemDirection = notation.StemNone
	}

	spelled, acc := r.spell(state, pitch, chord)
	note.Accidental = acc
	note.StaffLine = r.StaffLine(spelled)
	return note, nil
}

// ResolveSpelled resolves a note whose spelling the caller already chose, as
// with a written pitch name. Only the accidental comes from the measure state.
func (r *Resolver) ResolveSpelled(state *MeasureSpellingState, p Spelled, sym Symbolic) (notation.ScoreNote, error) {
	if m := p.MIDI(); m < MinPitch || m > MaxPitch {
		return notation.ScoreNote{}, fmt.Errorf("%w: %s", ErrPitchOutOfRange, p)
	}
	code, dots := sym.Code()
	note := notation.ScoreNote{Duration: code, Dots: dots, StaffLine: r.StaffLine(p)}
	if code >= notation.Whole {
		note.StemDirection = notation.StemNone
	}
	if state.Current(p) != p.Alter {
		state.Record(p)
		note.Accidental = notation.AccidentalFor(p.Alter)
	}
	return note, nil
}

// Spell returns the spelling the resolver would choose without touching any state
func (r *Resolver) Spell(pitch int, chord *ChordSymbol) Spelled {
	if p, ok := SpellNatural(pitch); ok {
		return p
	}
	return r.chromatic(pitch, chord)
}

func (r *Resolver) spell(state *MeasureSpellingState, pitch int, chord *ChordSymbol) (Spelled, notation.Accidental) {
	if p, ok := SpellNatural(pitch); ok {
		if state.Current(p) != 0 {
			state.Record(p)
			return p, notation.AccNatural
		}
		return p, notation.AccNone
	}

	p := r.chromatic(pitch, chord)
	if state.Current(p) == p.Alter {
		return p, notation.AccNone
	}
	state.Record(p)
	return p, notation.AccidentalFor(p.Alter)
}

func (r *Resolver) chromatic(pitch int, chord *ChordSymbol) Spelled {
	if chord != nil {
		if tone, ok := chord.ToneFor(pitch); ok {
			return spell(pitch, tone.Letter)
		}
		return SpellWithFamily(pitch, chord.PrefersFlats())
	}
	return SpellWithFamily(pitch, r.prefersFlats())
}

func (r *Resolver) prefersFlats() bool {
	switch r.Default {
	case AlterSharp:
		return false
	case AlterFlat:
		return true
	case AlterAuto:
		return r.Key < 0
	}
	panic(fmt.Sprintf("spelling: unknown alteration %d", int(r.Default)))
}

// StaffLine returns the staff position of a spelled pitch for the resolver's clef
func (r *Resolver) StaffLine(p Spelled) int {
	switch r.Clef {
	case notation.Treble:
		return p.Diatonic() - trebleBottom
	case notation.Bass:
		return p.Diatonic() - bassBottom
	}
	panic(fmt.Sprintf("spelling: unknown clef %d", int(r.Clef)))
}
