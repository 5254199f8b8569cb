package spelling

import "errors"

// Errors returned at the resolver boundary
var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrPitchOutOfRange = errors.New("pitch out of range")
	ErrUnknownChord    = errors.New("unknown chord symbol")
	ErrBadPitchName    = errors.New("bad pitch name")
)

// Representable MIDI pitch range
const (
	MinPitch = 0
	MaxPitch = 127
)

var (
	sharpOrder = [7]Letter{F, C, G, D, A, E, B}
	flatOrder  = [7]Letter{B, E, A, D, G, C, F}
)

// KeySignature counts sharps (positive) or flats (negative)
type KeySignature int

// Alterations returns the alteration the key applies to each letter
func (k KeySignature) Alterations() map[Letter]int {
	out := make(map[Letter]int)
	switch {
	case k > 0:
		for _, l := range sharpOrder[:min(int(k), 7)] {
			out[l] = 1
		}
	case k < 0:
		for _, l := range flatOrder[:min(int(-k), 7)] {
			out[l] = -1
		}
	}
	return out
}

// Letters returns the altered letters in signature order
func (k KeySignature) Letters() []Letter {
	switch {
	case k > 0:
		return sharpOrder[:min(int(k), 7)]
	case k < 0:
		return flatOrder[:min(int(-k), 7)]
	}
	return nil
}

// MeasureSpellingState records the last displayed alteration per white-key
// pitch within one measure. Pitches without an entry fall back to the key.
type MeasureSpellingState struct {
	key     map[Letter]int
	entries map[int]int // diatonic index -> alteration
}

// NewMeasureState returns an empty state for a measure in the given key
func NewMeasureState(key KeySignature) *MeasureSpellingState {
	return &MeasureSpellingState{key: key.Alterations(), entries: make(map[int]int)}
}

// Reset clears all recorded alterations at a measure boundary
func (s *MeasureSpellingState) Reset() {
	clear(s.entries)
}

// SetKey changes the key and resets the measure
func (s *MeasureSpellingState) SetKey(key KeySignature) {
	s.key = key.Alterations()
	s.Reset()
}

// Current returns the alteration in force for a white-key pitch
func (s *MeasureSpellingState) Current(p Spelled) int {
	if alter, ok := s.entries[p.Diatonic()]; ok {
		return alter
	}
	return s.key[p.Letter]
}

// Record stores a displayed alteration
func (s *MeasureSpellingState) Record(p Spelled) {
	if p.Alter == s.key[p.Letter] {
		delete(s.entries, p.Diatonic())
		return
	}
	s.entries[p.Diatonic()] = p.Alter
}

// Len returns the number of explicit entries
func (s *MeasureSpellingState) Len() int {
	return len(s.entries)
}

// Clone returns an independent copy
func (s *MeasureSpellingState) Clone() *MeasureSpellingState {
	c := &MeasureSpellingState{key: s.key, entries: make(map[int]int, len(s.entries))}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	return c
}
