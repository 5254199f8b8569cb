package spelling

import (
	"fmt"
	"strconv"
	"strings"
)

// Letter is a diatonic note name, C=0 through B=6
type Letter int

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

var letterNames = "CDEFGAB"

// letterPC is the pitch class of each natural letter
var letterPC = [7]int{0, 2, 4, 5, 7, 9, 11}

// whiteLetter maps a pitch class to its natural letter, -1 for black keys
var whiteLetter = [12]Letter{C, -1, D, -1, E, F, -1, G, -1, A, -1, B}

func (l Letter) String() string {
	if l < 0 || l > B {
		return fmt.Sprintf("Letter(%d)", int(l))
	}
	return letterNames[l : l+1]
}

// Spelled is a pitch with an explicit enharmonic spelling
type Spelled struct {
	Letter Letter
	Alter  int // semitones, -2..2
	Octave int // scientific pitch notation, C4 = MIDI 60
}

// MIDI returns the absolute pitch
func (p Spelled) MIDI() int {
	return (p.Octave+1)*12 + letterPC[p.Letter] + p.Alter
}

// Diatonic returns the white-key index: letter plus seven per octave
func (p Spelled) Diatonic() int {
	return p.Octave*7 + int(p.Letter)
}

func (p Spelled) String() string {
	var alter string
	switch {
	case p.Alter > 0:
		alter = strings.Repeat("#", p.Alter)
	case p.Alter < 0:
		alter = strings.Repeat("b", -p.Alter)
	}
	return fmt.Sprintf("%s%s%d", p.Letter, alter, p.Octave)
}

// spell returns the spelling of midi with the given letter, computing octave and alteration
func spell(midi int, letter Letter) Spelled {
	pc := mod12(midi)
	alter := signedInterval(pc - letterPC[letter])
	octave := (midi-letterPC[letter]-alter)/12 - 1
	return Spelled{Letter: letter, Alter: alter, Octave: octave}
}

// SpellNatural spells a white-key pitch; ok is false for black keys
func SpellNatural(midi int) (Spelled, bool) {
	l := whiteLetter[mod12(midi)]
	if l < 0 {
		return Spelled{}, false
	}
	return spell(midi, l), true
}

// SpellWithFamily spells a black-key pitch as a sharp or a flat
func SpellWithFamily(midi int, flats bool) Spelled {
	pc := mod12(midi)
	if flats {
		return spell(midi, whiteLetter[mod12(pc+1)])
	}
	return spell(midi, whiteLetter[mod12(pc-1)])
}

// ParsePitchName parses names like "C4", "F#5", "Bb3" or "Ebb2"
func ParsePitchName(s string) (Spelled, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Spelled{}, fmt.Errorf("%w: %q", ErrBadPitchName, s)
	}
	idx := strings.IndexByte(letterNames, strings.ToUpper(s[:1])[0])
	if idx < 0 {
		return Spelled{}, fmt.Errorf("%w: %q", ErrBadPitchName, s)
	}
	p := Spelled{Letter: Letter(idx)}
	rest := s[1:]
	for len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			p.Alter++
		} else {
			p.Alter--
		}
		rest = rest[1:]
	}
	if p.Alter < -2 || p.Alter > 2 {
		return Spelled{}, fmt.Errorf("%w: %q", ErrBadPitchName, s)
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Spelled{}, fmt.Errorf("%w: %q", ErrBadPitchName, s)
	}
	p.Octave = octave
	if m := p.MIDI(); m < MinPitch || m > MaxPitch {
		return Spelled{}, fmt.Errorf("%w: %s", ErrPitchOutOfRange, s)
	}
	return p, nil
}

func mod12(n int) int {
	return ((n % 12) + 12) % 12
}

// signedInterval folds a semitone difference into -5..6
func signedInterval(n int) int {
	n = mod12(n)
	if n > 6 {
		n -= 12
	}
	return n
}
