package spelling

import (
	"fmt"
	"strings"
)

// qualities maps chord suffixes to their degrees
var qualities = map[string]string{
	"":        "1 3 5",
	"M":       "1 3 5",
	"maj":     "1 3 5",
	"m":       "1 b3 5",
	"-":       "1 b3 5",
	"min":     "1 b3 5",
	"6":       "1 3 5 6",
	"m6":      "1 b3 5 6",
	"69":      "1 3 5 6 9",
	"6/9":     "1 3 5 6 9",
	"add9":    "1 3 5 9",
	"7":       "1 3 5 b7",
	"9":       "1 3 5 b7 9",
	"11":      "1 5 b7 9 11",
	"13":      "1 3 5 b7 9 13",
	"maj7":    "1 3 5 7",
	"M7":      "1 3 5 7",
	"^7":      "1 3 5 7",
	"maj9":    "1 3 5 7 9",
	"maj7#11": "1 3 5 7 #11",
	"m7":      "1 b3 5 b7",
	"-7":      "1 b3 5 b7",
	"min7":    "1 b3 5 b7",
	"m9":      "1 b3 5 b7 9",
	"m11":     "1 b3 5 b7 9 11",
	"mM7":     "1 b3 5 7",
	"m(maj7)": "1 b3 5 7",
	"m7b5":    "1 b3 b5 b7",
	"-7b5":    "1 b3 b5 b7",
	"ø":       "1 b3 b5 b7",
	"ø7":      "1 b3 b5 b7",
	"dim":     "1 b3 b5",
	"o":       "1 b3 b5",
	"dim7":    "1 b3 b5 bb7",
	"o7":      "1 b3 b5 bb7",
	"aug":     "1 3 #5",
	"+":       "1 3 #5",
	"7#5":     "1 3 #5 b7",
	"7b5":     "1 3 b5 b7",
	"7b9":     "1 3 5 b7 b9",
	"7#9":     "1 3 5 b7 #9",
	"7#11":    "1 3 5 b7 #11",
	"7b13":    "1 3 5 b7 b13",
	"7alt":    "1 3 b7 b9 #9 b13",
	"sus":     "1 4 5",
	"sus4":    "1 4 5",
	"sus2":    "1 2 5",
	"7sus":    "1 4 5 b7",
	"7sus4":   "1 4 5 b7",
	"9sus4":   "1 4 5 b7 9",
}

// majorSteps is the semitone offset of each plain degree from the root
var majorSteps = map[int]int{1: 0, 2: 2, 3: 4, 4: 5, 5: 7, 6: 9, 7: 11, 9: 14, 11: 17, 13: 21}

// ChordTone is one spelled member of a chord, without octave
type ChordTone struct {
	Letter Letter
	Alter  int
}

// PitchClass returns the tone's pitch class
func (t ChordTone) PitchClass() int {
	return mod12(letterPC[t.Letter] + t.Alter)
}

// ChordSymbol is the harmonic context used to pick enharmonic spellings
type ChordSymbol struct {
	Name  string
	Root  ChordTone
	Minor bool
	Tones []ChordTone
}

// ParseChordSymbol parses leadsheet chord names such as "Eb7", "C#m7b5" or "F/A"
func ParseChordSymbol(name string) (*ChordSymbol, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrUnknownChord)
	}
	idx := strings.IndexByte(letterNames, strings.ToUpper(s[:1])[0])
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChord, name)
	}
	root := ChordTone{Letter: Letter(idx)}
	s = s[1:]
	switch {
	case strings.HasPrefix(s, "#"):
		root.Alter, s = 1, s[1:]
	case strings.HasPrefix(s, "b"):
		root.Alter, s = -1, s[1:]
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 && s != "6/9" {
		s = s[:i]
	}
	degrees, ok := qualities[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChord, name)
	}

	chord := &ChordSymbol{Name: name, Root: root}
	for _, tok := range strings.Fields(degrees) {
		tone, minorThird, err := degreeTone(root, tok)
		if err != nil || tone.Alter < -2 || tone.Alter > 2 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChord, name)
		}
		chord.Minor = chord.Minor || minorThird
		chord.Tones = append(chord.Tones, tone)
	}
	return chord, nil
}

func degreeTone(root ChordTone, tok string) (ChordTone, bool, error) {
	shift := 0
	for len(tok) > 1 && (tok[0] == 'b' || tok[0] == '#') {
		if tok[0] == 'b' {
			shift--
		} else {
			shift++
		}
		tok = tok[1:]
	}
	var deg int
	if _, err := fmt.Sscanf(tok, "%d", &deg); err != nil {
		return ChordTone{}, false, err
	}
	steps, ok := majorSteps[deg]
	if !ok {
		return ChordTone{}, false, fmt.Errorf("degree %d", deg)
	}
	letter := Letter((int(root.Letter) + deg - 1) % 7)
	target := letterPC[root.Letter] + root.Alter + steps + shift
	alter := signedInterval(target - letterPC[letter])
	return ChordTone{Letter: letter, Alter: alter}, deg == 3 && shift == -1, nil
}

// ToneFor returns the chord tone matching a pitch class
func (c *ChordSymbol) ToneFor(pc int) (ChordTone, bool) {
	for _, t := range c.Tones {
		if t.PitchClass() == mod12(pc) {
			return t, true
		}
	}
	return ChordTone{}, false
}

// PrefersFlats reports the chord's alteration convention for non-chord tones.
// Flat roots, F, and minor chords on C, G and D lean flat; everything else sharp.
func (c *ChordSymbol) PrefersFlats() bool {
	if c.Root.Alter < 0 || (c.Root.Alter == 0 && c.Root.Letter == F) {
		return true
	}
	if c.Root.Alter == 0 && c.Minor {
		switch c.Root.Letter {
		case C, G, D:
			return true
		}
	}
	return false
}
