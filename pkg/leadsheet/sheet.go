// Package leadsheet holds the leadsheet model and renders it onto an engraver
package leadsheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/notation"
	"github.com/james-see/leadengrave/pkg/spelling"
)

var (
	ErrNoMeasures = errors.New("leadsheet has no measures")
	ErrBadTime    = errors.New("invalid time signature")
	ErrBadEvent   = errors.New("invalid event")
)

// Sheet is a single-staff leadsheet
type Sheet struct {
	Title    string    `yaml:"title" json:"title"`
	Clef     string    `yaml:"clef,omitempty" json:"clef,omitempty"`
	Key      int       `yaml:"key,omitempty" json:"key,omitempty"` // fifths: positive sharps, negative flats
	Time     string    `yaml:"time,omitempty" json:"time,omitempty"`
	Tempo    float64   `yaml:"tempo,omitempty" json:"tempo,omitempty"`
	Measures []Measure `yaml:"measures" json:"measures"`
}

// Measure is one bar of events
type Measure struct {
	Chord  string  `yaml:"chord,omitempty" json:"chord,omitempty"`
	Bar    string  `yaml:"bar,omitempty" json:"bar,omitempty"`
	Events []Event `yaml:"events" json:"events"`
}

// Event is a note, chord or rest at a beat offset within its measure
type Event struct {
	Beat     float64  `yaml:"beat" json:"beat"`
	Pitches  []string `yaml:"pitches,omitempty" json:"pitches,omitempty"`
	MIDI     []int    `yaml:"midi,omitempty" json:"midi,omitempty"`
	Duration string   `yaml:"duration,omitempty" json:"duration,omitempty"`
	Beats    float64  `yaml:"beats,omitempty" json:"beats,omitempty"`
	Rest     bool     `yaml:"rest,omitempty" json:"rest,omitempty"`
	Chord    string   `yaml:"chord,omitempty" json:"chord,omitempty"`
	Tie      bool     `yaml:"tie,omitempty" json:"tie,omitempty"`
	Stem     string   `yaml:"stem,omitempty" json:"stem,omitempty"`
	Mark     string   `yaml:"mark,omitempty" json:"mark,omitempty"`
	Color    string   `yaml:"color,omitempty" json:"color,omitempty"`
}

// Symbolic returns the event's symbolic duration, from its name or by
// rounding its raw length.
func (ev Event) Symbolic() (spelling.Symbolic, error) {
	if ev.Duration != "" {
		return spelling.LookupSymbolic(ev.Duration)
	}
	return spelling.NearestSymbolic(ev.Beats)
}

// StemDirection parses the event's stem override
func (ev Event) StemDirection() (notation.StemDirection, error) {
	switch ev.Stem {
	case "", "auto":
		return notation.StemAuto, nil
	case "up":
		return notation.StemUp, nil
	case "down":
		return notation.StemDown, nil
	case "none":
		return notation.StemNone, nil
	}
	return 0, fmt.Errorf("%w: stem %q", ErrBadEvent, ev.Stem)
}

// TimeSignature is a meter, optionally shown as a symbol
type TimeSignature struct {
	Num, Den int
	Symbol   *notation.TimeSymbol
}

// ParseTime parses "3/4", "common" or "cut". Empty means 4/4.
func ParseTime(s string) (TimeSignature, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TimeSignature{Num: 4, Den: 4}, nil
	case "common", "c":
		sym := notation.TimeCommon
		return TimeSignature{Num: 4, Den: 4, Symbol: &sym}, nil
	case "cut":
		sym := notation.TimeCut
		return TimeSignature{Num: 2, Den: 2, Symbol: &sym}, nil
	}
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	n, err1 := strconv.Atoi(strings.TrimSpace(num))
	d, err2 := strconv.Atoi(strings.TrimSpace(den))
	if err1 != nil || err2 != nil || n <= 0 || d <= 0 || d&(d-1) != 0 {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	return TimeSignature{Num: n, Den: d}, nil
}

// MeasureBeats is the length of a measure in quarter-note beats
func (t TimeSignature) MeasureBeats() float64 {
	return float64(t.Num) * 4 / float64(t.Den)
}

// BeamBeat is the span, in quarter beats, within which short notes share a beam
func (t TimeSignature) BeamBeat() float64 {
	if t.Den == 8 && t.Num%3 == 0 && t.Num > 3 {
		return 1.5
	}
	return 4 / float64(t.Den)
}

// Validate checks the sheet's header and events without rendering it
func (s *Sheet) Validate() error {
	if len(s.Measures) == 0 {
		return ErrNoMeasures
	}
	if _, err := notation.ParseClef(s.Clef); err != nil {
		return err
	}
	if s.Key < -7 || s.Key > 7 {
		return fmt.Errorf("key %d outside -7..7", s.Key)
	}
	if _, err := ParseTime(s.Time); err != nil {
		return err
	}
	for i, m := range s.Measures {
		if _, err := notation.ParseBarLine(m.Bar); err != nil {
			return fmt.Errorf("measure %d: %w", i+1, err)
		}
		for j, ev := range m.Events {
			if err := ev.validate(); err != nil {
				return fmt.Errorf("measure %d event %d: %w", i+1, j+1, err)
			}
		}
	}
	return nil
}

func (ev Event) validate() error {
	if ev.Beat < 0 {
		return fmt.Errorf("%w: negative beat %v", ErrBadEvent, ev.Beat)
	}
	if _, err := ev.Symbolic(); err != nil {
		return err
	}
	if _, err := ev.StemDirection(); err != nil {
		return err
	}
	if !ev.Rest && len(ev.Pitches) == 0 && len(ev.MIDI) == 0 {
		return fmt.Errorf("%w: no pitches", ErrBadEvent)
	}
	if ev.Color != "" {
		if _, err := canvas.ParseHex(ev.Color); err != nil {
			return fmt.Errorf("%w: %v", ErrBadEvent, err)
		}
	}
	for _, p := range ev.Pitches {
		if _, err := spelling.ParsePitchName(p); err != nil {
			return err
		}
	}
	for _, m := range ev.MIDI {
		if m < spelling.MinPitch || m > spelling.MaxPitch {
			return fmt.Errorf("%w: %d", spelling.ErrPitchOutOfRange, m)
		}
	}
	return nil
}
