package leadsheet

import (
	"fmt"
	"math"
	"sort"

	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/engraver"
	"github.com/james-see/leadengrave/pkg/notation"
	"github.com/james-see/leadengrave/pkg/spelling"
)

// Vertical room above and below the staff, and the lead-in before a
// measure's first beat, in grid units
const (
	ledgerRoom = 3.0
	measurePad = 2.0
)

// Options controls rendering. Zero fields take defaults.
type Options struct {
	Engraver   engraver.Options
	BeatWidth  float64 // canvas units per quarter beat, default 48
	Margin     float64
	Clef       notation.Clef
	Alteration spelling.Alteration

	// OnMeasure is called after each measure is drawn
	OnMeasure func(MeasureReport)
}

func (o Options) withDefaults() Options {
	if o.BeatWidth <= 0 {
		o.BeatWidth = 48
	}
	o.Margin = max(o.Margin, 0)
	return o
}

// MeasureReport summarises one rendered measure
type MeasureReport struct {
	Index       int     `json:"index"`
	Chord       string  `json:"chord,omitempty"`
	Events      int     `json:"events"`
	Accidentals int     `json:"accidentals"`
	X           float64 `json:"x"`
	Width       float64 `json:"width"`
}

// Result describes a finished rendering
type Result struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Measures int     `json:"measures"`
	Groups   int     `json:"groups"`
	Ties     int     `json:"ties"`
}

type tieStart struct {
	note notation.ScoreNote
	midi int
}

type renderer struct {
	e        *engraver.Engraver
	resolver *spelling.Resolver
	opts     Options
	chords   map[string]*spelling.ChordSymbol
	pending  []tieStart
	ties     [][2]notation.ScoreNote
}

// Render draws s onto cv: header, staff, every measure and the ties between them
func Render(cv canvas.Canvas, s *Sheet, opts Options) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	opts = opts.withDefaults()
	clef := opts.Clef
	if s.Clef != "" {
		clef, _ = notation.ParseClef(s.Clef)
	}
	ts, _ := ParseTime(s.Time)

	e := engraver.New(cv, opts.Engraver)
	g := e.GridUnit()
	baseY := opts.Margin + ledgerRoom*g + float64(e.StaffLines()-1)*g
	height := baseY + ledgerRoom*g + opts.Margin

	e.SetCursor(opts.Margin, baseY)
	e.DrawClef(clef)
	if s.Key != 0 {
		e.DrawKeySignature(engraver.KeySignatureFor(clef, s.Key))
	}
	if ts.Symbol != nil {
		e.DrawTimeSymbol(*ts.Symbol)
	} else {
		e.DrawTimeSignature(ts.Num, ts.Den)
	}
	headerEnd, _ := e.Cursor()

	mw := measurePad*g + ts.MeasureBeats()*opts.BeatWidth
	staffEnd := headerEnd + float64(len(s.Measures))*mw
	e.SetCursor(opts.Margin, baseY)
	e.DrawStaff(staffEnd - opts.Margin)

	resolver := spelling.NewResolver(clef, spelling.KeySignature(s.Key))
	resolver.Default = opts.Alteration
	r := &renderer{
		e:        e,
		resolver: resolver,
		opts:     opts,
		chords:   make(map[string]*spelling.ChordSymbol),
	}

	var chord *spelling.ChordSymbol
	for i, m := range s.Measures {
		mx := headerEnd + float64(i)*mw
		if m.Chord != "" {
			c, err := r.chord(m.Chord)
			if err != nil {
				return Result{}, fmt.Errorf("measure %d: %w", i+1, err)
			}
			chord = c
		}
		report := MeasureReport{Index: i + 1, X: mx, Width: mw}
		var err error
		chord, err = r.measure(m, mx, ts, chord, &report)
		if err != nil {
			return Result{}, fmt.Errorf("measure %d: %w", i+1, err)
		}
		if chord != nil {
			report.Chord = chord.Name
		}

		e.SetCursor(mx+mw, baseY)
		bar, _ := notation.ParseBarLine(m.Bar)
		if i == len(s.Measures)-1 && m.Bar == "" {
			bar = notation.BarDouble
		}
		e.DrawBarLine(bar)
		if opts.OnMeasure != nil {
			opts.OnMeasure(report)
		}
	}

	for _, t := range r.ties {
		e.DrawTie(t[0], t[1])
	}
	e.Flush()

	return Result{
		Width:    staffEnd + opts.Margin,
		Height:   height,
		Measures: len(s.Measures),
		Groups:   e.Groups(),
		Ties:     len(r.ties),
	}, nil
}

// Extent renders s onto a throwaway recorder, for sizing a canvas before the real pass
func Extent(s *Sheet, opts Options) (Result, error) {
	opts.OnMeasure = nil
	opts.Engraver.OnLayout = nil
	return Render(canvas.NewRecorder(), s, opts)
}

func (r *renderer) chord(name string) (*spelling.ChordSymbol, error) {
	if c, ok := r.chords[name]; ok {
		return c, nil
	}
	c, err := spelling.ParseChordSymbol(name)
	if err != nil {
		return nil, err
	}
	r.chords[name] = c
	return c, nil
}

// measure draws one measure's events. Beamable notes within one beam beat are
// bracketed into a manual group. It returns the chord in force at the end.
func (r *renderer) measure(m Measure, mx float64, ts TimeSignature, chord *spelling.ChordSymbol, report *MeasureReport) (*spelling.ChordSymbol, error) {
	e := r.e
	state := r.resolver.NewMeasure()
	left := mx + measurePad*e.GridUnit()

	events := append([]Event(nil), m.Events...)
	sort.SliceStable(events, func(a, b int) bool { return events[a].Beat < events[b].Beat })

	open, openBeat := false, 0
	for _, ev := range events {
		sym, err := ev.Symbolic()
		if err != nil {
			return chord, err
		}
		x := left + ev.Beat*r.opts.BeatWidth
		report.Events++

		if ev.Rest {
			if open {
				e.EndGroup()
				open = false
			}
			code, dots := sym.Code()
			e.SubmitRest(x, code, dots)
			r.pending = r.pending[:0]
			continue
		}

		if ev.Chord != "" {
			if chord, err = r.chord(ev.Chord); err != nil {
				return chord, err
			}
		}
		notes, midis, err := r.resolve(state, ev, sym, chord)
		if err != nil {
			return chord, err
		}
		for k := range notes {
			notes[k].X = x
			if notes[k].Accidental != notation.AccNone {
				report.Accidentals++
			}
		}

		beamable := notes[0].Duration.Beamable()
		beat := int(math.Floor(ev.Beat/ts.BeamBeat() + 1e-9))
		if open && (!beamable || beat != openBeat) {
			e.EndGroup()
			open = false
		}
		if beamable && !open {
			e.StartGroup()
			open, openBeat = true, beat
		}
		e.SubmitChord(notes...)

		for _, p := range r.pending {
			for k, mp := range midis {
				if mp == p.midi {
					r.ties = append(r.ties, [2]notation.ScoreNote{p.note, notes[k]})
				}
			}
		}
		r.pending = r.pending[:0]
		if ev.Tie {
			for k := range notes {
				r.pending = append(r.pending, tieStart{note: notes[k], midi: midis[k]})
			}
		}
	}
	if open {
		e.EndGroup()
	}
	return chord, nil
}

// resolve spells every pitch of an event: written names keep their spelling,
// MIDI numbers are spelled against the chord.
func (r *renderer) resolve(state *spelling.MeasureSpellingState, ev Event, sym spelling.Symbolic, chord *spelling.ChordSymbol) ([]notation.ScoreNote, []int, error) {
	stem, err := ev.StemDirection()
	if err != nil {
		return nil, nil, err
	}
	var notes []notation.ScoreNote
	var midis []int
	for _, name := range ev.Pitches {
		p, err := spelling.ParsePitchName(name)
		if err != nil {
			return nil, nil, err
		}
		n, err := r.resolver.ResolveSpelled(state, p, sym)
		if err != nil {
			return nil, nil, err
		}
		notes = append(notes, n)
		midis = append(midis, p.MIDI())
	}
	for _, m := range ev.MIDI {
		n, err := r.resolver.ResolveSymbolic(state, m, sym, chord)
		if err != nil {
			return nil, nil, err
		}
		notes = append(notes, n)
		midis = append(midis, m)
	}

	for k := range notes {
		if stem != notation.StemAuto && notes[k].StemDirection != notation.StemNone {
			notes[k].StemDirection = stem
		}
		notes[k].Mark = ev.Mark
		if ev.Color != "" {
			c, err := canvas.ParseHex(ev.Color)
			if err != nil {
				return nil, nil, err
			}
			notes[k].Color = c
		}
	}
	return notes, midis, nil
}
