package engraver

import (
	"math"

	"github.com/james-see/leadengrave/pkg/notation"
)

// xTolerance is how close two x positions must be to count as simultaneous
const xTolerance = 1e-6

// DefaultSpanLimit is the staff-line span above which members with
// conflicting explicit stems force a new group.
const DefaultSpanLimit = 7

func sameX(a, b float64) bool {
	return math.Abs(a-b) <= xTolerance
}

// TimeSlice holds every note sharing one x position
type TimeSlice struct {
	X        float64
	Notes    []notation.ScoreNote
	Duration notation.DurationCode // longest note in the slice
}

func (s *TimeSlice) add(n notation.ScoreNote) {
	if len(s.Notes) == 0 || n.Duration > s.Duration {
		s.Duration = n.Duration
	}
	s.Notes = append(s.Notes, n)
}

// NoteGroup is a run of time slices that share one beam
type NoteGroup struct {
	Slices []TimeSlice
}

// Empty reports whether the group holds no notes
func (g NoteGroup) Empty() bool {
	return len(g.Slices) == 0
}

// Notes returns every note in submission order per slice
func (g NoteGroup) Notes() []notation.ScoreNote {
	var out []notation.ScoreNote
	for _, s := range g.Slices {
		out = append(out, s.Notes...)
	}
	return out
}

// SpansTime reports whether the group covers more than one x position
func (g NoteGroup) SpansTime() bool {
	return len(g.Slices) > 1
}

func (g *NoteGroup) add(n notation.ScoreNote) {
	for i := range g.Slices {
		if sameX(g.Slices[i].X, n.X) {
			g.Slices[i].add(n)
			return
		}
	}
	s := TimeSlice{X: n.X}
	s.add(n)
	g.Slices = append(g.Slices, s)
}

// TimeGrouper accumulates notes into the open NoteGroup, closing it when an
// incoming note cannot share its beam.
type TimeGrouper struct {
	SpanLimit int
	Middle    int
	open      NoteGroup
}

// NewTimeGrouper creates a grouper for a staff whose middle line is middle
func NewTimeGrouper(middle int) *TimeGrouper {
	return &TimeGrouper{SpanLimit: DefaultSpanLimit, Middle: middle}
}

// Breaks reports whether n must start a new group
func (g *TimeGrouper) Breaks(n notation.ScoreNote) bool {
	if g.open.Empty() {
		return false
	}
	dir := n.AutoStem(g.Middle)
	lo, hi := n.StaffLine, n.StaffLine
	for _, s := range g.open.Slices {
		for _, m := range s.Notes {
			lo, hi = min(lo, m.StaffLine), max(hi, m.StaffLine)
		}
	}
	span := hi - lo

	for _, s := range g.open.Slices {
		if sameX(s.X, n.X) {
			continue
		}
		for _, m := range s.Notes {
			if m.StemDirection.Explicit() && m.StemDirection != dir && span > g.SpanLimit {
				return true
			}
			if m.Duration >= notation.Quarter {
				return true
			}
			if n.Duration >= notation.Quarter && m.Duration < notation.Quarter {
				return true
			}
		}
	}
	return false
}

// Add appends n to the open group. If n breaks the group, the group is closed
// first and returned with ok set.
func (g *TimeGrouper) Add(n notation.ScoreNote) (closed NoteGroup, ok bool) {
	if g.Breaks(n) {
		closed, ok = g.Flush()
	}
	g.open.add(n)
	return closed, ok
}

// Flush closes and returns the open group; ok is false when it was empty
func (g *TimeGrouper) Flush() (NoteGroup, bool) {
	if g.open.Empty() {
		return NoteGroup{}, false
	}
	closed := g.open
	g.open = NoteGroup{}
	return closed, true
}

// Pending returns the number of notes in the open group
func (g *TimeGrouper) Pending() int {
	n := 0
	for _, s := range g.open.Slices {
		n += len(s.Notes)
	}
	return n
}

// OpenX reports the x of the open group's first slice
func (g *TimeGrouper) OpenX() (float64, bool) {
	if g.open.Empty() {
		return 0, false
	}
	return g.open.Slices[0].X, true
}
