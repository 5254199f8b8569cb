package engraver

import (
	"testing"

	"github.com/james-see/leadengrave/pkg/notation"
)

func TestTimeGrouperBreaks(t *testing.T) {
	tests := []struct {
		name     string
		first    notation.ScoreNote
		next     notation.ScoreNote
		expected bool
	}{
		{
			"two eighths",
			notation.ScoreNote{X: 0, StaffLine: 2, Duration: notation.Eighth},
			notation.ScoreNote{X: 20, StaffLine: 4, Duration: notation.Eighth},
			false,
		},
		{
			"quarter then eighth",
			notation.ScoreNote{X: 0, StaffLine: 2, Duration: notation.Quarter},
			notation.ScoreNote{X: 20, StaffLine: 2, Duration: notation.Eighth},
			true,
		},
		{
			"eighth then quarter",
			notation.ScoreNote{X: 0, StaffLine: 2, Duration: notation.Eighth},
			notation.ScoreNote{X: 20, StaffLine: 2, Duration: notation.Quarter},
			true,
		},
		{
			"chord of quarters",
			notation.ScoreNote{X: 0, StaffLine: 2, Duration: notation.Quarter},
			notation.ScoreNote{X: 0, StaffLine: 6, Duration: notation.Half},
			false,
		},
		{
			"conflicting stems over a wide span",
			notation.ScoreNote{X: 0, StaffLine: 0, Duration: notation.Eighth, StemDirection: notation.StemUp},
			notation.ScoreNote{X: 20, StaffLine: 10, Duration: notation.Eighth},
			true,
		},
		{
			"conflicting stems within the span limit",
			notation.ScoreNote{X: 0, StaffLine: 0, Duration: notation.Eighth, StemDirection: notation.StemUp},
			notation.ScoreNote{X: 20, StaffLine: 6, Duration: notation.Eighth},
			false,
		},
		{
			"agreeing stems over a wide span",
			notation.ScoreNote{X: 0, StaffLine: 12, Duration: notation.Eighth, StemDirection: notation.StemDown},
			notation.ScoreNote{X: 20, StaffLine: 0, Duration: notation.Eighth, StemDirection: notation.StemDown},
			false,
		},
		{
			"within tolerance is simultaneous",
			notation.ScoreNote{X: 10, StaffLine: 2, Duration: notation.Quarter},
			notation.ScoreNote{X: 10 + 1e-9, StaffLine: 3, Duration: notation.Eighth},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewTimeGrouper(notation.MiddleLine)
			if _, ok := g.Add(tt.first); ok {
				t.Fatal("Add() closed a group on the first note")
			}
			if got := g.Breaks(tt.next); got != tt.expected {
				t.Errorf("Breaks() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTimeGrouperSlices(t *testing.T) {
	g := NewTimeGrouper(notation.MiddleLine)
	g.Add(notation.ScoreNote{X: 0, StaffLine: 0, Duration: notation.Eighth})
	g.Add(notation.ScoreNote{X: 0, StaffLine: 4, Duration: notation.Sixteenth})
	g.Add(notation.ScoreNote{X: 20, StaffLine: 2, Duration: notation.Sixteenth})

	if got := g.Pending(); got != 3 {
		t.Errorf("Pending() = %d, want 3", got)
	}
	group, ok := g.Flush()
	if !ok {
		t.Fatal("Flush() returned no group")
	}
	if len(group.Slices) != 2 {
		t.Fatalf("slices = %d, want 2", len(group.Slices))
	}
	if got := group.Slices[0].Duration; got != notation.Eighth {
		t.Errorf("slice duration = %v, want the longest note %v", got, notation.Eighth)
	}
	if !group.SpansTime() {
		t.Error("SpansTime() = false, want true")
	}
	if got := len(group.Notes()); got != 3 {
		t.Errorf("Notes() = %d, want 3", got)
	}
	if _, ok := g.Flush(); ok {
		t.Error("second Flush() returned a group")
	}
}

func TestTimeGrouperAddReturnsClosedGroup(t *testing.T) {
	g := NewTimeGrouper(notation.MiddleLine)
	g.Add(notation.ScoreNote{X: 0, StaffLine: 2, Duration: notation.Eighth})
	g.Add(notation.ScoreNote{X: 20, StaffLine: 2, Duration: notation.Eighth})

	closed, ok := g.Add(notation.ScoreNote{X: 40, StaffLine: 2, Duration: notation.Half})
	if !ok {
		t.Fatal("Add() did not close the eighth group")
	}
	if len(closed.Slices) != 2 {
		t.Errorf("closed slices = %d, want 2", len(closed.Slices))
	}
	if got := g.Pending(); got != 1 {
		t.Errorf("Pending() = %d, want 1", got)
	}
	if x, _ := g.OpenX(); x != 40 {
		t.Errorf("OpenX() = %v, want 40", x)
	}
}

func TestSpanLimitIsTunable(t *testing.T) {
	g := NewTimeGrouper(notation.MiddleLine)
	g.SpanLimit = 12
	g.Add(notation.ScoreNote{X: 0, StaffLine: 0, Duration: notation.Eighth, StemDirection: notation.StemUp})
	if g.Breaks(notation.ScoreNote{X: 20, StaffLine: 10, Duration: notation.Eighth}) {
		t.Error("Breaks() = true with a raised span limit")
	}
}
