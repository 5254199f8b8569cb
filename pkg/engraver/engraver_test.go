package engraver

import (
	"math"
	"slices"
	"testing"

	"github.com/james-see/leadengrave/pkg/canvas"
	"github.com/james-see/leadengrave/pkg/notation"
)

const (
	testGrid = 10.0 // grid unit at font size 40
	testHead = 11.8 // black notehead width from the static metrics
	epsilon  = 1e-9
)

func newTestEngraver() (*Engraver, *canvas.Recorder, *[]*GroupLayout) {
	var layouts []*GroupLayout
	rec := canvas.NewRecorder()
	e := New(rec, Options{
		FontSize: 40,
		OnLayout: func(l *GroupLayout) { layouts = append(layouts, l) },
	})
	return e, rec, &layouts
}

func eighth(x float64, line int) notation.ScoreNote {
	return notation.ScoreNote{X: x, StaffLine: line, Duration: notation.Eighth}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestFourEighthsRoundTrip(t *testing.T) {
	e, rec, layouts := newTestEngraver()

	e.StartGroup()
	for i, line := range []int{4, 6, 2, 0} {
		e.SubmitNote(eighth(float64(i)*20, line))
	}
	if len(*layouts) != 0 {
		t.Fatalf("group drawn before EndGroup")
	}
	e.EndGroup()

	if len(*layouts) != 1 {
		t.Fatalf("EndGroup() drew %d groups, want 1", len(*layouts))
	}
	l := (*layouts)[0]
	if got := len(l.Group.Slices); got != 4 {
		t.Errorf("slices = %d, want 4", got)
	}
	if got := l.PrimaryBeams(); got != 1 {
		t.Errorf("PrimaryBeams() = %d, want 1", got)
	}
	if got := l.SecondaryBeams(); got != 0 {
		t.Errorf("SecondaryBeams() = %d, want 0", got)
	}
	if got := len(l.Stems); got != 4 {
		t.Errorf("stems = %d, want 4", got)
	}
	if len(l.Flags) != 0 {
		t.Errorf("beamed group drew %d flags", len(l.Flags))
	}
	if l.Direction != notation.StemUp {
		t.Errorf("Direction = %v, want up", l.Direction)
	}
	// highest note sits in the middle of the group
	if l.Slope != 0 {
		t.Errorf("Slope = %v, want 0", l.Slope)
	}
	if got := rec.Count(canvas.KindPolygon); got != 1 {
		t.Errorf("polygons = %d, want 1", got)
	}
	if e.Mode() != Immediate {
		t.Errorf("Mode() = %v after EndGroup, want immediate", e.Mode())
	}
}

func TestSingleNoteStemDirection(t *testing.T) {
	tests := []struct {
		name     string
		note     notation.ScoreNote
		expected notation.StemDirection
		stems    int
	}{
		{"middle line", notation.ScoreNote{StaffLine: 4, Duration: notation.Quarter}, notation.StemUp, 1},
		{"below middle", notation.ScoreNote{StaffLine: 2, Duration: notation.Quarter}, notation.StemUp, 1},
		{"above middle", notation.ScoreNote{StaffLine: 5, Duration: notation.Quarter}, notation.StemDown, 1},
		{"explicit up", notation.ScoreNote{StaffLine: 8, Duration: notation.Eighth, StemDirection: notation.StemUp}, notation.StemUp, 1},
		{"half ignores override", notation.ScoreNote{StaffLine: 0, Duration: notation.Half, StemDirection: notation.StemDown}, notation.StemUp, 1},
		{"whole has no stem", notation.ScoreNote{StaffLine: 2, Duration: notation.Whole}, notation.StemNone, 0},
		{"suppressed", notation.ScoreNote{StaffLine: 2, Duration: notation.Quarter, StemDirection: notation.StemNone}, notation.StemNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, layouts := newTestEngraver()
			e.SubmitNote(tt.note)
			e.Flush()
			if len(*layouts) != 1 {
				t.Fatalf("layouts = %d, want 1", len(*layouts))
			}
			l := (*layouts)[0]
			if l.Direction != tt.expected {
				t.Errorf("Direction = %v, want %v", l.Direction, tt.expected)
			}
			if len(l.Stems) != tt.stems {
				t.Errorf("stems = %d, want %d", len(l.Stems), tt.stems)
			}
		})
	}
}

func TestChordStemGeometry(t *testing.T) {
	tests := []struct {
		name  string
		dur   notation.DurationCode
		line  int
		x     float64
		y2    float64
		flag  rune
		flags int
	}{
		{"quarter", notation.Quarter, 2, testHead, -10 - 35, 0, 0},
		{"eighth", notation.Eighth, 2, testHead, -10 - 35, notation.GlyphFlag8thUp, 1},
		{"thirty-second extends", notation.Sixteenth2, 2, testHead, -10 - 35 - 7.5, notation.GlyphFlag32ndUp, 1},
		{"down stem", notation.Sixteenth, 6, 0, -30 + 35, notation.GlyphFlag16thDown, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec, layouts := newTestEngraver()
			e.SubmitNote(notation.ScoreNote{StaffLine: tt.line, Duration: tt.dur})
			e.Flush()
			l := (*layouts)[0]
			s := l.Stems[0]
			if !near(s.X, tt.x) {
				t.Errorf("stem X = %v, want %v", s.X, tt.x)
			}
			if !near(s.Y2, tt.y2) {
				t.Errorf("stem Y2 = %v, want %v", s.Y2, tt.y2)
			}
			if len(l.Flags) != tt.flags {
				t.Fatalf("flags = %d, want %d", len(l.Flags), tt.flags)
			}
			if tt.flags > 0 && len(rec.Glyphs(tt.flag)) != 1 {
				t.Errorf("flag glyph %U not drawn", tt.flag)
			}
		})
	}
}

func TestLedgerLineCount(t *testing.T) {
	tests := []struct {
		line     int
		expected int
	}{
		{0, 0},
		{3, 0},
		{8, 0},
		{-1, 1},
		{-2, 1},
		{-3, 2},
		{-6, 3},
		{9, 1},
		{10, 1},
		{11, 2},
		{14, 3},
	}

	for _, tt := range tests {
		e, _, layouts := newTestEngraver()
		e.SubmitNote(notation.ScoreNote{StaffLine: tt.line, Duration: notation.Quarter})
		e.Flush()
		if got := len((*layouts)[0].Ledgers); got != tt.expected {
			t.Errorf("ledgers for line %d = %d, want %d", tt.line, got, tt.expected)
		}
	}
}

func TestLedgerRows(t *testing.T) {
	tests := []struct {
		line int
		rows []int
	}{
		{-1, []int{-2}},
		{-2, []int{-2}},
		{-3, []int{-2, -4}},
		{9, []int{10}},
		{10, []int{10}},
		{13, []int{10, 12, 14}},
	}

	for _, tt := range tests {
		e, _, layouts := newTestEngraver()
		e.SubmitNote(notation.ScoreNote{StaffLine: tt.line, Duration: notation.Quarter})
		e.Flush()
		var got []int
		for _, ll := range (*layouts)[0].Ledgers {
			got = append(got, ll.Line)
		}
		if !slices.Equal(got, tt.rows) {
			t.Errorf("ledger rows for line %d = %v, want %v", tt.line, got, tt.rows)
		}
	}
}

func TestLedgerLinesShareRows(t *testing.T) {
	e, _, layouts := newTestEngraver()
	e.SubmitChord(
		notation.ScoreNote{StaffLine: -2, Duration: notation.Quarter},
		notation.ScoreNote{StaffLine: -4, Duration: notation.Quarter},
	)
	e.Flush()

	l := (*layouts)[0]
	if len(l.Ledgers) != 2 {
		t.Fatalf("ledgers = %d, want 2", len(l.Ledgers))
	}
	for _, ll := range l.Ledgers {
		if ll.Line != -2 && ll.Line != -4 {
			t.Errorf("ledger on line %d", ll.Line)
		}
		if !near(ll.X1, -4) || !near(ll.X2, testHead+4) {
			t.Errorf("ledger spans %v..%v, want -4..%v", ll.X1, ll.X2, testHead+4)
		}
	}
}

func TestBeamSlopeBounds(t *testing.T) {
	tests := []struct {
		name  string
		lines []int
		sign  int
	}{
		{"rising", []int{0, 2, 4, 6}, -1},
		{"falling", []int{6, 4, 2, 0}, 1},
		{"wide leap", []int{0, 12}, -1},
		{"flat", []int{2, 2, 2}, 0},
		{"peak in middle", []int{2, 6, 2}, 0},
		{"valley in middle", []int{8, 3, 8}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, layouts := newTestEngraver()
			e.StartGroup()
			for i, line := range tt.lines {
				e.SubmitNote(eighth(float64(i)*20, line))
			}
			e.EndGroup()

			l := (*layouts)[0]
			if math.Abs(l.Slope) > 0.05*testGrid+epsilon {
				t.Errorf("Slope = %v outside ±%v", l.Slope, 0.05*testGrid)
			}
			switch {
			case tt.sign == 0 && l.Slope != 0:
				t.Errorf("Slope = %v, want 0", l.Slope)
			case tt.sign < 0 && l.Slope >= 0:
				t.Errorf("Slope = %v, want negative", l.Slope)
			case tt.sign > 0 && l.Slope <= 0:
				t.Errorf("Slope = %v, want positive", l.Slope)
			}
			for _, s := range l.Stems {
				up := s.Direction == notation.StemUp
				if (up && s.Y2 > s.Y1) || (!up && s.Y2 < s.Y1) {
					t.Errorf("stem at %v runs the wrong way: %v -> %v", s.X, s.Y1, s.Y2)
				}
			}
		})
	}
}

func TestSecondaryBeams(t *testing.T) {
	tests := []struct {
		name      string
		durs      []notation.DurationCode
		secondary int
		stubs     int
	}{
		{"two sixteenths", []notation.DurationCode{notation.Sixteenth, notation.Sixteenth}, 1, 0},
		{"four sixteenths", []notation.DurationCode{notation.Sixteenth, notation.Sixteenth, notation.Sixteenth, notation.Sixteenth}, 3, 0},
		{"dotted pair", []notation.DurationCode{notation.Eighth, notation.Sixteenth}, 1, 1},
		{"lone ends", []notation.DurationCode{notation.Sixteenth, notation.Eighth, notation.Sixteenth}, 2, 2},
		{"thirty-seconds", []notation.DurationCode{notation.Sixteenth2, notation.Sixteenth2}, 2, 0},
		{"eighths only", []notation.DurationCode{notation.Eighth, notation.Eighth, notation.Eighth}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, layouts := newTestEngraver()
			e.StartGroup()
			for i, d := range tt.durs {
				e.SubmitNote(notation.ScoreNote{X: float64(i) * 20, StaffLine: 2, Duration: d})
			}
			e.EndGroup()

			l := (*layouts)[0]
			if got := l.PrimaryBeams(); got != 1 {
				t.Errorf("PrimaryBeams() = %d, want 1", got)
			}
			if got := l.SecondaryBeams(); got != tt.secondary {
				t.Errorf("SecondaryBeams() = %d, want %d", got, tt.secondary)
			}
			stubs := 0
			for _, b := range l.Beams {
				if b.Stub {
					stubs++
				}
			}
			if stubs != tt.stubs {
				t.Errorf("stubs = %d, want %d", stubs, tt.stubs)
			}
		})
	}
}

func TestStubPointsTowardNeighbour(t *testing.T) {
	e, _, layouts := newTestEngraver()
	e.StartGroup()
	e.SubmitNote(notation.ScoreNote{X: 0, StaffLine: 2, Duration: notation.Eighth})
	e.SubmitNote(notation.ScoreNote{X: 30, StaffLine: 2, Duration: notation.Sixteenth})
	e.EndGroup()

	for _, b := range (*layouts)[0].Beams {
		if b.Stub && b.X2 >= b.X1 {
			t.Errorf("stub on last slice runs right: %v -> %v", b.X1, b.X2)
		}
	}
}

func TestAccidentalPositions(t *testing.T) {
	tests := []struct {
		name   string
		lines  []int
		accs   []notation.Accidental
		second []bool
		xs     []float64
	}{
		{"third apart", []int{3, 1}, []notation.Accidental{notation.AccSharp, notation.AccSharp}, []bool{false, true}, []float64{-15, -30}},
		{"octave apart", []int{8, 1}, []notation.Accidental{notation.AccFlat, notation.AccFlat}, []bool{false, false}, []float64{-15, -15}},
		{"wide second column", []int{4, 2}, []notation.Accidental{notation.AccNatural, notation.AccDoubleFlat}, []bool{false, true}, []float64{-15, -44}},
		{"three stacked", []int{6, 4, 2}, []notation.Accidental{notation.AccSharp, notation.AccSharp, notation.AccSharp}, []bool{false, true, false}, []float64{-15, -30, -15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec, layouts := newTestEngraver()
			for i, line := range tt.lines {
				e.SubmitNote(notation.ScoreNote{StaffLine: line, Duration: notation.Quarter, Accidental: tt.accs[i]})
			}
			e.Flush()

			accs := (*layouts)[0].Accidentals
			if len(accs) != len(tt.lines) {
				t.Fatalf("accidentals = %d, want %d", len(accs), len(tt.lines))
			}
			for i, a := range accs {
				if a.Second != tt.second[i] {
					t.Errorf("accidental %d Second = %v, want %v", i, a.Second, tt.second[i])
				}
				if !near(a.X, tt.xs[i]) {
					t.Errorf("accidental %d X = %v, want %v", i, a.X, tt.xs[i])
				}
			}
			if got := len(rec.Glyphs(accs[0].Glyph)); got == 0 {
				t.Errorf("accidental glyph %U not drawn", accs[0].Glyph)
			}
		})
	}
}

func TestSecondsDisplaceNoteheads(t *testing.T) {
	tests := []struct {
		name    string
		lines   []int
		shifted int
		shift   float64
	}{
		{"stem up", []int{1, 2}, 2, testHead},
		{"stem down", []int{6, 7}, 6, -testHead},
		{"cluster up", []int{1, 2, 3}, 2, testHead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, layouts := newTestEngraver()
			for _, line := range tt.lines {
				e.SubmitNote(notation.ScoreNote{StaffLine: line, Duration: notation.Quarter})
			}
			e.Flush()

			for _, h := range (*layouts)[0].Heads {
				want := 0.0
				if h.Note.StaffLine == tt.shifted {
					want = tt.shift
				}
				if !near(h.X, want) {
					t.Errorf("head on line %d at X = %v, want %v", h.Note.StaffLine, h.X, want)
				}
			}
		})
	}
}

func TestDots(t *testing.T) {
	e, rec, layouts := newTestEngraver()
	e.SubmitNote(notation.ScoreNote{StaffLine: 2, Duration: notation.Quarter, Dots: 2})
	e.Flush()

	dots := (*layouts)[0].Dots
	if len(dots) != 2 {
		t.Fatalf("dots = %d, want 2", len(dots))
	}
	// a note on a line puts its dot in the space above
	if !near(dots[0].Y, e.LineY(3)) {
		t.Errorf("dot Y = %v, want %v", dots[0].Y, e.LineY(3))
	}
	if !near(dots[0].X, testHead+5) || !near(dots[1].X, testHead+10) {
		t.Errorf("dot X = %v, %v", dots[0].X, dots[1].X)
	}
	if got := len(rec.Glyphs(notation.GlyphAugmentationDot)); got != 2 {
		t.Errorf("dot glyphs = %d, want 2", got)
	}
}

func TestImmediateModeDrawsEachChord(t *testing.T) {
	e, _, layouts := newTestEngraver()
	e.SubmitChord(eighth(0, 0), eighth(0, 4))
	e.SubmitNote(eighth(20, 2))
	e.Flush()

	if len(*layouts) != 2 {
		t.Fatalf("groups = %d, want 2", len(*layouts))
	}
	first := (*layouts)[0]
	if len(first.Group.Slices) != 1 || len(first.Heads) != 2 {
		t.Errorf("first group = %d slices %d heads, want 1 and 2", len(first.Group.Slices), len(first.Heads))
	}
	if len(first.Stems) != 1 || len(first.Flags) != 1 {
		t.Errorf("chord drew %d stems %d flags, want 1 and 1", len(first.Stems), len(first.Flags))
	}
	if e.Groups() != 2 {
		t.Errorf("Groups() = %d, want 2", e.Groups())
	}
}

func TestEmitterOrder(t *testing.T) {
	e, rec, _ := newTestEngraver()
	e.SubmitNote(notation.ScoreNote{StaffLine: -2, Duration: notation.Quarter, Accidental: notation.AccFlat})
	e.Flush()

	var kinds []string
	for _, p := range rec.Primitives() {
		if p.Kind == canvas.KindLine || p.Kind == canvas.KindGlyph {
			kinds = append(kinds, p.Kind)
		}
	}
	want := []string{canvas.KindLine, canvas.KindGlyph, canvas.KindGlyph, canvas.KindLine}
	if len(kinds) != len(want) {
		t.Fatalf("primitives = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("primitive %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestNoteColour(t *testing.T) {
	e, rec, _ := newTestEngraver()
	rec.Reset()
	red, _ := canvas.ParseHex("#ff0000")
	e.SubmitNote(notation.ScoreNote{StaffLine: 2, Duration: notation.Quarter, Color: red})
	e.Flush()

	var colours []string
	for _, p := range rec.Primitives() {
		if p.Kind == canvas.KindColor {
			colours = append(colours, p.Color)
		}
	}
	if len(colours) != 2 || colours[0] != "#ff0000" || colours[1] != "#000000" {
		t.Errorf("colours = %v, want [#ff0000 #000000]", colours)
	}
}

func TestRestFlushesOpenGroup(t *testing.T) {
	e, rec, layouts := newTestEngraver()
	e.StartGroup()
	e.SubmitNote(eighth(0, 2))
	e.SubmitNote(eighth(20, 3))
	e.SubmitRest(40, notation.Eighth, 1)

	if len(*layouts) != 1 {
		t.Fatalf("groups before rest = %d, want 1", len(*layouts))
	}
	rests := rec.Glyphs(notation.GlyphRest8th)
	if len(rests) != 1 {
		t.Fatalf("rest glyphs = %d, want 1", len(rests))
	}
	if !near(rests[0].Points[0].Y, e.LineY(4)) {
		t.Errorf("rest Y = %v, want %v", rests[0].Points[0].Y, e.LineY(4))
	}
	if got := len(rec.Glyphs(notation.GlyphAugmentationDot)); got != 1 {
		t.Errorf("rest dots = %d, want 1", got)
	}

	e.SubmitRest(60, notation.Whole, 0)
	whole := rec.Glyphs(notation.GlyphRestWhole)
	if len(whole) != 1 || !near(whole[0].Points[0].Y, e.LineY(6)) {
		t.Errorf("whole rest = %v, want one at line 6", whole)
	}
}

func TestStaffHeader(t *testing.T) {
	e, rec, _ := newTestEngraver()
	e.DrawStaff(200)
	if got := rec.Count(canvas.KindLine); got != 5 {
		t.Errorf("staff lines = %d, want 5", got)
	}

	e.DrawClef(notation.Treble)
	clefs := rec.Glyphs(notation.GlyphGClef)
	if len(clefs) != 1 || !near(clefs[0].Points[0].Y, -10) {
		t.Fatalf("treble clef = %v, want one on line 2", clefs)
	}
	x, _ := e.Cursor()
	if x <= clefs[0].Points[0].X {
		t.Errorf("cursor %v did not advance past the clef", x)
	}

	e.DrawSharps(2)
	sharps := rec.Glyphs(notation.GlyphAccSharp)
	if len(sharps) != 2 {
		t.Fatalf("sharps = %d, want 2", len(sharps))
	}
	if !near(sharps[0].Points[0].Y, e.LineY(8)) || !near(sharps[1].Points[0].Y, e.LineY(5)) {
		t.Errorf("sharps at %v, %v; want lines 8 and 5", sharps[0].Points[0].Y, sharps[1].Points[0].Y)
	}
	if sharps[1].Points[0].X <= sharps[0].Points[0].X {
		t.Error("key signature did not advance left to right")
	}

	e.DrawTimeSignature(3, 4)
	three := rec.Glyphs(notation.TimeDigitGlyph(3))
	four := rec.Glyphs(notation.TimeDigitGlyph(4))
	if len(three) != 1 || !near(three[0].Points[0].Y, e.LineY(6)) {
		t.Errorf("numerator = %v, want one on line 6", three)
	}
	if len(four) != 1 || !near(four[0].Points[0].Y, e.LineY(2)) {
		t.Errorf("denominator = %v, want one on line 2", four)
	}
}

func TestKeySignatureFor(t *testing.T) {
	tests := []struct {
		name   string
		clef   notation.Clef
		fifths int
		lines  []int
		acc    notation.Accidental
	}{
		{"C major", notation.Treble, 0, nil, notation.AccNone},
		{"D major treble", notation.Treble, 2, []int{8, 5}, notation.AccSharp},
		{"E flat treble", notation.Treble, -3, []int{4, 7, 3}, notation.AccFlat},
		{"A major bass", notation.Bass, 3, []int{6, 3, 7}, notation.AccSharp},
		{"C flat bass", notation.Bass, -7, []int{2, 5, 1, 4, 0, 3, -1}, notation.AccFlat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeySignatureFor(tt.clef, tt.fifths)
			if len(got) != len(tt.lines) {
				t.Fatalf("KeySignatureFor() = %d accidentals, want %d", len(got), len(tt.lines))
			}
			for i, k := range got {
				if k.StaffLine != tt.lines[i] || k.Accidental != tt.acc {
					t.Errorf("KeySignatureFor()[%d] = %+v, want line %d %v", i, k, tt.lines[i], tt.acc)
				}
			}
		})
	}
}

func TestBarLines(t *testing.T) {
	tests := []struct {
		kind  notation.BarLine
		lines int
	}{
		{notation.BarPlain, 1},
		{notation.BarDouble, 2},
		{notation.BarDotted, 8},
	}

	for _, tt := range tests {
		e, rec, _ := newTestEngraver()
		e.DrawBarLine(tt.kind)
		if got := rec.Count(canvas.KindLine); got != tt.lines {
			t.Errorf("bar line %d drew %d lines, want %d", tt.kind, got, tt.lines)
		}
	}
}

func TestTieBowsAwayFromStem(t *testing.T) {
	tests := []struct {
		name   string
		line   int
		beamed []notation.ScoreNote // drawn as one group before the tie
		below  bool
	}{
		{"stem up", 2, nil, true},
		{"stem down", 7, nil, false},
		{"beamed down", 2, []notation.ScoreNote{eighth(0, 2), eighth(20, 10)}, false},
		{"beamed up", 7, []notation.ScoreNote{eighth(0, 7), eighth(20, -2)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec, _ := newTestEngraver()
			a := notation.ScoreNote{X: 0, StaffLine: tt.line, Duration: notation.Quarter}
			if tt.beamed != nil {
				e.StartGroup()
				e.SubmitChord(tt.beamed...)
				e.EndGroup()
				a = tt.beamed[0]
			}
			b := notation.ScoreNote{X: 40, StaffLine: tt.line, Duration: a.Duration}
			e.DrawTie(a, b)

			var cubic *canvas.Primitive
			for _, p := range rec.Primitives() {
				if p.Kind == canvas.KindCubic {
					cubic = &p
				}
			}
			if cubic == nil {
				t.Fatal("DrawTie() drew no curve")
			}
			y := e.LineY(tt.line)
			ctrl := cubic.Points[1].Y
			if tt.below && ctrl <= y {
				t.Errorf("control Y = %v, want below %v", ctrl, y)
			}
			if !tt.below && ctrl >= y {
				t.Errorf("control Y = %v, want above %v", ctrl, y)
			}
			if !near(cubic.Points[0].X, testHead) || !near(cubic.Points[3].X, 40) {
				t.Errorf("tie runs %v..%v, want %v..40", cubic.Points[0].X, cubic.Points[3].X, testHead)
			}
		})
	}
}

func TestInvalidNotesPanic(t *testing.T) {
	tests := []struct {
		name string
		note notation.ScoreNote
	}{
		{"duration", notation.ScoreNote{Duration: notation.DurationCode(99)}},
		{"stem", notation.ScoreNote{Duration: notation.Quarter, StemDirection: notation.StemDirection(9)}},
		{"dots", notation.ScoreNote{Duration: notation.Quarter, Dots: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("SubmitNote() should panic")
				}
			}()
			e, _, _ := newTestEngraver()
			e.SubmitNote(tt.note)
		})
	}
}

func TestEmptyFlushIsNoop(t *testing.T) {
	e, rec, layouts := newTestEngraver()
	before := len(rec.Primitives())
	e.StartGroup()
	e.EndGroup()
	e.Flush()
	if len(*layouts) != 0 || len(rec.Primitives()) != before {
		t.Error("flushing an empty group drew something")
	}
}
