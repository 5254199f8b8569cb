package converter

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/leadengrave/pkg/leadsheet"
	"github.com/james-see/leadengrave/pkg/spelling"
)

var (
	errNilSheet = errors.New("nil sheet")
	ErrNoNotes  = errors.New("no notes in MIDI file")
)

const (
	drumChannel     = 9
	quantum         = 0.25 // import grid in quarter beats
	defaultVelocity = 100
)

// Lengths, in quarter beats, that a single notated value can show. Longer or
// irregular lengths are split into tied pieces.
var pieceLengths = []float64{4, 3, 2, 1.5, 1, 0.75, 0.5, 0.25}

// MIDIConverter handles MIDI file parsing and generation
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: 480,
		tempo:           120.0,
	}
}

// ParseMIDIFile reads a MIDI file and extracts a leadsheet
func (m *MIDIConverter) ParseMIDIFile(filename string) (*leadsheet.Sheet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.ParseMIDI(data)
}

type heldNote struct {
	start, end int64
	key        int
}

type chordEvent struct {
	beat, length float64
	keys         []int
}

// ParseMIDI quantizes every non-drum note of a Standard MIDI File onto a
// sixteenth grid and reduces them to a single voice: notes starting together
// form a chord, and a chord ends where the next one begins.
func (m *MIDIConverter) ParseMIDI(data []byte) (*leadsheet.Sheet, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	// Get ticks per quarter note from time format
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		m.ticksPerQuarter = mt.Resolution()
	}

	sheet := &leadsheet.Sheet{}
	var notes []heldNote

	for _, track := range s.Tracks {
		var tick int64
		open := make(map[[2]uint8][]int64)
		for _, ev := range track {
			tick += int64(ev.Delta)
			msg := ev.Message

			if len(msg) >= 3 && msg[0] == 0xFF {
				m.meta(sheet, msg)
				continue
			}

			var ch, key, vel uint8
			switch {
			case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
				if ch == drumChannel {
					continue
				}
				k := [2]uint8{ch, key}
				open[k] = append(open[k], tick)
			// Note Off, or Note On with velocity 0
			case msg.GetNoteOff(&ch, &key, &vel), msg.GetNoteOn(&ch, &key, &vel):
				k := [2]uint8{ch, key}
				if starts := open[k]; len(starts) > 0 {
					notes = append(notes, heldNote{start: starts[0], end: tick, key: int(key)})
					open[k] = starts[1:]
				}
			}
		}
	}

	if len(notes) == 0 {
		return nil, ErrNoNotes
	}
	if sheet.Time == "" {
		sheet.Time = "4/4"
	}
	if sheet.Tempo == 0 {
		sheet.Tempo = m.tempo
	}
	ts, err := leadsheet.ParseTime(sheet.Time)
	if err != nil {
		return nil, err
	}
	sheet.Clef = clefFor(notes)
	sheet.Measures = buildMeasures(m.chords(notes), ts.MeasureBeats())

	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	return sheet, nil
}

// meta reads the header meta events. The first tempo, meter, key and track
// name win.
func (m *MIDIConverter) meta(sheet *leadsheet.Sheet, msg []byte) {
	switch {
	// Tempo: FF 51 03 tt tt tt
	case len(msg) >= 6 && msg[1] == 0x51 && msg[2] == 0x03:
		microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
		if microsecondsPerBeat > 0 && sheet.Tempo == 0 {
			sheet.Tempo = math.Round(60000000.0/float64(microsecondsPerBeat)*100) / 100
		}
	// Time signature: FF 58 04 nn dd cc bb
	case len(msg) >= 7 && msg[1] == 0x58 && msg[2] == 0x04:
		if msg[3] > 0 && msg[4] <= 6 && sheet.Time == "" {
			sheet.Time = fmt.Sprintf("%d/%d", msg[3], 1<<msg[4])
		}
	// Key signature: FF 59 02 sf mi
	case len(msg) >= 5 && msg[1] == 0x59 && msg[2] == 0x02:
		if sf := int(int8(msg[3])); sf >= -7 && sf <= 7 && sheet.Key == 0 {
			sheet.Key = sf
		}
	// Track name: FF 03 len text
	case msg[1] == 0x03 && sheet.Title == "":
		if n := int(msg[2]); n < 0x80 && len(msg) >= 3+n {
			sheet.Title = string(msg[3 : 3+n])
		}
	}
}

func (m *MIDIConverter) quantize(tick int64) float64 {
	beats := float64(tick) / float64(m.ticksPerQuarter)
	return math.Round(beats/quantum) * quantum
}

func (m *MIDIConverter) chords(notes []heldNote) []chordEvent {
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].start != notes[j].start {
			return notes[i].start < notes[j].start
		}
		return notes[i].key < notes[j].key
	})

	var out []chordEvent
	for _, n := range notes {
		beat := m.quantize(n.start)
		length := math.Max(m.quantize(n.end)-beat, quantum)
		if k := len(out) - 1; k >= 0 && out[k].beat == beat {
			if !slices.Contains(out[k].keys, n.key) {
				out[k].keys = append(out[k].keys, n.key)
			}
			out[k].length = math.Max(out[k].length, length)
			continue
		}
		out = append(out, chordEvent{beat: beat, length: length, keys: []int{n.key}})
	}

	for i := 0; i+1 < len(out); i++ {
		if gap := out[i+1].beat - out[i].beat; out[i].length > gap {
			out[i].length = gap
		}
	}
	return out
}

func clefFor(notes []heldNote) string {
	sum := 0
	for _, n := range notes {
		sum += n.key
	}
	if sum < 60*len(notes) {
		return "bass"
	}
	return "treble"
}

type span struct {
	measure     int
	beat, beats float64
}

// splitAtBars cuts [start, start+length) at bar lines and then into notatable pieces
func splitAtBars(start, length, measureBeats float64) []span {
	var out []span
	for length > 1e-9 {
		idx := int(math.Floor(start/measureBeats + 1e-9))
		beat := start - float64(idx)*measureBeats
		n := math.Min(length, measureBeats-beat)
		for _, p := range pieces(n) {
			out = append(out, span{measure: idx, beat: beat, beats: p})
			beat += p
		}
		start += n
		length -= n
	}
	return out
}

func pieces(beats float64) []float64 {
	var out []float64
	for _, l := range pieceLengths {
		for beats >= l-1e-9 {
			out = append(out, l)
			beats -= l
		}
	}
	if beats > 1e-9 {
		out = append(out, beats)
	}
	return out
}

func buildMeasures(chords []chordEvent, measureBeats float64) []leadsheet.Measure {
	last := chords[len(chords)-1]
	count := max(int(math.Ceil((last.beat+last.length)/measureBeats-1e-9)), 1)
	measures := make([]leadsheet.Measure, count)

	add := func(sp span, ev leadsheet.Event) {
		idx := min(sp.measure, count-1)
		ev.Beat, ev.Beats = sp.beat, sp.beats
		measures[idx].Events = append(measures[idx].Events, ev)
	}
	rest := func(start, length float64) {
		for _, sp := range splitAtBars(start, length, measureBeats) {
			add(sp, leadsheet.Event{Rest: true})
		}
	}

	cursor := 0.0
	for _, c := range chords {
		if c.beat > cursor {
			rest(cursor, c.beat-cursor)
		}
		spans := splitAtBars(c.beat, c.length, measureBeats)
		for i, sp := range spans {
			add(sp, leadsheet.Event{MIDI: slices.Clone(c.keys), Tie: i < len(spans)-1})
		}
		cursor = c.beat + c.length
	}
	if end := float64(count) * measureBeats; cursor < end {
		rest(cursor, end-cursor)
	}
	return measures
}

type timedMessage struct {
	tick uint32
	msg  []byte
	off  bool
}

// GenerateMIDI writes a leadsheet as a single-track Standard MIDI File.
// Tied notes sound once for their combined length.
func (m *MIDIConverter) GenerateMIDI(sheet *leadsheet.Sheet) ([]byte, error) {
	if sheet == nil {
		return nil, errNilSheet
	}
	if err := sheet.Validate(); err != nil {
		return nil, err
	}

	tempo := sheet.Tempo
	if tempo <= 0 {
		tempo = m.tempo
	}
	ts, _ := leadsheet.ParseTime(sheet.Time)

	// Create SMF with one track
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track

	if n := min(len(sheet.Title), 0x7F); n > 0 {
		name := append([]byte{0xFF, 0x03, byte(n)}, sheet.Title[:n]...)
		track.Add(0, smf.Message(name))
	}

	// Add tempo meta event
	microsecondsPerBeat := uint32(60000000.0 / tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))

	// Time and key signatures
	denPower := byte(0)
	for d := ts.Den; d > 1; d >>= 1 {
		denPower++
	}
	track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, byte(ts.Num), denPower, 0x18, 0x08}))
	track.Add(0, smf.Message([]byte{0xFF, 0x59, 0x02, byte(int8(sheet.Key)), 0x00}))

	channel := uint8(0)
	toTick := func(beat float64) uint32 {
		return uint32(math.Round(beat * float64(m.ticksPerQuarter)))
	}

	var events []timedMessage
	held := make(map[int]float64) // tied pitch -> end beat so far
	noteOff := func(key int, end float64) {
		events = append(events, timedMessage{tick: toTick(end), msg: midi.NoteOff(channel, uint8(key)), off: true})
	}

	mb := ts.MeasureBeats()
	for i, meas := range sheet.Measures {
		evs := slices.Clone(meas.Events)
		sort.SliceStable(evs, func(a, b int) bool { return evs[a].Beat < evs[b].Beat })

		for _, ev := range evs {
			sym, _ := ev.Symbolic()
			start := float64(i)*mb + ev.Beat
			end := start + sym.Beats
			keys := eventKeys(ev)

			// a tie with nothing to land on ends where it was
			for _, k := range slices.Sorted(maps.Keys(held)) {
				if ev.Rest || !slices.Contains(keys, k) {
					noteOff(k, held[k])
					delete(held, k)
				}
			}
			for _, k := range keys {
				if _, ok := held[k]; !ok {
					events = append(events, timedMessage{tick: toTick(start), msg: midi.NoteOn(channel, uint8(k), defaultVelocity)})
				}
				if ev.Tie {
					held[k] = end
					continue
				}
				delete(held, k)
				noteOff(k, end)
			}
		}
	}
	for _, k := range slices.Sorted(maps.Keys(held)) {
		noteOff(k, held[k])
	}

	// note offs first so repeated pitches retrigger
	sort.SliceStable(events, func(a, b int) bool {
		if events[a].tick != events[b].tick {
			return events[a].tick < events[b].tick
		}
		return events[a].off && !events[b].off
	})

	var currentTick uint32
	for _, ev := range events {
		track.Add(ev.tick-currentTick, ev.msg)
		currentTick = ev.tick
	}

	// Pad the track to the last bar line
	if total := toTick(float64(len(sheet.Measures)) * mb); currentTick < total {
		track.Add(total-currentTick, smf.Message([]byte{0xFF, 0x06, 0x00})) // Marker event as padding
	}

	// Add end of track
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	// Write to buffer
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteMIDIFile writes a leadsheet to a MIDI file
func (m *MIDIConverter) WriteMIDIFile(sheet *leadsheet.Sheet, filename string) error {
	data, err := m.GenerateMIDI(sheet)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// eventKeys returns every MIDI number an event sounds. Names are validated up front.
func eventKeys(ev leadsheet.Event) []int {
	if ev.Rest {
		return nil
	}
	keys := slices.Clone(ev.MIDI)
	for _, name := range ev.Pitches {
		if p, err := spelling.ParsePitchName(name); err == nil {
			keys = append(keys, p.MIDI())
		}
	}
	return keys
}
