package converter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/leadengrave/pkg/leadsheet"
)

const testSheet = `title: Blues head
key: -1
time: 3/4
measures:
  - chord: F7
    events:
      - {beat: 0, pitches: [F4], duration: quarter}
      - {beat: 1, pitches: [A4, C5], duration: half}
  - events:
      - {beat: 0, midi: [63], duration: dotted-half}
`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"test.mid", FormatMIDI},
		{"test.midi", FormatMIDI},
		{"song.yaml", FormatYAML},
		{"song.YML", FormatYAML},
		{"out.svg", FormatSVG},
		{"out.pdf", FormatPDF},
		{"out.json", FormatJSON},
		{"test.txt", FormatUnknown},
		{"test", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"MIDI file", []byte("MThd\x00\x00\x00\x06"), FormatMIDI},
		{"PDF file", []byte("%PDF-1.3"), FormatPDF},
		{"SVG file", []byte("\n<?xml version=\"1.0\"?><svg/>"), FormatSVG},
		{"JSON file", []byte(`{"result": {}}`), FormatJSON},
		{"YAML leadsheet", []byte("title: x\nmeasures: []\n"), FormatYAML},
		{"Short data", []byte{0x00, 0x01}, FormatUnknown},
		{"Binary data", []byte{0xFF, 0xFE, 0xFD, 0x00, 0x80}, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectFormatFromContent(tt.data)
			if result != tt.expected {
				t.Errorf("DetectFormatFromContent() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"midi": FormatMIDI,
		"MID":  FormatMIDI,
		"yml":  FormatYAML,
		" svg": FormatSVG,
		"pdf":  FormatPDF,
		"json": FormatJSON,
		"png":  FormatUnknown,
	}
	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

// mockBackend implements Backend for testing
type mockBackend struct {
	format Format
	calls  int
}

func (m *mockBackend) Name() string   { return "Mock Backend" }
func (m *mockBackend) Format() Format { return m.format }
func (m *mockBackend) Render(s *leadsheet.Sheet, opts leadsheet.Options) ([]byte, leadsheet.Result, error) {
	m.calls++
	return []byte("<svg/>"), leadsheet.Result{Measures: len(s.Measures)}, nil
}

func TestConverterNew(t *testing.T) {
	backend := &mockBackend{format: FormatSVG}
	conv := New(leadsheet.Options{Margin: 10}, backend)

	if conv == nil {
		t.Fatal("New() returned nil")
	}
	if conv.GetBackend(FormatSVG) != backend {
		t.Error("GetBackend() did not return the expected backend")
	}
	if conv.GetBackend(FormatPDF) != nil {
		t.Error("GetBackend() should return nil for an unregistered format")
	}
	if conv.Options().Margin != 10 {
		t.Errorf("Options().Margin = %v, want 10", conv.Options().Margin)
	}
}

func TestConverterSetBackend(t *testing.T) {
	backend1 := &mockBackend{format: FormatSVG}
	backend2 := &mockBackend{format: FormatSVG}

	conv := New(leadsheet.Options{}, backend1)
	conv.SetBackend(backend2)
	if conv.GetBackend(FormatSVG) != backend2 {
		t.Error("GetBackend() should return backend2 after SetBackend")
	}

	conv.SetBackend(&mockBackend{format: FormatJSON})
	want := []Format{FormatJSON, FormatSVG}
	if got := conv.Backends(); !reflect.DeepEqual(got, want) {
		t.Errorf("Backends() = %v, want %v", got, want)
	}
}

func TestGetSupportedConversions(t *testing.T) {
	conversions := GetSupportedConversions()

	if len(conversions) != 8 {
		t.Errorf("GetSupportedConversions() returned %d conversions, want 8", len(conversions))
	}
	if conversions[0] != "midi -> svg" {
		t.Errorf("conversions[0] = %q, want %q", conversions[0], "midi -> svg")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	sheet, err := ParseYAML([]byte(testSheet))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if sheet.Title != "Blues head" || sheet.Key != -1 || len(sheet.Measures) != 2 {
		t.Fatalf("ParseYAML() = %+v", sheet)
	}
	if got := sheet.Measures[0].Events[1].Pitches; !reflect.DeepEqual(got, []string{"A4", "C5"}) {
		t.Errorf("pitches = %v, want [A4 C5]", got)
	}

	data, err := GenerateYAML(sheet)
	if err != nil {
		t.Fatalf("GenerateYAML() error = %v", err)
	}
	again, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() of generated YAML error = %v", err)
	}
	if !reflect.DeepEqual(sheet, again) {
		t.Errorf("round trip = %+v, want %+v", again, sheet)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	if _, err := ParseYAML([]byte("measures: [")); err == nil {
		t.Error("ParseYAML() should fail on malformed YAML")
	}
	if _, err := ParseYAML([]byte("title: empty\n")); !errors.Is(err, leadsheet.ErrNoMeasures) {
		t.Errorf("ParseYAML() error = %v, want ErrNoMeasures", err)
	}
	if _, err := GenerateYAML(nil); err == nil {
		t.Error("GenerateYAML(nil) should fail")
	}
}

func TestMIDIRoundTrip(t *testing.T) {
	tied := leadsheet.Event{Beat: 2, Pitches: []string{"G4"}, Duration: "half", Tie: true}
	sheet := &leadsheet.Sheet{
		Title: "Round Trip",
		Key:   -1,
		Tempo: 96,
		Measures: []leadsheet.Measure{
			{Events: []leadsheet.Event{
				{Beat: 0, MIDI: []int{60}, Duration: "quarter"},
				{Beat: 1, MIDI: []int{64, 67}, Duration: "quarter"},
				tied,
			}},
			{Events: []leadsheet.Event{{Beat: 0, Pitches: []string{"G4"}, Duration: "whole"}}},
		},
	}

	conv := NewMIDIConverter()
	data, err := conv.GenerateMIDI(sheet)
	if err != nil {
		t.Fatalf("GenerateMIDI() error = %v", err)
	}
	if DetectFormatFromContent(data) != FormatMIDI {
		t.Fatal("GenerateMIDI() output is not a MIDI file")
	}

	got, err := NewMIDIConverter().ParseMIDI(data)
	if err != nil {
		t.Fatalf("ParseMIDI() error = %v", err)
	}
	if got.Title != "Round Trip" || got.Tempo != 96 || got.Key != -1 || got.Time != "4/4" || got.Clef != "treble" {
		t.Errorf("ParseMIDI() header = %q %v %v %q %q", got.Title, got.Tempo, got.Key, got.Time, got.Clef)
	}
	if len(got.Measures) != 2 {
		t.Fatalf("measures = %d, want 2", len(got.Measures))
	}

	want := [][]leadsheet.Event{
		{
			{Beat: 0, MIDI: []int{60}, Beats: 1},
			{Beat: 1, MIDI: []int{64, 67}, Beats: 1},
			{Beat: 2, MIDI: []int{67}, Beats: 2, Tie: true},
		},
		{
			{Beat: 0, MIDI: []int{67}, Beats: 4},
		},
	}
	for i, events := range want {
		if !reflect.DeepEqual(got.Measures[i].Events, events) {
			t.Errorf("measure %d events = %+v, want %+v", i+1, got.Measures[i].Events, events)
		}
	}
}

func TestParseMIDIQuantizesAndFillsRests(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	var track smf.Track
	track.Add(0, midi.NoteOn(9, 36, 100))
	track.Add(0, midi.NoteOn(0, 72, 90))
	track.Add(250, midi.NoteOff(0, 72))
	track.Add(0, midi.NoteOff(9, 36))
	track.Close(0)
	if err := s.Add(track); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	sheet, err := NewMIDIConverter().ParseMIDI(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseMIDI() error = %v", err)
	}
	if sheet.Time != "4/4" || sheet.Tempo != 120 {
		t.Errorf("defaults = %q %v, want 4/4 120", sheet.Time, sheet.Tempo)
	}

	want := []leadsheet.Event{
		{Beat: 0, MIDI: []int{72}, Beats: 0.5},
		{Beat: 0.5, Rest: true, Beats: 3},
		{Beat: 3.5, Rest: true, Beats: 0.5},
	}
	if len(sheet.Measures) != 1 || !reflect.DeepEqual(sheet.Measures[0].Events, want) {
		t.Errorf("ParseMIDI() measures = %+v, want one measure of %+v", sheet.Measures, want)
	}
}

func TestParseMIDIErrors(t *testing.T) {
	if _, err := NewMIDIConverter().ParseMIDI([]byte("not midi")); err == nil {
		t.Error("ParseMIDI() should fail on garbage")
	}

	s := smf.New()
	var track smf.Track
	track.Close(0)
	if err := s.Add(track); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := NewMIDIConverter().ParseMIDI(buf.Bytes()); !errors.Is(err, ErrNoNotes) {
		t.Errorf("ParseMIDI() error = %v, want ErrNoNotes", err)
	}
}

func TestSplitAtBars(t *testing.T) {
	got := splitAtBars(2.5, 4, 3)
	want := []span{
		{measure: 0, beat: 2.5, beats: 0.5},
		{measure: 1, beat: 0, beats: 3},
		{measure: 2, beat: 0, beats: 0.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitAtBars() = %+v, want %+v", got, want)
	}
	if got := pieces(2.5); !reflect.DeepEqual(got, []float64{2, 0.5}) {
		t.Errorf("pieces(2.5) = %v, want [2 0.5]", got)
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "song.txt")
	if err := os.WriteFile(in, []byte(testSheet), 0644); err != nil {
		t.Fatal(err)
	}

	backend := &mockBackend{format: FormatSVG}
	conv := New(leadsheet.Options{}, backend)

	out := filepath.Join(dir, "song.svg")
	res, err := conv.ConvertFile(in, out)
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}
	if res.Render.Measures != 2 || backend.calls != 1 {
		t.Errorf("ConvertFile() result = %+v after %d calls", res.Render, backend.calls)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("output = %q, %v", data, err)
	}

	if _, err := conv.ConvertFile(in, filepath.Join(dir, "song.pdf")); !errors.Is(err, ErrNoBackend) {
		t.Errorf("ConvertFile() to pdf error = %v, want ErrNoBackend", err)
	}
	if _, err := conv.ConvertFile(in, filepath.Join(dir, "song.png")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ConvertFile() to png error = %v, want ErrUnknownFormat", err)
	}

	mid := filepath.Join(dir, "song.mid")
	if _, err := conv.ConvertFile(in, mid); err != nil {
		t.Fatalf("ConvertFile() to midi error = %v", err)
	}
	sheet, err := conv.Load(mid)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sheet.Time != "3/4" || len(sheet.Measures) != 2 {
		t.Errorf("Load() = %q with %d measures, want 3/4 with 2", sheet.Time, len(sheet.Measures))
	}
}

func TestLoadTitleFromFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "untitled.yaml")
	if err := os.WriteFile(path, []byte("measures:\n  - events:\n      - {beat: 0, rest: true, duration: whole}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	sheet, err := New(leadsheet.Options{}).Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sheet.Title != "untitled" {
		t.Errorf("Title = %q, want untitled", sheet.Title)
	}
}
