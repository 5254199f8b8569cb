// Package tui provides a terminal user interface for leadengrave
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/leadengrave/pkg/config"
	"github.com/james-see/leadengrave/pkg/converter"
	"github.com/james-see/leadengrave/pkg/converter/backends"
	"github.com/james-see/leadengrave/pkg/leadsheet"
)

// Ink on manuscript paper
var (
	ink      = lipgloss.Color("#1F3A93")
	inkLight = lipgloss.Color("#7A93D6")
	paper    = lipgloss.Color("#F5E6C8")
	pencil   = lipgloss.Color("#8A8A8A")
	redInk   = lipgloss.Color("#B22222")

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(paper).Background(ink).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Foreground(pencil).Italic(true)
	itemStyle    = lipgloss.NewStyle().Foreground(paper).PaddingLeft(2)
	cursorStyle  = lipgloss.NewStyle().Foreground(inkLight).Bold(true).PaddingLeft(2)
	hintStyle    = lipgloss.NewStyle().Foreground(pencil).PaddingLeft(4)
	staffStyle   = lipgloss.NewStyle().Foreground(inkLight)
	failStyle    = lipgloss.NewStyle().Foreground(redInk).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(inkLight).Bold(true)
	keysStyle    = lipgloss.NewStyle().Foreground(pencil).MarginTop(1)
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(ink).Padding(0, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem is one job the TUI can run on a picked file
type MenuItem struct {
	Section     string
	Title       string
	Description string
	Inputs      []string
	ToFormat    converter.Format
}

var (
	anyInput  = []string{".yaml", ".yml", ".mid", ".midi"}
	midiInput = []string{".mid", ".midi"}
	yamlInput = []string{".yaml", ".yml"}
)

var menuItems = []MenuItem{
	{Section: "Engrave", Title: "SVG page", Description: "Vector page referencing the symbol font by family", Inputs: anyInput, ToFormat: converter.FormatSVG},
	{Section: "Engrave", Title: "PDF page", Description: "Embeds the TrueType symbol font from font_path", Inputs: anyInput, ToFormat: converter.FormatPDF},
	{Section: "Engrave", Title: "Primitive dump", Description: "Every line, curve and glyph as JSON, plus per-measure reports", Inputs: anyInput, ToFormat: converter.FormatJSON},
	{Section: "Convert", Title: "MIDI → YAML leadsheet", Description: "Quantize to sixteenths, one voice, ties across bar lines", Inputs: midiInput, ToFormat: converter.FormatYAML},
	{Section: "Convert", Title: "YAML leadsheet → MIDI", Description: "One track on channel 1 with tempo, meter and key", Inputs: yamlInput, ToFormat: converter.FormatMIDI},
	{Title: "Quit"},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputFile   string
	conversion   MenuItem
	cfg          config.Config
	result       leadsheet.Result
	err          error
	width        int
	height       int
}

// conversionDoneMsg carries the outcome of one job
type conversionDoneMsg struct {
	outputFile string
	result     leadsheet.Result
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// New creates a TUI model rendering with cfg
func New(cfg config.Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = anyInput
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(inkLight)

	return Model{
		state:      StateMenu,
		filePicker: fp,
		spinner:    s,
		cfg:        cfg,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs every message, not only keys.
	if m.state == StateFilePicker {
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.filePicker.SetHeight(max(msg.Height-14, 3))
	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile, m.result, m.err = msg.outputFile, msg.result, msg.err
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.state = StateMenu
			return m, nil
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)
	if ok, path := m.filePicker.DidSelectFile(msg); ok {
		m.selectedFile = path
		m.state = StateConverting
		return m, tea.Batch(m.spinner.Tick, m.performConversion())
	}
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.menuIndex = max(m.menuIndex-1, 0)
	case "down", "j":
		m.menuIndex = min(m.menuIndex+1, len(menuItems)-1)
	case "enter":
		item := menuItems[m.menuIndex]
		if item.ToFormat == "" {
			return m, tea.Quit
		}
		m.conversion = item
		m.filePicker.AllowedTypes = item.Inputs
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.selectedFile, m.outputFile = "", ""
		m.result, m.err = leadsheet.Result{}, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	cfg, input, to := m.cfg, m.selectedFile, m.conversion.ToFormat
	return func() tea.Msg {
		return convertFile(cfg, input, to)
	}
}

// convertFile writes input next to itself in format to
func convertFile(cfg config.Config, input string, to converter.Format) conversionDoneMsg {
	conv := backends.NewConverter(cfg)

	ext := "." + string(to)
	if to == converter.FormatMIDI {
		ext = ".mid"
	}
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ext

	res, err := conv.ConvertFile(input, output)
	if err != nil {
		return conversionDoneMsg{err: err}
	}
	// MIDI and YAML are written without a render pass
	if res.Render.Measures == 0 {
		if sheet, err := conv.Load(input); err == nil {
			res.Render.Measures = len(sheet.Measures)
		}
	}
	return conversionDoneMsg{outputFile: output, result: res.Render}
}

// View renders the TUI
func (m Model) View() string {
	var body string
	switch m.state {
	case StateMenu:
		body = m.viewMenu()
	case StateFilePicker:
		body = m.viewFilePicker()
	case StateConverting:
		body = m.viewConverting()
	case StateResult:
		body = m.viewResult()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		banner(m.cfg),
		body,
		keysStyle.Render(keyHelp(m.state)),
	)
}

func (m Model) viewMenu() string {
	var s strings.Builder
	section := ""
	for i, item := range menuItems {
		if item.Section != section {
			section = item.Section
			s.WriteString(sectionStyle.Render(section))
			s.WriteString("\n")
		}
		if i != m.menuIndex {
			s.WriteString(itemStyle.Render("  " + item.Title))
			s.WriteString("\n")
			continue
		}
		s.WriteString(cursorStyle.Render("♪ " + item.Title))
		s.WriteString("\n")
		if item.Description != "" {
			s.WriteString(hintStyle.Render(item.Description))
			s.WriteString("\n")
			s.WriteString(hintStyle.Render(fmt.Sprintf("reads %s, writes %s", strings.Join(item.Inputs, " "), item.ToFormat)))
			s.WriteString("\n")
		}
	}
	return frameStyle.Render(strings.TrimSuffix(s.String(), "\n"))
}

func (m Model) viewFilePicker() string {
	heading := headingStyle.Render(fmt.Sprintf("%s: pick %s", m.conversion.Title, strings.Join(m.conversion.Inputs, " ")))
	return lipgloss.JoinVertical(lipgloss.Left, heading, "", m.filePicker.View())
}

func (m Model) viewConverting() string {
	from := converter.DetectFormat(m.selectedFile)
	verb := "Engraving"
	if m.conversion.ToFormat.Input() {
		verb = "Converting"
	}
	lines := []string{
		fmt.Sprintf("%s %s %s", m.spinner.View(), verb, filepath.Base(m.selectedFile)),
		hintStyle.Render(fmt.Sprintf("%s → %s", from, m.conversion.ToFormat)),
	}
	if !m.conversion.ToFormat.Input() {
		lines = append(lines, hintStyle.Render(fmt.Sprintf("%g px symbols, %g px per beat", m.cfg.FontSize, m.cfg.BeatWidth)))
	}
	return frameStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewResult() string {
	if m.err != nil {
		return frameStyle.Render(failStyle.Render("✗ " + m.err.Error()))
	}

	r := m.result
	lines := []string{
		doneStyle.Render("✓ " + filepath.Base(m.outputFile)),
		"",
		fmt.Sprintf("from     %s", filepath.Base(m.selectedFile)),
		fmt.Sprintf("content  %d measures, %d groups, %d ties", r.Measures, r.Groups, r.Ties),
	}
	if r.Width > 0 {
		lines = append(lines, fmt.Sprintf("page     %.0f × %.0f", r.Width, r.Height))
	}
	return frameStyle.Render(strings.Join(lines, "\n"))
}

func keyHelp(s State) string {
	switch s {
	case StateFilePicker:
		return "↑/↓: browse • enter: open • esc: back • q: quit"
	case StateConverting:
		return "ctrl+c: quit"
	case StateResult:
		return "enter: another file • q: quit"
	}
	return "↑/↓: choose • enter: pick a file • q: quit"
}

// banner draws an empty staff with the program name on its middle line and
// the engraving settings underneath
func banner(cfg config.Config) string {
	const width = 46
	title := " leadengrave "
	lines := min(max(cfg.StaffLines, 1), 9)

	rows := make([]string, lines)
	for i := range rows {
		rows[i] = strings.Repeat("─", width)
		if i == lines/2 {
			pad := (width - len(title)) / 2
			rows[i] = strings.Repeat("─", pad) + title + strings.Repeat("─", width-pad-len(title))
		}
	}
	settings := fmt.Sprintf("%s clef · %d-line staff · %s %gpx", cfg.Clef, cfg.StaffLines, cfg.FontFamily, cfg.FontSize)
	return staffStyle.Render(strings.Join(rows, "\n")) + "\n" + sectionStyle.Render(settings) + "\n"
}

// Run starts the TUI application
func Run(cfg config.Config) error {
	_, err := tea.NewProgram(New(cfg), tea.WithAltScreen()).Run()
	return err
}
