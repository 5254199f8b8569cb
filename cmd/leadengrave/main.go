// Package main is the entry point for the leadengrave CLI
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/james-see/leadengrave/pkg/api"
	"github.com/james-see/leadengrave/pkg/config"
	"github.com/james-see/leadengrave/pkg/converter"
	"github.com/james-see/leadengrave/pkg/converter/backends"
	"github.com/james-see/leadengrave/pkg/leadsheet"
	"github.com/james-see/leadengrave/pkg/notation"
	"github.com/james-see/leadengrave/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile   string
	outputFormat string
	configPath   string
	fontSize     float64
	staffLines   int
	clefName     string
	verbose      bool
	serverPort   int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "leadengrave",
	Short: "Engrave leadsheets and MIDI files as sheet music",
	Long: `leadengrave lays out single-staff leadsheets (YAML or Standard MIDI Files)
as engraved music: spelled accidentals, stems, beams, ledger lines and ties.

Output is SVG, PDF (with a SMuFL symbol font such as Bravura) or a JSON dump
of the drawing primitives.

Examples:
  leadengrave render tune.yaml -o tune.svg
  leadengrave render tune.mid --format pdf --config engrave.yaml
  leadengrave convert tune.mid -o tune.yaml
  leadengrave glyphs
  leadengrave tui
  leadengrave serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Engrave a leadsheet or MIDI file",
	Long:  `Engraves the input as SVG, PDF or JSON. The output format comes from --format, else from the output file extension, else SVG.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Auto-detect and convert between formats",
	Long:  `Automatically detects input format and converts to the output format based on file extension.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var midi2yamlCmd = &cobra.Command{
	Use:   "midi2yaml <input.mid>",
	Short: "Quantize a MIDI file into a YAML leadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args[0], converter.FormatYAML)
	},
}

var yaml2midiCmd = &cobra.Command{
	Use:   "yaml2midi <input.yaml>",
	Short: "Write a YAML leadsheet as a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args[0], converter.FormatMIDI)
	},
}

var glyphsCmd = &cobra.Command{
	Use:   "glyphs",
	Short: "List the symbol font codepoints the engraver draws",
	Args:  cobra.NoArgs,
	Run:   runGlyphs,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML engraving config")
	rootCmd.PersistentFlags().Float64Var(&fontSize, "font-size", 0, "Symbol font size (overrides config)")
	rootCmd.PersistentFlags().IntVar(&staffLines, "staff-lines", 0, "Lines per staff (overrides config)")
	rootCmd.PersistentFlags().StringVar(&clefName, "clef", "", "Clef when the sheet names none: treble or bass")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print one line per measure")

	// render command
	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path")
	renderCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format: svg, pdf or json")

	// Convert command
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")

	midi2yamlCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .yaml file path")
	yaml2midiCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(midi2yamlCmd)
	rootCmd.AddCommand(yaml2midiCmd)
	rootCmd.AddCommand(glyphsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads --config and applies the flag overrides
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("font-size") {
		cfg.FontSize = fontSize
	}
	if flags.Changed("staff-lines") {
		cfg.StaffLines = staffLines
	}
	if flags.Changed("clef") {
		cfg.Clef = clefName
	}
	return cfg, cfg.Validate()
}

func newConverter(cmd *cobra.Command) (*converter.Converter, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	conv := backends.NewConverter(cfg)
	if verbose {
		opts := conv.Options()
		opts.OnMeasure = func(r leadsheet.MeasureReport) {
			fmt.Fprintf(os.Stderr, "measure %d: %d events, %d accidentals, chord %q, x=%.1f\n",
				r.Index, r.Events, r.Accidentals, r.Chord, r.X)
		}
		conv.SetOptions(opts)
	}
	return conv, nil
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func runRender(cmd *cobra.Command, args []string) error {
	input := args[0]

	format := converter.ParseFormat(outputFormat)
	switch {
	case outputFormat != "" && format == converter.FormatUnknown:
		return fmt.Errorf("unknown output format %q", outputFormat)
	case format == converter.FormatUnknown && outputFile != "":
		format = converter.DetectFormat(outputFile)
	case format == converter.FormatUnknown:
		format = converter.FormatSVG
	}
	if format != converter.FormatSVG && format != converter.FormatPDF && format != converter.FormatJSON {
		return fmt.Errorf("render writes svg, pdf or json, not %s", format)
	}

	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}
	sheet, err := conv.Load(input)
	if err != nil {
		return err
	}
	res, err := conv.Export(sheet, format)
	if err != nil {
		return err
	}

	output := getOutputPath(input, "."+string(format))
	if err := os.WriteFile(output, res.Data, 0644); err != nil {
		return err
	}

	fmt.Printf("Rendered %s -> %s (%d measures, %d groups, %.0fx%.0f)\n",
		input, output, res.Render.Measures, res.Render.Groups, res.Render.Width, res.Render.Height)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Converting %s -> %s\n", input, outputFile)
	if _, err := conv.ConvertFile(input, outputFile); err != nil {
		return err
	}
	fmt.Println("Conversion complete!")
	return nil
}

func runExport(cmd *cobra.Command, input string, format converter.Format) error {
	ext := ".yaml"
	if format == converter.FormatMIDI {
		ext = ".mid"
	}
	output := getOutputPath(input, ext)

	conv, err := newConverter(cmd)
	if err != nil {
		return err
	}
	if _, err := conv.ConvertFile(input, output); err != nil {
		return err
	}

	fmt.Printf("Converted %s -> %s\n", input, output)
	return nil
}

func runGlyphs(cmd *cobra.Command, args []string) {
	for _, g := range notation.GlyphTable() {
		fmt.Printf("U+%04X  %-10s %s\n", g.Codepoint, g.Role, g.Name)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(cfg)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort, cfg)
}
