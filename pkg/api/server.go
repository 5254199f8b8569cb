// Package api provides the REST API server for leadengrave
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/leadengrave/pkg/config"
	"github.com/james-see/leadengrave/pkg/converter"
	"github.com/james-see/leadengrave/pkg/converter/backends"
	"github.com/james-see/leadengrave/pkg/notation"
)

// RenderIDHeader carries the ID assigned to each engrave request
const RenderIDHeader = "X-Render-ID"

// maxUpload bounds the uploaded leadsheet size
const maxUpload = 8 << 20

// @title Leadengrave API
// @version 1.0
// @description API for engraving leadsheets and MIDI files as SVG, PDF or JSON
// @host localhost:8080
// @BasePath /api/v1

type server struct {
	cfg config.Config
}

// NewRouter builds the gin engine serving every route
func NewRouter(cfg config.Config) *gin.Engine {
	s := &server{cfg: cfg}
	r := gin.Default()

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/engrave", s.handleEngrave)
		v1.GET("/formats", listFormats)
		v1.GET("/glyphs", listGlyphs)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// Handler wraps the router with CORS handling
func Handler(cfg config.Config) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{RenderIDHeader, "Content-Disposition"},
	})
	return c.Handler(NewRouter(cfg))
}

// StartServer starts the API server on the specified port
func StartServer(port int, cfg config.Config) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), Handler(cfg))
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "leadengrave",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the input and output formats and the conversions between them
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"inputs":      []string{"midi", "yaml"},
		"outputs":     []string{"svg", "pdf", "json", "midi", "yaml"},
		"conversions": converter.GetSupportedConversions(),
	})
}

// listGlyphs godoc
// @Summary List glyph codepoints
// @Description Returns every symbol font codepoint the engraver draws
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]notation.GlyphEntry
// @Router /api/v1/glyphs [get]
func listGlyphs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"glyphs": notation.GlyphTable(),
	})
}

// handleEngrave godoc
// @Summary Engrave a leadsheet
// @Description Upload a YAML leadsheet or MIDI file and receive it engraved or converted
// @Tags engrave
// @Accept multipart/form-data
// @Produce image/svg+xml,application/pdf,application/json,audio/midi,application/yaml
// @Param file formData file true "YAML leadsheet or MIDI file"
// @Param format query string false "Output format: svg, pdf, json, midi or yaml (default: svg)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/engrave [post]
func (s *server) handleEngrave(c *gin.Context) {
	renderID := uuid.New().String()
	c.Header(RenderIDHeader, renderID)

	out := converter.ParseFormat(c.DefaultQuery("format", "svg"))
	if out == converter.FormatUnknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported output format"})
		return
	}

	// Get uploaded file
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	// Read file content
	data, err := io.ReadAll(io.LimitReader(file, maxUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	in := converter.DetectFormat(header.Filename)
	if !in.Input() {
		in = converter.DetectFormatFromContent(data)
	}
	if !in.Input() || in == out {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported conversion: %s to %s", in, out)})
		return
	}

	conv := backends.NewConverter(s.cfg)
	sheet, err := conv.Parse(data, in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := conv.Export(sheet, out)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, converter.ErrNoBackend) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// Generate output filename
	base := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	if base == "" || base == "." {
		base = "engraved"
	}
	outputName := base + extension(out)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, contentType(out), res.Data)
}

func extension(f converter.Format) string {
	switch f {
	case converter.FormatMIDI:
		return ".mid"
	case converter.FormatYAML:
		return ".yaml"
	}
	return "." + string(f)
}

func contentType(f converter.Format) string {
	switch f {
	case converter.FormatSVG:
		return "image/svg+xml"
	case converter.FormatPDF:
		return "application/pdf"
	case converter.FormatJSON:
		return "application/json"
	case converter.FormatMIDI:
		return "audio/midi"
	case converter.FormatYAML:
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}
