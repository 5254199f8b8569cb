package canvas

import "image/color"

// Primitive kinds recorded by Recorder
const (
	KindLine    = "line"
	KindCubic   = "cubic"
	KindPolygon = "polygon"
	KindGlyph   = "glyph"
	KindColor   = "color"
	KindStroke  = "stroke"
)

// Primitive is one recorded drawing call
type Primitive struct {
	Kind   string  `json:"kind"`
	Points []Point `json:"points,omitempty"`
	Glyph  rune    `json:"glyph,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Color  string  `json:"color,omitempty"`
	Width  float64 `json:"width,omitempty"`
}

// Recorder is a Canvas that stores every call in order
type Recorder struct {
	prims []Primitive
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) {
	r.prims = append(r.prims, Primitive{Kind: KindLine, Points: []Point{{x1, y1}, {x2, y2}}})
}

func (r *Recorder) DrawCubic(p0, p1, p2, p3 Point) {
	r.prims = append(r.prims, Primitive{Kind: KindCubic, Points: []Point{p0, p1, p2, p3}})
}

func (r *Recorder) FillPolygon(points []Point) {
	pts := make([]Point, len(points))
	copy(pts, points)
	r.prims = append(r.prims, Primitive{Kind: KindPolygon, Points: pts})
}

func (r *Recorder) DrawGlyph(glyph rune, x, y, sizePx float64) {
	r.prims = append(r.prims, Primitive{Kind: KindGlyph, Glyph: glyph, Points: []Point{{x, y}}, Size: sizePx})
}

func (r *Recorder) SetColor(c color.Color) {
	r.prims = append(r.prims, Primitive{Kind: KindColor, Color: Hex(c)})
}

func (r *Recorder) SetStrokeWidth(width float64) {
	r.prims = append(r.prims, Primitive{Kind: KindStroke, Width: width})
}

// Primitives returns the recorded calls
func (r *Recorder) Primitives() []Primitive {
	return r.prims
}

// Count returns how many primitives of a kind were recorded
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, p := range r.prims {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// Glyphs returns the recorded glyph calls for one codepoint
func (r *Recorder) Glyphs(glyph rune) []Primitive {
	var out []Primitive
	for _, p := range r.prims {
		if p.Kind == KindGlyph && p.Glyph == glyph {
			out = append(out, p)
		}
	}
	return out
}

// Reset discards everything recorded
func (r *Recorder) Reset() {
	r.prims = r.prims[:0]
}
