package layout

import (
	"strings"

	"github.com/ha1tch/junction-toolkit/pkg/geometry"
	"github.com/ha1tch/junction-toolkit/pkg/junction"
)

// Kind is the shape of a primitive.
type Kind string

const (
	KindRect       Kind = "rect"
	KindDashedLine Kind = "dashedLine"
	KindPolyline   Kind = "polyline"
	KindText       Kind = "text"
)

// Primitive is one drawable shape with absolute canvas coordinates.
// Rects use X, Y, W, H (top-left and size). Lines use Points. Text is
// centred on X, Y.
type Primitive struct {
	Kind        Kind             `json:"kind"`
	Name        string           `json:"name"`
	X           float64          `json:"x"`
	Y           float64          `json:"y"`
	W           float64          `json:"w,omitempty"`
	H           float64          `json:"h,omitempty"`
	Points      []geometry.Point `json:"points,omitempty"`
	Fill        string           `json:"fill,omitempty"`
	Stroke      string           `json:"stroke,omitempty"`
	StrokeWidth float64          `json:"stroke_width,omitempty"`
	Dash        []float64        `json:"dash,omitempty"`
	Text        string           `json:"text,omitempty"`
	FontSize    float64          `json:"font_size,omitempty"`
	Bold        bool             `json:"bold,omitempty"`
}

// Rect returns the rectangle of a rect primitive.
func (p Primitive) Rect() geometry.Rect {
	return geometry.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Bounds returns the area covered by the primitive. Text extents are
// estimated from the font size.
func (p Primitive) Bounds() geometry.Rect {
	switch p.Kind {
	case KindRect:
		return p.Rect()
	case KindDashedLine, KindPolyline:
		return geometry.Bounds(p.Points)
	case KindText:
		w := float64(len(p.Text)) * p.FontSize * 0.6
		return geometry.Rect{X: p.X - w/2, Y: p.Y - p.FontSize/2, W: w, H: p.FontSize}
	}
	return geometry.Rect{}
}

// Scene is the composed, painter-ordered primitive list of a junction.
type Scene struct {
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Primitives []Primitive       `json:"primitives"`
	Layouts    []DirectionLayout `json:"-"`
}

// Empty reports whether the scene has nothing to draw.
func (s Scene) Empty() bool {
	return len(s.Primitives) == 0
}

// Bounds returns the union of all primitive bounds.
func (s Scene) Bounds() geometry.Rect {
	var r geometry.Rect
	for i, p := range s.Primitives {
		b := p.Bounds()
		if i == 0 {
			r = b
			continue
		}
		r = r.Union(b)
	}
	return r
}

// Filter returns the primitives of the given kind, in paint order.
func (s Scene) Filter(kind Kind) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// WithPrefix returns the primitives whose name starts with prefix.
func (s Scene) WithPrefix(prefix string) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if strings.HasPrefix(p.Name, prefix) {
			out = append(out, p)
		}
	}
	return out
}

// Layout returns the planned arm for d.
func (s Scene) Layout(d junction.Direction) (DirectionLayout, bool) {
	for _, l := range s.Layouts {
		if l.Direction == d {
			return l, true
		}
	}
	return DirectionLayout{}, false
}
