// Package layout turns a junction design into positioned drawing
// primitives.
package layout

import (
	"sort"

	"github.com/ha1tch/junction-toolkit/pkg/junction"
)

// Palette holds the fill and stroke colours of a scene, as hex strings.
type Palette struct {
	Background string // road surface behind everything
	Grass      string
	Pavement   string
	Box        string // junction box fill
	BoxBorder  string
	Lane       string
	LeftTurn   string
	Bus        string
	Bicycle    string
	Marking    string // lane lines, arrows, crossing strips
	LaneEdge   string
	BusLabel   string
	BikeLabel  string
	FlowLabel  string
}

// DefaultPalette returns the standard junction colours.
func DefaultPalette() Palette {
	return Palette{
		Background: "#777777",
		Grass:      "#4a7c3a",
		Pavement:   "#bbbbbb",
		Box:        "#555555",
		BoxBorder:  "#ffff00",
		Lane:       "#333333",
		LeftTurn:   "#444444",
		Bus:        "#5a6b8c",
		Bicycle:    "#7fad71",
		Marking:    "#ffffff",
		LaneEdge:   "#ffffff",
		BusLabel:   "#dfe6f5",
		BikeLabel:  "#e6f4df",
		FlowLabel:  "#ffffff",
	}
}

// DirectionSet is a set of directions. The zero value is empty.
type DirectionSet map[junction.Direction]bool

// NewDirectionSet returns a set holding ds.
func NewDirectionSet(ds ...junction.Direction) DirectionSet {
	s := make(DirectionSet, len(ds))
	for _, d := range ds {
		s[d] = true
	}
	return s
}

// AllDirections returns a set holding all four directions.
func AllDirections() DirectionSet {
	return NewDirectionSet(junction.Directions...)
}

// Has reports whether d is in the set.
func (s DirectionSet) Has(d junction.Direction) bool {
	return s[d]
}

// List returns the members in sorted order.
func (s DirectionSet) List() []junction.Direction {
	out := make([]junction.Direction, 0, len(s))
	for d, ok := range s {
		if ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// Options controls scene geometry. All distances are in canvas pixels.
type Options struct {
	CanvasWidth      float64
	CanvasHeight     float64
	LaneWidth        float64
	RoadLength       float64 // from the junction box edge outward
	PavementWidth    float64
	MarkingLength    float64
	MarkingSpacing   float64
	MarkingDash      []float64
	MarkingWidth     float64
	ArrowSize        float64
	ArrowDistance    float64 // from the box edge
	LabelDistance    float64
	LabelSize        float64
	CrossingDistance float64
	StripWidth       float64
	StripSpacing     float64
	BoxDash          []float64

	// Crossings lists the directions whose pedestrian crossing is drawn.
	// A crossing appears only if the direction also enables one.
	Crossings DirectionSet

	// FlowLabels adds the incoming vph at the outer end of each arm when a
	// traffic-flow profile is supplied.
	FlowLabels bool

	Palette Palette
}

// DefaultOptions returns the standard 800x800 junction canvas.
func DefaultOptions() Options {
	return Options{
		CanvasWidth:      800,
		CanvasHeight:     800,
		LaneWidth:        50,
		RoadLength:       300,
		PavementWidth:    30,
		MarkingLength:    20,
		MarkingSpacing:   40,
		MarkingDash:      []float64{15, 15},
		MarkingWidth:     3,
		ArrowSize:        15,
		ArrowDistance:    50,
		LabelDistance:    100,
		LabelSize:        12,
		CrossingDistance: 20,
		StripWidth:       10,
		StripSpacing:     5,
		BoxDash:          []float64{20, 10},
		Palette:          DefaultPalette(),
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	fill := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&o.CanvasWidth, d.CanvasWidth)
	fill(&o.CanvasHeight, d.CanvasHeight)
	fill(&o.LaneWidth, d.LaneWidth)
	fill(&o.RoadLength, d.RoadLength)
	fill(&o.PavementWidth, d.PavementWidth)
	fill(&o.MarkingLength, d.MarkingLength)
	fill(&o.MarkingSpacing, d.MarkingSpacing)
	fill(&o.MarkingWidth, d.MarkingWidth)
	fill(&o.ArrowSize, d.ArrowSize)
	fill(&o.ArrowDistance, d.ArrowDistance)
	fill(&o.LabelDistance, d.LabelDistance)
	fill(&o.LabelSize, d.LabelSize)
	fill(&o.CrossingDistance, d.CrossingDistance)
	fill(&o.StripWidth, d.StripWidth)
	fill(&o.StripSpacing, d.StripSpacing)
	if o.MarkingDash == nil {
		o.MarkingDash = d.MarkingDash
	}
	if o.BoxDash == nil {
		o.BoxDash = d.BoxDash
	}
	if o.Palette == (Palette{}) {
		o.Palette = d.Palette
	}
	return o
}
