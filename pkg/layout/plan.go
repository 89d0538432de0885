package layout

import (
	"math"

	"github.com/ha1tch/junction-toolkit/pkg/geometry"
	"github.com/ha1tch/junction-toolkit/pkg/junction"
)

// LaneKind classifies a lane.
type LaneKind string

const (
	LaneRegular  LaneKind = "regular"
	LaneLeftTurn LaneKind = "left_turn"
	LaneTransit  LaneKind = "transit"
)

// Axis is the long axis of an arm.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// bearing describes how an arm sits on the canvas. along points away from
// the junction; across is the direction of increasing lane offset.
type bearing struct {
	along  geometry.Point
	across geometry.Point
	axis   Axis
	label  string
}

// bearings mirrors the offset for opposing arms so that lane 0 of every
// approach sits on the same side relative to its traffic.
var bearings = map[junction.Direction]bearing{
	junction.North: {along: geometry.Point{X: 0, Y: -1}, across: geometry.Point{X: 1, Y: 0}, axis: Vertical, label: "N"},
	junction.South: {along: geometry.Point{X: 0, Y: 1}, across: geometry.Point{X: -1, Y: 0}, axis: Vertical, label: "S"},
	junction.East:  {along: geometry.Point{X: 1, Y: 0}, across: geometry.Point{X: 0, Y: -1}, axis: Horizontal, label: "E"},
	junction.West:  {along: geometry.Point{X: -1, Y: 0}, across: geometry.Point{X: 0, Y: 1}, axis: Horizontal, label: "W"},
}

// Lane is one positioned lane of an arm.
type Lane struct {
	Kind   LaneKind       `json:"kind"`
	Index  int            `json:"index"`
	Offset float64        `json:"offset"` // signed distance from the arm axis
	Start  geometry.Point `json:"start"`  // centreline point on the box edge
	End    geometry.Point `json:"end"`    // centreline point at the far end
	Rect   geometry.Rect  `json:"rect"`
	Width  float64        `json:"width"`
}

// DirectionLayout is the planned geometry of one arm.
type DirectionLayout struct {
	Direction junction.Direction       `json:"direction"`
	Config    junction.DirectionConfig `json:"-"`
	Axis      Axis                     `json:"axis"`
	Label     string                   `json:"label"`
	Center    geometry.Point           `json:"center"`
	HalfSize  float64                  `json:"half_size"`
	Along     geometry.Point           `json:"along"`
	Across    geometry.Point           `json:"across"`
	Lanes     []Lane                   `json:"lanes"`
}

// Boundary returns the point where the arm axis meets the junction box.
func (l DirectionLayout) Boundary() geometry.Point {
	return geometry.Offset(l.Center, l.Along, l.HalfSize)
}

// Span returns the width of the whole lane group.
func (l DirectionLayout) Span() float64 {
	if len(l.Lanes) == 0 {
		return 0
	}
	return float64(len(l.Lanes)) * l.Lanes[0].Width
}

// Point returns the canvas point at distance along the arm from the box
// edge and offset across it.
func (l DirectionLayout) Point(along, across float64) geometry.Point {
	return geometry.Offset(geometry.Offset(l.Boundary(), l.Along, along), l.Across, across)
}

// HalfSize returns the junction box half-size for the given lane count.
func HalfSize(maxLanes int, laneWidth float64) float64 {
	if maxLanes < 1 {
		maxLanes = 1
	}
	return float64(maxLanes) * laneWidth / 2
}

// LaneOffsets returns the across-axis offsets of a group of n lanes. They
// are symmetric about zero and increase with the lane index.
func LaneOffsets(n int, laneWidth float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = (float64(i) - float64(n)/2 + 0.5) * laneWidth
	}
	return out
}

// laneKinds returns the fixed stacking order: left-turn, transit, regular.
func laneKinds(cfg junction.DirectionConfig) []LaneKind {
	n := cfg.NumLanes
	if n < 0 {
		n = 0
	}
	kinds := make([]LaneKind, 0, n+2)
	if cfg.LeftTurnLane {
		kinds = append(kinds, LaneLeftTurn)
	}
	if cfg.TransitLane {
		kinds = append(kinds, LaneTransit)
	}
	for i := 0; i < n; i++ {
		kinds = append(kinds, LaneRegular)
	}
	return kinds
}

// PlanDirection lays out the lanes of one arm. maxLanes is the largest
// regular lane count of the junction and sizes the box shared by all arms.
func PlanDirection(dir junction.Direction, cfg junction.DirectionConfig, maxLanes int, opts Options) DirectionLayout {
	opts = opts.withDefaults()
	b, ok := bearings[dir]
	if !ok {
		return DirectionLayout{Direction: dir, Config: cfg}
	}

	l := DirectionLayout{
		Direction: dir,
		Config:    cfg,
		Axis:      b.axis,
		Label:     b.label,
		Center:    geometry.Point{X: opts.CanvasWidth / 2, Y: opts.CanvasHeight / 2},
		HalfSize:  HalfSize(maxLanes, opts.LaneWidth),
		Along:     b.along,
		Across:    b.across,
	}

	kinds := laneKinds(cfg)
	offsets := LaneOffsets(len(kinds), opts.LaneWidth)
	half := opts.LaneWidth / 2
	for i, kind := range kinds {
		start := l.Point(0, offsets[i])
		end := geometry.Offset(start, b.along, opts.RoadLength)
		l.Lanes = append(l.Lanes, Lane{
			Kind:   kind,
			Index:  i,
			Offset: offsets[i],
			Start:  start,
			End:    end,
			Rect: geometry.RectFromPoints(
				geometry.Offset(start, b.across, -half),
				geometry.Offset(end, b.across, half),
			),
			Width: opts.LaneWidth,
		})
	}
	return l
}

// PlanJunction plans all four arms in Directions order.
func PlanJunction(j *junction.JunctionConfig, opts Options) []DirectionLayout {
	if j == nil {
		return nil
	}
	maxLanes := j.MaxLanes()
	out := make([]DirectionLayout, 0, len(junction.Directions))
	for _, d := range junction.Directions {
		out = append(out, PlanDirection(d, j.Direction(d), maxLanes, opts))
	}
	return out
}

// CrossingStrips returns the zebra strips of a pedestrian crossing laid
// across the arm's lane group, CrossingDistance out from the box edge.
func CrossingStrips(l DirectionLayout, opts Options) []geometry.Rect {
	opts = opts.withDefaults()
	span := l.Span()
	pitch := opts.StripWidth + opts.StripSpacing
	sw := opts.StripWidth
	if pitch <= 0 || sw <= 0 || span <= 0 {
		return nil
	}
	count := int(math.Floor(span / pitch))

	strips := make([]geometry.Rect, 0, count)
	for k := 0; k < count; k++ {
		a := -span/2 + float64(k)*pitch
		strips = append(strips, geometry.RectFromPoints(
			l.Point(opts.CrossingDistance-sw/2, a),
			l.Point(opts.CrossingDistance+2.5*sw, a+sw),
		))
	}
	return strips
}
