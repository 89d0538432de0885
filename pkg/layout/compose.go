package layout

import (
	"fmt"
	"math"

	"github.com/ha1tch/junction-toolkit/pkg/geometry"
	"github.com/ha1tch/junction-toolkit/pkg/junction"
)

// Compose builds the scene for a junction in painter's order: background,
// grass, pavement, junction box, lanes, then markings, arrows and labels,
// and finally any enabled pedestrian crossings. A nil junction yields an
// empty scene. flow is optional and only feeds the flow labels.
//
// Compose is deterministic: the same inputs always produce the same
// primitive list.
func Compose(j *junction.JunctionConfig, flow *junction.TrafficFlowConfig, opts Options) Scene {
	opts = opts.withDefaults()
	sc := Scene{Width: opts.CanvasWidth, Height: opts.CanvasHeight}
	if j == nil {
		return sc
	}

	c := &composer{opts: opts, pal: opts.Palette}
	layouts := PlanJunction(j, opts)
	half := HalfSize(j.MaxLanes(), opts.LaneWidth)

	c.rect("background", geometry.Rect{W: opts.CanvasWidth, H: opts.CanvasHeight}, c.pal.Background, "", 0)
	c.grass(half)
	for _, l := range layouts {
		c.pavement(l)
	}
	c.box(half)
	for _, l := range layouts {
		c.lanes(l)
	}
	for _, l := range layouts {
		c.furniture(l)
	}
	if opts.FlowLabels && flow != nil {
		for _, l := range layouts {
			c.flowLabel(l, flow)
		}
	}
	for _, l := range layouts {
		if opts.Crossings.Has(l.Direction) && l.Config.PedestrianCrossing {
			c.crossing(l)
		}
	}

	sc.Primitives = c.out
	sc.Layouts = layouts
	return sc
}

type composer struct {
	opts Options
	pal  Palette
	out  []Primitive
}

func (c *composer) add(p Primitive) {
	c.out = append(c.out, p)
}

func (c *composer) rect(name string, r geometry.Rect, fill, stroke string, strokeWidth float64) {
	c.add(Primitive{
		Kind: KindRect, Name: name,
		X: r.X, Y: r.Y, W: r.W, H: r.H,
		Fill: fill, Stroke: stroke, StrokeWidth: strokeWidth,
	})
}

// edgeDistance is the distance from the box edge to the canvas edge along
// the arm.
func (c *composer) edgeDistance(l DirectionLayout) float64 {
	d := c.opts.CanvasWidth/2 - l.HalfSize
	if l.Axis == Vertical {
		d = c.opts.CanvasHeight/2 - l.HalfSize
	}
	return math.Max(d, 0)
}

// grass fills the four corners outside the box and its pavement margin.
// On a canvas too small for the margin the corners shrink to nothing.
func (c *composer) grass(half float64) {
	w, h := c.opts.CanvasWidth, c.opts.CanvasHeight
	cx, cy := w/2, h/2
	in := math.Min(half+c.opts.PavementWidth, math.Min(cx, cy))
	corners := []struct {
		name string
		a, b geometry.Point
	}{
		{"grass-top-left", geometry.Point{X: 0, Y: 0}, geometry.Point{X: cx - in, Y: cy - in}},
		{"grass-top-right", geometry.Point{X: cx + in, Y: 0}, geometry.Point{X: w, Y: cy - in}},
		{"grass-bottom-left", geometry.Point{X: 0, Y: cy + in}, geometry.Point{X: cx - in, Y: h}},
		{"grass-bottom-right", geometry.Point{X: cx + in, Y: cy + in}, geometry.Point{X: w, Y: h}},
	}
	for _, g := range corners {
		c.rect(g.name, geometry.RectFromPoints(g.a, g.b), c.pal.Grass, "", 0)
	}
}

// pavement borders both sides of an arm from the box edge to the canvas
// edge.
func (c *composer) pavement(l DirectionLayout) {
	dist := c.edgeDistance(l)
	pw := c.opts.PavementWidth
	h := l.HalfSize
	short := l.Direction.Short()
	c.rect(fmt.Sprintf("pavement-%s-1", short),
		geometry.RectFromPoints(l.Point(0, -h-pw), l.Point(dist, -h)), c.pal.Pavement, "", 0)
	c.rect(fmt.Sprintf("pavement-%s-2", short),
		geometry.RectFromPoints(l.Point(0, h), l.Point(dist, h+pw)), c.pal.Pavement, "", 0)
}

func (c *composer) box(half float64) {
	cx, cy := c.opts.CanvasWidth/2, c.opts.CanvasHeight/2
	r := geometry.Rect{X: cx - half, Y: cy - half, W: 2 * half, H: 2 * half}
	c.rect("junction-box", r, c.pal.Box, "", 0)
	tl, br := r.Min(), r.Max()
	c.add(Primitive{
		Kind: KindDashedLine,
		Name: "junction-box-border",
		Points: []geometry.Point{
			tl,
			{X: br.X, Y: tl.Y},
			br,
			{X: tl.X, Y: br.Y},
			tl,
		},
		Stroke:      c.pal.BoxBorder,
		StrokeWidth: 2,
		Dash:        c.opts.BoxDash,
	})
}

func (c *composer) laneFill(l DirectionLayout, lane Lane) string {
	switch lane.Kind {
	case LaneLeftTurn:
		return c.pal.LeftTurn
	case LaneTransit:
		if l.Config.TransitType == junction.TransitBus {
			return c.pal.Bus
		}
		return c.pal.Bicycle
	}
	return c.pal.Lane
}

func (c *composer) lanes(l DirectionLayout) {
	for _, lane := range l.Lanes {
		c.rect(fmt.Sprintf("%s-lane-%d", l.Direction, lane.Index), lane.Rect,
			c.laneFill(l, lane), c.pal.LaneEdge, 1)
	}
}

// furniture paints what sits on top of the lanes: centreline markings on
// regular lanes, the turn arrow on the left-turn lane and the transit tag.
func (c *composer) furniture(l DirectionLayout) {
	for _, lane := range l.Lanes {
		switch lane.Kind {
		case LaneRegular:
			c.markings(l, lane)
		case LaneLeftTurn:
			c.arrow(l, lane)
		case LaneTransit:
			c.transitLabel(l, lane)
		}
	}
}

func (c *composer) markings(l DirectionLayout, lane Lane) {
	count := int(math.Floor(c.opts.RoadLength / c.opts.MarkingSpacing))
	for i := 1; i < count; i++ {
		d := float64(i) * c.opts.MarkingSpacing
		c.add(Primitive{
			Kind: KindDashedLine,
			Name: fmt.Sprintf("%s-marking-%d-%d", l.Direction, lane.Index, i),
			Points: []geometry.Point{
				l.Point(d, lane.Offset),
				l.Point(d+c.opts.MarkingLength, lane.Offset),
			},
			Stroke:      c.pal.Marking,
			StrokeWidth: c.opts.MarkingWidth,
			Dash:        c.opts.MarkingDash,
		})
	}
}

// arrow draws a chevron and shaft whose tip points toward the junction.
func (c *composer) arrow(l DirectionLayout, lane Lane) {
	s := c.opts.ArrowSize
	anchor := l.Point(c.opts.ArrowDistance, lane.Offset)
	angle := geometry.Angle(l.Along.Scale(-1))
	place := func(pts ...geometry.Point) []geometry.Point {
		out := make([]geometry.Point, len(pts))
		for i, p := range pts {
			out[i] = geometry.Rotate(p, angle).Add(anchor)
		}
		return out
	}
	c.add(Primitive{
		Kind:        KindPolyline,
		Name:        fmt.Sprintf("%s-arrow-%d-head", l.Direction, lane.Index),
		Points:      place(geometry.Point{X: -s, Y: -s}, geometry.Point{}, geometry.Point{X: -s, Y: s}),
		Stroke:      c.pal.Marking,
		StrokeWidth: c.opts.MarkingWidth,
	})
	c.add(Primitive{
		Kind:        KindPolyline,
		Name:        fmt.Sprintf("%s-arrow-%d-shaft", l.Direction, lane.Index),
		Points:      place(geometry.Point{}, geometry.Point{X: -2.5 * s}),
		Stroke:      c.pal.Marking,
		StrokeWidth: c.opts.MarkingWidth,
	})
}

func (c *composer) transitLabel(l DirectionLayout, lane Lane) {
	fill := c.pal.BusLabel
	if l.Config.TransitType == junction.TransitBicycle {
		fill = c.pal.BikeLabel
	}
	p := l.Point(c.opts.LabelDistance, lane.Offset)
	c.add(Primitive{
		Kind:     KindText,
		Name:     fmt.Sprintf("%s-label-%d", l.Direction, lane.Index),
		X:        p.X,
		Y:        p.Y,
		Text:     l.Config.TransitType.Label(),
		Fill:     fill,
		FontSize: c.opts.LabelSize,
		Bold:     true,
	})
}

// flowLabel prints the incoming flow past the outer end of the arm.
func (c *composer) flowLabel(l DirectionLayout, flow *junction.TrafficFlowConfig) {
	f, ok := flow.Flows[l.Direction]
	if !ok {
		return
	}
	p := l.Point((c.edgeDistance(l)+c.opts.RoadLength)/2, 0)
	c.add(Primitive{
		Kind:     KindText,
		Name:     fmt.Sprintf("%s-flow", l.Direction),
		X:        p.X,
		Y:        p.Y,
		Text:     fmt.Sprintf("%s %d vph", l.Label, f.Incoming),
		Fill:     c.pal.FlowLabel,
		FontSize: c.opts.LabelSize,
	})
}

func (c *composer) crossing(l DirectionLayout) {
	for i, r := range CrossingStrips(l, c.opts) {
		c.rect(fmt.Sprintf("%s-crossing-%d", l.Direction, i), r, c.pal.Marking, "", 0)
	}
}
