package layout

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ha1tch/junction-toolkit/pkg/geometry"
	"github.com/ha1tch/junction-toolkit/pkg/junction"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLaneOffsetsSymmetric(t *testing.T) {
	for n := 1; n <= 7; n++ {
		offs := LaneOffsets(n, 50)
		sum := 0.0
		for i, o := range offs {
			sum += o
			if i > 0 && o <= offs[i-1] {
				t.Errorf("n=%d: offsets not increasing at %d: %v", n, i, offs)
			}
		}
		if !near(sum, 0) {
			t.Errorf("n=%d: expected offsets to sum to 0, got %v", n, sum)
		}
	}
	if got := LaneOffsets(1, 50); got[0] != 0 {
		t.Errorf("Single lane should be centred, got offset %v", got[0])
	}
}

// Scenario A: three lanes plus left-turn and transit on northbound.
func TestPlanDirectionLaneOrder(t *testing.T) {
	cfg := junction.NewDirectionConfig()
	cfg.NumLanes = 3
	cfg.LeftTurnLane = true
	cfg.TransitLane = true
	cfg.TransitType = junction.TransitBicycle

	l := PlanDirection(junction.North, cfg, 3, DefaultOptions())
	want := []LaneKind{LaneLeftTurn, LaneTransit, LaneRegular, LaneRegular, LaneRegular}
	if len(l.Lanes) != len(want) {
		t.Fatalf("Expected %d lanes, got %d", len(want), len(l.Lanes))
	}
	for i, k := range want {
		if l.Lanes[i].Kind != k {
			t.Errorf("lane %d: expected %s, got %s", i, k, l.Lanes[i].Kind)
		}
	}
	if l.HalfSize != 75 {
		t.Errorf("Expected half-size 75, got %v", l.HalfSize)
	}
	// Northbound offsets grow toward +x.
	if l.Lanes[0].Start.X != 300 || l.Lanes[4].Start.X != 500 {
		t.Errorf("Unexpected lane positions %v .. %v", l.Lanes[0].Start, l.Lanes[4].Start)
	}

	j := junction.NewJunctionConfig("A", "f")
	j.Directions[junction.North] = cfg
	sc := Compose(j, nil, DefaultOptions())
	labels := sc.WithPrefix("northbound-label-")
	if len(labels) != 1 {
		t.Fatalf("Expected one transit label, got %d", len(labels))
	}
	if labels[0].Text != "BIKE" || labels[0].Fill != DefaultPalette().BikeLabel {
		t.Errorf("Unexpected label %+v", labels[0])
	}
	if got := sc.WithPrefix("northbound-lane-1"); len(got) != 1 || got[0].Fill != DefaultPalette().Bicycle {
		t.Errorf("Transit lane should use the bicycle colour, got %+v", got)
	}
}

// Scenario B: one lane everywhere.
func TestPlanSingleLaneJunction(t *testing.T) {
	j := junction.NewJunctionConfig("B", "f")
	layouts := PlanJunction(j, DefaultOptions())
	if len(layouts) != 4 {
		t.Fatalf("Expected 4 layouts, got %d", len(layouts))
	}

	want := map[junction.Direction]geometry.Rect{
		junction.North: {X: 375, Y: 75, W: 50, H: 300},
		junction.South: {X: 375, Y: 425, W: 50, H: 300},
		junction.East:  {X: 425, Y: 375, W: 300, H: 50},
		junction.West:  {X: 75, Y: 375, W: 300, H: 50},
	}
	for _, l := range layouts {
		if l.HalfSize != 25 {
			t.Errorf("%s: expected half-size 25, got %v", l.Direction, l.HalfSize)
		}
		if len(l.Lanes) != 1 {
			t.Fatalf("%s: expected 1 lane, got %d", l.Direction, len(l.Lanes))
		}
		lane := l.Lanes[0]
		if lane.Offset != 0 {
			t.Errorf("%s: expected centred lane, got offset %v", l.Direction, lane.Offset)
		}
		if lane.Rect != want[l.Direction] {
			t.Errorf("%s: expected rect %+v, got %+v", l.Direction, want[l.Direction], lane.Rect)
		}
		c := lane.Rect.Center()
		if l.Axis == Vertical && c.X != 400 || l.Axis == Horizontal && c.Y != 400 {
			t.Errorf("%s: lane not centred on its axis: %v", l.Direction, c)
		}
	}
}

func TestOpposingArmsMirrorOffsets(t *testing.T) {
	cfg := junction.NewDirectionConfig()
	cfg.NumLanes = 2
	n := PlanDirection(junction.North, cfg, 2, DefaultOptions())
	s := PlanDirection(junction.South, cfg, 2, DefaultOptions())
	e := PlanDirection(junction.East, cfg, 2, DefaultOptions())
	w := PlanDirection(junction.West, cfg, 2, DefaultOptions())

	if n.Lanes[0].Start.X != 375 || s.Lanes[0].Start.X != 425 {
		t.Errorf("North/South lane 0 should mirror: %v %v", n.Lanes[0].Start, s.Lanes[0].Start)
	}
	if e.Lanes[0].Start.Y != 425 || w.Lanes[0].Start.Y != 375 {
		t.Errorf("East/West lane 0 should mirror: %v %v", e.Lanes[0].Start, w.Lanes[0].Start)
	}
}

func TestLaneRectsDoNotOverlap(t *testing.T) {
	cfg := junction.NewDirectionConfig()
	cfg.NumLanes = 4
	cfg.LeftTurnLane = true
	for _, d := range junction.Directions {
		l := PlanDirection(d, cfg, 4, DefaultOptions())
		for i := 1; i < len(l.Lanes); i++ {
			if a := geometry.Overlap(l.Lanes[i-1].Rect, l.Lanes[i].Rect); a != 0 {
				t.Errorf("%s: lanes %d and %d overlap by %v", d, i-1, i, a)
			}
		}
	}
}

func TestComposeNilJunction(t *testing.T) {
	sc := Compose(nil, nil, DefaultOptions())
	if !sc.Empty() {
		t.Errorf("Expected empty scene, got %d primitives", len(sc.Primitives))
	}
	if sc.Width != 800 || sc.Height != 800 {
		t.Errorf("Expected canvas 800x800, got %vx%v", sc.Width, sc.Height)
	}
}

func TestComposeDefaultJunction(t *testing.T) {
	sc := Compose(junction.NewJunctionConfig("d", "f"), nil, Options{})
	// background, 4 grass, 8 pavement, box + border, 4 lanes, 6 markings per lane
	if len(sc.Primitives) != 43 {
		t.Errorf("Expected 43 primitives, got %d", len(sc.Primitives))
	}
	if got := len(sc.WithPrefix("northbound-marking-")); got != 6 {
		t.Errorf("Expected 6 markings, got %d", got)
	}
	b := sc.Bounds()
	if b != (geometry.Rect{W: 800, H: 800}) {
		t.Errorf("Expected bounds to cover the canvas, got %+v", b)
	}
	grass := sc.WithPrefix("grass-top-left")
	if len(grass) != 1 || grass[0].W != 345 || grass[0].H != 345 {
		t.Errorf("Unexpected grass corner %+v", grass)
	}
}

func TestComposePainterOrder(t *testing.T) {
	j := junction.NewJunctionConfig("o", "f")
	j.Update(junction.East, func(c *junction.DirectionConfig) {
		c.LeftTurnLane = true
		c.PedestrianCrossing = true
	})
	opts := DefaultOptions()
	opts.Crossings = AllDirections()
	sc := Compose(j, nil, opts)

	rank := func(p Primitive) int {
		switch {
		case p.Name == "background":
			return 0
		case strings.HasPrefix(p.Name, "grass-"):
			return 1
		case strings.HasPrefix(p.Name, "pavement-"):
			return 2
		case strings.HasPrefix(p.Name, "junction-box"):
			return 3
		case strings.Contains(p.Name, "-lane-"):
			return 4
		case strings.Contains(p.Name, "-crossing-"):
			return 6
		}
		return 5
	}
	last := 0
	for i, p := range sc.Primitives {
		r := rank(p)
		if r < last {
			t.Fatalf("primitive %d (%s) painted out of order", i, p.Name)
		}
		last = r
	}
	if sc.Primitives[0].Name != "background" {
		t.Errorf("Expected background first, got %s", sc.Primitives[0].Name)
	}
}

func TestComposeDeterministic(t *testing.T) {
	j := junction.NewJunctionConfig("d", "f")
	j.Update(junction.West, func(c *junction.DirectionConfig) {
		c.NumLanes = 3
		c.TransitLane = true
		c.TransitType = junction.TransitBus
	})
	a := Compose(j, nil, DefaultOptions())
	b := Compose(j, nil, DefaultOptions())
	if !reflect.DeepEqual(a.Primitives, b.Primitives) {
		t.Error("Compose should be deterministic")
	}
}

func TestCrossingsOnlyWhenEnabled(t *testing.T) {
	j := junction.NewJunctionConfig("c", "f")
	j.Update(junction.North, func(c *junction.DirectionConfig) { c.PedestrianCrossing = true })

	if got := len(Compose(j, nil, DefaultOptions()).WithPrefix("northbound-crossing-")); got != 0 {
		t.Errorf("Crossings are off by default, got %d strips", got)
	}

	opts := DefaultOptions()
	opts.Crossings = NewDirectionSet(junction.North, junction.South)
	sc := Compose(j, nil, opts)
	strips := sc.WithPrefix("northbound-crossing-")
	if len(strips) != 3 {
		t.Fatalf("Expected 3 strips, got %d", len(strips))
	}
	// South is requested but its config has no crossing.
	if got := len(sc.WithPrefix("southbound-crossing-")); got != 0 {
		t.Errorf("Expected no southbound strips, got %d", got)
	}
	want := geometry.Rect{X: 375, Y: 330, W: 10, H: 30}
	if strips[0].Rect() != want {
		t.Errorf("Expected first strip %+v, got %+v", want, strips[0].Rect())
	}
}

func TestCrossingStripCount(t *testing.T) {
	cfg := junction.NewDirectionConfig()
	cfg.NumLanes = 2
	cfg.TransitLane = true
	l := PlanDirection(junction.West, cfg, 2, DefaultOptions())
	// span 150, pitch 15
	strips := CrossingStrips(l, DefaultOptions())
	if len(strips) != 10 {
		t.Fatalf("Expected 10 strips, got %d", len(strips))
	}
	for _, s := range strips {
		if s.W != 30 || s.H != 10 {
			t.Errorf("Westbound strips should be 30x10, got %+v", s)
		}
	}
}

func TestLeftTurnArrowPointsAtJunction(t *testing.T) {
	centre := geometry.Point{X: 400, Y: 400}
	for _, d := range junction.Directions {
		j := junction.NewJunctionConfig("a", "f")
		j.Update(d, func(c *junction.DirectionConfig) { c.LeftTurnLane = true })
		sc := Compose(j, nil, DefaultOptions())

		head := sc.WithPrefix(string(d) + "-arrow-0-head")
		shaft := sc.WithPrefix(string(d) + "-arrow-0-shaft")
		if len(head) != 1 || len(shaft) != 1 {
			t.Fatalf("%s: expected arrow head and shaft", d)
		}
		tip := shaft[0].Points[0]
		tail := shaft[0].Points[1]
		if tip != head[0].Points[1] {
			t.Errorf("%s: head and shaft should meet at the tip", d)
		}
		if tip.Sub(centre).Len() >= tail.Sub(centre).Len() {
			t.Errorf("%s: arrow should point toward the junction, tip %v tail %v", d, tip, tail)
		}
	}
}

func TestFlowLabels(t *testing.T) {
	f := junction.NewTrafficFlowConfig("f")
	f.SetFlow(junction.East, 420, map[junction.Direction]int{junction.West: 420})
	j := junction.NewJunctionConfig("j", f.ID)

	if got := len(Compose(j, f, DefaultOptions()).Filter(KindText)); got != 0 {
		t.Errorf("Flow labels are off by default, got %d", got)
	}
	opts := DefaultOptions()
	opts.FlowLabels = true
	labels := Compose(j, f, opts).WithPrefix("eastbound-flow")
	if len(labels) != 1 || labels[0].Text != "E 420 vph" {
		t.Errorf("Unexpected flow label %+v", labels)
	}
}

func TestWiderJunctionGrowsBox(t *testing.T) {
	j := junction.NewJunctionConfig("w", "f")
	j.Update(junction.South, func(c *junction.DirectionConfig) { c.NumLanes = 4 })
	sc := Compose(j, nil, DefaultOptions())
	box := sc.WithPrefix("junction-box")
	if len(box) != 2 {
		t.Fatalf("Expected box and border, got %d", len(box))
	}
	if box[0].W != 200 || box[0].X != 300 {
		t.Errorf("Expected 200px box at x=300, got %+v", box[0])
	}
	for _, l := range sc.Layouts {
		if l.HalfSize != 100 {
			t.Errorf("%s: arms must share the box half-size, got %v", l.Direction, l.HalfSize)
		}
	}
}

func TestComposeUnvalidatedLaneCounts(t *testing.T) {
	for _, n := range []int{-3, 0} {
		j := junction.NewJunctionConfig("bad", "f")
		j.Update(junction.North, func(c *junction.DirectionConfig) {
			c.NumLanes = n
			c.LeftTurnLane = true
		})
		sc := Compose(j, nil, DefaultOptions())
		if sc.Empty() {
			t.Errorf("NumLanes=%d: expected a scene", n)
		}
		ls := PlanJunction(j, DefaultOptions())
		if len(ls[0].Lanes) != 1 || ls[0].Lanes[0].Kind != LaneLeftTurn {
			t.Errorf("NumLanes=%d: expected only the left-turn lane, got %+v", n, ls[0].Lanes)
		}
	}
}

func TestCrossingStripsNonPositivePitch(t *testing.T) {
	l := PlanDirection(junction.North, junction.NewDirectionConfig(), 1, DefaultOptions())
	opts := DefaultOptions()
	opts.StripSpacing = -10
	if strips := CrossingStrips(l, opts); strips != nil {
		t.Errorf("Expected no strips for pitch 0, got %d", len(strips))
	}
	opts.StripSpacing = -20
	if strips := CrossingStrips(l, opts); strips != nil {
		t.Errorf("Expected no strips for negative pitch, got %d", len(strips))
	}
}

func TestSceneJSONKeepsZeroOrigin(t *testing.T) {
	sc := Compose(junction.NewJunctionConfig("d", "f"), nil, DefaultOptions())
	bg := sc.WithPrefix("background")
	if len(bg) != 1 {
		t.Fatalf("Expected one background, got %d", len(bg))
	}
	data, err := json.Marshal(bg[0])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"x":0,"y":0`) {
		t.Errorf("Expected zero origin in %s", data)
	}
}

func TestSmallCanvasGrassStaysOffRoad(t *testing.T) {
	j := junction.NewJunctionConfig("tight", "f")
	j.Update(junction.North, func(c *junction.DirectionConfig) { c.NumLanes = 5 })
	opts := DefaultOptions()
	opts.CanvasWidth, opts.CanvasHeight = 200, 200
	sc := Compose(j, nil, opts)

	canvas := geometry.Rect{W: 200, H: 200}
	road := append(sc.WithPrefix("junction-box"), sc.WithPrefix("northbound-lane-")...)
	road = append(road, sc.WithPrefix("southbound-lane-")...)
	grass := sc.WithPrefix("grass-")
	if len(grass) != 4 {
		t.Fatalf("Expected 4 grass corners, got %d", len(grass))
	}
	for _, g := range grass {
		r := g.Rect()
		if r.W < 0 || r.H < 0 {
			t.Errorf("%s: negative size %+v", g.Name, r)
		}
		if r.X < canvas.X || r.Y < canvas.Y || r.X+r.W > canvas.W || r.Y+r.H > canvas.H {
			t.Errorf("%s: outside the canvas %+v", g.Name, r)
		}
		for _, p := range road {
			if a := geometry.Overlap(r, p.Rect()); a > 0 {
				t.Errorf("%s covers %s by %v", g.Name, p.Name, a)
			}
		}
	}
	for _, p := range sc.WithPrefix("pavement-") {
		if r := p.Rect(); r.W < 0 || r.H < 0 {
			t.Errorf("%s: negative size %+v", p.Name, r)
		}
	}
}
