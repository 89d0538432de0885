// Package junction provides the four-way junction data model and its
// consistency rules.
package junction

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Direction is a compass bearing of travel through the junction.
type Direction string

const (
	North Direction = "northbound"
	South Direction = "southbound"
	East  Direction = "eastbound"
	West  Direction = "westbound"
)

// Directions is the fixed iteration order used for validation reports and
// scene composition.
var Directions = []Direction{North, South, East, West}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	}
	return false
}

// Short returns the bare compass name ("north" for northbound).
func (d Direction) Short() string {
	return strings.TrimSuffix(string(d), "bound")
}

// Others returns the three directions other than d, in Directions order.
func (d Direction) Others() []Direction {
	out := make([]Direction, 0, 3)
	for _, o := range Directions {
		if o != d {
			out = append(out, o)
		}
	}
	return out
}

// ParseDirection accepts "northbound", "north", "n" and so on.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "northbound", "north", "n":
		return North, nil
	case "southbound", "south", "s":
		return South, nil
	case "eastbound", "east", "e":
		return East, nil
	case "westbound", "west", "w":
		return West, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// TransitType is the vehicle class a transit lane is reserved for.
type TransitType string

const (
	TransitNone    TransitType = ""
	TransitBus     TransitType = "bus"
	TransitBicycle TransitType = "bicycle"
)

// Valid reports whether t is a known transit type. The empty type is
// well-formed; whether it is acceptable depends on the lane being enabled.
func (t TransitType) Valid() bool {
	switch t {
	case TransitNone, TransitBus, TransitBicycle:
		return true
	}
	return false
}

// Label returns the road marking painted on a transit lane.
func (t TransitType) Label() string {
	if t == TransitBicycle {
		return "BIKE"
	}
	return "BUS"
}

// Limits on configuration values.
const (
	MinLanes              = 1
	MaxLanes              = 5
	MaxFlow               = 2000 // vph
	MaxPriority           = 4
	MinCrossingDuration   = 10 // seconds
	MaxCrossingDuration   = 60
	MaxCrossingDurationXL = 120 // extended UI variant
)

// DirectionFlow is the traffic entering from one direction and how it
// leaves the junction.
type DirectionFlow struct {
	Incoming int
	Exits    map[Direction]int
}

// ExitTotal returns the sum of all exit flows.
func (f DirectionFlow) ExitTotal() int {
	return lo.Sum(lo.Values(f.Exits))
}

// TrafficFlowConfig is a named traffic-flow profile.
type TrafficFlowConfig struct {
	ID    string
	Name  string
	Flows map[Direction]DirectionFlow
}

// NewTrafficFlowConfig creates a profile with zero flow everywhere and a
// fresh identifier.
func NewTrafficFlowConfig(name string) *TrafficFlowConfig {
	f := &TrafficFlowConfig{
		ID:    uuid.NewString(),
		Name:  name,
		Flows: make(map[Direction]DirectionFlow, len(Directions)),
	}
	for _, d := range Directions {
		exits := make(map[Direction]int, 3)
		for _, o := range d.Others() {
			exits[o] = 0
		}
		f.Flows[d] = DirectionFlow{Exits: exits}
	}
	return f
}

// SetFlow sets the incoming flow and exit split for a direction.
func (f *TrafficFlowConfig) SetFlow(d Direction, incoming int, exits map[Direction]int) {
	if f.Flows == nil {
		f.Flows = make(map[Direction]DirectionFlow)
	}
	cp := make(map[Direction]int, len(exits))
	for k, v := range exits {
		cp[k] = v
	}
	f.Flows[d] = DirectionFlow{Incoming: incoming, Exits: cp}
}

// DirectionConfig is the physical layout of one approach.
type DirectionConfig struct {
	NumLanes           int
	LeftTurnLane       bool
	TransitLane        bool
	TransitType        TransitType
	TransitFlowRate    int
	PedestrianCrossing bool
	CrossingDuration   int // seconds
	CrossingRequests   int // per hour
	Priority           int // 0 = no priority
}

// NewDirectionConfig returns the defaults a new approach starts with.
func NewDirectionConfig() DirectionConfig {
	return DirectionConfig{
		NumLanes:         1,
		CrossingDuration: MinCrossingDuration,
	}
}

// LaneCount returns the total number of lanes drawn for the approach,
// special lanes included.
func (c DirectionConfig) LaneCount() int {
	n := c.NumLanes
	if c.LeftTurnLane {
		n++
	}
	if c.TransitLane {
		n++
	}
	return n
}

// JunctionConfig is a named junction design bound to one traffic-flow
// profile by identifier.
type JunctionConfig struct {
	ID         string
	Name       string
	FlowID     string
	Directions map[Direction]DirectionConfig
}

// NewJunctionConfig creates a design with default approaches on all four
// directions.
func NewJunctionConfig(name, flowID string) *JunctionConfig {
	j := &JunctionConfig{
		ID:         uuid.NewString(),
		Name:       name,
		FlowID:     flowID,
		Directions: make(map[Direction]DirectionConfig, len(Directions)),
	}
	for _, d := range Directions {
		j.Directions[d] = NewDirectionConfig()
	}
	return j
}

// Direction returns the approach config for d. Missing approaches yield
// the defaults.
func (j *JunctionConfig) Direction(d Direction) DirectionConfig {
	if c, ok := j.Directions[d]; ok {
		return c
	}
	return NewDirectionConfig()
}

// Update applies fn to the approach config for d.
func (j *JunctionConfig) Update(d Direction, fn func(*DirectionConfig)) {
	if j.Directions == nil {
		j.Directions = make(map[Direction]DirectionConfig)
	}
	c := j.Direction(d)
	fn(&c)
	j.Directions[d] = c
}

// MaxLanes returns the largest regular lane count among the approaches,
// never less than 1. It sizes the junction box.
func (j *JunctionConfig) MaxLanes() int {
	max := 1
	for _, d := range Directions {
		if c, ok := j.Directions[d]; ok && c.NumLanes > max {
			max = c.NumLanes
		}
	}
	return max
}

// Clone returns a deep copy of the junction.
func (j *JunctionConfig) Clone() *JunctionConfig {
	cp := *j
	cp.Directions = make(map[Direction]DirectionConfig, len(j.Directions))
	for k, v := range j.Directions {
		cp.Directions[k] = v
	}
	return &cp
}

// String returns a one-line summary per approach.
func (j *JunctionConfig) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Junction: %s\n", j.Name))
	for _, d := range Directions {
		c := j.Direction(d)
		sb.WriteString(fmt.Sprintf("  %-10s lanes=%d left=%v transit=%v", d, c.NumLanes, c.LeftTurnLane, c.TransitLane))
		if c.TransitLane {
			sb.WriteString(fmt.Sprintf("(%s)", c.TransitType))
		}
		if c.PedestrianCrossing {
			sb.WriteString(fmt.Sprintf(" crossing=%ds", c.CrossingDuration))
		}
		sb.WriteString(fmt.Sprintf(" priority=%d\n", c.Priority))
	}
	return sb.String()
}
