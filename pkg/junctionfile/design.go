// Package junctionfile reads and writes junction design documents.
//
// A design bundles a traffic-flow profile with the junction bound to it:
//
//	{
//	  "traffic_flow": {"name": "...", "flows": {"northbound": {"incoming_flow": 300, "exits": {...}}}},
//	  "junction": {"name": "...", "traffic_flow_config": "...", "northbound": {"num_lanes": 2, ...}}
//	}
//
// Fields left out of a document keep the constructor defaults of the
// junction package. Decode errors are reported as MalformedInput
// violations.
package junctionfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/ha1tch/junction-toolkit/pkg/junction"
)

// Design is a decoded design document.
type Design struct {
	Flow     *junction.TrafficFlowConfig
	Junction *junction.JunctionConfig
}

// NewDesign returns a design with default flow and junction, linked.
func NewDesign(name string) *Design {
	f := junction.NewTrafficFlowConfig(name + " flow")
	return &Design{Flow: f, Junction: junction.NewJunctionConfig(name, f.ID)}
}

// Validate runs the default validator over the design.
func (d *Design) Validate() *junction.ValidationResult {
	return junction.Validate(d.Flow, d.Junction)
}

// fileDesign is the on-disk representation of a design.
type fileDesign struct {
	TrafficFlow *fileFlow     `json:"traffic_flow" yaml:"traffic_flow"`
	Junction    *fileJunction `json:"junction" yaml:"junction"`
}

type fileFlow struct {
	ID    string                  `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string                  `json:"name" yaml:"name"`
	Flows map[string]*fileDirFlow `json:"flows" yaml:"flows"`
}

type fileDirFlow struct {
	Incoming *int          `json:"incoming_flow,omitempty" yaml:"incoming_flow,omitempty"`
	Exits    map[string]int `json:"exits,omitempty" yaml:"exits,omitempty"`
}

type fileJunction struct {
	ID                string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name              string         `json:"name" yaml:"name"`
	TrafficFlowConfig string         `json:"traffic_flow_config,omitempty" yaml:"traffic_flow_config,omitempty"`
	Northbound        *fileDirection `json:"northbound,omitempty" yaml:"northbound,omitempty"`
	Southbound        *fileDirection `json:"southbound,omitempty" yaml:"southbound,omitempty"`
	Eastbound         *fileDirection `json:"eastbound,omitempty" yaml:"eastbound,omitempty"`
	Westbound         *fileDirection `json:"westbound,omitempty" yaml:"westbound,omitempty"`
}

type fileDirection struct {
	NumLanes         *int    `json:"num_lanes,omitempty" yaml:"num_lanes,omitempty"`
	LeftTurnLane     *bool   `json:"enable_left_turn_lane,omitempty" yaml:"enable_left_turn_lane,omitempty"`
	TransitLane      *bool   `json:"enable_bus_cycle_lane,omitempty" yaml:"enable_bus_cycle_lane,omitempty"`
	TransitType      *string `json:"bus_cycle_lane_type,omitempty" yaml:"bus_cycle_lane_type,omitempty"`
	TransitFlowRate  *int    `json:"flow_rate,omitempty" yaml:"flow_rate,omitempty"`
	Crossing         *bool   `json:"pedestrian_crossing_enabled,omitempty" yaml:"pedestrian_crossing_enabled,omitempty"`
	CrossingDuration *int    `json:"pedestrian_crossing_duration,omitempty" yaml:"pedestrian_crossing_duration,omitempty"`
	CrossingRequests *int    `json:"pedestrian_crossing_requests_per_hour,omitempty" yaml:"pedestrian_crossing_requests_per_hour,omitempty"`
	Priority         *int    `json:"traffic_priority,omitempty" yaml:"traffic_priority,omitempty"`
}

func (fj *fileJunction) direction(d junction.Direction) **fileDirection {
	switch d {
	case junction.North:
		return &fj.Northbound
	case junction.South:
		return &fj.Southbound
	case junction.East:
		return &fj.Eastbound
	case junction.West:
		return &fj.Westbound
	}
	return nil
}

// parseKey maps a document key to a direction. Unknown keys are kept
// verbatim so validation can report them.
func parseKey(key string) junction.Direction {
	if d, err := junction.ParseDirection(key); err == nil {
		return d
	}
	return junction.Direction(key)
}

// duplicateKey reports two document keys naming the same direction, as
// "n" and "northbound" would.
func duplicateKey(field string, d junction.Direction, first, second string) error {
	err := junction.Malformed(field, fmt.Sprintf("keys %q and %q both name %s", first, second, d))
	err.Violations[0].Direction = d
	return err
}

func sortedStrings[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// toDesign converts a decoded document into model types.
func (fd *fileDesign) toDesign() (*Design, error) {
	if fd.TrafficFlow == nil {
		return nil, junction.Malformed("traffic_flow", "document has no traffic_flow section")
	}
	if fd.Junction == nil {
		return nil, junction.Malformed("junction", "document has no junction section")
	}

	ff := fd.TrafficFlow
	flow := junction.NewTrafficFlowConfig(ff.Name)
	if ff.ID != "" {
		flow.ID = ff.ID
	}
	seen := map[junction.Direction]string{}
	for _, key := range sortedStrings(ff.Flows) {
		d := parseKey(key)
		if prev, dup := seen[d]; dup {
			return nil, duplicateKey("traffic_flow.flows", d, prev, key)
		}
		seen[d] = key
		src := ff.Flows[key]
		if src == nil {
			continue
		}
		cur, ok := flow.Flows[d]
		if !ok {
			cur = junction.DirectionFlow{Exits: map[junction.Direction]int{}}
		}
		if src.Incoming != nil {
			cur.Incoming = *src.Incoming
		}
		if src.Exits != nil {
			cur.Exits = make(map[junction.Direction]int, len(src.Exits))
			exitKeys := map[junction.Direction]string{}
			for _, k := range sortedStrings(src.Exits) {
				to := parseKey(k)
				if prev, dup := exitKeys[to]; dup {
					return nil, duplicateKey(fmt.Sprintf("traffic_flow.flows.%s.exits", key), d, prev, k)
				}
				exitKeys[to] = k
				cur.Exits[to] = src.Exits[k]
			}
		}
		flow.Flows[d] = cur
	}

	fj := fd.Junction
	j := junction.NewJunctionConfig(fj.Name, flow.ID)
	if fj.ID != "" {
		j.ID = fj.ID
	}
	// The reference may be the profile id or, as older documents do, its
	// name. Anything else is kept so validation can flag it.
	if ref := strings.TrimSpace(fj.TrafficFlowConfig); ref != "" && ref != flow.ID && ref != flow.Name {
		j.FlowID = ref
	}
	for _, d := range junction.Directions {
		src := *fj.direction(d)
		if src == nil {
			continue
		}
		j.Update(d, func(c *junction.DirectionConfig) { src.apply(c) })
	}
	return &Design{Flow: flow, Junction: j}, nil
}

func (fd *fileDirection) apply(c *junction.DirectionConfig) {
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&c.NumLanes, fd.NumLanes)
	setBool(&c.LeftTurnLane, fd.LeftTurnLane)
	setBool(&c.TransitLane, fd.TransitLane)
	if fd.TransitType != nil {
		c.TransitType = junction.TransitType(strings.ToLower(strings.TrimSpace(*fd.TransitType)))
	}
	setInt(&c.TransitFlowRate, fd.TransitFlowRate)
	setBool(&c.PedestrianCrossing, fd.Crossing)
	setInt(&c.CrossingDuration, fd.CrossingDuration)
	setInt(&c.CrossingRequests, fd.CrossingRequests)
	setInt(&c.Priority, fd.Priority)
}

// fromDesign converts model types into the document form. Every field is
// written out.
func fromDesign(d *Design) *fileDesign {
	fd := &fileDesign{}
	if d.Flow != nil {
		ff := &fileFlow{ID: d.Flow.ID, Name: d.Flow.Name, Flows: map[string]*fileDirFlow{}}
		for dir, f := range d.Flow.Flows {
			exits := make(map[string]int, len(f.Exits))
			for k, v := range f.Exits {
				exits[string(k)] = v
			}
			ff.Flows[string(dir)] = &fileDirFlow{Incoming: lo.ToPtr(f.Incoming), Exits: exits}
		}
		fd.TrafficFlow = ff
	}
	if d.Junction != nil {
		fj := &fileJunction{ID: d.Junction.ID, Name: d.Junction.Name, TrafficFlowConfig: d.Junction.FlowID}
		for _, dir := range junction.Directions {
			c, ok := d.Junction.Directions[dir]
			if !ok {
				continue
			}
			*fj.direction(dir) = &fileDirection{
				NumLanes:         lo.ToPtr(c.NumLanes),
				LeftTurnLane:     lo.ToPtr(c.LeftTurnLane),
				TransitLane:      lo.ToPtr(c.TransitLane),
				TransitType:      lo.ToPtr(string(c.TransitType)),
				TransitFlowRate:  lo.ToPtr(c.TransitFlowRate),
				Crossing:         lo.ToPtr(c.PedestrianCrossing),
				CrossingDuration: lo.ToPtr(c.CrossingDuration),
				CrossingRequests: lo.ToPtr(c.CrossingRequests),
				Priority:         lo.ToPtr(c.Priority),
			}
		}
		fd.Junction = fj
	}
	return fd
}
