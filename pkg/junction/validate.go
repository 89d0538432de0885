package junction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ValidatorOptions configures validation bounds.
type ValidatorOptions struct {
	MaxCrossingDuration int // 60 for the standard form, 120 for the extended one
	ExitTolerance       int // allowed |sum(exits) - incoming| in vph
}

// DefaultValidatorOptions returns the bounds of the standard design form.
func DefaultValidatorOptions() ValidatorOptions {
	return ValidatorOptions{
		MaxCrossingDuration: MaxCrossingDuration,
		ExitTolerance:       1,
	}
}

// Validator checks junction designs against their traffic-flow profile.
type Validator struct {
	opts ValidatorOptions
}

// NewValidator creates a Validator. Zero option fields take defaults.
func NewValidator(opts ValidatorOptions) *Validator {
	if opts.MaxCrossingDuration == 0 {
		opts.MaxCrossingDuration = MaxCrossingDuration
	}
	if opts.ExitTolerance < 0 {
		opts.ExitTolerance = 0
	}
	return &Validator{opts: opts}
}

// ValidationResult is the outcome of one validation pass.
type ValidationResult struct {
	Junction   *JunctionConfig
	Flow       *TrafficFlowConfig
	Violations []Violation
}

// OK reports whether the configuration was accepted.
func (r *ValidationResult) OK() bool {
	return len(r.Violations) == 0
}

// Err returns nil when accepted, otherwise a *ValidationError.
func (r *ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Violations: r.Violations}
}

// Validate checks flow and junction with the default options.
func Validate(flow *TrafficFlowConfig, j *JunctionConfig) *ValidationResult {
	return NewValidator(DefaultValidatorOptions()).Validate(flow, j)
}

// Validate runs the malformed-input checks and, if they all pass, the
// domain rules. Every violation of the failing phase is reported.
func (v *Validator) Validate(flow *TrafficFlowConfig, j *JunctionConfig) *ValidationResult {
	res := &ValidationResult{Junction: j, Flow: flow}

	c := &collector{}
	if flow == nil {
		c.malformed("", "traffic_flow", RuleRequired, "traffic flow configuration is missing")
	} else {
		checkFlowShape(c, flow)
	}
	if j == nil {
		c.malformed("", "junction", RuleRequired, "junction configuration is missing")
	} else {
		checkJunctionShape(c, j)
	}
	if len(c.out) > 0 {
		res.Violations = c.out
		return res
	}

	v.checkNames(c, flow, j)
	v.checkFlows(c, flow)
	v.checkDirections(c, j)
	checkPriorities(c, j)
	checkLaneMerge(c, flow, j)

	res.Violations = c.out
	return res
}

type collector struct {
	out []Violation
}

func (c *collector) malformed(d Direction, field, rule, reason string) {
	c.out = append(c.out, Violation{Kind: MalformedInput, Direction: d, Field: field, Rule: rule, Reason: reason})
}

func (c *collector) domain(d Direction, field, rule, reason string) {
	c.out = append(c.out, Violation{Kind: DomainViolation, Direction: d, Field: field, Rule: rule, Reason: reason})
}

func sortedKeys[V any](m map[Direction]V) []Direction {
	keys := lo.Keys(m)
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })
	return keys
}

func checkFlowShape(c *collector, flow *TrafficFlowConfig) {
	for _, d := range sortedKeys(flow.Flows) {
		if !d.Valid() {
			c.malformed(d, "flows", RuleType, fmt.Sprintf("unknown direction %q", d))
		}
	}
	for _, d := range Directions {
		f, ok := flow.Flows[d]
		if !ok {
			c.malformed(d, "flows", RuleRequired, "no traffic flow given for this direction")
			continue
		}
		if f.Incoming < 0 {
			c.malformed(d, "incoming_flow", RuleType, fmt.Sprintf("incoming flow %d vph is negative", f.Incoming))
		}
		for _, to := range sortedKeys(f.Exits) {
			switch {
			case to == d:
				c.malformed(d, "exits", RuleType, "exit flow cannot return to its own direction")
			case !to.Valid():
				c.malformed(d, "exits", RuleType, fmt.Sprintf("unknown exit direction %q", to))
			case f.Exits[to] < 0:
				c.malformed(d, "exits."+string(to), RuleType, fmt.Sprintf("exit flow %d vph is negative", f.Exits[to]))
			}
		}
	}
}

func checkJunctionShape(c *collector, j *JunctionConfig) {
	for _, d := range sortedKeys(j.Directions) {
		if !d.Valid() {
			c.malformed(d, "directions", RuleType, fmt.Sprintf("unknown direction %q", d))
		}
	}
	for _, d := range Directions {
		cfg, ok := j.Directions[d]
		if !ok {
			c.malformed(d, "directions", RuleRequired, "no road configuration given for this direction")
			continue
		}
		// Crossing fields are only meaningful when the crossing is enabled,
		// so their bounds are domain rules.
		negatives := []struct {
			field string
			value int
		}{
			{"num_lanes", cfg.NumLanes},
			{"flow_rate", cfg.TransitFlowRate},
			{"traffic_priority", cfg.Priority},
		}
		for _, n := range negatives {
			if n.value < 0 {
				c.malformed(d, n.field, RuleType, fmt.Sprintf("value %d is negative", n.value))
			}
		}
		if !cfg.TransitType.Valid() {
			c.malformed(d, "bus_cycle_lane_type", RuleType, fmt.Sprintf("unknown transit type %q", cfg.TransitType))
		}
	}
}

func (v *Validator) checkNames(c *collector, flow *TrafficFlowConfig, j *JunctionConfig) {
	if strings.TrimSpace(flow.Name) == "" {
		c.domain("", "traffic_flow.name", RuleRequired, "traffic configuration name must be a non-empty string")
	}
	if strings.TrimSpace(j.Name) == "" {
		c.domain("", "junction.name", RuleRequired, "junction name is required")
	}
	if j.FlowID != flow.ID {
		c.domain("", "traffic_flow_config", RuleFlowReference,
			fmt.Sprintf("junction references traffic flow %q, got %q", j.FlowID, flow.ID))
	}
}

func (v *Validator) checkFlows(c *collector, flow *TrafficFlowConfig) {
	for _, d := range Directions {
		f := flow.Flows[d]
		if f.Incoming > MaxFlow {
			c.domain(d, "incoming_flow", RuleRange,
				fmt.Sprintf("traffic flow must be between 0 and %d vph, got %d", MaxFlow, f.Incoming))
		}
		total := f.ExitTotal()
		diff := total - f.Incoming
		if diff < 0 {
			diff = -diff
		}
		if diff > v.opts.ExitTolerance {
			c.domain(d, "exits", RuleFlowConservation,
				fmt.Sprintf("total exit flow (%d vph) does not match incoming flow (%d vph)", total, f.Incoming))
		}
	}
}

func (v *Validator) checkDirections(c *collector, j *JunctionConfig) {
	for _, d := range Directions {
		cfg := j.Directions[d]
		if cfg.NumLanes < MinLanes || cfg.NumLanes > MaxLanes {
			c.domain(d, "num_lanes", RuleLaneCount,
				fmt.Sprintf("number of lanes must be between %d and %d, got %d", MinLanes, MaxLanes, cfg.NumLanes))
		}
		if cfg.Priority > MaxPriority {
			c.domain(d, "traffic_priority", RuleRange,
				fmt.Sprintf("priority must be between 0 and %d, got %d", MaxPriority, cfg.Priority))
		}
		if cfg.TransitLane {
			if cfg.TransitType == TransitNone {
				c.domain(d, "bus_cycle_lane_type", RuleTransitType, "transit lane needs a type (bus or bicycle)")
			}
			if cfg.TransitFlowRate > MaxFlow {
				c.domain(d, "flow_rate", RuleRange,
					fmt.Sprintf("transit flow must be between 0 and %d vph, got %d", MaxFlow, cfg.TransitFlowRate))
			}
		}
		if cfg.PedestrianCrossing {
			if cfg.CrossingDuration < MinCrossingDuration || cfg.CrossingDuration > v.opts.MaxCrossingDuration {
				c.domain(d, "pedestrian_crossing_duration", RuleCrossing,
					fmt.Sprintf("crossing duration must be between %d and %d seconds, got %d",
						MinCrossingDuration, v.opts.MaxCrossingDuration, cfg.CrossingDuration))
			}
			if cfg.CrossingRequests < 0 {
				c.domain(d, "pedestrian_crossing_requests_per_hour", RuleCrossing, "crossing requests per hour cannot be negative")
			}
		}
	}
}

// checkPriorities reports every direction sharing a non-zero priority.
func checkPriorities(c *collector, j *JunctionConfig) {
	nonZero := lo.FilterMap(Directions, func(d Direction, _ int) (int, bool) {
		p := j.Directions[d].Priority
		return p, p != 0
	})
	dups := lo.FindDuplicates(nonZero)
	if len(dups) == 0 {
		return
	}
	for _, d := range Directions {
		p := j.Directions[d].Priority
		if lo.Contains(dups, p) {
			c.domain(d, "traffic_priority", RulePriorityUnique,
				fmt.Sprintf("each direction must have a unique priority level (except for 0); %d is shared", p))
		}
	}
}

// checkLaneMerge enforces that no departure arm is wider than the widest
// approach feeding it. The arm on bearing d is fed by every other direction
// with a positive exit flow toward d.
func checkLaneMerge(c *collector, flow *TrafficFlowConfig, j *JunctionConfig) {
	for _, d := range Directions {
		feeders := lo.Filter(d.Others(), func(e Direction, _ int) bool {
			return flow.Flows[e].Exits[d] > 0
		})
		if len(feeders) == 0 {
			continue
		}
		widest := lo.Max(lo.Map(feeders, func(e Direction, _ int) int {
			return j.Directions[e].NumLanes
		}))
		if lanes := j.Directions[d].NumLanes; lanes > widest {
			c.domain(d, "num_lanes", RuleLaneMerge,
				fmt.Sprintf("%d exit lanes exceed the %d lanes of the widest approach feeding them", lanes, widest))
		}
	}
}
