package junction

import "time"

// DirectionResult holds simulated metrics for one approach.
type DirectionResult struct {
	AverageWait    time.Duration `json:"average_wait"`
	MaxWait        time.Duration `json:"max_wait"`
	MaxQueueLength int           `json:"max_queue_length"` // vehicles
}

// SimulationResult is produced by a Simulator for a validated design.
type SimulationResult struct {
	Directions          map[Direction]DirectionResult `json:"directions"`
	EfficiencyScore     float64                       `json:"efficiency_score"`
	SustainabilityScore float64                       `json:"sustainability_score"`
}

// Simulator computes traffic metrics for a junction design. No model is
// implemented here; the toolkit only carries the results.
type Simulator interface {
	Simulate(flow *TrafficFlowConfig, j *JunctionConfig) (*SimulationResult, error)
}

// PlaceholderSimulator returns the fixed figures shown by the design tool
// until a real model is connected.
type PlaceholderSimulator struct{}

// Simulate returns the placeholder figures. Nil inputs are rejected.
func (PlaceholderSimulator) Simulate(flow *TrafficFlowConfig, j *JunctionConfig) (*SimulationResult, error) {
	if j == nil || flow == nil {
		return nil, ErrNoJunction
	}
	mmss := func(m, s int) time.Duration {
		return time.Duration(m)*time.Minute + time.Duration(s)*time.Second
	}
	return &SimulationResult{
		Directions: map[Direction]DirectionResult{
			North: {AverageWait: mmss(2, 50), MaxWait: mmss(4, 30), MaxQueueLength: 15},
			South: {AverageWait: mmss(2, 30), MaxWait: mmss(4, 0), MaxQueueLength: 12},
			East:  {AverageWait: mmss(2, 40), MaxWait: mmss(4, 15), MaxQueueLength: 13},
			West:  {AverageWait: mmss(2, 45), MaxWait: mmss(4, 20), MaxQueueLength: 14},
		},
		EfficiencyScore:     95,
		SustainabilityScore: 88,
	}, nil
}
