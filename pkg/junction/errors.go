package junction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoJunction is returned when an operation needs a junction and none
// was supplied.
var ErrNoJunction = errors.New("no junction configuration available")

// Kind classifies a violation.
type Kind string

const (
	// MalformedInput: a value is outside its declared type or range, e.g. a
	// negative lane count. Reported before any domain rule runs.
	MalformedInput Kind = "malformed_input"
	// DomainViolation: well-typed input breaking a domain rule.
	DomainViolation Kind = "domain_violation"
)

// Rule names used in violations.
const (
	RuleType             = "type"
	RuleRequired         = "required"
	RuleRange            = "range"
	RuleFlowReference    = "flow_reference"
	RuleFlowConservation = "flow_conservation"
	RuleLaneCount        = "lane_count"
	RulePriorityUnique   = "priority_uniqueness"
	RuleLaneMerge        = "lane_merge"
	RuleCrossing         = "crossing_duration"
	RuleTransitType      = "transit_type"
)

// Violation describes one problem with a configuration. Direction is empty
// for junction-wide problems.
type Violation struct {
	Kind      Kind      `json:"kind"`
	Direction Direction `json:"direction,omitempty"`
	Field     string    `json:"field"`
	Rule      string    `json:"rule"`
	Reason    string    `json:"reason"`
}

func (v Violation) String() string {
	if v.Direction != "" {
		return fmt.Sprintf("%s.%s: %s", v.Direction, v.Field, v.Reason)
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Reason)
}

// ValidationError wraps every violation found in one validation pass.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// Has reports whether any violation matches the given kind and rule. An
// empty rule matches any rule of that kind.
func (e *ValidationError) Has(kind Kind, rule string) bool {
	for _, v := range e.Violations {
		if v.Kind == kind && (rule == "" || v.Rule == rule) {
			return true
		}
	}
	return false
}

// Malformed returns a ValidationError holding a single MalformedInput
// violation. Used by decoders that reject input before validation.
func Malformed(field, reason string) *ValidationError {
	return &ValidationError{Violations: []Violation{{
		Kind:   MalformedInput,
		Field:  field,
		Rule:   RuleType,
		Reason: reason,
	}}}
}
