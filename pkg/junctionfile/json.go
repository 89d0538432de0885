package junctionfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ha1tch/junction-toolkit/pkg/junction"
)

// ParseJSON parses a design from JSON.
func ParseJSON(data []byte) (*Design, error) {
	var fd fileDesign
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, jsonError(err)
	}
	return fd.toDesign()
}

// ToJSON converts a design to JSON.
func ToJSON(d *Design, pretty bool) ([]byte, error) {
	fd := fromDesign(d)
	if pretty {
		return json.MarshalIndent(fd, "", "  ")
	}
	return json.Marshal(fd)
}

// jsonError turns decoder errors into MalformedInput violations.
func jsonError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return junction.Malformed("document", fmt.Sprintf("invalid JSON at offset %d: %v", syntaxErr.Offset, syntaxErr))
	case errors.As(err, &typeErr):
		return malformedAt(typeErr.Field, fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value))
	}
	return fmt.Errorf("parse JSON: %w", err)
}

// malformedAt builds a MalformedInput violation from a dotted document
// path such as "junction.northbound.num_lanes".
func malformedAt(path, reason string) *junction.ValidationError {
	v := junction.Violation{
		Kind:   junction.MalformedInput,
		Field:  path,
		Rule:   junction.RuleType,
		Reason: reason,
	}
	parts := strings.Split(path, ".")
	for i, p := range parts {
		if d, err := junction.ParseDirection(p); err == nil && len(p) > 1 {
			v.Direction = d
			if i+1 < len(parts) {
				v.Field = strings.Join(parts[i+1:], ".")
			}
			break
		}
	}
	if v.Field == "" {
		v.Field = "document"
	}
	return &junction.ValidationError{Violations: []junction.Violation{v}}
}
