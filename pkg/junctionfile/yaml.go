package junctionfile

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/junction-toolkit/pkg/junction"
)

// ParseYAML parses a design from YAML.
func ParseYAML(data []byte) (*Design, error) {
	var fd fileDesign
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return nil, yamlError(err)
	}
	return fd.toDesign()
}

// ToYAML converts a design to YAML.
func ToYAML(d *Design) ([]byte, error) {
	return yaml.Marshal(fromDesign(d))
}

// yamlError turns decoder errors into MalformedInput violations. yaml.v3
// keeps decoding past type mismatches, so every one is reported.
func yamlError(err error) error {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		ve := &junction.ValidationError{}
		for _, msg := range typeErr.Errors {
			ve.Violations = append(ve.Violations, junction.Violation{
				Kind:   junction.MalformedInput,
				Field:  "document",
				Rule:   junction.RuleType,
				Reason: msg,
			})
		}
		return ve
	}
	return junction.Malformed("document", fmt.Sprintf("invalid YAML: %v", err))
}
