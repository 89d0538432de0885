package junctionfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a design, choosing the codec from the file extension:
// .json, .yaml/.yml or .jct (archive).
func Load(path string) (*Design, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".jct" {
		return ReadArchiveFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unknown file format: %s", ext)
	}
}

// Save writes a design in the format implied by the file extension.
func Save(path string, d *Design, pretty bool) error {
	var data []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = ToJSON(d, pretty)
	case ".yaml", ".yml":
		data, err = ToYAML(d)
	case ".jct":
		return WriteArchiveFile(path, d, nil)
	default:
		return fmt.Errorf("unknown file format: %s", ext)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
