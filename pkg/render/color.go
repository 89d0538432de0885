// Package render paints composed junction scenes onto concrete surfaces:
// SVG documents, PNG images and terminal cell grids.
package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses "#rgb" or "#rrggbb".
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return c, nil
}

// toRGBA converts a hex colour to an opaque RGBA. Unparseable or empty
// colours become fallback.
func toRGBA(s string, fallback color.RGBA) color.RGBA {
	if s == "" {
		return fallback
	}
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}

// normalizeHex returns the colour as lowercase "#rrggbb", or "" if it
// cannot be parsed.
func normalizeHex(s string) string {
	if s == "" {
		return ""
	}
	c, err := ParseColor(s)
	if err != nil {
		return ""
	}
	return c.Clamped().Hex()
}
