package utils

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"white":   "#ffffff",
	"black":   "#000000",
	"red":     "#ff0000",
	"green":   "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
}

// GetRGBFromString parses a hex color ("#FF0000") or one of a handful of color names.
func GetRGBFromString(s string) (colorful.Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[key]; ok {
		key = hex
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// ColorFromUnit builds a color from channels in [0, 1]. Out of range channels are clamped.
func ColorFromUnit(r, g, b float64) colorful.Color {
	return colorful.Color{R: Clamp(r, 0, 1), G: Clamp(g, 0, 1), B: Clamp(b, 0, 1)}
}
