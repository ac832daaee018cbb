package ornament

import (
	"fmt"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// GemPalette is the jewel-tone palette sampled by the tree generator.
var GemPalette = mustPalette(
	"#e60000", // ruby
	"#00e600", // emerald
	"#0000e6", // sapphire
	"#e6e600", // topaz
	"#00e6e6", // aquamarine
	"#e600e6", // amethyst
	"#ffffff", // diamond
)

// OrnamentPalette is cycled by index across the ornament group.
var OrnamentPalette = mustPalette(
	"#F5F5F5", "#87CEEB", "#FFD700", "#800020", "#778899", "#FFB6C1", "#F7E7CE",
)

// ParseHexColor parses "#rrggbb" (or "#rgb") into an opaque Color.
func ParseHexColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// ParsePalette parses every entry of hex, failing on the first bad value.
func ParsePalette(hex []string) ([]Color, error) {
	out := make([]Color, len(hex))
	for i, h := range hex {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func mustPalette(hex ...string) []Color {
	p, err := ParsePalette(hex)
	if err != nil {
		panic("ornament: " + err.Error())
	}
	return p
}

// TwoToneColors assigns each of count particles a or b with equal
// probability.
func TwoToneColors(rng *rand.Rand, count int, a, b Color) []Color {
	if count < 0 {
		count = 0
	}
	out := make([]Color, count)
	for i := range out {
		if rng.Float64() > 0.5 {
			out[i] = a
		} else {
			out[i] = b
		}
	}
	return out
}

// Scaled multiplies the RGB channels by f, leaving alpha untouched.
func (c Color) Scaled(f float64) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}

// Clamped returns c with every channel limited to [0, 1].
func (c Color) Clamped() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// RGBA8 converts to 8-bit channels after clamping.
func (c Color) RGBA8() (r, g, b, a uint8) {
	cc := c.Clamped()
	return uint8(cc.R*255 + 0.5), uint8(cc.G*255 + 0.5), uint8(cc.B*255 + 0.5), uint8(cc.A*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
