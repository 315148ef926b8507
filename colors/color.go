package colors

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Color4 is an RGBA color with float64 components in [0,1].
type Color4 struct {
	R, G, B, A float64
}

func New(r, g, b, a float64) Color4 {
	return Color4{R: r, G: g, B: b, A: a}
}

func From8BitRgb(r, g, b, a byte) Color4 {
	return Color4{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
		A: float64(a) / 255.0,
	}
}

// ParseHex parses "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseHex(s string) (Color4, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color4{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color4{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return From8BitRgb(byte(v>>24), byte(v>>16), byte(v>>8), byte(v)), nil
}

// Hex formats c as "#rrggbbaa".
func (c Color4) Hex() string {
	n := c.ToNRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

func (c Color4) BoostSaturation(factor float64) Color4 {
	avg := (c.R + c.G + c.B) / 3
	return Color4{
		R: avg + (c.R-avg)*factor,
		G: avg + (c.G-avg)*factor,
		B: avg + (c.B-avg)*factor,
		A: c.A,
	}
}

// Clamp01 clamps each component into [0,1].
func (c Color4) Clamp01() Color4 {
	return Color4{
		R: clamp01(c.R),
		G: clamp01(c.G),
		B: clamp01(c.B),
		A: clamp01(c.A),
	}
}

// ToNRGBA returns c as 8-bit non-premultiplied components.
func (c Color4) ToNRGBA() color.NRGBA {
	return color.NRGBA{
		to8bit(c.R),
		to8bit(c.G),
		to8bit(c.B),
		to8bit(c.A),
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func to8bit(x float64) uint8 {
	return uint8(math.Round(255.0 * clamp01(x)))
}
