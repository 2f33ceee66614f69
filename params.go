package ggfx

import (
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// Range is the valid interval of a numeric effect parameter together with
// the value used when the input is not a finite number.
type Range struct {
	Min, Max, Default float64
}

// Clamp limits v to the range. NaN and infinities yield the default.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return r.Default
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

// ClampInt limits n to the range, rounding the bounds toward the interior.
func (r Range) ClampInt(n int) int {
	lo, hi := int(math.Ceil(r.Min)), int(math.Floor(r.Max))
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// ParseHex parses "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (gg.RGBA, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return gg.RGBA{}, false
	}
	if s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return gg.RGBA{}, false
	}
	return gg.RGB(c.R, c.G, c.B), true
}

// HexOr parses s with ParseHex, returning fallback when it is malformed.
func HexOr(s string, fallback gg.RGBA) gg.RGBA {
	if c, ok := ParseHex(s); ok {
		return c
	}
	return fallback
}
