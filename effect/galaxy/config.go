// Package galaxy renders a rotating spiral starfield seen from above at an
// angle. The pointer tilts and turns the disc.
package galaxy

import (
	"math"

	"github.com/gogpu/ggfx"
)

// Name is the effect identifier.
const Name = "galaxy"

// StarsPerDensity is the star count at density 1.
const StarsPerDensity = 3000

// Valid ranges of the numeric parameters.
var (
	DensityRange       = ggfx.Range{Min: 0.1, Max: 4, Default: 1}
	GlowRange          = ggfx.Range{Min: 0, Max: 4, Default: 0.5}
	SaturationRange    = ggfx.Range{Min: 0, Max: 1, Default: 0.9}
	HueShiftRange      = ggfx.Range{Min: 0, Max: 360, Default: 240}
	StarSpeedRange     = ggfx.Range{Min: 0, Max: 10, Default: 0.5}
	RotationSpeedRange = ggfx.Range{Min: -5, Max: 5, Default: 0.1}
)

// Config is the galaxy configuration.
type Config struct {
	Density       float64
	Glow          float64
	Saturation    float64
	HueShift      float64 // degrees, wrapped into [0, 360)
	StarSpeed     float64
	RotationSpeed float64

	// PointerInteraction tilts the disc toward the smoothed pointer.
	PointerInteraction bool

	// Transparent clears to transparent instead of opaque black.
	Transparent bool

	// Seed makes the star layout reproducible.
	Seed uint64

	ClassName string
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Density:            DensityRange.Default,
		Glow:               GlowRange.Default,
		Saturation:         SaturationRange.Default,
		HueShift:           HueShiftRange.Default,
		StarSpeed:          StarSpeedRange.Default,
		RotationSpeed:      RotationSpeedRange.Default,
		PointerInteraction: true,
		Transparent:        true,
	}
}

// Name implements ggfx.Effect.
func (Config) Name() string { return Name }

// Class implements ggfx.Classer.
func (c Config) Class() string { return c.ClassName }

// Normalized clamps every numeric parameter. The hue shift wraps instead.
func (c Config) Normalized() Config {
	c.Density = DensityRange.Clamp(c.Density)
	c.Glow = GlowRange.Clamp(c.Glow)
	c.Saturation = SaturationRange.Clamp(c.Saturation)
	c.StarSpeed = StarSpeedRange.Clamp(c.StarSpeed)
	c.RotationSpeed = RotationSpeedRange.Clamp(c.RotationSpeed)
	if math.IsNaN(c.HueShift) || math.IsInf(c.HueShift, 0) {
		c.HueShift = HueShiftRange.Default
	}
	c.HueShift = math.Mod(c.HueShift, 360)
	if c.HueShift < 0 {
		c.HueShift += 360
	}
	return c
}

// Stars returns the number of stars generated for c.
func (c Config) Stars() int {
	return int(math.Round(StarsPerDensity * DensityRange.Clamp(c.Density)))
}

// Compile implements ggfx.Effect.
func (c Config) Compile(ggfx.Backend) (ggfx.Program, error) {
	return newProgram(c.Normalized()), nil
}
