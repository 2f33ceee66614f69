// Package lightrays renders volumetric light rays radiating from an edge
// anchor of the surface, optionally bending toward the pointer.
package lightrays

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
)

// Name is the effect identifier.
const Name = "lightrays"

// Valid ranges of the numeric parameters. Out-of-range values are clamped,
// non-finite values fall back to the default.
var (
	SpeedRange            = ggfx.Range{Min: 0.01, Max: 10, Default: 1}
	SpreadRange           = ggfx.Range{Min: 0.001, Max: 10, Default: 1}
	RayLengthRange        = ggfx.Range{Min: 0.1, Max: 10, Default: 2}
	FadeDistanceRange     = ggfx.Range{Min: 0.01, Max: 10, Default: 1}
	SaturationRange       = ggfx.Range{Min: 0, Max: 2, Default: 1}
	PointerInfluenceRange = ggfx.Range{Min: 0, Max: 1, Default: 0.1}
	NoiseRange            = ggfx.Range{Min: 0, Max: 1, Default: 0}
	DistortionRange       = ggfx.Range{Min: 0, Max: 1, Default: 0}
)

// DefaultColor is used when Color is empty or malformed.
const DefaultColor = "#ffffff"

// Config is the light rays configuration.
type Config struct {
	// Origin is the edge anchor. OriginNone means top-center.
	Origin ggfx.Origin

	// Color is the ray colour as "#rgb" or "#rrggbb".
	Color string

	Speed            float64
	Spread           float64
	RayLength        float64
	FadeDistance     float64
	Saturation       float64
	PointerInfluence float64
	Noise            float64
	Distortion       float64

	// Pulsating modulates ray intensity over time.
	Pulsating bool

	// FollowPointer bends the rays toward the smoothed pointer.
	FollowPointer bool

	// ClassName is the host-side styling hook.
	ClassName string
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Origin:           ggfx.OriginTopCenter,
		Color:            DefaultColor,
		Speed:            SpeedRange.Default,
		Spread:           SpreadRange.Default,
		RayLength:        RayLengthRange.Default,
		FadeDistance:     FadeDistanceRange.Default,
		Saturation:       SaturationRange.Default,
		PointerInfluence: PointerInfluenceRange.Default,
		Noise:            NoiseRange.Default,
		Distortion:       DistortionRange.Default,
		FollowPointer:    true,
	}
}

// Name implements ggfx.Effect.
func (Config) Name() string { return Name }

// Class implements ggfx.Classer.
func (c Config) Class() string { return c.ClassName }

// Normalized returns c with every numeric parameter clamped to its range.
func (c Config) Normalized() Config {
	c.Speed = SpeedRange.Clamp(c.Speed)
	c.Spread = SpreadRange.Clamp(c.Spread)
	c.RayLength = RayLengthRange.Clamp(c.RayLength)
	c.FadeDistance = FadeDistanceRange.Clamp(c.FadeDistance)
	c.Saturation = SaturationRange.Clamp(c.Saturation)
	c.PointerInfluence = PointerInfluenceRange.Clamp(c.PointerInfluence)
	c.Noise = NoiseRange.Clamp(c.Noise)
	c.Distortion = DistortionRange.Clamp(c.Distortion)
	if c.Origin == ggfx.OriginNone || c.Origin > ggfx.OriginBottomRight {
		c.Origin = ggfx.OriginTopCenter
	}
	return c
}

// RGB returns the parsed colour, white when malformed.
func (c Config) RGB() gg.RGBA {
	return ggfx.HexOr(c.Color, gg.White)
}

// Compile implements ggfx.Effect.
func (c Config) Compile(ggfx.Backend) (ggfx.Program, error) {
	return newProgram(c.Normalized()), nil
}
