// Package threads renders a bundle of drifting sine threads that can be
// pulled toward the pointer.
package threads

import (
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
)

// Name is the effect identifier.
const Name = "threads"

// Valid ranges of the numeric parameters.
var (
	AmplitudeRange = ggfx.Range{Min: 0, Max: 4, Default: 1}
	DistanceRange  = ggfx.Range{Min: 0, Max: 1, Default: 0}
	LineCountRange = ggfx.Range{Min: 1, Max: 128, Default: 40}
)

// DefaultColor is the thread colour when Color is empty or malformed.
const DefaultColor = "#ffffff"

// segments is the number of line segments per thread.
const segments = 96

// Config is the threads configuration.
type Config struct {
	Color string

	// Amplitude scales the wave height.
	Amplitude float64

	// Distance spreads the threads apart vertically.
	Distance float64

	// LineCount is the number of threads.
	LineCount int

	// FollowPointer pulls the threads toward the smoothed pointer.
	FollowPointer bool

	ClassName string
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Color:     DefaultColor,
		Amplitude: AmplitudeRange.Default,
		Distance:  DistanceRange.Default,
		LineCount: int(LineCountRange.Default),
	}
}

// Name implements ggfx.Effect.
func (Config) Name() string { return Name }

// Class implements ggfx.Classer.
func (c Config) Class() string { return c.ClassName }

// Normalized clamps every numeric parameter.
func (c Config) Normalized() Config {
	c.Amplitude = AmplitudeRange.Clamp(c.Amplitude)
	c.Distance = DistanceRange.Clamp(c.Distance)
	c.LineCount = LineCountRange.ClampInt(c.LineCount)
	return c
}

// Compile implements ggfx.Effect.
func (c Config) Compile(ggfx.Backend) (ggfx.Program, error) {
	return &Program{cfg: c.Normalized(), color: ggfx.HexOr(c.Color, gg.White), pointer: ggfx.Vec2{X: 0.5, Y: 0.5}}, nil
}

// Program draws the threads.
type Program struct {
	cfg   Config
	color gg.RGBA

	width, height int
	time          float64
	pointer       ggfx.Vec2
}

// Requires implements ggfx.Program.
func (*Program) Requires() ggfx.Feature { return ggfx.FeaturePaths | ggfx.FeatureAlpha }

// FollowsPointer implements ggfx.PointerFollower.
func (p *Program) FollowsPointer() bool { return p.cfg.FollowPointer }

// Resize implements ggfx.Program.
func (p *Program) Resize(width, height int) { p.width, p.height = width, height }

// Update implements ggfx.Program.
func (p *Program) Update(f ggfx.Frame) {
	p.time = f.Time
	if p.cfg.FollowPointer {
		p.pointer = f.Pointer
	}
}

// Y returns the vertical position in pixels of thread i at horizontal
// position x (pixels).
func (p *Program) Y(i int, x float64) float64 {
	w, h := float64(p.width), float64(p.height)
	n := p.cfg.LineCount
	t := 0.5
	if n > 1 {
		t = float64(i) / float64(n-1)
	}
	u := x / w

	base := h/2 + (t-0.5)*h*0.1*(1+p.cfg.Distance*6)
	envelope := math.Sin(math.Pi * u)
	amp := p.cfg.Amplitude * h * 0.08 * (0.3 + 0.7*t)
	wave := math.Sin(u*2*math.Pi*1.5+p.time*(0.4+0.6*t)+float64(i)*0.15) +
		0.5*math.Sin(u*2*math.Pi*3.1-p.time*0.7+float64(i)*0.3)
	y := base + amp*wave*envelope

	if p.cfg.FollowPointer {
		dx := u - p.pointer.X
		pull := math.Exp(-dx * dx / 0.02)
		y += (p.pointer.Y*h - y) * 0.35 * pull * envelope
	}
	return y
}

// Draw clears the surface and strokes every thread.
func (p *Program) Draw(s ggfx.Surface) error {
	dc := s.Context()
	if dc == nil {
		return ggfx.ErrClosed
	}
	dc.Clear()
	if p.width == 0 || p.height == 0 {
		return nil
	}

	w := float64(p.width)
	n := p.cfg.LineCount
	dc.SetLineWidth(math.Max(1, float64(p.height)/400))
	for i := 0; i < n; i++ {
		alpha := 1.0
		if n > 1 {
			alpha = 1 - 0.8*float64(i)/float64(n-1)
		}
		dc.SetRGBA(p.color.R, p.color.G, p.color.B, alpha)
		dc.MoveTo(0, p.Y(i, 0))
		for k := 1; k <= segments; k++ {
			x := w * float64(k) / segments
			dc.LineTo(x, p.Y(i, x))
		}
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

// Tune applies any threads configuration in place unless pointer
// following or the class changes.
func (p *Program) Tune(e ggfx.Effect) bool {
	next, ok := e.(Config)
	if !ok || next.FollowPointer != p.cfg.FollowPointer || next.ClassName != p.cfg.ClassName {
		return false
	}
	p.cfg = next.Normalized()
	p.color = ggfx.HexOr(next.Color, gg.White)
	return true
}
