package lightrays

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
)

// Uniforms is the per-frame state the ray shader reads.
type Uniforms struct {
	Time       float64
	Resolution ggfx.Vec2
	RayPos     ggfx.Vec2
	RayDir     ggfx.Vec2
	Pointer    ggfx.Vec2
	Color      gg.RGBA

	Speed            float64
	Spread           float64
	RayLength        float64
	FadeDistance     float64
	Saturation       float64
	PointerInfluence float64
	Noise            float64
	Distortion       float64
	Pulsating        bool

	// Derived in Update.
	finalDir   ggfx.Vec2
	distortion float64
	pulse1     float64
	pulse2     float64
}

// Ray seeds and speed multipliers of the two overlaid ray layers.
const (
	seed1A, seed1B, speed1 = 36.2, 21.1, 1.5
	seed2A, seed2B, speed2 = 22.3, 18.0, 1.1
)

// Derive recomputes the time-dependent terms. It depends only on the
// receiver's fields.
func (u *Uniforms) Derive() {
	u.distortion = u.Distortion * math.Sin(u.Time*2) * 0.2
	u.pulse1, u.pulse2 = 1, 1
	if u.Pulsating {
		u.pulse1 = 0.8 + 0.2*math.Sin(u.Time*u.Speed*speed1*3)
		u.pulse2 = 0.8 + 0.2*math.Sin(u.Time*u.Speed*speed2*3)
	}
	u.finalDir = u.RayDir
	if u.PointerInfluence > 0 {
		target := ggfx.Vec2{X: u.Pointer.X * u.Resolution.X, Y: u.Pointer.Y * u.Resolution.Y}
		toPointer := target.Sub(u.RayPos).Normalize()
		if mixed := u.RayDir.Lerp(toPointer, u.PointerInfluence); mixed.Len() > 0 {
			u.finalDir = mixed.Normalize()
		}
	}
}

// FinalDir returns the ray direction after pointer influence.
func (u Uniforms) FinalDir() ggfx.Vec2 { return u.finalDir }

func (u *Uniforms) strength(coord ggfx.Vec2, seedA, seedB, speed, pulse float64) float64 {
	toCoord := coord.Sub(u.RayPos)
	dist := toCoord.Len()
	if dist == 0 {
		return 0
	}
	cosAngle := toCoord.Mul(1 / dist).Dot(u.finalDir)
	distorted := cosAngle + u.distortion
	spread := math.Pow(math.Max(distorted, 0), 1/math.Max(u.Spread, 0.001))

	maxDist := u.Resolution.X * u.RayLength
	lengthFalloff := clamp((maxDist-dist)/maxDist, 0, 1)
	fadeDist := u.Resolution.X * u.FadeDistance
	fadeFalloff := clamp((fadeDist-dist)/fadeDist, 0.5, 1)

	t := u.Time * speed
	base := (0.45 + 0.15*math.Sin(distorted*seedA+t)) + (0.3 + 0.2*math.Cos(-distorted*seedB+t))
	return clamp(base, 0, 1) * lengthFalloff * fadeFalloff * spread * pulse
}

// Shade returns the colour of the pixel centred at coord (top-left origin).
// Call Derive after changing time, pointer or geometry.
func (u *Uniforms) Shade(coord ggfx.Vec2) gg.RGBA {
	r1 := u.strength(coord, seed1A, seed1B, u.Speed*speed1, u.pulse1)
	r2 := u.strength(coord, seed2A, seed2B, u.Speed*speed2, u.pulse2)
	k := r1*0.5 + r2*0.4
	r, g, b := k*u.Color.R, k*u.Color.G, k*u.Color.B

	if u.Noise > 0 {
		n := noise(coord.X*0.01+u.Time, coord.Y*0.01+u.Time)
		m := 1 + (n-1)*u.Noise
		r, g, b = r*m, g*m, b*m
	}
	if u.Saturation != 1 {
		gray := 0.299*r + 0.587*g + 0.114*b
		s := u.Saturation
		r, g, b = gray+(r-gray)*s, gray+(g-gray)*s, gray+(b-gray)*s
	}
	return gg.RGB(clamp(r, 0, 1), clamp(g, 0, 1), clamp(b, 0, 1))
}

func noise(x, y float64) float64 {
	v := math.Sin(x*12.9898+y*78.233) * 43758.5453
	return v - math.Floor(v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Program draws light rays for one instance.
type Program struct {
	cfg      Config
	uniforms Uniforms
}

func newProgram(cfg Config) *Program {
	p := &Program{cfg: cfg}
	p.applyConfig()
	p.uniforms.Pointer = ggfx.Vec2{X: 0.5, Y: 0.5}
	p.uniforms.RayDir = ggfx.Vec2{Y: 1}
	p.uniforms.finalDir = p.uniforms.RayDir
	return p
}

func (p *Program) applyConfig() {
	u := &p.uniforms
	u.Color = p.cfg.RGB()
	u.Speed = p.cfg.Speed
	u.Spread = p.cfg.Spread
	u.RayLength = p.cfg.RayLength
	u.FadeDistance = p.cfg.FadeDistance
	u.Saturation = p.cfg.Saturation
	u.Noise = p.cfg.Noise
	u.Distortion = p.cfg.Distortion
	u.Pulsating = p.cfg.Pulsating
	u.PointerInfluence = 0
	if p.cfg.FollowPointer {
		u.PointerInfluence = p.cfg.PointerInfluence
	}
}

// Config returns the normalized configuration in use.
func (p *Program) Config() Config { return p.cfg }

// Uniforms returns a copy of the current uniforms.
func (p *Program) Uniforms() Uniforms { return p.uniforms }

// Requires implements ggfx.Program.
func (*Program) Requires() ggfx.Feature { return ggfx.FeaturePixels }

// FollowsPointer implements ggfx.PointerFollower.
func (p *Program) FollowsPointer() bool { return p.cfg.FollowPointer }

// Resize re-derives the anchor from the new pixel size.
func (p *Program) Resize(width, height int) {
	w, h := float64(width), float64(height)
	p.uniforms.Resolution = ggfx.Vec2{X: w, Y: h}
	p.uniforms.RayPos, p.uniforms.RayDir = ggfx.AnchorAndDir(p.cfg.Origin, w, h)
	p.uniforms.Derive()
}

// Update implements ggfx.Program.
func (p *Program) Update(f ggfx.Frame) {
	p.uniforms.Time = f.Time
	p.uniforms.Pointer = f.Pointer
	p.uniforms.Derive()
}

// Draw shades every pixel of the surface.
func (p *Program) Draw(s ggfx.Surface) error {
	dc := s.Context()
	if dc == nil {
		return ggfx.ErrClosed
	}
	pm := dc.ResizeTarget()
	w, h := pm.Width(), pm.Height()
	data := pm.Data()
	for y := 0; y < h; y++ {
		row := data[y*w*4:]
		cy := float64(y) + 0.5
		for x := 0; x < w; x++ {
			c := p.uniforms.Shade(ggfx.Vec2{X: float64(x) + 0.5, Y: cy})
			i := x * 4
			row[i+0] = uint8(c.R*255 + 0.5)
			row[i+1] = uint8(c.G*255 + 0.5)
			row[i+2] = uint8(c.B*255 + 0.5)
			row[i+3] = 255
		}
	}
	return nil
}

// Tune applies numeric changes in place. A different origin is structural:
// fixed geometry has to be recomputed, so it requires a rebuild.
func (p *Program) Tune(e ggfx.Effect) bool {
	next, ok := e.(Config)
	if !ok {
		return false
	}
	next = next.Normalized()
	if next.Origin != p.cfg.Origin || next.FollowPointer != p.cfg.FollowPointer || next.ClassName != p.cfg.ClassName {
		return false
	}
	p.cfg = next
	p.applyConfig()
	p.uniforms.Derive()
	return true
}

// Shader implements ggfx.ShaderSource.
func (*Program) Shader() (name, wgsl string) { return Name, shaderWGSL }

// uniformSize is the size of the Rays uniform block: the vec3 colour is
// 16-byte aligned and the struct is padded to a multiple of 16.
const uniformSize = 96

// ShaderUniforms implements ggfx.ShaderSource. The ray direction is the
// pointer-bent one and distortion and pulses are the derived terms, so the
// GPU shades exactly what Shade computes.
func (p *Program) ShaderUniforms() []byte {
	u := &p.uniforms
	buf := make([]byte, uniformSize)
	put := func(off int, vs ...float64) {
		for i, v := range vs {
			binary.LittleEndian.PutUint32(buf[off+4*i:], math.Float32bits(float32(v)))
		}
	}
	put(0, u.Resolution.X, u.Resolution.Y, u.RayPos.X, u.RayPos.Y, u.finalDir.X, u.finalDir.Y)
	put(32, u.Color.R, u.Color.G, u.Color.B, u.Time)
	put(48, u.Speed, u.Spread, u.RayLength, u.FadeDistance, u.Saturation, u.Noise, u.distortion, u.pulse1, u.pulse2)
	return buf
}
