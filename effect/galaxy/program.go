package galaxy

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
	"github.com/lucasb-eyer/go-colorful"
)

// timeScale converts seconds to galaxy time units: the disc advances 0.01
// units per frame at 60 frames per second.
const timeScale = 0.6

// Camera placement and vertical field of view.
var (
	cameraEye = vec3{0, 4, 10}
	cameraFOV = 45.0
)

type vec3 struct{ x, y, z float64 }

func (a vec3) sub(b vec3) vec3 { return vec3{a.x - b.x, a.y - b.y, a.z - b.z} }
func (a vec3) dot(b vec3) float64 {
	return a.x*b.x + a.y*b.y + a.z*b.z
}

func (a vec3) cross(b vec3) vec3 {
	return vec3{a.y*b.z - a.z*b.y, a.z*b.x - a.x*b.z, a.x*b.y - a.y*b.x}
}

func (a vec3) normalize() vec3 {
	l := math.Sqrt(a.dot(a))
	if l == 0 {
		return a
	}
	return vec3{a.x / l, a.y / l, a.z / l}
}

// star is one particle: its rest position on the disc and three random
// attributes in [0, 1).
type star struct {
	pos        vec3
	rx, ry, rz float64
}

// generateStars lays out n stars on spiral arms.
func generateStars(n int, seed uint64) []star {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	stars := make([]star, n)
	for i := range stars {
		angle := rng.Float64() * 2 * math.Pi
		radius := rng.Float64() * 5
		arm := angle + radius*0.5
		stars[i] = star{
			pos: vec3{
				x: math.Cos(arm) * radius,
				y: (rng.Float64() - 0.5) * 0.5,
				z: math.Sin(arm) * radius,
			},
			rx: rng.Float64(),
			ry: rng.Float64(),
			rz: rng.Float64(),
		}
	}
	return stars
}

// camera projects world points onto the surface.
type camera struct {
	right, up, forward vec3
	focal              float64
	cx, cy             float64
}

func newCamera(width, height int) camera {
	forward := vec3{}.sub(cameraEye).normalize()
	right := forward.cross(vec3{0, 1, 0}).normalize()
	return camera{
		right:   right,
		up:      right.cross(forward),
		forward: forward,
		focal:   float64(height) / 2 / math.Tan(cameraFOV*math.Pi/360),
		cx:      float64(width) / 2,
		cy:      float64(height) / 2,
	}
}

// project returns the surface position and view depth of p. ok is false
// for points behind the camera.
func (c camera) project(p vec3) (x, y, depth float64, ok bool) {
	v := p.sub(cameraEye)
	depth = v.dot(c.forward)
	if depth <= 0.01 {
		return 0, 0, 0, false
	}
	s := c.focal / depth
	return c.cx + v.dot(c.right)*s, c.cy - v.dot(c.up)*s, depth, true
}

// Program draws the starfield.
type Program struct {
	cfg    Config
	stars  []star
	colors []gg.RGBA
	cam    camera

	time       float64
	rotX, rotY float64
}

func newProgram(cfg Config) *Program {
	p := &Program{
		cfg:   cfg,
		stars: generateStars(cfg.Stars(), cfg.Seed),
	}
	p.shade()
	return p
}

// shade recomputes the per-star colours, which only depend on the
// configuration.
func (p *Program) shade() {
	if cap(p.colors) < len(p.stars) {
		p.colors = make([]gg.RGBA, len(p.stars))
	}
	p.colors = p.colors[:len(p.stars)]
	for i, s := range p.stars {
		hue := math.Mod(p.cfg.HueShift+s.rz*36, 360)
		c := colorful.Hsl(hue, p.cfg.Saturation, 0.5+s.ry*0.5).Clamped()
		alpha := math.Min(1, (0.5+s.rx*0.5)*p.cfg.Glow*5)
		p.colors[i] = gg.RGBA{R: c.R, G: c.G, B: c.B, A: alpha}
	}
}

// Config returns the normalized configuration in use.
func (p *Program) Config() Config { return p.cfg }

// StarCount returns the number of generated stars.
func (p *Program) StarCount() int { return len(p.stars) }

// Rotation returns the current disc rotation about the X and Y axes.
func (p *Program) Rotation() (x, y float64) { return p.rotX, p.rotY }

// Requires implements ggfx.Program.
func (p *Program) Requires() ggfx.Feature {
	if p.cfg.Transparent {
		return ggfx.FeaturePaths | ggfx.FeatureAlpha
	}
	return ggfx.FeaturePaths
}

// FollowsPointer implements ggfx.PointerFollower.
func (p *Program) FollowsPointer() bool { return p.cfg.PointerInteraction }

// Resize implements ggfx.Program.
func (p *Program) Resize(width, height int) {
	p.cam = newCamera(width, height)
}

// Update advances the disc rotation. The pointer is mapped to [-1, 1] with
// Y pointing up.
func (p *Program) Update(f ggfx.Frame) {
	p.time = f.Time * timeScale
	p.rotX, p.rotY = 0, p.time*p.cfg.RotationSpeed
	if p.cfg.PointerInteraction {
		mx := f.Pointer.X*2 - 1
		my := 1 - f.Pointer.Y*2
		p.rotX = my * 0.5
		p.rotY += mx * 0.5
	}
}

// position returns star i in world space at the current time.
func (p *Program) position(i int) vec3 {
	s := p.stars[i]
	a := p.time * p.cfg.StarSpeed * (0.1 + s.rx*0.1)
	sa, ca := math.Sincos(a)
	v := vec3{s.pos.x*ca - s.pos.z*sa, s.pos.y, s.pos.x*sa + s.pos.z*ca}

	sx, cx := math.Sincos(p.rotX)
	v = vec3{v.x, v.y*cx - v.z*sx, v.y*sx + v.z*cx}
	sy, cy := math.Sincos(p.rotY)
	return vec3{v.x*cy + v.z*sy, v.y, -v.x*sy + v.z*cy}
}

// Draw clears the surface and draws every star as a soft disc.
func (p *Program) Draw(s ggfx.Surface) error {
	dc := s.Context()
	if dc == nil {
		return ggfx.ErrClosed
	}
	if p.cfg.Transparent {
		dc.Clear()
	} else {
		dc.ClearWithColor(gg.Black)
	}

	for i := range p.stars {
		x, y, depth, ok := p.cam.project(p.position(i))
		if !ok {
			continue
		}
		r := math.Max(0.5, (20*p.stars[i].ry+5)/depth/2)
		c := p.colors[i]
		if c.A <= 0 {
			continue
		}

		// halo, then core
		dc.SetRGBA(c.R, c.G, c.B, c.A*0.35)
		dc.DrawCircle(x, y, r)
		if err := dc.Fill(); err != nil {
			return err
		}
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.DrawCircle(x, y, r*0.5)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

// Tune applies colour and speed changes in place. Density, seed or
// transparency changes regenerate the program.
func (p *Program) Tune(e ggfx.Effect) bool {
	next, ok := e.(Config)
	if !ok {
		return false
	}
	next = next.Normalized()
	if next.Stars() != len(p.stars) || next.Seed != p.cfg.Seed ||
		next.Transparent != p.cfg.Transparent ||
		next.PointerInteraction != p.cfg.PointerInteraction {
		return false
	}
	p.cfg = next
	p.shade()
	return true
}
