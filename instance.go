package ggfx

import (
	"fmt"
	"time"
)

// State is the render loop state of an instance.
type State uint8

const (
	// StateStopped means no frame callback is pending.
	StateStopped State = iota

	// StateRunning means the instance owns exactly one pending frame callback.
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "stopped"
}

// Instance is one mounted effect: its surface, listeners, simulated time and
// pointer state.
//
// Instance is NOT safe for concurrent use. All methods must be called on the
// host's loop goroutine, the same goroutine that delivers its callbacks.
type Instance struct {
	host      Host
	container Container
	effect    Effect
	opts      options

	backend Backend
	surface Surface
	program Program
	shader  Shader

	state     State
	closed    bool
	gen       uint64
	frame     FrameID
	listeners []ListenerID

	width, height int
	dpr           float64

	started  bool
	first    time.Duration
	last     time.Duration
	time     float64
	index    uint64
	follow   bool
	raw      Vec2
	smoothed Vec2

	err error
}

// Activate binds effect to container and starts its render loop.
//
// It allocates a surface sized to the container, inserts the surface node
// into the container, compiles the effect, registers the resize and pointer
// listeners and requests the first frame. Failures are logged once at warn
// level and returned; nothing is left registered or mounted on failure.
func Activate(host Host, container Container, effect Effect, opts ...Option) (*Instance, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if host == nil || container == nil {
		return nil, fmt.Errorf("%w: nil host or container", ErrNoContext)
	}
	if effect == nil {
		return nil, fmt.Errorf("%w: nil effect", ErrInvalidEffect)
	}

	i := &Instance{
		host:      host,
		container: container,
		effect:    effect,
		opts:      o,
	}
	if err := i.start(); err != nil {
		i.closed = true
		Logger().Warn("ggfx: activation failed", "effect", effect.Name(), "err", err)
		return nil, err
	}
	return i, nil
}

// start acquires every resource of the instance. On error everything
// acquired so far is released again.
func (i *Instance) start() (err error) {
	w, h := i.container.Size()
	i.dpr = ClampPixelRatio(i.container.DevicePixelRatio(), i.opts.maxDPR)
	pw, ph := PixelSize(w, h, i.dpr)
	if pw == 0 || ph == 0 {
		return fmt.Errorf("%w: %gx%g at dpr %g", ErrZeroSize, w, h, i.dpr)
	}

	b := i.opts.backend
	if b == nil {
		if b, err = BestBackend(); err != nil {
			return err
		}
	}
	i.backend = b

	program, err := i.effect.Compile(b)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidEffect, i.effect.Name(), err)
	}
	if program == nil {
		return fmt.Errorf("%w: %s compiled to nil program", ErrInvalidEffect, i.effect.Name())
	}
	if missing := MissingFeatures(b, program.Requires()); missing != 0 {
		releaseProgram(program)
		return fmt.Errorf("%w: %s needs %s from %s", ErrUnsupported, i.effect.Name(), missing, b.Name())
	}

	surface, err := b.NewSurface(pw, ph, i.class())
	if err != nil {
		releaseProgram(program)
		return fmt.Errorf("%w: %s: %w", ErrNoContext, b.Name(), err)
	}
	if err := i.container.Mount(surface); err != nil {
		_ = surface.Close()
		releaseProgram(program)
		return fmt.Errorf("%w: mount: %w", ErrNoContext, err)
	}
	i.surface = surface
	i.program = program

	if err := i.compileShader(); err != nil {
		i.release()
		return fmt.Errorf("%w: %w", ErrNoContext, err)
	}

	i.gen++
	i.started = false
	i.time = 0
	i.index = 0
	i.err = nil
	i.raw = Vec2{0.5, 0.5}
	i.smoothed = i.raw
	i.follow = false
	if pf, ok := program.(PointerFollower); ok {
		i.follow = pf.FollowsPointer()
	}

	i.listen(EventResize, i.onResize)
	if i.follow {
		i.listen(EventPointerMove, i.onPointerMove)
	}
	if _, ok := program.(PointerHandler); ok {
		if !i.follow {
			i.listen(EventPointerMove, i.onPointerMove)
		}
		i.listen(EventPointerDown, i.onPointerDown)
		i.listen(EventPointerUp, i.onPointerUp)
	}

	i.resize()
	i.state = StateRunning
	i.schedule()
	i.opts.registry.add(i, i.effect.Name())

	Logger().Info("ggfx: instance activated",
		"effect", i.effect.Name(), "backend", b.Name(), "width", i.width, "height", i.height)
	return nil
}

func (i *Instance) class() string {
	if i.opts.class != "" {
		return i.opts.class
	}
	if c, ok := i.effect.(Classer); ok {
		return c.Class()
	}
	return ""
}

func (i *Instance) compileShader() error {
	c, ok := i.backend.(Compiler)
	if !ok || !i.backend.Supports(FeatureShaders) {
		return nil
	}
	src, ok := i.program.(ShaderSource)
	if !ok {
		return nil
	}
	name, wgsl := src.Shader()
	shader, err := c.Compile(name, wgsl)
	if err != nil {
		return fmt.Errorf("compile %s: %w", name, err)
	}
	i.shader = shader
	return nil
}

// listen registers fn guarded by the current generation, so a stale
// callback from a torn-down activation is ignored.
func (i *Instance) listen(kind EventKind, fn func(Event)) {
	gen := i.gen
	id := i.host.Listen(kind, func(ev Event) {
		if i.closed || i.gen != gen {
			return
		}
		fn(ev)
	})
	i.listeners = append(i.listeners, id)
}

func (i *Instance) schedule() {
	gen := i.gen
	i.frame = i.host.RequestFrame(func(ts time.Duration) {
		if i.gen != gen {
			return
		}
		i.tick(ts)
	})
}

// Deactivate cancels the frame loop, removes every listener, unmounts and
// destroys the surface. It is idempotent and safe to call before the first
// frame ran. After it returns no callback attributable to the instance
// fires.
func (i *Instance) Deactivate() {
	if i == nil || i.closed {
		return
	}
	i.closed = true
	i.release()
	Logger().Info("ggfx: instance deactivated", "effect", i.effect.Name())
}

// release tears down what start acquired. Safe on a partially started
// instance.
func (i *Instance) release() {
	i.state = StateStopped
	i.gen++
	if i.frame != 0 {
		i.host.CancelFrame(i.frame)
		i.frame = 0
	}
	for _, id := range i.listeners {
		i.host.Unlisten(id)
	}
	i.listeners = nil
	releaseProgram(i.program)
	i.program = nil
	if i.shader != nil {
		i.shader.Release()
		i.shader = nil
	}
	if i.surface != nil {
		i.container.Unmount(i.surface)
		if err := i.surface.Close(); err != nil {
			Logger().Warn("ggfx: surface close failed", "err", err)
		}
		i.surface = nil
	}
	i.opts.registry.remove(i)
}

func releaseProgram(p Program) {
	if r, ok := p.(Releaser); ok {
		r.Release()
	}
}

// Reconfigure applies a new configuration. Programs implementing Tuner may
// accept it in place; otherwise the instance is torn down and rebuilt from
// scratch on the same host and container. If the rebuild fails the
// instance stays closed and the error is returned.
func (i *Instance) Reconfigure(effect Effect) error {
	if i.closed {
		return ErrClosed
	}
	if effect == nil {
		return fmt.Errorf("%w: nil effect", ErrInvalidEffect)
	}
	if t, ok := i.program.(Tuner); ok && t.Tune(effect) {
		i.effect = effect
		Logger().Debug("ggfx: configuration applied in place", "effect", effect.Name())
		return nil
	}

	i.release()
	i.effect = effect
	if err := i.start(); err != nil {
		i.closed = true
		Logger().Warn("ggfx: rebuild failed", "effect", effect.Name(), "err", err)
		return err
	}
	return nil
}

// tick runs one frame: advance time, update uniforms, smooth the pointer,
// draw, present, and schedule the next frame unless torn down meanwhile.
func (i *Instance) tick(ts time.Duration) {
	i.frame = 0
	if i.closed || i.state != StateRunning {
		return
	}

	delta := i.advance(ts)
	if i.follow {
		i.smoothed = Smooth(i.smoothed, i.raw, i.opts.smoothing)
	}
	i.program.Update(Frame{
		Time:       i.time,
		Delta:      delta,
		Index:      i.index,
		Width:      i.width,
		Height:     i.height,
		Pointer:    i.smoothed,
		RawPointer: i.raw,
	})
	i.index++

	if err := i.draw(); err != nil {
		i.err = err
		i.state = StateStopped
		Logger().Error("ggfx: render error, loop stopped", "effect", i.effect.Name(), "err", err)
		return
	}

	if i.closed || i.state != StateRunning {
		return
	}
	i.schedule()
}

// advance moves simulated time to ts relative to the first delivered
// timestamp. Time never moves backwards.
func (i *Instance) advance(ts time.Duration) float64 {
	if !i.started {
		i.started = true
		i.first = ts
		i.last = ts
		i.time = 0
		return 0
	}
	if ts <= i.last {
		return 0
	}
	prev := i.time
	i.last = ts
	i.time = (ts - i.first).Seconds()
	return i.time - prev
}

func (i *Instance) draw() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ggfx: draw panicked: %v", r)
		}
	}()
	if i.shader != nil {
		err := i.shader.Render(i.surface, i.program.(ShaderSource).ShaderUniforms())
		if err == nil {
			return i.surface.Present()
		}
		Logger().Warn("ggfx: shader render failed, drawing on the CPU", "effect", i.effect.Name(), "err", err)
		i.shader.Release()
		i.shader = nil
	}
	if err := i.program.Draw(i.surface); err != nil {
		return err
	}
	return i.surface.Present()
}

// Resize re-derives the surface size and the program geometry from the
// container. It is synchronous and idempotent.
func (i *Instance) Resize() {
	if i.closed {
		return
	}
	i.resize()
}

func (i *Instance) resize() {
	w, h := i.container.Size()
	i.dpr = ClampPixelRatio(i.container.DevicePixelRatio(), i.opts.maxDPR)
	pw, ph := PixelSize(w, h, i.dpr)
	if pw == 0 || ph == 0 {
		Logger().Debug("ggfx: resize skipped, zero size", "width", w, "height", h)
		return
	}
	if err := i.surface.Resize(pw, ph); err != nil {
		Logger().Debug("ggfx: resize skipped", "err", err)
		return
	}
	i.width, i.height = pw, ph
	i.program.Resize(pw, ph)
}

func (i *Instance) onResize(Event) {
	i.resize()
}

func (i *Instance) onPointerMove(ev Event) {
	i.raw = i.container.Bounds().Normalize(Vec2{ev.X, ev.Y})
	if h, ok := i.program.(PointerHandler); ok {
		h.PointerMove(i.surfacePoint(i.raw))
	}
}

// onPointerDown only reacts to presses that start inside the container.
func (i *Instance) onPointerDown(ev Event) {
	b := i.container.Bounds()
	if !b.Contains(Vec2{ev.X, ev.Y}) {
		return
	}
	i.raw = b.Normalize(Vec2{ev.X, ev.Y})
	if h, ok := i.program.(PointerHandler); ok {
		h.PointerDown(i.surfacePoint(i.raw))
	}
}

func (i *Instance) onPointerUp(ev Event) {
	i.raw = i.container.Bounds().Normalize(Vec2{ev.X, ev.Y})
	if h, ok := i.program.(PointerHandler); ok {
		h.PointerUp(i.surfacePoint(i.raw))
	}
}

func (i *Instance) surfacePoint(p Vec2) Vec2 {
	return Vec2{p.X * float64(i.width), p.Y * float64(i.height)}
}

// State returns the render loop state.
func (i *Instance) State() State { return i.state }

// Closed reports whether Deactivate was called or a rebuild failed.
func (i *Instance) Closed() bool { return i.closed }

// Err returns the draw error that stopped the loop, if any.
func (i *Instance) Err() error { return i.err }

// Time returns the simulated time in seconds.
func (i *Instance) Time() float64 { return i.time }

// Frames returns the number of ticks run since activation.
func (i *Instance) Frames() uint64 { return i.index }

// Size returns the surface size in pixels.
func (i *Instance) Size() (width, height int) { return i.width, i.height }

// PixelRatio returns the clamped device pixel ratio in use.
func (i *Instance) PixelRatio() float64 { return i.dpr }

// Pointer returns the smoothed pointer in container-normalized coordinates.
func (i *Instance) Pointer() Vec2 { return i.smoothed }

// RawPointer returns the last recorded pointer position.
func (i *Instance) RawPointer() Vec2 { return i.raw }

// Surface returns the owned surface, or nil once closed.
func (i *Instance) Surface() Surface { return i.surface }

// Program returns the compiled program, or nil once closed.
func (i *Instance) Program() Program { return i.program }

// Effect returns the configuration currently applied.
func (i *Instance) Effect() Effect { return i.effect }

// Backend returns the backend the surface was allocated from.
func (i *Instance) Backend() Backend { return i.backend }
