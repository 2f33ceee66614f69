package ggfx

// Effect is an immutable, typed effect configuration. It is supplied once
// at activation; Compile validates and normalises it into a Program for the
// chosen backend.
type Effect interface {
	// Name returns the effect identifier (e.g. "lightrays").
	Name() string

	// Compile builds a program for b.
	Compile(b Backend) (Program, error)
}

// Frame carries the per-tick inputs of a program update.
type Frame struct {
	// Time is the simulated time in seconds since the first delivered frame.
	Time float64

	// Delta is the time advanced since the previous tick, in seconds.
	Delta float64

	// Index counts ticks since activation, starting at 0.
	Index uint64

	// Width and Height are the current surface size in pixels.
	Width, Height int

	// Pointer is the smoothed pointer in container-normalized coordinates.
	Pointer Vec2

	// RawPointer is the last recorded pointer position.
	RawPointer Vec2
}

// Program is a compiled effect bound to one instance.
type Program interface {
	// Requires returns the backend features the program draws with.
	Requires() Feature

	// Resize re-derives geometry for a new surface size in pixels.
	Resize(width, height int)

	// Update recomputes time-dependent uniforms from the frame inputs.
	Update(f Frame)

	// Draw issues the frame's drawing against s.
	Draw(s Surface) error
}

// PointerFollower is implemented by programs that consume the smoothed
// pointer. Instances only register a pointer-move listener when
// FollowsPointer returns true.
type PointerFollower interface {
	FollowsPointer() bool
}

// PointerHandler is implemented by programs that react to pointer buttons.
// Positions are in surface pixels.
type PointerHandler interface {
	PointerDown(p Vec2)
	PointerMove(p Vec2)
	PointerUp(p Vec2)
}

// ShaderSource is implemented by programs that have a WGSL rendition.
// Backends implementing Compiler and supporting FeatureShaders compile it
// at activation; frames are then shaded by the backend instead of Draw.
type ShaderSource interface {
	// Shader returns the program name and its WGSL source, which defines
	// vs_main and fs_main.
	Shader() (name, wgsl string)

	// ShaderUniforms returns the current uniform block laid out for WGSL's
	// uniform address space.
	ShaderUniforms() []byte
}

// Tuner is implemented by programs that can apply a new configuration in
// place. Tune returns false when the change is structural and needs a full
// rebuild.
type Tuner interface {
	Tune(e Effect) bool
}

// Releaser is implemented by programs holding resources beyond the surface.
type Releaser interface {
	Release()
}

// Classer is implemented by effects carrying a className styling hook.
type Classer interface {
	Class() string
}
