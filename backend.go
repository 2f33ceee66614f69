package ggfx

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/gg"
)

// Feature describes a rendering capability for backend selection.
type Feature uint32

const (
	// FeaturePixels represents direct per-pixel writes into the surface.
	FeaturePixels Feature = 1 << iota

	// FeaturePaths represents vector path fill and stroke.
	FeaturePaths

	// FeatureAlpha represents a transparent (alpha) surface.
	FeatureAlpha

	// FeatureImages represents image compositing.
	FeatureImages

	// FeatureShaders represents compiled WGSL programs.
	FeatureShaders
)

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeaturePixels, "pixels"},
	{FeaturePaths, "paths"},
	{FeatureAlpha, "alpha"},
	{FeatureImages, "images"},
	{FeatureShaders, "shaders"},
}

func (f Feature) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range featureNames {
		if f&fn.f != 0 {
			parts = append(parts, fn.name)
			f &^= fn.f
		}
	}
	if f != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(f)))
	}
	return strings.Join(parts, "|")
}

// Backend allocates render surfaces. Alternate backends (software
// rasterizer, GPU presentation) are substituted without touching the
// per-frame update logic.
type Backend interface {
	// Name returns the backend name (e.g. "software", "gpu").
	Name() string

	// Supports reports whether the backend provides the given feature.
	Supports(f Feature) bool

	// NewSurface allocates a surface of the given pixel size. class is the
	// host-side styling hook carried by the surface's node.
	NewSurface(width, height int, class string) (Surface, error)
}

// Surface is a drawable owned by exactly one instance.
//
// Surface is NOT safe for concurrent use.
type Surface interface {
	Node

	// Size returns the surface size in pixels.
	Size() (width, height int)

	// Resize changes the pixel size. Resizing to the current size is a no-op.
	Resize(width, height int) error

	// Context returns the drawing context, or nil once the surface is closed.
	Context() *gg.Context

	// Present pushes the drawn frame to the display.
	Present() error

	// Close releases all resources. Close is idempotent.
	Close() error
}

// Shader is a compiled program held by a backend.
type Shader interface {
	// Render shades every pixel of target, binding uniforms at group 0,
	// binding 0. The surface is presented by the caller.
	Render(target Surface, uniforms []byte) error

	// Release destroys the backend resources of the shader. Idempotent.
	Release()
}

// Compiler is implemented by backends that compile WGSL programs.
type Compiler interface {
	Compile(name, wgsl string) (Shader, error)
}

// MissingFeatures returns the subset of required that b does not support.
func MissingFeatures(b Backend, required Feature) Feature {
	var missing Feature
	for _, fn := range featureNames {
		if required&fn.f != 0 && !b.Supports(fn.f) {
			missing |= fn.f
		}
	}
	return missing
}

// BackendFactory creates a backend instance.
type BackendFactory func() (Backend, error)

type backendEntry struct {
	name     string
	priority int
	factory  BackendFactory
}

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]backendEntry)
)

// RegisterBackend adds a backend factory. Higher priority is preferred by
// BestBackend. Registering an existing name replaces the previous entry.
//
// Backends that need no host resources register themselves on import:
//
//	import _ "github.com/gogpu/ggfx/backend/software"
func RegisterBackend(name string, priority int, factory BackendFactory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = backendEntry{name: name, priority: priority, factory: factory}
}

// Backends returns the registered backend names, highest priority first.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	entries := make([]backendEntry, 0, len(backends))
	for _, e := range backends {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// NewBackend creates the named backend.
func NewBackend(name string) (Backend, error) {
	backendsMu.RLock()
	e, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: backend %q not registered", ErrNoContext, name)
	}
	return e.factory()
}

// BestBackend creates the highest-priority backend whose factory succeeds.
func BestBackend() (Backend, error) {
	var lastErr error
	for _, name := range Backends() {
		b, err := NewBackend(name)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: no backend registered", ErrNoContext)
}
