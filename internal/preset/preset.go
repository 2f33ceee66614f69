// Package preset loads effect presets from TOML files.
//
// A preset names an effect, the container it is rendered into and the
// effect parameters:
//
//	name = "hero"
//	effect = "lightrays"
//	width = 1280
//	height = 720
//
//	[params]
//	origin = "top-center"
//	color = "#00ffff"
//	speed = 1.2
//
// Parameters missing from [params] keep the effect defaults. Unknown keys
// and out-of-range values are rejected.
package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/ggfx"
)

// Default container geometry for presets that leave it out.
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultPixelRatio = 1
)

var (
	// ErrUnknownEffect is returned for an effect without a registered builder.
	ErrUnknownEffect = errors.New("preset: unknown effect")

	// ErrInvalid is returned when a preset fails validation.
	ErrInvalid = errors.New("preset: invalid preset")
)

// Preset is a parsed preset.
type Preset struct {
	Name        string
	Description string
	Effect      ggfx.Effect

	// Width and Height are the container size in layout units.
	Width, Height float64

	// PixelRatio is the device pixel ratio of the container.
	PixelRatio float64
}

// rawPreset is the TOML-friendly representation.
type rawPreset struct {
	Name        string         `toml:"name" validate:"required"`
	Description string         `toml:"description"`
	Effect      string         `toml:"effect" validate:"required"`
	Width       float64        `toml:"width" validate:"gte=0,lte=16384"`
	Height      float64        `toml:"height" validate:"gte=0,lte=16384"`
	PixelRatio  float64        `toml:"pixel_ratio" validate:"gte=0,lte=4"`
	Params      toml.Primitive `toml:"params"`
}

// Section gives a builder access to the [params] table.
type Section struct {
	md      toml.MetaData
	prim    toml.Primitive
	defined bool

	// Dir is the directory of the preset file, for resolving relative
	// asset paths. Empty for in-memory presets.
	Dir string
}

// Decode decodes the [params] table into v, which should be pre-filled
// with defaults, and validates it. A missing table leaves v untouched.
func (s Section) Decode(v any) error {
	if s.defined {
		if err := s.md.PrimitiveDecode(s.prim, v); err != nil {
			return fmt.Errorf("preset: decode params: %w", err)
		}
	}
	return validateStruct(v)
}

// Resolve returns path relative to the preset directory.
func (s Section) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.Dir == "" {
		return path
	}
	return filepath.Join(s.Dir, path)
}

// Builder turns a [params] section into an effect.
type Builder func(s Section) (ggfx.Effect, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Builder)
)

// Register associates an effect name with a builder. It panics on duplicate
// names.
func Register(name string, b Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic("preset: duplicate registration for " + name)
	}
	registry[name] = b
}

// Lookup fetches a builder by effect name.
func Lookup(name string) (Builder, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[name]
	return b, ok
}

// Effects returns the registered effect names, sorted.
func Effects() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads and parses the preset at path.
func Load(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: read %s: %w", path, err)
	}
	p, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse parses preset data. Relative asset paths are resolved against dir.
func Parse(data []byte, dir string) (Preset, error) {
	raw := rawPreset{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		PixelRatio: DefaultPixelRatio,
	}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: parse TOML: %w", err)
	}
	if err := validateStruct(&raw); err != nil {
		return Preset{}, err
	}

	build, ok := Lookup(raw.Effect)
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownEffect, raw.Effect, strings.Join(Effects(), ", "))
	}
	effect, err := build(Section{md: md, prim: raw.Params, defined: md.IsDefined("params"), Dir: dir})
	if err != nil {
		return Preset{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Preset{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}

	return Preset{
		Name:        raw.Name,
		Description: raw.Description,
		Effect:      effect,
		Width:       raw.Width,
		Height:      raw.Height,
		PixelRatio:  raw.PixelRatio,
	}, nil
}
