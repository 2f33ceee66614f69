// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu presents ggfx surfaces through a gogpu window.
//
// Frames are still rasterized by gg into a CPU pixmap; Present uploads the
// pixmap into a GPU texture (created lazily, updated in place afterwards)
// and draws it through the window's texture drawer. When the device
// provider hands out a *wgpu.Device, programs with a WGSL rendition are
// compiled into a render pipeline on that device and shade each frame on
// the GPU; the result is read back into the pixmap before presenting.
//
// Typical usage with gogpu:
//
//	app.OnInit(func(ctx *gogpu.Context) {
//	    gpu.Register(app.GPUContextProvider(), ctx.AsTextureDrawer())
//	})
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Name is the registered backend name.
const Name = "gpu"

// Priority is the registry priority. It is above the software backend so
// a registered GPU backend wins.
const Priority = 20

// Common errors.
var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gpu: nil DeviceProvider")

	// ErrNilDrawer is returned when a nil TextureDrawer is passed.
	ErrNilDrawer = errors.New("gpu: nil TextureDrawer")

	// ErrSurfaceFormat is returned when the window surface format cannot
	// display gg's 8-bit pixmaps.
	ErrSurfaceFormat = errors.New("gpu: unsupported surface format")

	// ErrSurfaceClosed is returned when operations are attempted on a closed surface.
	ErrSurfaceClosed = errors.New("gpu: surface is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("gpu: invalid dimensions")

	// ErrNoTextureCreator is returned when the drawer cannot create textures.
	ErrNoTextureCreator = errors.New("gpu: drawer has no texture creator")

	// ErrInvalidTexture is returned when a created texture cannot be drawn.
	ErrInvalidTexture = errors.New("gpu: texture does not implement gpucontext.Texture")

	// ErrNoDevice is returned when a shader compiled without a device is
	// asked to render.
	ErrNoDevice = errors.New("gpu: no wgpu device")
)

// Backend allocates surfaces presented through a texture drawer.
type Backend struct {
	provider gpucontext.DeviceProvider
	drawer   gpucontext.TextureDrawer
}

// New creates a GPU backend. The provider comes from
// gogpu.App.GPUContextProvider() and the drawer from
// gogpu.Context.AsTextureDrawer().
func New(provider gpucontext.DeviceProvider, drawer gpucontext.TextureDrawer) (*Backend, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if f := provider.SurfaceFormat(); !displayable(f) {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceFormat, f)
	}
	if drawer == nil {
		return nil, ErrNilDrawer
	}

	// Share the window's device with gg's accelerator when possible.
	// Failure is not fatal: gg keeps rasterizing on the CPU.
	if err := gg.SetAcceleratorDeviceProvider(provider); err != nil {
		ggfx.Logger().Debug("gpu: accelerator keeps its own device", "err", err)
	}
	return &Backend{provider: provider, drawer: drawer}, nil
}

// Register adds a GPU backend for provider and drawer to the ggfx registry.
func Register(provider gpucontext.DeviceProvider, drawer gpucontext.TextureDrawer) error {
	if _, err := New(provider, drawer); err != nil {
		return err
	}
	ggfx.RegisterBackend(Name, Priority, func() (ggfx.Backend, error) {
		return New(provider, drawer)
	})
	return nil
}

func displayable(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatUndefined:
		return true
	default:
		return false
	}
}

// Name returns "gpu".
func (*Backend) Name() string { return Name }

// Supports reports every feature. Shaders are only supported when the
// provider hands out a *wgpu.Device.
func (b *Backend) Supports(f ggfx.Feature) bool {
	supported := ggfx.FeaturePixels | ggfx.FeaturePaths | ggfx.FeatureAlpha | ggfx.FeatureImages
	if _, ok := wgpuDevice(b.provider); ok {
		supported |= ggfx.FeatureShaders
	}
	return f != 0 && f&^supported == 0
}

// NewSurface allocates a width x height surface.
func (b *Backend) NewSurface(width, height int, class string) (ggfx.Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Surface{
		ctx:    gg.NewContext(width, height),
		drawer: b.drawer,
		class:  class,
		width:  width,
		height: height,
	}, nil
}

// Provider returns the device provider.
func (b *Backend) Provider() gpucontext.DeviceProvider { return b.provider }
