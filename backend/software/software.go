// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software provides the CPU backend for ggfx: surfaces are plain
// gg contexts rasterized in memory.
//
// Importing the package registers the backend with priority 10:
//
//	import _ "github.com/gogpu/ggfx/backend/software"
package software

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
)

// Name is the registered backend name.
const Name = "software"

// Priority is the registry priority of the software backend.
const Priority = 10

var (
	// ErrSurfaceClosed is returned when operations are attempted on a closed surface.
	ErrSurfaceClosed = errors.New("software: surface is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("software: invalid dimensions")
)

func init() {
	ggfx.RegisterBackend(Name, Priority, func() (ggfx.Backend, error) {
		return New(), nil
	})
}

// Backend allocates in-memory surfaces.
type Backend struct{}

// New returns the software backend.
func New() *Backend { return &Backend{} }

// Name returns "software".
func (*Backend) Name() string { return Name }

// Supports reports every feature except compiled shaders.
func (*Backend) Supports(f ggfx.Feature) bool {
	const supported = ggfx.FeaturePixels | ggfx.FeaturePaths | ggfx.FeatureAlpha | ggfx.FeatureImages
	return f != 0 && f&^supported == 0
}

// NewSurface allocates a width x height surface.
func (*Backend) NewSurface(width, height int, class string) (ggfx.Surface, error) {
	return NewSurface(width, height, class)
}

// Surface is a gg context owned by one instance.
//
// Surface is NOT safe for concurrent use.
type Surface struct {
	ctx      *gg.Context
	class    string
	width    int
	height   int
	presents int
	closed   bool
}

// NewSurface creates a surface. Returns ErrInvalidDimensions for
// non-positive sizes.
func NewSurface(width, height int, class string) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Surface{
		ctx:    gg.NewContext(width, height),
		class:  class,
		width:  width,
		height: height,
	}, nil
}

// Class returns the styling hook.
func (s *Surface) Class() string { return s.class }

// Size returns the pixel size.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// Context returns the drawing context, or nil if the surface is closed.
func (s *Surface) Context() *gg.Context {
	if s.closed {
		return nil
	}
	return s.ctx
}

// Resize reallocates the pixel buffer. Same-size resizes are no-ops.
func (s *Surface) Resize(width, height int) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if s.width == width && s.height == height {
		return nil
	}
	if err := s.ctx.Resize(width, height); err != nil {
		return fmt.Errorf("software: context resize failed: %w", err)
	}
	s.width, s.height = width, height
	return nil
}

// Present flushes pending accelerator work into the pixel buffer.
func (s *Surface) Present() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if err := s.ctx.FlushGPU(); err != nil {
		return fmt.Errorf("software: flush: %w", err)
	}
	s.presents++
	return nil
}

// Presents returns the number of frames presented.
func (s *Surface) Presents() int { return s.presents }

// Image returns a copy of the current frame, or nil if closed.
func (s *Surface) Image() *image.RGBA {
	if s.closed {
		return nil
	}
	return s.ctx.ResizeTarget().ToImage()
}

// SavePNG writes the current frame to path.
func (s *Surface) SavePNG(path string) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	return s.ctx.SavePNG(path)
}

// Closed reports whether Close was called.
func (s *Surface) Closed() bool { return s.closed }

// Close releases the context. Idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ctx != nil {
		_ = s.ctx.Close()
		s.ctx = nil
	}
	return nil
}
