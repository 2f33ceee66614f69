// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
	"github.com/gogpu/gpucontext"
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Surface is a gg context whose frames are uploaded to a GPU texture.
//
// Surface is NOT safe for concurrent use.
type Surface struct {
	ctx    *gg.Context
	drawer gpucontext.TextureDrawer
	class  string

	texture     any // gpucontext.Texture once created
	oldTexture  any // previous texture, destroyed after the next upload
	sizeChanged bool

	width, height int
	presents      int
	closed        bool
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

// Resize reallocates the pixmap. The texture is recreated on the next
// Present. Same-size resizes are no-ops.
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
		return fmt.Errorf("gpu: context resize failed: %w", err)
	}
	s.width, s.height = width, height
	s.sizeChanged = true
	return nil
}

// Present uploads the pixmap and draws it at the window origin.
func (s *Surface) Present() error {
	if s.closed {
		return ErrSurfaceClosed
	}

	// The old texture may still be referenced by in-flight command buffers;
	// it is destroyed once the replacement upload has waited for the GPU.
	if s.sizeChanged {
		if s.texture != nil {
			destroy(s.oldTexture)
			s.oldTexture = s.texture
			s.texture = nil
		}
		s.sizeChanged = false
	}

	if err := s.ctx.FlushGPU(); err != nil {
		ggfx.Logger().Debug("gpu: accelerator flush failed, using CPU pixels", "err", err)
	}
	data := s.ctx.ResizeTarget().Data()

	if s.texture == nil {
		creator := s.drawer.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}
		tex, err := creator.NewTextureFromRGBA(s.width, s.height, data)
		if err != nil {
			return fmt.Errorf("gpu: NewTextureFromRGBA failed: %w", err)
		}
		// gg pixmaps are premultiplied.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		s.texture = tex
		destroy(s.oldTexture)
		s.oldTexture = nil
	} else if updater, ok := s.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(data); err != nil {
			return fmt.Errorf("gpu: texture update failed: %w", err)
		}
	}

	tex, ok := s.texture.(gpucontext.Texture)
	if !ok {
		return ErrInvalidTexture
	}
	if err := s.drawer.DrawTexture(tex, 0, 0); err != nil {
		return fmt.Errorf("gpu: draw texture: %w", err)
	}
	s.presents++
	return nil
}

// Presents returns the number of frames presented.
func (s *Surface) Presents() int { return s.presents }

// Close destroys the textures and the context. Idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	destroy(s.oldTexture)
	destroy(s.texture)
	s.oldTexture, s.texture = nil, nil
	if s.ctx != nil {
		_ = s.ctx.Close()
		s.ctx = nil
	}
	s.drawer = nil
	return nil
}

func destroy(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
