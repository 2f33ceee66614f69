// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/ggfx"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu"
)

// Entry points of every full-screen WGSL program.
const (
	entryVS = "vs_main"
	entryFS = "fs_main"
)

// copyRowAlign is the required BytesPerRow alignment of texture to buffer
// copies.
const copyRowAlign = 256

// readbackTimeout bounds the wait for a frame to come back from the GPU.
const readbackTimeout = 5 * time.Second

// wgpuDevice returns the provider's device when it is a *wgpu.Device, as
// gogpu's provider hands out.
func wgpuDevice(provider gpucontext.DeviceProvider) (*wgpu.Device, bool) {
	if provider == nil {
		return nil, false
	}
	device, ok := provider.Device().(*wgpu.Device)
	if !ok || device == nil || device.Queue() == nil {
		return nil, false
	}
	return device, true
}

// Shader is a WGSL program compiled to SPIR-V and, with a device, a
// shader module. Render draws the program's full-screen triangle into an
// offscreen texture and reads it back into the surface pixmap.
//
// Shader is NOT safe for concurrent use.
type Shader struct {
	Name  string
	SPIRV []uint32

	device *wgpu.Device
	module *wgpu.ShaderModule

	uniformSize uint64
	layout      *wgpu.BindGroupLayout
	pipeLayout  *wgpu.PipelineLayout
	pipeline    *wgpu.RenderPipeline

	target        *wgpu.Texture
	targetView    *wgpu.TextureView
	width, height uint32

	renders int
}

// Module returns the shader module, or nil when the provider did not hand
// out a device.
func (s *Shader) Module() *wgpu.ShaderModule { return s.module }

// Renders returns the number of frames rendered.
func (s *Shader) Renders() int { return s.renders }

// Compile translates wgsl to SPIR-V and creates a shader module on the
// provider's device when one is available.
func (b *Backend) Compile(name, wgsl string) (ggfx.Shader, error) {
	spirv, err := compileSPIRV(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gpu: %s: %w", name, err)
	}
	s := &Shader{Name: name, SPIRV: spirv}

	device, ok := wgpuDevice(b.provider)
	if !ok {
		return s, nil
	}
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: name,
		SPIRV: spirv,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: %s: create shader module: %w", name, err)
	}
	s.device, s.module = device, module
	ggfx.Logger().Debug("gpu: shader module created", "name", name, "words", len(spirv))
	return s, nil
}

// Render shades every pixel of target with uniforms bound at group 0,
// binding 0, and replaces the pixmap contents with the result.
func (s *Shader) Render(target ggfx.Surface, uniforms []byte) error {
	if s.module == nil {
		return ErrNoDevice
	}
	if len(uniforms) == 0 {
		return fmt.Errorf("gpu: %s: empty uniform block", s.Name)
	}
	dc := target.Context()
	if dc == nil {
		return ErrSurfaceClosed
	}
	pm := dc.ResizeTarget()
	w, h := uint32(pm.Width()), uint32(pm.Height()) //nolint:gosec // surface sizes fit uint32
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, w, h)
	}

	if err := s.ensurePipeline(uint64(len(uniforms))); err != nil {
		return fmt.Errorf("gpu: %s: %w", s.Name, err)
	}
	if err := s.ensureTarget(w, h); err != nil {
		return fmt.Errorf("gpu: %s: %w", s.Name, err)
	}

	queue := s.device.Queue()
	uniformBuf, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: s.Name + "_uniforms",
		Size:  uint64(len(uniforms)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: %s: create uniform buffer: %w", s.Name, err)
	}
	defer uniformBuf.Release()
	if err := queue.WriteBuffer(uniformBuf, 0, uniforms); err != nil {
		return fmt.Errorf("gpu: %s: write uniforms: %w", s.Name, err)
	}

	bindGroup, err := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   s.Name + "_bind",
		Layout:  s.layout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: uniformBuf, Size: uint64(len(uniforms))}},
	})
	if err != nil {
		return fmt.Errorf("gpu: %s: create bind group: %w", s.Name, err)
	}
	defer bindGroup.Release()

	if err := s.encodeAndReadback(bindGroup, pm.Data()); err != nil {
		return fmt.Errorf("gpu: %s: %w", s.Name, err)
	}
	s.renders++
	return nil
}

// ensurePipeline creates the bind group layout, pipeline layout and render
// pipeline on first use.
func (s *Shader) ensurePipeline(uniformSize uint64) error {
	if s.pipeline != nil && s.uniformSize == uniformSize {
		return nil
	}
	s.releasePipeline()

	layout, err := s.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: s.Name + "_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform, MinBindingSize: uniformSize},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	s.layout = layout

	pipeLayout, err := s.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            s.Name + "_pipe_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{s.layout},
	})
	if err != nil {
		s.releasePipeline()
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	s.pipeLayout = pipeLayout

	pipeline, err := s.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  s.Name + "_pipeline",
		Layout: s.pipeLayout,
		Vertex: wgpu.VertexState{
			Module:     s.module,
			EntryPoint: entryVS,
		},
		Fragment: &wgpu.FragmentState{
			Module:     s.module,
			EntryPoint: entryFS,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatRGBA8Unorm,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		s.releasePipeline()
		return fmt.Errorf("create render pipeline: %w", err)
	}
	s.pipeline = pipeline
	s.uniformSize = uniformSize
	return nil
}

// ensureTarget creates or recreates the offscreen colour target when the
// requested size differs from the current one.
func (s *Shader) ensureTarget(w, h uint32) error {
	if s.target != nil && s.width == w && s.height == h {
		return nil
	}
	s.releaseTarget()

	tex, err := s.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         s.Name + "_target",
		Size:          wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	s.target = tex

	view, err := s.device.CreateTextureView(tex, &wgpu.TextureViewDescriptor{
		Label:         s.Name + "_target_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.releaseTarget()
		return fmt.Errorf("create target view: %w", err)
	}
	s.targetView = view
	s.width, s.height = w, h
	return nil
}

// encodeAndReadback draws the full-screen triangle, copies the target to a
// staging buffer, submits, and copies the rows back into dst.
func (s *Shader) encodeAndReadback(bindGroup *wgpu.BindGroup, dst []byte) error {
	w, h := s.width, s.height
	encoder, err := s.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: s.Name + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	rp, err := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: s.Name + "_pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       s.targetView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("begin render pass: %w", err)
	}
	rp.SetPipeline(s.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(3, 1, 0, 0)
	if err := rp.End(); err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end render pass: %w", err)
	}

	// The target leaves the pass as a render attachment; the copy needs it
	// as a copy source.
	encoder.TransitionTextures([]wgpu.TextureBarrier{{
		Texture: s.target,
		Usage: wgpu.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	rowBytes := w * 4
	stride := (rowBytes + copyRowAlign - 1) &^ (copyRowAlign - 1)
	size := uint64(stride) * uint64(h)
	staging, err := s.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: s.Name + "_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer staging.Release()

	encoder.CopyTextureToBuffer(s.target, staging, []wgpu.BufferTextureCopy{{
		BufferLayout: wgpu.ImageDataLayout{Offset: 0, BytesPerRow: stride, RowsPerImage: h},
		TextureBase:  wgpu.ImageCopyTexture{Texture: s.target, MipLevel: 0},
		Size:         wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("finish encoding: %w", err)
	}
	if _, err := s.device.Queue().Submit(cmdBuf); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), readbackTimeout)
	defer cancel()
	if err := staging.Map(ctx, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("map staging: %w", err)
	}
	rng, err := staging.MappedRange(0, size)
	if err != nil {
		_ = staging.Unmap()
		return fmt.Errorf("mapped range: %w", err)
	}
	src := rng.Bytes()
	for y := uint32(0); y < h; y++ {
		copy(dst[y*rowBytes:(y+1)*rowBytes], src[y*stride:y*stride+rowBytes])
	}
	if err := staging.Unmap(); err != nil {
		ggfx.Logger().Warn("gpu: unmap failed", "err", err)
	}
	return nil
}

func (s *Shader) releasePipeline() {
	if s.pipeline != nil {
		s.pipeline.Release()
		s.pipeline = nil
	}
	if s.pipeLayout != nil {
		s.pipeLayout.Release()
		s.pipeLayout = nil
	}
	if s.layout != nil {
		s.layout.Release()
		s.layout = nil
	}
	s.uniformSize = 0
}

func (s *Shader) releaseTarget() {
	if s.targetView != nil {
		s.targetView.Release()
		s.targetView = nil
	}
	if s.target != nil {
		s.target.Release()
		s.target = nil
	}
	s.width, s.height = 0, 0
}

// Release destroys the pipeline, the target and the shader module.
// Idempotent.
func (s *Shader) Release() {
	s.releaseTarget()
	s.releasePipeline()
	if s.module != nil {
		s.module.Release()
	}
	s.module = nil
	s.device = nil
}

func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	return spirvWords(spirvBytes), nil
}

// spirvWords converts little-endian SPIR-V bytes to 32-bit words. A
// trailing partial word is dropped.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
