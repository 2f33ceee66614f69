// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
)

func TestSupports(t *testing.T) {
	b := New()
	tests := []struct {
		f    ggfx.Feature
		want bool
	}{
		{ggfx.FeaturePixels, true},
		{ggfx.FeaturePaths | ggfx.FeatureAlpha | ggfx.FeatureImages, true},
		{ggfx.FeatureShaders, false},
		{ggfx.FeaturePaths | ggfx.FeatureShaders, false},
		{0, false},
	}
	for _, tt := range tests {
		if got := b.Supports(tt.f); got != tt.want {
			t.Errorf("Supports(%v) = %v, want %v", tt.f, got, tt.want)
		}
	}
	if b.Name() != Name {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestRegistered(t *testing.T) {
	found := false
	for _, name := range ggfx.Backends() {
		if name == Name {
			found = true
		}
	}
	if !found {
		t.Fatalf("Backends() = %v, want %q registered", ggfx.Backends(), Name)
	}
	b, err := ggfx.NewBackend(Name)
	if err != nil || b.Name() != Name {
		t.Errorf("NewBackend(%q) = %v, %v", Name, b, err)
	}
}

func TestNewSurfaceInvalid(t *testing.T) {
	for _, size := range [][2]int{{0, 1}, {1, 0}, {-5, 5}} {
		if _, err := NewSurface(size[0], size[1], ""); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewSurface(%d, %d) error = %v, want %v", size[0], size[1], err, ErrInvalidDimensions)
		}
	}
}

func TestSurfaceLifecycle(t *testing.T) {
	s, err := NewSurface(16, 8, "fx")
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	if s.Class() != "fx" {
		t.Errorf("Class() = %q", s.Class())
	}

	dc := s.Context()
	dc.ClearWithColor(gg.RGB(1, 0, 0))
	if err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if s.Presents() != 1 {
		t.Errorf("Presents() = %d", s.Presents())
	}
	img := s.Image()
	if img == nil || img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Fatalf("Image() bounds = %v", img.Bounds())
	}
	if c := img.RGBAAt(3, 3); c.R != 255 || c.G != 0 || c.A != 255 {
		t.Errorf("pixel = %+v, want opaque red", c)
	}

	if err := s.Resize(16, 8); err != nil {
		t.Errorf("same-size Resize: %v", err)
	}
	if err := s.Resize(32, 4); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if w, h := s.Size(); w != 32 || h != 4 {
		t.Errorf("Size() = %dx%d", w, h)
	}
	if pm := s.Context().ResizeTarget(); pm.Width() != 32 || pm.Height() != 4 {
		t.Errorf("pixmap = %dx%d", pm.Width(), pm.Height())
	}
	if err := s.Resize(0, 4); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 4) = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if !s.Closed() || s.Context() != nil || s.Image() != nil {
		t.Error("closed surface still exposes its context")
	}
	if err := s.Present(); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("Present after Close = %v", err)
	}
	if err := s.Resize(4, 4); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("Resize after Close = %v", err)
	}
	if err := s.SavePNG(filepath.Join(t.TempDir(), "x.png")); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("SavePNG after Close = %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	s, err := NewSurface(4, 4, "")
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	defer s.Close()

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := s.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("PNG not written: %v", err)
	}
}
