package preset

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/ggfx"
	"github.com/gogpu/ggfx/effect/galaxy"
	"github.com/gogpu/ggfx/effect/gallery"
	"github.com/gogpu/ggfx/effect/lightrays"
	"github.com/gogpu/ggfx/effect/threads"
)

func TestParseLightRays(t *testing.T) {
	p, err := Parse([]byte(`
name = "hero"
description = "test"
effect = "lightrays"
width = 1280
height = 720
pixel_ratio = 2

[params]
origin = "bottom-right"
color = "#0ff"
speed = 2.5
follow_pointer = false
`), "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Name != "hero" || p.Description != "test" || p.Width != 1280 || p.Height != 720 || p.PixelRatio != 2 {
		t.Errorf("preset = %+v", p)
	}
	cfg, ok := p.Effect.(lightrays.Config)
	if !ok {
		t.Fatalf("Effect = %T, want lightrays.Config", p.Effect)
	}
	if cfg.Origin != ggfx.OriginBottomRight || cfg.Color != "#0ff" || cfg.Speed != 2.5 || cfg.FollowPointer {
		t.Errorf("config = %+v", cfg)
	}
	// Untouched keys keep their defaults.
	d := lightrays.Defaults()
	if cfg.Spread != d.Spread || cfg.RayLength != d.RayLength {
		t.Errorf("defaults not kept: spread=%v rayLength=%v", cfg.Spread, cfg.RayLength)
	}
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse([]byte("name = \"plain\"\neffect = \"threads\"\n"), "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Width != DefaultWidth || p.Height != DefaultHeight || p.PixelRatio != DefaultPixelRatio {
		t.Errorf("geometry = %vx%v@%v", p.Width, p.Height, p.PixelRatio)
	}
	cfg, ok := p.Effect.(threads.Config)
	if !ok {
		t.Fatalf("Effect = %T", p.Effect)
	}
	if cfg != threads.Defaults() {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		wantMsg string
	}{
		{"bad toml", "name = ", nil, "parse TOML"},
		{"missing name", `effect = "threads"`, ErrInvalid, "name"},
		{"unknown effect", "name = \"x\"\neffect = \"plasma\"", ErrUnknownEffect, "plasma"},
		{"speed out of range", "name = \"x\"\neffect = \"lightrays\"\n[params]\nspeed = 50", ErrInvalid, "speed"},
		{"bad origin", "name = \"x\"\neffect = \"lightrays\"\n[params]\norigin = \"middle\"", ErrInvalid, "origin"},
		{"bad color", "name = \"x\"\neffect = \"threads\"\n[params]\ncolor = \"teal\"", ErrInvalid, "color"},
		{"line count", "name = \"x\"\neffect = \"threads\"\n[params]\nline_count = 0", ErrInvalid, "line_count"},
		{"unknown key", "name = \"x\"\neffect = \"galaxy\"\n[params]\nsparkle = 1", ErrInvalid, "sparkle"},
		{"gallery without items", "name = \"x\"\neffect = \"gallery\"", ErrInvalid, "items"},
		{"pixel ratio", "name = \"x\"\neffect = \"galaxy\"\npixel_ratio = 9", ErrInvalid, "pixel_ratio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "")
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadGalleryImages(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 16; i++ {
		img.Set(i%4, i/4, color.RGBA{R: 255, A: 255})
	}
	f, err := os.Create(filepath.Join(dir, "red.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	path := filepath.Join(dir, "gallery.toml")
	data := `
name = "pics"
effect = "gallery"

[params]
bend = -2

[[params.items]]
image = "red.png"
text = "Red"

[[params.items]]
text = "Blank"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg, ok := p.Effect.(gallery.Config)
	if !ok {
		t.Fatalf("Effect = %T", p.Effect)
	}
	if len(cfg.Items) != 2 || cfg.Bend != -2 {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Items[0].Image == nil || cfg.Items[0].Image.Bounds().Dx() != 4 {
		t.Error("first item should carry the decoded image")
	}
	if cfg.Items[1].Image != nil || cfg.Items[1].Text != "Blank" {
		t.Errorf("second item = %+v", cfg.Items[1])
	}
}

func TestLoadMissingImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gallery.toml")
	data := "name = \"x\"\neffect = \"gallery\"\n[[params.items]]\nimage = \"nope.png\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "nope.png") {
		t.Errorf("Load() error = %v, want missing image", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestSectionResolve(t *testing.T) {
	s := Section{Dir: "/presets"}
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"a.png", filepath.Join("/presets", "a.png")},
		{"/abs/a.png", "/abs/a.png"},
	}
	for _, tt := range tests {
		if got := s.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := (Section{}).Resolve("a.png"); got != "a.png" {
		t.Errorf("Resolve without dir = %q", got)
	}
}

func TestRegistry(t *testing.T) {
	want := []string{galaxy.Name, gallery.Name, lightrays.Name, threads.Name}
	got := Effects()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Effects() = %v, want %v", got, want)
	}
	if _, ok := Lookup("plasma"); ok {
		t.Error("Lookup(plasma) should fail")
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register(lightrays.Name, buildLightRays)
}

func TestBuiltins(t *testing.T) {
	names := Builtins()
	if len(names) == 0 {
		t.Fatal("no builtin presets")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p, err := Builtin(name)
			if err != nil {
				t.Fatalf("Builtin(%q): %v", name, err)
			}
			if p.Name != name {
				t.Errorf("Name = %q, want %q", p.Name, name)
			}
			if p.Effect == nil {
				t.Error("Effect is nil")
			}
		})
	}
	if _, err := Builtin("missing"); err == nil {
		t.Error("Builtin(missing) should fail")
	}
}
