package ggfx

import (
	"errors"
	"testing"
)

type fakeBackend struct {
	name     string
	features Feature
}

func (b *fakeBackend) Name() string            { return b.name }
func (b *fakeBackend) Supports(f Feature) bool { return f != 0 && f&^b.features == 0 }
func (b *fakeBackend) NewSurface(int, int, string) (Surface, error) {
	return nil, errors.New("fake: no surfaces")
}

// withBackends swaps the backend registry for the duration of a test.
func withBackends(t *testing.T) {
	t.Helper()
	backendsMu.Lock()
	saved := backends
	backends = make(map[string]backendEntry)
	backendsMu.Unlock()
	t.Cleanup(func() {
		backendsMu.Lock()
		backends = saved
		backendsMu.Unlock()
	})
}

func TestFeatureString(t *testing.T) {
	tests := []struct {
		f    Feature
		want string
	}{
		{0, "none"},
		{FeaturePixels, "pixels"},
		{FeaturePaths | FeatureAlpha, "paths|alpha"},
		{FeatureShaders | 1<<10, "shaders|0x400"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("Feature(%d).String() = %q, want %q", uint32(tt.f), got, tt.want)
		}
	}
}

func TestMissingFeatures(t *testing.T) {
	b := &fakeBackend{name: "cpu", features: FeaturePixels | FeaturePaths}
	if got := MissingFeatures(b, FeaturePixels); got != 0 {
		t.Errorf("MissingFeatures(pixels) = %v", got)
	}
	if got := MissingFeatures(b, FeaturePaths|FeatureShaders|FeatureAlpha); got != FeatureShaders|FeatureAlpha {
		t.Errorf("MissingFeatures = %v, want shaders|alpha", got)
	}
}

func TestBackendRegistry(t *testing.T) {
	withBackends(t)

	if _, err := BestBackend(); !errors.Is(err, ErrNoContext) {
		t.Errorf("BestBackend with empty registry = %v, want %v", err, ErrNoContext)
	}

	RegisterBackend("low", 1, func() (Backend, error) { return &fakeBackend{name: "low"}, nil })
	RegisterBackend("high", 20, func() (Backend, error) { return nil, errors.New("no device") })
	RegisterBackend("mid", 10, func() (Backend, error) { return &fakeBackend{name: "mid"}, nil })

	names := Backends()
	want := []string{"high", "mid", "low"}
	if len(names) != len(want) {
		t.Fatalf("Backends() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Backends() = %v, want %v", names, want)
		}
	}

	b, err := BestBackend()
	if err != nil {
		t.Fatalf("BestBackend: %v", err)
	}
	if b.Name() != "mid" {
		t.Errorf("BestBackend() = %q, want mid (high fails)", b.Name())
	}

	if _, err := NewBackend("absent"); !errors.Is(err, ErrNoContext) {
		t.Errorf("NewBackend(absent) = %v, want %v", err, ErrNoContext)
	}
}
