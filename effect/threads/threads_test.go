package threads

import (
	"math"
	"testing"

	"github.com/gogpu/ggfx"
	"github.com/gogpu/ggfx/backend/software"
	"github.com/gogpu/ggfx/host/headless"
)

func compile(t *testing.T, cfg Config) *Program {
	t.Helper()
	prog, err := cfg.Compile(software.New())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return prog.(*Program)
}

func TestNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{"zero lines", Config{LineCount: 0}, Config{LineCount: 1}},
		{"too many lines", Config{LineCount: 1000}, Config{LineCount: 128}},
		{"amplitude clamps", Config{Amplitude: 9, LineCount: 3}, Config{Amplitude: 4, LineCount: 3}},
		{"NaN distance", Config{Distance: math.NaN(), LineCount: 3}, Config{Distance: 0, LineCount: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalized(); got != tt.want {
				t.Errorf("Normalized() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestThreadsPinnedAtEdges(t *testing.T) {
	p := compile(t, Defaults())
	p.Resize(400, 200)
	p.Update(ggfx.Frame{Time: 3.2})

	for i := 0; i < p.cfg.LineCount; i++ {
		left, right := p.Y(i, 0), p.Y(i, 400)
		// The envelope vanishes at both edges, leaving the base line.
		if math.Abs(left-right) > 1e-6 {
			t.Errorf("thread %d: edges %v and %v differ", i, left, right)
		}
	}
}

func TestFollowPointerPullsThreads(t *testing.T) {
	cfg := Defaults()
	cfg.Amplitude = 0
	cfg.FollowPointer = true
	p := compile(t, cfg)
	p.Resize(400, 200)

	p.Update(ggfx.Frame{Pointer: ggfx.Vec2{X: 0.5, Y: 0.5}})
	centre := p.Y(0, 200)
	p.Update(ggfx.Frame{Pointer: ggfx.Vec2{X: 0.5, Y: 1}})
	pulled := p.Y(0, 200)
	if pulled <= centre {
		t.Errorf("pointer below should pull the thread down: %v -> %v", centre, pulled)
	}

	cfg.FollowPointer = false
	p = compile(t, cfg)
	p.Resize(400, 200)
	p.Update(ggfx.Frame{Pointer: ggfx.Vec2{X: 0.5, Y: 0.5}})
	rest := p.Y(0, 200)
	p.Update(ggfx.Frame{Pointer: ggfx.Vec2{X: 0.5, Y: 1}})
	if got := p.Y(0, 200); math.Abs(got-rest) > 1e-9 {
		t.Errorf("pointer should be ignored: got %v, want %v", got, rest)
	}
}

func TestDraw(t *testing.T) {
	s, err := software.NewSurface(160, 90, "")
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	defer s.Close()

	cfg := Defaults()
	cfg.LineCount = 8
	p := compile(t, cfg)
	p.Resize(160, 90)
	p.Update(ggfx.Frame{Time: 1})
	if err := p.Draw(s); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	img := s.Image()
	if a := img.RGBAAt(80, 0).A; a != 0 {
		t.Errorf("top edge alpha = %d, want 0", a)
	}
	lit := 0
	for y := 0; y < 90; y++ {
		if img.RGBAAt(80, y).A > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no thread crosses the centre column")
	}
}

func TestTune(t *testing.T) {
	p := compile(t, Defaults())
	next := Defaults()
	next.Color = "#ff0000"
	next.LineCount = 5
	if !p.Tune(next) {
		t.Fatal("Tune should apply in place")
	}
	if p.cfg.LineCount != 5 || p.color.G != 0 {
		t.Errorf("after Tune: lines %d colour %+v", p.cfg.LineCount, p.color)
	}
	next.FollowPointer = true
	if p.Tune(next) {
		t.Error("enabling pointer following needs a rebuild")
	}
	next.FollowPointer = false
	next.ClassName = "strings"
	if p.Tune(next) {
		t.Error("a class change needs a rebuild")
	}
}

func TestReconfigureClass(t *testing.T) {
	h := headless.New()
	c := headless.NewContainer(120, 80)
	cfg := Defaults()
	cfg.ClassName = "old"
	inst, err := ggfx.Activate(h, c, cfg, ggfx.WithBackend(software.New()))
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	defer inst.Deactivate()

	prog := inst.Program()
	cfg.ClassName = "new"
	if err := inst.Reconfigure(cfg); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if inst.Program() == prog {
		t.Error("a class change should rebuild the program")
	}
	if got := inst.Surface().Class(); got != "new" {
		t.Errorf("surface class = %q, want new", got)
	}
	if len(c.Nodes()) != 1 {
		t.Errorf("container holds %d nodes after rebuild, want 1", len(c.Nodes()))
	}
}
