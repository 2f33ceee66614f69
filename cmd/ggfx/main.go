// Command ggfx renders ggfx effect presets to PNG files or to the terminal.
//
// Usage:
//
//	ggfx list
//	ggfx render [-preset name | -file path] [-frames n] [-fps n] [-pointer x,y] [-o out.png]
//	ggfx term   [-preset name | -file path] [-fps n] [-log path]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/ggfx"
	"github.com/gogpu/ggfx/backend/software"
	"github.com/gogpu/ggfx/host/headless"
	"github.com/gogpu/ggfx/host/term"
	"github.com/gogpu/ggfx/internal/preset"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("ggfx: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "list":
		err = runList()
	case "render":
		err = runRender(args)
	case "term":
		err = runTerm(args)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		log.Fatalf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  ggfx list
  ggfx render [-preset name | -file path] [-frames n] [-fps n] [-pointer x,y] [-o out.png]
  ggfx term   [-preset name | -file path] [-fps n] [-log path]`)
}

// presetFlags are shared by render and term.
type presetFlags struct {
	name    *string
	file    *string
	verbose *bool
}

func addPresetFlags(fs *flag.FlagSet) presetFlags {
	return presetFlags{
		name:    fs.String("preset", "sunrise", "builtin preset name"),
		file:    fs.String("file", "", "preset TOML file (overrides -preset)"),
		verbose: fs.Bool("v", false, "debug logging"),
	}
}

func (f presetFlags) load() (preset.Preset, error) {
	if *f.file != "" {
		return preset.Load(*f.file)
	}
	return preset.Builtin(*f.name)
}

func (f presetFlags) level() slog.Level {
	if *f.verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func runList() error {
	fmt.Println("effects:")
	for _, name := range preset.Effects() {
		fmt.Println("  " + name)
	}
	fmt.Println("presets:")
	for _, name := range preset.Builtins() {
		p, err := preset.Builtin(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %s (%s)\n", name, p.Description, p.Effect.Name())
	}
	fmt.Println("backends:")
	for _, name := range ggfx.Backends() {
		fmt.Println("  " + name)
	}
	return nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	pf := addPresetFlags(fs)
	var (
		frames  = fs.Int("frames", 60, "number of frames to run before saving")
		fps     = fs.Int("fps", 60, "frame rate of the simulated clock")
		pointer = fs.String("pointer", "", "pointer position as x,y in container units")
		output  = fs.String("o", "ggfx.png", "output file")
	)
	_ = fs.Parse(args)

	ggfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: pf.level()})))

	p, err := pf.load()
	if err != nil {
		return err
	}
	if *frames < 1 || *fps < 1 {
		return errors.New("render: -frames and -fps must be positive")
	}

	host := headless.New()
	c := headless.NewContainer(p.Width, p.Height)
	c.DPR = p.PixelRatio

	inst, err := ggfx.Activate(host, c, p.Effect, ggfx.WithBackend(software.New()))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer inst.Deactivate()

	if *pointer != "" {
		x, y, err := parsePoint(*pointer)
		if err != nil {
			return err
		}
		host.Dispatch(ggfx.Event{Kind: ggfx.EventPointerMove, X: x, Y: y})
	}

	step := time.Second / time.Duration(*fps)
	for i := 0; i < *frames; i++ {
		host.Advance(step)
	}
	if err := inst.Err(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	surf, ok := inst.Surface().(*software.Surface)
	if !ok {
		return fmt.Errorf("render: unexpected surface %T", inst.Surface())
	}
	if err := surf.SavePNG(*output); err != nil {
		return fmt.Errorf("render: save: %w", err)
	}
	w, h := inst.Size()
	log.Printf("%s: %d frames saved to %s (%dx%d)", p.Name, inst.Frames(), *output, w, h)
	return nil
}

func parsePoint(s string) (x, y float64, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("pointer %q: want x,y", s)
	}
	if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
		return 0, 0, fmt.Errorf("pointer %q: %w", s, err)
	}
	if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
		return 0, 0, fmt.Errorf("pointer %q: %w", s, err)
	}
	return x, y, nil
}

func runTerm(args []string) error {
	fs := flag.NewFlagSet("term", flag.ExitOnError)
	pf := addPresetFlags(fs)
	var (
		fps     = fs.Int("fps", 30, "refresh rate")
		logPath = fs.String("log", "", "write logs to this file")
	)
	_ = fs.Parse(args)

	// The screen owns stdout, so logs only go to a file.
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("term: open log: %w", err)
		}
		defer f.Close()
		ggfx.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: pf.level()})))
	}

	p, err := pf.load()
	if err != nil {
		return err
	}
	if *fps < 1 {
		return errors.New("term: -fps must be positive")
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("term: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("term: %w", err)
	}
	defer s.Fini()

	h := term.New(s, term.WithInterval(time.Second/time.Duration(*fps)))
	v := ggfx.Mount(h, h.Screen(), p.Effect, ggfx.WithBackend(software.New()))
	defer v.Unmount()
	if err := v.Err(); err != nil {
		return fmt.Errorf("term: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := h.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
