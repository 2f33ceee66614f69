// Package term runs ggfx effects in a terminal.
//
// The whole screen is the container. Every cell shows two vertically
// stacked pixels with an upper half block, so a cols x rows terminal is a
// cols x 2*rows pixel container. A ticker drives the display refresh by
// posting interrupts into the tcell event loop; frame callbacks, listeners
// and observers therefore all run on the goroutine calling Run.
package term

import (
	"context"
	"fmt"
	"image"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
	"golang.org/x/image/draw"
)

// DefaultInterval is the display refresh interval.
const DefaultInterval = time.Second / 30

// upperHalf draws the top pixel in the foreground colour and the bottom
// pixel in the background colour.
const upperHalf = '▀'

// Option configures a Host.
type Option func(*Host)

// WithInterval sets the display refresh interval. Values <= 0 keep the
// default.
func WithInterval(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.interval = d
		}
	}
}

// WithPixelRatio renders surfaces at ratio times the cell grid and
// downsamples them when blitting. Values <= 0 keep 1.
func WithPixelRatio(ratio float64) Option {
	return func(h *Host) {
		if ratio > 0 {
			h.screen.dpr = ratio
		}
	}
}

// tick is the interrupt payload of the refresh ticker.
type tick struct{}

// call is the interrupt payload of Do.
type call struct{ fn func() }

// Host implements ggfx.Host on a tcell screen.
type Host struct {
	tscreen  tcell.Screen
	screen   *Screen
	interval time.Duration
	start    time.Time

	nextFrame ggfx.FrameID
	frames    map[ggfx.FrameID]ggfx.FrameFunc

	nextListener ggfx.ListenerID
	listeners    map[ggfx.ListenerID]listener

	nextObserver int
	observers    map[int]func(float64)
	focused      bool

	buttons tcell.ButtonMask
	scratch *image.RGBA
}

type listener struct {
	kind ggfx.EventKind
	fn   func(ggfx.Event)
}

// New wraps an initialized tcell screen.
func New(s tcell.Screen, opts ...Option) *Host {
	h := &Host{
		tscreen:   s,
		screen:    &Screen{dpr: 1},
		interval:  DefaultInterval,
		start:     time.Now(),
		frames:    make(map[ggfx.FrameID]ggfx.FrameFunc),
		listeners: make(map[ggfx.ListenerID]listener),
		observers: make(map[int]func(float64)),
		focused:   true,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.screen.cols, h.screen.rows = s.Size()
	return h
}

// Screen returns the container covering the whole terminal.
func (h *Host) Screen() *Screen { return h.screen }

// RequestFrame queues fn for the next refresh tick.
func (h *Host) RequestFrame(fn ggfx.FrameFunc) ggfx.FrameID {
	h.nextFrame++
	h.frames[h.nextFrame] = fn
	return h.nextFrame
}

// CancelFrame drops a queued frame callback.
func (h *Host) CancelFrame(id ggfx.FrameID) { delete(h.frames, id) }

// Listen registers fn for events of kind.
func (h *Host) Listen(kind ggfx.EventKind, fn func(ggfx.Event)) ggfx.ListenerID {
	h.nextListener++
	h.listeners[h.nextListener] = listener{kind: kind, fn: fn}
	return h.nextListener
}

// Unlisten removes a listener.
func (h *Host) Unlisten(id ggfx.ListenerID) { delete(h.listeners, id) }

// Observe reports terminal focus as visibility: 1 while focused, 0
// otherwise. The current value is reported immediately.
func (h *Host) Observe(_ ggfx.Container, fn func(ratio float64)) (stop func()) {
	h.nextObserver++
	id := h.nextObserver
	h.observers[id] = fn
	fn(h.ratio())
	return func() { delete(h.observers, id) }
}

func (h *Host) ratio() float64 {
	if h.focused {
		return 1
	}
	return 0
}

// PendingFrames returns the number of queued frame callbacks.
func (h *Host) PendingFrames() int { return len(h.frames) }

// Listeners returns the number of registered listeners.
func (h *Host) Listeners() int { return len(h.listeners) }

// Do runs fn on the event loop goroutine.
func (h *Host) Do(fn func()) error {
	return h.tscreen.PostEvent(tcell.NewEventInterrupt(call{fn: fn}))
}

// Run enables mouse and focus reporting and processes events until ctx is
// done or Esc / Ctrl-C is pressed. The caller owns the screen's Init and
// Fini.
func (h *Host) Run(ctx context.Context) error {
	h.tscreen.EnableMouse(tcell.MouseMotionEvents)
	defer h.tscreen.DisableMouse()
	h.tscreen.EnableFocus()
	defer h.tscreen.DisableFocus()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go h.tickLoop(ctx)

	ggfx.Logger().Info("term: event loop started", "interval", h.interval,
		"cols", h.screen.cols, "rows", h.screen.rows)
	for {
		ev := h.tscreen.PollEvent()
		if ev == nil {
			return nil // screen finalized
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if h.HandleEvent(ev) {
			return nil
		}
	}
}

func (h *Host) tickLoop(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			// Wake PollEvent so Run notices the cancellation.
			_ = h.tscreen.PostEvent(tcell.NewEventInterrupt(nil))
			return
		case <-t.C:
			// A full queue drops the tick; the next one catches up.
			_ = h.tscreen.PostEvent(tcell.NewEventInterrupt(tick{}))
		}
	}
}

// HandleEvent processes one tcell event and reports whether the loop
// should quit.
func (h *Host) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		switch d := ev.Data().(type) {
		case tick:
			h.Step(time.Since(h.start))
		case call:
			d.fn()
		}
	case *tcell.EventResize:
		h.screen.cols, h.screen.rows = ev.Size()
		h.tscreen.Sync()
		h.dispatch(ggfx.Event{Kind: ggfx.EventResize})
	case *tcell.EventMouse:
		h.mouse(ev)
	case *tcell.EventFocus:
		h.focused = ev.Focused
		h.notify()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
	}
	return false
}

func (h *Host) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pt := ggfx.Event{X: float64(x) + 0.5, Y: float64(y)*2 + 1}
	pressed := ev.Buttons() & tcell.ButtonPrimary
	switch {
	case pressed != 0 && h.buttons == 0:
		pt.Kind = ggfx.EventPointerDown
	case pressed == 0 && h.buttons != 0:
		pt.Kind = ggfx.EventPointerUp
	default:
		pt.Kind = ggfx.EventPointerMove
	}
	h.buttons = pressed
	h.dispatch(pt)
}

func (h *Host) dispatch(ev ggfx.Event) {
	ids := make([]ggfx.ListenerID, 0, len(h.listeners))
	for id, l := range h.listeners {
		if l.kind == ev.Kind {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if l, ok := h.listeners[id]; ok {
			l.fn(ev)
		}
	}
}

func (h *Host) notify() {
	ids := make([]int, 0, len(h.observers))
	for id := range h.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	r := h.ratio()
	for _, id := range ids {
		if fn, ok := h.observers[id]; ok {
			fn(r)
		}
	}
}

// Step runs the pending frame callbacks with timestamp ts, then draws the
// mounted surfaces to the terminal.
func (h *Host) Step(ts time.Duration) {
	ids := make([]ggfx.FrameID, 0, len(h.frames))
	for id := range h.frames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn, ok := h.frames[id]
		if !ok {
			continue
		}
		delete(h.frames, id)
		fn(ts)
	}
	h.blit()
}

// contextNode is a mounted node that can be read back.
type contextNode interface {
	Context() *gg.Context
}

// blit resamples every mounted surface onto the cell grid, later mounts
// drawn over earlier ones.
func (h *Host) blit() {
	cols, rows := h.screen.cols, h.screen.rows
	if cols <= 0 || rows <= 0 {
		return
	}
	bounds := image.Rect(0, 0, cols, rows*2)
	if h.scratch == nil || h.scratch.Rect != bounds {
		h.scratch = image.NewRGBA(bounds)
	}
	dst := h.scratch
	for i := range dst.Pix {
		dst.Pix[i] = 0
	}

	for _, n := range h.screen.nodes {
		cn, ok := n.(contextNode)
		if !ok {
			continue
		}
		dc := cn.Context()
		if dc == nil {
			continue
		}
		pm := dc.ResizeTarget()
		src := &image.RGBA{
			Pix:    pm.Data(),
			Stride: pm.Width() * 4,
			Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
		}
		draw.ApproxBiLinear.Scale(dst, bounds, src, src.Rect, draw.Over, nil)
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := dst.RGBAAt(x, 2*y)
			bottom := dst.RGBAAt(x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			h.tscreen.SetContent(x, y, upperHalf, nil, style)
		}
	}
	h.tscreen.Show()
}

// Screen is the terminal as a ggfx container.
type Screen struct {
	cols, rows int
	dpr        float64
	nodes      []ggfx.Node
}

// Size returns the container size: one unit per column and two per row.
func (s *Screen) Size() (width, height float64) {
	return float64(s.cols), float64(s.rows * 2)
}

// Bounds returns the container box in pointer coordinates.
func (s *Screen) Bounds() ggfx.Rect {
	w, h := s.Size()
	return ggfx.Rect{W: w, H: h}
}

// DevicePixelRatio returns the supersampling ratio.
func (s *Screen) DevicePixelRatio() float64 { return s.dpr }

// Mount adds n to the blit list. Nodes must be able to expose their
// drawing context.
func (s *Screen) Mount(n ggfx.Node) error {
	if _, ok := n.(contextNode); !ok {
		return fmt.Errorf("term: node %T has no drawing context", n)
	}
	s.nodes = append(s.nodes, n)
	return nil
}

// Unmount removes n if present.
func (s *Screen) Unmount(n ggfx.Node) {
	for i, m := range s.nodes {
		if m == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return
		}
	}
}

// Nodes returns the number of mounted nodes.
func (s *Screen) Nodes() int { return len(s.nodes) }
