// Package headless provides a deterministic ggfx host without a display.
//
// Frames only run when Advance is called and events only arrive through
// Dispatch, which makes the host suitable for tests and offline rendering.
package headless

import (
	"errors"
	"sort"
	"time"

	"github.com/gogpu/ggfx"
)

// Host implements ggfx.Host with a manual clock.
type Host struct {
	now time.Duration

	nextFrame ggfx.FrameID
	frames    map[ggfx.FrameID]ggfx.FrameFunc

	nextListener ggfx.ListenerID
	listeners    map[ggfx.ListenerID]listener

	nextObserver int
	observers    map[int]observer
	ratios       map[ggfx.Container]float64
}

type listener struct {
	kind ggfx.EventKind
	fn   func(ggfx.Event)
}

type observer struct {
	c  ggfx.Container
	fn func(float64)
}

// New creates a host whose clock starts at zero.
func New() *Host {
	return &Host{
		frames:    make(map[ggfx.FrameID]ggfx.FrameFunc),
		listeners: make(map[ggfx.ListenerID]listener),
		observers: make(map[int]observer),
		ratios:    make(map[ggfx.Container]float64),
	}
}

// RequestFrame queues fn for the next Advance.
func (h *Host) RequestFrame(fn ggfx.FrameFunc) ggfx.FrameID {
	h.nextFrame++
	h.frames[h.nextFrame] = fn
	return h.nextFrame
}

// CancelFrame drops a queued frame callback.
func (h *Host) CancelFrame(id ggfx.FrameID) {
	delete(h.frames, id)
}

// Listen registers fn for events of kind.
func (h *Host) Listen(kind ggfx.EventKind, fn func(ggfx.Event)) ggfx.ListenerID {
	h.nextListener++
	h.listeners[h.nextListener] = listener{kind: kind, fn: fn}
	return h.nextListener
}

// Unlisten removes a listener.
func (h *Host) Unlisten(id ggfx.ListenerID) {
	delete(h.listeners, id)
}

// Observe registers fn for intersection changes of c and immediately
// reports the current ratio (zero until SetIntersection is called).
func (h *Host) Observe(c ggfx.Container, fn func(ratio float64)) (stop func()) {
	h.nextObserver++
	id := h.nextObserver
	h.observers[id] = observer{c: c, fn: fn}
	fn(h.ratios[c])
	return func() { delete(h.observers, id) }
}

// Now returns the current frame timestamp.
func (h *Host) Now() time.Duration { return h.now }

// Advance moves the clock forward by d and runs every frame callback that
// was pending before the call, in request order. Callbacks requested while
// running wait for the next Advance. Returns the number of callbacks run.
func (h *Host) Advance(d time.Duration) int {
	h.now += d
	return h.RunFrames(h.now)
}

// RunFrames runs the pending frame callbacks with timestamp ts without
// moving the clock.
func (h *Host) RunFrames(ts time.Duration) int {
	ids := make([]ggfx.FrameID, 0, len(h.frames))
	for id := range h.frames {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ran := 0
	for _, id := range ids {
		fn, ok := h.frames[id]
		if !ok {
			continue // cancelled by an earlier callback
		}
		delete(h.frames, id)
		fn(ts)
		ran++
	}
	return ran
}

// Dispatch delivers ev to the listeners of its kind in registration order.
// Returns the number of listeners called.
func (h *Host) Dispatch(ev ggfx.Event) int {
	ids := make([]ggfx.ListenerID, 0, len(h.listeners))
	for id, l := range h.listeners {
		if l.kind == ev.Kind {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	called := 0
	for _, id := range ids {
		l, ok := h.listeners[id]
		if !ok {
			continue
		}
		l.fn(ev)
		called++
	}
	return called
}

// SetIntersection records the visible fraction of c and notifies its
// observers.
func (h *Host) SetIntersection(c ggfx.Container, ratio float64) {
	h.ratios[c] = ratio
	ids := make([]int, 0, len(h.observers))
	for id, o := range h.observers {
		if o.c == c {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	for _, id := range ids {
		if o, ok := h.observers[id]; ok {
			o.fn(ratio)
		}
	}
}

// PendingFrames returns the number of queued frame callbacks.
func (h *Host) PendingFrames() int { return len(h.frames) }

// Listeners returns the number of registered listeners.
func (h *Host) Listeners() int { return len(h.listeners) }

// ListenersOf returns the number of listeners registered for kind.
func (h *Host) ListenersOf(kind ggfx.EventKind) int {
	n := 0
	for _, l := range h.listeners {
		if l.kind == kind {
			n++
		}
	}
	return n
}

// Observers returns the number of active intersection observers.
func (h *Host) Observers() int { return len(h.observers) }

// ErrMountRefused is returned by a Container whose MountErr is set.
var ErrMountRefused = errors.New("headless: mount refused")

// Container is an in-memory layout box.
type Container struct {
	// X, Y place the box in window coordinates.
	X, Y float64

	// W, H are the layout size.
	W, H float64

	// DPR is the device pixel ratio.
	DPR float64

	// RefuseMount makes Mount fail with ErrMountRefused.
	RefuseMount bool

	nodes []ggfx.Node
}

// NewContainer creates a w x h box at the window origin with a device pixel
// ratio of 1.
func NewContainer(w, h float64) *Container {
	return &Container{W: w, H: h, DPR: 1}
}

// Size returns the layout size.
func (c *Container) Size() (width, height float64) { return c.W, c.H }

// Bounds returns the bounding box.
func (c *Container) Bounds() ggfx.Rect { return ggfx.Rect{X: c.X, Y: c.Y, W: c.W, H: c.H} }

// DevicePixelRatio returns DPR.
func (c *Container) DevicePixelRatio() float64 { return c.DPR }

// Resize changes the layout size. Hosts dispatch an EventResize afterwards.
func (c *Container) Resize(w, h float64) {
	c.W, c.H = w, h
}

// Mount appends n to the container's children.
func (c *Container) Mount(n ggfx.Node) error {
	if c.RefuseMount {
		return ErrMountRefused
	}
	c.nodes = append(c.nodes, n)
	return nil
}

// Unmount removes n if present.
func (c *Container) Unmount(n ggfx.Node) {
	for i, m := range c.nodes {
		if m == n {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return
		}
	}
}

// Nodes returns the mounted nodes.
func (c *Container) Nodes() []ggfx.Node {
	return append([]ggfx.Node(nil), c.nodes...)
}
