package ggfx

import "time"

// FrameID identifies a pending display-refresh callback. Zero is never a
// valid ID.
type FrameID uint64

// ListenerID identifies a registered event listener. Zero is never a valid
// ID.
type ListenerID uint64

// FrameFunc is invoked once at the next paint opportunity with the host's
// monotonic frame timestamp.
type FrameFunc func(ts time.Duration)

// EventKind enumerates the window-scoped events an instance listens to.
type EventKind uint8

const (
	// EventResize is delivered when the window or container layout changes.
	EventResize EventKind = iota + 1

	// EventPointerMove is delivered when the pointer moves anywhere in the window.
	EventPointerMove

	// EventPointerDown is delivered when a pointer button is pressed.
	EventPointerDown

	// EventPointerUp is delivered when a pointer button is released.
	EventPointerUp
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventPointerMove:
		return "pointermove"
	case EventPointerDown:
		return "pointerdown"
	case EventPointerUp:
		return "pointerup"
	default:
		return "unknown"
	}
}

// Event is a window-scoped input event. X and Y are window coordinates in
// layout units; they are zero for resize events.
type Event struct {
	Kind EventKind
	X, Y float64
}

// Host is the environment an instance runs in: a display-refresh scheduler,
// a window event source and a viewport intersection observer.
//
// Every callback a Host delivers must run on the host's single loop
// goroutine; instances rely on that instead of locking.
type Host interface {
	// RequestFrame schedules fn for the next paint opportunity.
	RequestFrame(fn FrameFunc) FrameID

	// CancelFrame cancels a pending frame callback. Unknown or already
	// delivered IDs are ignored.
	CancelFrame(id FrameID)

	// Listen registers fn for events of the given kind.
	Listen(kind EventKind, fn func(Event)) ListenerID

	// Unlisten removes a listener. Unknown IDs are ignored.
	Unlisten(id ListenerID)

	// Observe reports the fraction of c visible in the viewport whenever it
	// changes. The returned function stops observation.
	Observe(c Container, fn func(ratio float64)) (stop func())
}

// Container is the host-side layout box an effect is bound to.
type Container interface {
	// Size returns the layout box in layout units.
	Size() (width, height float64)

	// Bounds returns the bounding box in window coordinates.
	Bounds() Rect

	// DevicePixelRatio returns the ratio of device pixels to layout units.
	DevicePixelRatio() float64

	// Mount inserts a drawable node into the container's subtree.
	Mount(n Node) error

	// Unmount removes a previously mounted node. Unknown nodes are ignored.
	Unmount(n Node)
}

// Node is a drawable inserted into a container.
type Node interface {
	// Class returns the host-side styling hook (className) of the node.
	Class() string
}
