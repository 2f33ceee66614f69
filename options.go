package ggfx

// Option configures an Instance during activation.
//
// Example:
//
//	inst, err := ggfx.Activate(host, container, lightrays.Defaults(),
//	    ggfx.WithBackend(software.New()),
//	    ggfx.WithMaxPixelRatio(1.5),
//	)
type Option func(*options)

type options struct {
	backend   Backend
	maxDPR    float64
	smoothing float64
	registry  *Registry
	class     string
}

func defaultOptions() options {
	return options{
		maxDPR:    DefaultMaxPixelRatio,
		smoothing: DefaultSmoothing,
	}
}

// WithBackend selects the rendering backend. Without it the
// highest-priority registered backend is used.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithMaxPixelRatio caps the device pixel ratio used to size the surface.
// Values <= 0 keep the default of 2.
func WithMaxPixelRatio(max float64) Option {
	return func(o *options) {
		if max > 0 {
			o.maxDPR = max
		}
	}
}

// WithSmoothing sets the per-tick pointer blend factor. It is clamped to
// (0, 1]; 1 disables smoothing.
func WithSmoothing(k float64) Option {
	return func(o *options) {
		o.smoothing = smoothingRange.Clamp(k)
	}
}

var smoothingRange = Range{Min: 0.001, Max: 1, Default: DefaultSmoothing}

// WithRegistry records the instance in r while it is active. Used for
// diagnostics; instances never share state through it.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithClass overrides the className styling hook of the surface node.
// Without it the effect's own class (if it implements Classer) is used.
func WithClass(class string) Option {
	return func(o *options) {
		o.class = class
	}
}
