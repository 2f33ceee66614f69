package ggfx

// Gate turns viewport intersection ratios into an active/inactive signal.
// A ratio strictly greater than Threshold counts as visible; with the zero
// Threshold any non-zero intersection activates.
type Gate struct {
	Threshold float64

	active bool
}

// Update records a new intersection ratio and reports whether the active
// state changed.
func (g *Gate) Update(ratio float64) (changed bool) {
	active := ratio > g.Threshold
	if active == g.active {
		return false
	}
	g.active = active
	return true
}

// Active reports whether the last ratio was above the threshold.
func (g *Gate) Active() bool { return g.active }

// View is the visibility-gated component a host view mounts: it observes
// the container and activates an Instance while the container is visible,
// deactivating it as soon as it is not.
//
// Like Instance, View must only be used from the host's loop goroutine.
type View struct {
	host      Host
	container Container
	effect    Effect
	opts      []Option

	gate      Gate
	inst      *Instance
	stop      func()
	err       error
	unmounted bool
}

// Mount starts observing container. The effect is activated the first time
// the host reports a non-zero intersection.
func Mount(host Host, container Container, effect Effect, opts ...Option) *View {
	v := &View{
		host:      host,
		container: container,
		effect:    effect,
		opts:      opts,
	}
	stop := host.Observe(container, v.observe)
	if v.unmounted {
		// Unmounted from within the initial observer callback.
		stop()
		return v
	}
	v.stop = stop
	return v
}

// SetThreshold changes the visibility threshold. It takes effect on the
// next observed ratio.
func (v *View) SetThreshold(t float64) {
	v.gate.Threshold = t
}

func (v *View) observe(ratio float64) {
	if v.unmounted || !v.gate.Update(ratio) {
		return
	}
	if v.gate.Active() {
		v.activate()
		return
	}
	v.deactivate()
}

func (v *View) activate() {
	inst, err := Activate(v.host, v.container, v.effect, v.opts...)
	v.err = err
	if err != nil {
		// Renders as an empty placeholder; only a remount retries.
		return
	}
	v.inst = inst
}

func (v *View) deactivate() {
	if v.inst != nil {
		v.inst.Deactivate()
		v.inst = nil
	}
}

// Update replaces the configuration. A visible view reconfigures its
// running instance (in place or by rebuild); a hidden one uses it on the
// next activation.
func (v *View) Update(effect Effect) error {
	if v.unmounted {
		return ErrClosed
	}
	v.effect = effect
	if v.inst == nil {
		return nil
	}
	err := v.inst.Reconfigure(effect)
	if err != nil {
		v.err = err
		v.inst = nil
	}
	return err
}

// Unmount stops observing and deactivates the instance. Idempotent.
func (v *View) Unmount() {
	if v.unmounted {
		return
	}
	v.unmounted = true
	if v.stop != nil {
		v.stop()
		v.stop = nil
	}
	v.deactivate()
}

// Active reports whether the container is currently considered visible.
func (v *View) Active() bool { return v.gate.Active() }

// Instance returns the running instance, or nil while hidden or failed.
func (v *View) Instance() *Instance { return v.inst }

// Err returns the last activation or rebuild error.
func (v *View) Err() error { return v.err }
