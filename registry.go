package ggfx

import (
	"sort"
	"sync"
)

// Registry tracks the active instances it is injected into via
// WithRegistry. Safe for concurrent use so diagnostics can be read from
// outside the host loop.
type Registry struct {
	mu      sync.Mutex
	entries map[*Instance]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[*Instance]string)}
}

func (r *Registry) add(i *Instance, name string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[*Instance]string)
	}
	r.entries[i] = name
}

func (r *Registry) remove(i *Instance) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, i)
}

// Len returns the number of active instances.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Names returns the effect names of the active instances, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for _, n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
