package tools

import (
	"fmt"
	"sort"
)

// Registry is the fixed tool catalogue. It is read-only once built and safe
// for concurrent use.
type Registry struct {
	specs  map[Command]Spec
	sorted []Spec
}

// NewRegistry builds the registry of every catalogue command.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[Command]Spec, len(catalogue))}
	for _, cmd := range commands {
		spec := catalogue[cmd]
		r.specs[cmd] = spec
		r.sorted = append(r.sorted, spec)
	}
	sort.Slice(r.sorted, func(i, j int) bool {
		return r.sorted[i].Command < r.sorted[j].Command
	})
	return r
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	spec, ok := r.specs[Command(name)]
	return spec, ok
}

// Specs returns every spec sorted by name.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Parse coerces raw caller arguments for the named tool, fills defaults,
// and returns the validated invocation. Errors match ErrUnknownTool or
// ErrInvalidArgs.
func (r *Registry) Parse(name string, raw map[string]any) (Invocation, error) {
	spec, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTool, name)
	}

	vals, err := spec.compile(raw)
	if err != nil {
		return nil, err
	}
	inv := spec.bind(vals)
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}
