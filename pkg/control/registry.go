package control

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory builds a control from its declarative spec.
type Factory func(spec Spec) (Control, error)

// Registry maps control kinds to factories. Builders receive a registry
// explicitly; callers can register new kinds or override the defaults.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry constructs a registry with the built-in kinds.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.MustRegister(KindString, optionFactory(func(name string, opts []Option) Control {
		return NewString(name, opts...)
	}))
	registry.MustRegister(KindNumber, optionFactory(func(name string, opts []Option) Control {
		return NewNumber(name, opts...)
	}))
	registry.MustRegister(KindBoolean, optionFactory(func(name string, opts []Option) Control {
		return NewBoolean(name, opts...)
	}))
	registry.MustRegister(KindArray, optionFactory(func(name string, opts []Option) Control {
		return NewArray(name, opts...)
	}))
	return registry
}

// Clone returns a copy of the registry to allow isolated overrides.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := NewRegistry()
	for kind, factory := range r.factories {
		cloned.factories[kind] = factory
	}
	return cloned
}

// Register associates a factory with kind. Existing entries are replaced.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind = normalize(kind); kind == "" {
		return fmt.Errorf("control: kind is required")
	}
	if factory == nil {
		return fmt.Errorf("control: factory for %q is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[kind] = factory
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(kind string, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[normalize(kind)]
	return ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// Build constructs the control described by spec. An empty kind defaults to
// a string control.
func (r *Registry) Build(spec Spec) (Control, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, fmt.Errorf("control: name is required")
	}
	kind := normalize(spec.Kind)
	if kind == "" {
		kind = KindString
	}

	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("control: kind %q not registered", kind)
	}

	built, err := factory(spec)
	if err != nil {
		return nil, fmt.Errorf("control: build %q: %w", spec.Name, err)
	}
	if built == nil {
		return nil, fmt.Errorf("control: factory for %q returned nil", kind)
	}
	return built, nil
}

func optionFactory(build func(name string, opts []Option) Control) Factory {
	return func(spec Spec) (Control, error) {
		opts, err := spec.Options()
		if err != nil {
			return nil, err
		}
		return build(strings.TrimSpace(spec.Name), opts), nil
	}
}

func normalize(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
