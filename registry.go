package attrjson

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry maps transformer names to transformers and designates one default.
//
// Registries are populated at startup and read thereafter. Register takes an
// exclusive lock; Resolve proceeds concurrently with other readers.
type Registry struct {
	mu           sync.RWMutex
	transformers map[string]Transformer
	defaultName  string
}

// NewRegistry returns a registry holding the CBOR archiver under
// DefaultTransformerName, which is also the default.
func NewRegistry() *Registry {
	return &Registry{
		transformers: map[string]Transformer{DefaultTransformerName: Archiver()},
		defaultName:  DefaultTransformerName,
	}
}

// Register adds or replaces the transformer stored under name.
func (r *Registry) Register(name string, t Transformer) error {
	if name == "" || t == nil {
		return fmt.Errorf("%w: name %q", ErrInvalidTransformer, name)
	}

	r.mu.Lock()
	r.transformers[name] = t
	count := len(r.transformers)
	r.mu.Unlock()

	emitTransformerRegistered(context.Background(), name, count)
	return nil
}

// RegisterFuncs registers a transformer built from a forward/backward pair.
func (r *Registry) RegisterFuncs(name string, forward func(any) ([]byte, error), backward func([]byte) (any, error)) error {
	if forward == nil || backward == nil {
		return fmt.Errorf("%w: name %q has a nil direction", ErrInvalidTransformer, name)
	}
	return r.Register(name, TransformerFuncs{ForwardFunc: forward, BackwardFunc: backward})
}

// Resolve returns the transformer registered under name. An empty name
// selects the default transformer.
func (r *Registry) Resolve(name string) (Transformer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaultName
	}
	t, ok := r.transformers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransformer, name)
	}
	return t, nil
}

// SetDefault designates an already registered transformer as the default.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transformers[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTransformer, name)
	}
	r.defaultName = name
	return nil
}

// DefaultName returns the name used when none is supplied.
func (r *Registry) DefaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.transformers))
	for name := range r.transformers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// reset restores the registry to its NewRegistry state.
func (r *Registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transformers = map[string]Transformer{DefaultTransformerName: Archiver()}
	r.defaultName = DefaultTransformerName
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds or replaces a transformer in the process-wide registry.
func Register(name string, t Transformer) error {
	return defaultRegistry.Register(name, t)
}

// Resolve looks up a transformer in the process-wide registry.
func Resolve(name string) (Transformer, error) {
	return defaultRegistry.Resolve(name)
}

// Reset clears the process-wide registry back to the archiver alone.
// This is primarily useful for test isolation.
func Reset() {
	defaultRegistry.reset()
}
