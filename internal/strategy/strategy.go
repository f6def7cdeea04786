// Package strategy defines two-parameter signal functions and a registry of them.
package strategy

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rxtech-lab/argo-optimizer/internal/types"
	"github.com/rxtech-lab/argo-optimizer/pkg/errors"
)

// Func computes a continuous signal from closing prices for one parameter pair.
// The returned series must share the index of close; positive values mean long,
// negative short, zero or NaN flat. It must not mutate its input.
type Func func(close types.Series, p1, p2 float64) (types.Series, error)

// Registry manages the available strategies by name.
type Registry interface {
	Register(name string, fn Func) error
	Get(name string) (Func, error)
	Names() []string
}

// RegistryV1 is a concurrency-safe Registry.
type RegistryV1 struct {
	strategies map[string]Func
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() Registry {
	return &RegistryV1{
		strategies: make(map[string]Func),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry holding the built-in strategies.
func NewDefaultRegistry() Registry {
	registry := NewRegistry()

	for name, fn := range builtins() {
		// names are distinct, registration cannot fail
		_ = registry.Register(name, fn)
	}

	return registry
}

// Register adds a strategy to the registry.
func (r *RegistryV1) Register(name string, fn Func) error {
	if name == "" || fn == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "strategy name and function are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[name]; exists {
		return fmt.Errorf("strategy %s already registered", name)
	}

	r.strategies[name] = fn

	return nil
}

// Get retrieves a strategy by name.
func (r *RegistryV1) Get(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.strategies[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "strategy %q not found, available: %v", name, r.namesLocked())
	}

	return fn, nil
}

// Names returns the registered strategy names in sorted order.
func (r *RegistryV1) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.namesLocked()
}

func (r *RegistryV1) namesLocked() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func builtins() map[string]Func {
	return map[string]Func{
		SMACrossoverName: SMACrossover,
		EMABandName:      EMABand,
	}
}
