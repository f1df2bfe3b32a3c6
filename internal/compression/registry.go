package compression

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry maps strategy names to shared strategy instances. It is populated
// at startup (the built-in strategies plus any extra registrations) and is
// read-only in steady state; unregistration is not supported.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates a registry pre-populated with the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{
		mu:         sync.RWMutex{},
		strategies: make(map[string]Strategy),
	}

	// Built-ins can never collide, so registration errors are impossible here.
	_ = r.Register(NewSymbol())
	_ = r.Register(NewAbbreviation())
	_ = r.Register(NewVowelRemoval(0))
	_ = r.Register(NewByteCompress())

	return r
}

// Register adds a strategy to the registry.
func (r *Registry) Register(strategy Strategy) error {
	if strategy == nil {
		return errors.New("strategy cannot be nil")
	}

	name := strategy.Name()
	if name == "" {
		return errors.New("strategy name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[name]; exists {
		return fmt.Errorf("strategy %s already registered", name)
	}

	r.strategies[name] = strategy
	return nil
}

// Replace registers a strategy, overwriting any existing strategy with the
// same name. It is intended for swapping in configured variants of the
// built-ins at startup.
func (r *Registry) Replace(strategy Strategy) {
	if strategy == nil || strategy.Name() == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[strategy.Name()] = strategy
}

// Get retrieves a strategy by name.
func (r *Registry) Get(name string) (Strategy, error) {
	if name == "" {
		return nil, errors.New("strategy name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	strategy, exists := r.strategies[name]
	if !exists {
		return nil, &UnknownStrategyError{Name: name}
	}

	return strategy, nil
}

// Names returns the registered strategy names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
