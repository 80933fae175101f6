package tmod

import (
	"fmt"
	"sync"
)

// Requirer resolves a unit name to that unit's finalized public surface.
// Implementations must return an error wrapping ErrUnitNotFound for unknown
// names and must never hand out the surface of a unit that is still
// resolving.
type Requirer interface {
	Require(unit string) (*Module, error)
}

// RequirerFunc adapts a function to the Requirer interface.
type RequirerFunc func(unit string) (*Module, error)

// Require calls f(unit).
func (f RequirerFunc) Require(unit string) (*Module, error) {
	return f(unit)
}

// ChainRequirers returns a Requirer that asks each requirer in turn and
// returns the first surface found.
func ChainRequirers(reqs ...Requirer) Requirer {
	return RequirerFunc(func(unit string) (*Module, error) {
		for _, r := range reqs {
			if r == nil {
				continue
			}
			m, err := r.Require(unit)
			if err == nil {
				return m, nil
			}
		}
		return nil, &Error{Kind: ErrorUnitNotFound, Segment: unit}
	})
}

// Registry publishes resolved units and serves their surfaces to later
// requires. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	units map[string]*Unit
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{units: make(map[string]*Unit)}
}

// Publish makes u available to Require. A unit name can be published once.
func (r *Registry) Publish(u *Unit) error {
	if u == nil || !u.root.frozen {
		return fmt.Errorf("publish: unit is not resolved")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.units[u.name]; exists {
		return fmt.Errorf("publish %s: %w", u.name, ErrDuplicateDeclaration)
	}
	r.units[u.name] = u
	return nil
}

// Require returns the surface of a published unit.
func (r *Registry) Require(unit string) (*Module, error) {
	r.mu.RLock()
	u, ok := r.units[unit]
	r.mu.RUnlock()
	if !ok {
		return nil, &Error{Kind: ErrorUnitNotFound, Segment: unit}
	}
	return u.surface, nil
}

// Unit returns a published unit, or nil.
func (r *Registry) Unit(name string) *Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.units[name]
}

// Units returns all published units in no particular order.
func (r *Registry) Units() []*Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Unit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u)
	}
	return out
}
