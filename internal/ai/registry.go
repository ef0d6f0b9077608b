package ai

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownTemplate is returned when no script is bound to an NPC template.
var ErrUnknownTemplate = errors.New("no script registered for template")

// Factory builds a controller for a freshly spawned agent.
type Factory func(h Host) (Controller, error)

// Registry binds NPC template ids to behavior factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[int32]registryEntry
}

type registryEntry struct {
	name    string
	factory Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[int32]registryEntry)}
}

// Register binds a factory to templateID. Binding the same template twice is an error.
func (r *Registry) Register(templateID int32, name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("register %s (%d): nil factory", name, templateID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.factories[templateID]; ok {
		return fmt.Errorf("register %s: template %d already bound to %s", name, templateID, prev.name)
	}
	r.factories[templateID] = registryEntry{name: name, factory: f}
	return nil
}

// New creates the controller registered for templateID.
func (r *Registry) New(templateID int32, h Host) (Controller, error) {
	r.mu.RLock()
	e, ok := r.factories[templateID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("template %d: %w", templateID, ErrUnknownTemplate)
	}

	c, err := e.factory(h)
	if err != nil {
		return nil, fmt.Errorf("creating %s for template %d: %w", e.name, templateID, err)
	}
	return c, nil
}

// Name returns the script name bound to templateID.
func (r *Registry) Name(templateID int32) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.factories[templateID]
	return e.name, ok
}

// Count returns the number of bound templates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
