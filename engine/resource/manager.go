// Package resource provides a thread-safe registry of shared resources keyed by their
// file or asset name.
package resource

import (
	"sync"

	"github.com/pkg/errors"
)

// Resource is anything that can be shared by name.
type Resource interface {
	Name() string
}

// Manager stores at most one resource per name. Safe for concurrent use.
type Manager[T Resource] struct {
	mu        sync.RWMutex
	resources map[string]T
}

// NewManager creates an empty manager.
//
// Returns:
//   - *Manager[T]: the empty manager
func NewManager[T Resource]() *Manager[T] {
	return &Manager[T]{resources: make(map[string]T)}
}

// Contains reports whether a resource with the given name is registered.
func (m *Manager[T]) Contains(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.resources[name]
	return ok
}

// Count returns the number of registered resources.
func (m *Manager[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.resources)
}

// Get returns the resource registered under name.
func (m *Manager[T]) Get(name string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.resources[name]
	return r, ok
}

// Add registers r under its name unless a resource with that name already exists.
//
// Returns:
//   - T: the registered resource, which is the existing one if the name was taken
//   - bool: true if r was inserted
func (m *Manager[T]) Add(r T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := r.Name()
	if existing, ok := m.resources[name]; ok {
		return existing, false
	}
	m.resources[name] = r
	return r, true
}

// GetOrCreate returns the resource registered under name, creating and registering it
// with create when absent. create runs while the manager is locked and must not call
// back into it.
//
// Returns:
//   - T: the resource
//   - error: the error returned by create, wrapped with the resource name
func (m *Manager[T]) GetOrCreate(name string, create func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.resources[name]; ok {
		return r, nil
	}
	r, err := create()
	if err != nil {
		var zero T
		return zero, errors.Wrapf(err, "resource: create %q", name)
	}
	m.resources[name] = r
	return r, nil
}

// Remove unregisters the resource with the given name.
//
// Returns:
//   - bool: true if a resource was removed
func (m *Manager[T]) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[name]; !ok {
		return false
	}
	delete(m.resources, name)
	return true
}

// RemoveResource unregisters r if it is the resource registered under its name.
//
// Returns:
//   - bool: true if r was removed
func (m *Manager[T]) RemoveResource(r T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := r.Name()
	existing, ok := m.resources[name]
	if !ok || any(existing) != any(r) {
		return false
	}
	delete(m.resources, name)
	return true
}

// RemoveAll unregisters every resource.
func (m *Manager[T]) RemoveAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.resources)
}
