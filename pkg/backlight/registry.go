package backlight

import (
	"errors"
	"fmt"
	"sync"
)

// Registry errors.
var (
	ErrDuplicateName = errors.New("backlight device name already registered")
)

// Registry is the host's name-keyed backlight device list.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]*Device)}
}

// Register adds a device under name. The name must be unique.
func (r *Registry) Register(name string, props Properties, ops Ops) (*Device, error) {
	if name == "" {
		return nil, errors.New("backlight device name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.devices[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	d := &Device{
		name:  name,
		typ:   props.Type,
		max:   props.Max,
		level: props.Current,
		ops:   ops,
	}
	r.devices[name] = d
	return d, nil
}

// Unregister removes a device. Removing a device that was never
// registered is a no-op.
func (r *Registry) Unregister(d *Device) {
	if d == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.devices[d.name]; ok && cur == d {
		delete(r.devices, d.name)
	}
}

// GetByName looks up a device by its registry name.
func (r *Registry) GetByName(name string) (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.devices[name]
	return d, ok
}

// Preferred returns the most authoritative registered device:
// firmware over platform over raw. Ties are broken by name for
// determinism.
func (r *Registry) Preferred() (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Device
	for _, d := range r.devices {
		if best == nil || d.typ > best.typ || (d.typ == best.typ && d.name < best.name) {
			best = d
		}
	}
	return best, best != nil
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
