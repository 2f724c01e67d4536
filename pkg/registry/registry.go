// Package registry implements the name-keyed set of live devices that
// disambiguates concurrent registrations. It is the SCCP analog of a
// CANopen network's node table, generalized from a uint8 node id key
// to a device-name key.
package registry

import (
	"sync"

	"github.com/rs/xid"
	sccp "github.com/vincentpeyrouse/wazo-libsccp"
)

// Device is the minimal surface the registry needs from whatever a
// caller registers; pkg/device.Device satisfies it.
type Device interface {
	Name() string
}

type entry struct {
	device Device
	connID xid.ID
}

// Registry is a thread-safe, name-keyed set of registered devices.
// There is no ordering guarantee between entries.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]entry
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{devices: make(map[string]entry)}
}

// Add registers d under d.Name(), returning sccp.ErrAlreadyRegistered
// if that name is already live. The returned connection id correlates
// this registration across log lines for the lifetime of the binding.
func (r *Registry) Add(d Device) (xid.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := d.Name()
	if _, ok := r.devices[name]; ok {
		return xid.ID{}, sccp.ErrAlreadyRegistered
	}
	id := xid.New()
	r.devices[name] = entry{device: d, connID: id}
	return id, nil
}

// Remove unregisters the device with the given name. It is idempotent:
// removing a name that is not present is not an error.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.devices, name)
}

// Get returns the device registered under name, if any.
func (r *Registry) Get(name string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.devices[name]
	if !ok {
		return nil, false
	}
	return e.device, true
}

// Contains reports whether name is currently registered.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.devices[name]
	return ok
}

// Snapshot copies out a stable list of currently registered devices,
// for CLI/control-API inspection. The copy is safe to range over
// without holding any lock.
func (r *Registry) Snapshot() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Device, 0, len(r.devices))
	for _, e := range r.devices {
		out = append(out, e.device)
	}
	return out
}

// Len reports the number of registered devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}
