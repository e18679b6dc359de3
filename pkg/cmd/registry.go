package cmd

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
)

// Handler runs a command with already coerced arguments.
type Handler func(ctx context.Context, inv *Invocation) error

// ErrorHandler is told about every failure of its command: argument errors
// raised before the handler runs and errors the handler returns.
type ErrorHandler func(ctx context.Context, inv *Invocation, err error)

// Descriptor is the immutable registry entry of a command.
type Descriptor struct {
	Name    string
	Brief   string
	Params  []Param
	Handler Handler
	OnError ErrorHandler
}

// Registry stores descriptors by name. It does not perform dispatch; the
// router looks commands up and invokes them with its own context.
//
// Registration happens once at startup. After Seal the registry is
// read-only and safe for concurrent lookups without locking.
type Registry struct {
	commands map[string]*Descriptor
	sealed   atomic.Bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Descriptor)}
}

// Register adds a command. The descriptor is copied, so later changes to
// d by the caller are not observed.
func (r *Registry) Register(d Descriptor) error {
	if r.sealed.Load() {
		return fmt.Errorf("register %q: %w", d.Name, ErrRegistrySealed)
	}
	if d.Name == "" || d.Handler == nil {
		return fmt.Errorf("register %q: name and handler are required", d.Name)
	}
	if _, exists := r.commands[d.Name]; exists {
		return fmt.Errorf("register %q: %w", d.Name, ErrDuplicateCommand)
	}
	d.Params = append([]Param(nil), d.Params...)
	r.commands[d.Name] = &d
	return nil
}

// Seal forbids further registration.
func (r *Registry) Seal() { r.sealed.Store(true) }

// Lookup returns the command with the given name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.commands[name]
	return d, ok
}

// All returns all registered commands, sorted by name.
func (r *Registry) All() []*Descriptor {
	list := make([]*Descriptor, 0, len(r.commands))
	for _, d := range r.commands {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
