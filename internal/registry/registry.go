package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty/function"
)

// Module is the interface that all step modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the step functions available to sheets for a single
// application instance.
type Registry struct {
	functions map[string]function.Function
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		functions: make(map[string]function.Function),
	}
}

// RegisterFunction makes fn available under name. Registering the same name
// twice is a programming error and panics.
func (r *Registry) RegisterFunction(name string, fn function.Function) {
	if _, exists := r.functions[name]; exists {
		panic(fmt.Sprintf("step function with name '%s' already registered", name))
	}
	slog.Debug("Registering step function.", "name", name)
	r.functions[name] = fn
}

// Function looks up a registered function.
func (r *Registry) Function(name string) (function.Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// Functions returns the registered names in ascending order.
func (r *Registry) Functions() []string {
	return slices.Sorted(maps.Keys(r.functions))
}
