// Package core provides the basic step functions every sheet can use.
package core

import (
	"github.com/vk/attrgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// IdentityFunc returns the running value unchanged.
var IdentityFunc = function.New(&function.Spec{
	Description: "Returns the running value unchanged.",
	Params: []function.Parameter{
		{Name: "value", Type: cty.DynamicPseudoType, AllowNull: true, AllowDynamicType: true},
	},
	Type: func(args []cty.Value) (cty.Type, error) {
		return args[0].Type(), nil
	},
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return args[0], nil
	},
})

// Register registers the functions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction("identity", IdentityFunc)
	r.RegisterFunction("coalesce", stdlib.CoalesceFunc)
}
