// Package text provides string step functions.
package text

import (
	"strings"

	"github.com/vk/attrgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ConcatFunc joins its string dependencies and ignores the running value, so
// it can derive an attribute that has never been assigned.
var ConcatFunc = function.New(&function.Spec{
	Description: "Joins the dependency values, ignoring the running value.",
	Params: []function.Parameter{
		{Name: "value", Type: cty.DynamicPseudoType, AllowNull: true, AllowDynamicType: true},
	},
	VarParam: &function.Parameter{Name: "parts", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(join(args[1:])), nil
	},
})

// AppendFunc appends its string dependencies and arguments to the running value.
var AppendFunc = function.New(&function.Spec{
	Description: "Appends the dependency values to the running value.",
	Params: []function.Parameter{
		{Name: "value", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "parts", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(join(args)), nil
	},
})

func join(parts []cty.Value) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.AsString())
	}
	return sb.String()
}

// Register registers the functions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction("concat", ConcatFunc)
	r.RegisterFunction("append", AppendFunc)
	r.RegisterFunction("upper", stdlib.UpperFunc)
	r.RegisterFunction("lower", stdlib.LowerFunc)
	r.RegisterFunction("trimspace", stdlib.TrimSpaceFunc)
	r.RegisterFunction("replace", stdlib.ReplaceFunc)
}
