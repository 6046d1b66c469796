// Package numeric provides arithmetic step functions.
//
// add, multiply and negate transform the running value. sum and product
// aggregate the dependencies only, so they suit derived attributes.
package numeric

import (
	"github.com/vk/attrgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// SumFunc adds up its number dependencies, ignoring the running value.
var SumFunc = aggregate("Adds up the dependency values, ignoring the running value.", cty.Zero, cty.Value.Add)

// ProductFunc multiplies its number dependencies, ignoring the running value.
var ProductFunc = aggregate("Multiplies the dependency values, ignoring the running value.", cty.NumberIntVal(1), cty.Value.Multiply)

func aggregate(desc string, start cty.Value, op func(cty.Value, cty.Value) cty.Value) function.Function {
	return function.New(&function.Spec{
		Description: desc,
		Params: []function.Parameter{
			{Name: "value", Type: cty.DynamicPseudoType, AllowNull: true, AllowDynamicType: true},
		},
		VarParam: &function.Parameter{Name: "numbers", Type: cty.Number},
		Type:     function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			acc := start
			for _, n := range args[1:] {
				acc = op(acc, n)
			}
			return acc, nil
		},
	})
}

// Register registers the functions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction("add", stdlib.AddFunc)
	r.RegisterFunction("multiply", stdlib.MultiplyFunc)
	r.RegisterFunction("negate", stdlib.NegateFunc)
	r.RegisterFunction("sum", SumFunc)
	r.RegisterFunction("product", ProductFunc)
}
