// Package validators provides steps that check the running value and pass it
// through unchanged, or fail with attrerr.ErrInvalidValue.
package validators

import (
	"fmt"

	"github.com/vk/attrgrid/internal/attrerr"
	"github.com/vk/attrgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func passthroughType(args []cty.Value) (cty.Type, error) {
	return args[0].Type(), nil
}

// IsNumberFunc rejects values that are not numbers, null included.
var IsNumberFunc = function.New(&function.Spec{
	Description: "Fails unless the running value is a number.",
	Params: []function.Parameter{
		{Name: "value", Type: cty.DynamicPseudoType, AllowNull: true, AllowDynamicType: true},
	},
	Type: passthroughType,
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		if args[0].IsNull() || args[0].Type() != cty.Number {
			return cty.NilVal, attrerr.Invalid("is not number")
		}
		return args[0], nil
	},
})

// IsIntegerFunc rejects numbers with a fractional part.
var IsIntegerFunc = function.New(&function.Spec{
	Description: "Fails unless the running value is a whole number.",
	Params: []function.Parameter{
		{Name: "value", Type: cty.Number, AllowNull: true},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		if args[0].IsNull() {
			return cty.NilVal, attrerr.Invalid("is not number")
		}
		if !args[0].AsBigFloat().IsInt() {
			return cty.NilVal, attrerr.Invalid("is not integer")
		}
		return args[0], nil
	},
})

// IsBetweenFunc checks min and max bounds. It takes an optional strict flag,
// true by default: strict bounds reject equality, non-strict ones accept it.
var IsBetweenFunc = function.New(&function.Spec{
	Description: "Fails unless min < value < max (strict, the default) or min <= value <= max.",
	Params: []function.Parameter{
		{Name: "value", Type: cty.Number, AllowNull: true},
		{Name: "min", Type: cty.Number},
		{Name: "max", Type: cty.Number},
	},
	VarParam: &function.Parameter{Name: "strict", Type: cty.Bool},
	Type: func(args []cty.Value) (cty.Type, error) {
		if len(args) > 4 {
			return cty.NilType, fmt.Errorf("at most one strict flag is accepted, got %d", len(args)-3)
		}
		return cty.Number, nil
	},
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		value, lo, hi := args[0], args[1], args[2]
		strict := len(args) < 4 || args[3].True()
		if value.IsNull() {
			return cty.NilVal, attrerr.Invalid("is not number")
		}

		if strict {
			switch {
			case value.LessThanOrEqualTo(lo).True():
				return cty.NilVal, attrerr.Invalid("le than min")
			case value.GreaterThanOrEqualTo(hi).True():
				return cty.NilVal, attrerr.Invalid("ge than max")
			}
			return value, nil
		}
		switch {
		case value.LessThan(lo).True():
			return cty.NilVal, attrerr.Invalid("lt than min")
		case value.GreaterThan(hi).True():
			return cty.NilVal, attrerr.Invalid("gt than max")
		}
		return value, nil
	},
})

// IsNonEmptyFunc rejects null, empty strings and empty collections.
var IsNonEmptyFunc = function.New(&function.Spec{
	Description: "Fails when the running value is null, an empty string or an empty collection.",
	Params: []function.Parameter{
		{Name: "value", Type: cty.DynamicPseudoType, AllowNull: true, AllowDynamicType: true},
	},
	Type: passthroughType,
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		v := args[0]
		ty := v.Type()
		switch {
		case v.IsNull():
			return cty.NilVal, attrerr.Invalid("is empty")
		case ty == cty.String && v.AsString() == "":
			return cty.NilVal, attrerr.Invalid("is empty")
		case (ty.IsCollectionType() || ty.IsTupleType()) && v.LengthInt() == 0:
			return cty.NilVal, attrerr.Invalid("is empty")
		}
		return v, nil
	},
})

// Register registers the functions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterFunction("is_number", IsNumberFunc)
	r.RegisterFunction("is_integer", IsIntegerFunc)
	r.RegisterFunction("is_between", IsBetweenFunc)
	r.RegisterFunction("is_non_empty", IsNonEmptyFunc)
}
