// Package step defines the transformation steps that make up an attribute
// definition. A step turns the running value of an attribute into a new value,
// optionally reading other attributes it explicitly depends on.
package step

import (
	"errors"
	"fmt"

	"github.com/vk/attrgrid/internal/attrerr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// ErrArity is returned by FromFunction when the declared dependencies and
// static arguments do not fit the function's parameters.
var ErrArity = errors.New("step arity mismatch")

// Func computes a new value from the running value and the current values of
// the declared dependencies, keyed by name.
//
// The running value may be null. The store seeds an attribute that has no
// value yet with cty.NullVal(cty.DynamicPseudoType) when all of its
// dependencies are present, and runs every step that declares dependencies
// on that seed. A null assigned by a caller reaches every step. Functions
// must check value.IsNull() before reading it.
type Func func(value cty.Value, deps map[string]cty.Value) (cty.Value, error)

// Step is one link of an attribute's transformation chain.
type Step struct {
	// Name labels the step in logs and error messages.
	Name string
	// DependsOn lists the attribute names the step reads, in declaration order.
	DependsOn []string

	fn          Func
	acceptsNull bool
}

// New creates a step from a Go function. fn receives null running values,
// see Func.
func New(name string, fn Func, dependsOn ...string) Step {
	return Step{Name: name, DependsOn: dependsOn, fn: fn, acceptsNull: true}
}

// Identity returns a step that passes the running value through.
func Identity() Step {
	return Step{Name: "identity"}
}

// Apply runs the step. A step without a function behaves as Identity.
func (s Step) Apply(value cty.Value, deps map[string]cty.Value) (cty.Value, error) {
	if s.fn == nil {
		return value, nil
	}
	return s.fn(value, deps)
}

// WaitsForValue reports whether the step is skipped while an attribute is
// being derived from a null seed: it reads no dependencies, or its function
// cannot take a null running value.
func (s Step) WaitsForValue() bool {
	return len(s.DependsOn) == 0 || !s.acceptsNull
}

// Dependencies returns the distinct dependency names of a chain in first-seen
// order.
func Dependencies(steps ...Step) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, s := range steps {
		for _, dep := range s.DependsOn {
			if _, ok := seen[dep]; ok {
				continue
			}
			seen[dep] = struct{}{}
			out = append(out, dep)
		}
	}
	return out
}

// FromFunction adapts a cty function into a step. The function is called as
//
//	fn(value, deps[dependsOn[0]], ..., deps[dependsOn[n-1]], args...)
//
// so its parameter list must accept one leading value slot, one slot per
// dependency and the static arguments. The arity is checked here, once, and
// a mismatch is reported with ErrArity.
//
// A null running value given to a function whose leading parameter does not
// allow null is rejected with attrerr.ErrInvalidValue.
func FromFunction(name string, fn function.Function, dependsOn []string, args ...cty.Value) (Step, error) {
	given := 1 + len(dependsOn) + len(args)
	params := fn.Params()
	variadic := fn.VarParam()

	switch {
	case variadic == nil && given != len(params):
		return Step{}, fmt.Errorf("%w: %q takes %d arguments, %d declared (value + %d dependencies + %d args)",
			ErrArity, name, len(params), given, len(dependsOn), len(args))
	case variadic != nil && given < len(params):
		return Step{}, fmt.Errorf("%w: %q takes at least %d arguments, %d declared (value + %d dependencies + %d args)",
			ErrArity, name, len(params), given, len(dependsOn), len(args))
	}

	var valueParam function.Parameter
	if len(params) > 0 {
		valueParam = params[0]
	} else {
		valueParam = *variadic
	}

	deps := append([]string(nil), dependsOn...)
	static := append([]cty.Value(nil), args...)

	impl := func(value cty.Value, resolved map[string]cty.Value) (cty.Value, error) {
		if value.IsNull() {
			if !valueParam.AllowNull {
				return cty.NilVal, attrerr.Invalidf("%s: value must not be null", valueParam.Name)
			}
			if value.Type() == cty.DynamicPseudoType && !valueParam.AllowDynamicType && valueParam.Type != cty.DynamicPseudoType {
				value = cty.NullVal(valueParam.Type)
			}
		}

		callArgs := make([]cty.Value, 0, given)
		callArgs = append(callArgs, value)
		for _, dep := range deps {
			v, ok := resolved[dep]
			if !ok {
				return cty.NilVal, fmt.Errorf("dependency %q was not resolved", dep)
			}
			callArgs = append(callArgs, v)
		}
		callArgs = append(callArgs, static...)

		out, err := fn.Call(callArgs)
		if err != nil {
			return cty.NilVal, err
		}
		if !out.IsWhollyKnown() {
			return cty.NilVal, fmt.Errorf("produced an unknown value of type %s", out.Type().FriendlyName())
		}
		return out, nil
	}

	return Step{Name: name, DependsOn: deps, fn: impl, acceptsNull: valueParam.AllowNull}, nil
}
