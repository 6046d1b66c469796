package registry

import (
	"errors"
	"fmt"

	"github.com/vk/attrgrid/internal/attrerr"
	"github.com/vk/attrgrid/internal/config"
	"github.com/vk/attrgrid/internal/step"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ErrUnknownFunction is returned when a step names a function nobody registered.
var ErrUnknownFunction = errors.New("unknown step function")

// Step resolves one declared step.
func (r *Registry) Step(decl *config.Step) (step.Step, error) {
	fn, ok := r.functions[decl.Function]
	if !ok {
		return step.Step{}, fmt.Errorf("%w: %q", ErrUnknownFunction, decl.Function)
	}
	return step.FromFunction(decl.Function, fn, decl.DependsOn, decl.Args...)
}

// Steps resolves the whole chain of attr. When the attribute declares a
// type, a final conversion step enforces it.
func (r *Registry) Steps(attr *config.Attribute) ([]step.Step, error) {
	steps := make([]step.Step, 0, len(attr.Steps)+1)
	for i, decl := range attr.Steps {
		s, err := r.Step(decl)
		if err != nil {
			return nil, fmt.Errorf("attribute '%s', step %d: %w", attr.Name, i+1, err)
		}
		steps = append(steps, s)
	}
	if attr.Type != cty.NilType && attr.Type != cty.DynamicPseudoType {
		steps = append(steps, ConvertStep(attr.Type))
	}
	return steps, nil
}

// ConvertStep returns a step converting the running value to ty. A null
// becomes a null of ty; values that cannot be converted are rejected as
// invalid.
func ConvertStep(ty cty.Type) step.Step {
	return step.New("convert", func(value cty.Value, _ map[string]cty.Value) (cty.Value, error) {
		if value.IsNull() {
			return cty.NullVal(ty), nil
		}
		out, err := convert.Convert(value, ty)
		if err != nil {
			return cty.NilVal, attrerr.Invalidf("cannot convert %s to %s: %s", value.Type().FriendlyName(), ty.FriendlyName(), err)
		}
		return out, nil
	})
}
