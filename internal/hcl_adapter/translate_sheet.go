// This file translates the decoded HCL blocks into the format-agnostic
// sheet model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/vk/attrgrid/internal/config"
	"github.com/vk/attrgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// translateAttribute converts one attribute block into the agnostic model.
func (l *Loader) translateAttribute(ctx context.Context, b *attributeBlock) (*config.Attribute, error) {
	ctx, logger := ctxlog.With(ctx, "attribute", b.Name)
	logger.Debug("Translating HCL attribute to internal sheet model.", "steps", len(b.Steps))

	ty, err := typeExprToCtyType(ctx, b.Type)
	if err != nil {
		return nil, fmt.Errorf("attribute '%s' at %s: %w", b.Name, b.DeclRange, err)
	}

	attr := &config.Attribute{
		Name:        b.Name,
		Description: b.Description,
		Type:        ty,
		DeclRange:   b.DeclRange,
	}
	for i, s := range b.Steps {
		args, err := l.translateArgs(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("attribute '%s', step %d (%s): %w", b.Name, i+1, s.Function, err)
		}
		attr.Steps = append(attr.Steps, &config.Step{
			Function:  s.Function,
			DependsOn: s.DependsOn,
			Args:      args,
		})
	}
	return attr, nil
}

// translateArgs evaluates the static `args` list of a step.
func (l *Loader) translateArgs(ctx context.Context, s *stepBlock) ([]cty.Value, error) {
	if !isExprDefined(ctx, s.Args, "args") {
		return nil, nil
	}
	val, diags := s.Args.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid args: %w", diags)
	}
	ty := val.Type()
	if val.IsNull() || !(ty.IsTupleType() || ty.IsListType()) {
		return nil, fmt.Errorf("args must be a list, got %s", ty.FriendlyName())
	}

	var args []cty.Value
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		args = append(args, v)
	}
	return args, nil
}

// translateValues evaluates the assignments of a values block.
func (l *Loader) translateValues(b *valuesBlock) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(b.Assignments))
	for name, attr := range b.Assignments {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("value for '%s': %w", name, diags)
		}
		out[name] = val
	}
	return out, nil
}
