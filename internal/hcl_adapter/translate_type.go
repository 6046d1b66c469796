// This file contains the logic for parsing HCL type expressions (e.g. `string`,
// `list(number)`) into their corresponding cty.Type objects.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/vk/attrgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToCtyType converts an HCL type expression into its cty.Type
// equivalent. A missing expression means any type.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx)

	if !isExprDefined(ctx, expr, "type") {
		logger.Debug("Type expression is not set, defaulting to any.")
		return cty.DynamicPseudoType, nil
	}

	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.DynamicPseudoType, fmt.Errorf("invalid type expression: %w", diags)
	}
	logger.Debug("Parsed type expression.", "type", typeexpr.TypeString(ty))
	return ty, nil
}
