package hcl_adapter

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/attrgrid/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The decoder fills omitted optional expression fields with a null
// placeholder whose source range has zero width, so a nil check is not
// enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	isDefined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", r.String(),
		"is_defined", isDefined,
	)
	return isDefined
}
