package registry

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vk/attrgrid/internal/config"
	"github.com/vk/attrgrid/internal/ctxlog"
)

// ValidateSheet checks every declared step of the sheet against the
// registry: function names must be known and dependency and argument counts
// must fit the function. All problems are reported at once.
//
// Dependencies on names the sheet never defines are legal (they become
// undescribed placeholders in the store) and only produce a warning.
func (r *Registry) ValidateSheet(ctx context.Context, sheet *config.Sheet) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range sheet.Names() {
		attr := sheet.Attributes[name]
		for i, decl := range attr.Steps {
			if _, err := r.Step(decl); err != nil {
				errs = append(errs, fmt.Sprintf("attribute '%s', step %d (%s): %v", name, i+1, decl.Function, err))
			}
			for _, dep := range decl.DependsOn {
				if _, ok := sheet.Attributes[dep]; !ok {
					logger.Warn("Step depends on an attribute the sheet does not define; it stays undescribed until described.", "attribute", name, "dependency", dep)
				}
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(sheet.Values)) {
		if _, ok := sheet.Attributes[name]; !ok {
			errs = append(errs, fmt.Sprintf("value for '%s': attribute is not defined", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("sheet validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
