package app

import (
	"context"
	"fmt"
	"maps"

	"github.com/vk/attrgrid/internal/config"
	"github.com/vk/attrgrid/internal/ctxlog"
	"github.com/vk/attrgrid/internal/store"
	"github.com/zclconf/go-cty/cty"
)

// buildStore loads the sheets into a fresh store. Attributes are described
// in name order so the resulting store does not depend on file layout.
func (a *App) buildStore(ctx context.Context) (*store.Store, error) {
	logger := ctxlog.FromContext(ctx)

	sheet, err := a.loader.Load(ctx, a.config.SheetPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheets: %w", err)
	}
	logger.Debug("Sheets loaded.", "attributes", len(sheet.Attributes), "values", len(sheet.Values))

	if err := a.registry.ValidateSheet(ctx, sheet); err != nil {
		return nil, err
	}
	logger.Debug("Sheet validation passed.")

	s := store.New(store.WithLogger(logger), store.WithObserver(a.metrics))
	for _, name := range sheet.Names() {
		attr := sheet.Attributes[name]
		steps, err := a.registry.Steps(attr)
		if err != nil {
			return nil, err
		}
		if err := s.Describe(name, steps...); err != nil {
			return nil, fmt.Errorf("failed to describe attribute at %s: %w", attr.DeclRange, err)
		}
	}

	values, err := a.initialValues(sheet)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		if err := s.Set(values); err != nil {
			return nil, fmt.Errorf("failed to apply initial values: %w", err)
		}
	}
	logger.Info("Store ready.", "attributes", len(sheet.Attributes), "assigned", len(values))
	return s, nil
}

// initialValues merges the sheet's values, the values file and the command
// line assignments, later sources winning.
func (a *App) initialValues(sheet *config.Sheet) (map[string]cty.Value, error) {
	values := maps.Clone(sheet.Values)
	if values == nil {
		values = make(map[string]cty.Value)
	}

	if a.config.ValuesFile != "" {
		fromFile, err := LoadValuesFile(a.config.ValuesFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(values, fromFile)
	}

	for _, raw := range a.config.Assignments {
		name, v, err := ParseAssignment(raw)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return values, nil
}
