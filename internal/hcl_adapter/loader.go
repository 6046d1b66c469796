package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/attrgrid/internal/config"
	"github.com/vk/attrgrid/internal/ctxlog"
	"github.com/vk/attrgrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL sheet loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges their blocks
// into one sheet. Files are read in lexical order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Sheet, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := FindSheetFiles(paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	sheet := config.NewSheet()
	valueSources := make(map[string]string)
	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Attributes {
			if prev, ok := sheet.Attributes[block.Name]; ok {
				return nil, fmt.Errorf("attribute '%s' defined twice: at %s and at %s", block.Name, prev.DeclRange, block.DeclRange)
			}
			attr, err := l.translateAttribute(ctx, block)
			if err != nil {
				return nil, err
			}
			sheet.Attributes[attr.Name] = attr
		}
		for _, block := range root.Values {
			values, err := l.translateValues(block)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			for name, val := range values {
				if prev, ok := valueSources[name]; ok {
					return nil, fmt.Errorf("value for '%s' assigned twice: in %s and in %s", name, prev, file)
				}
				valueSources[name] = file
				sheet.Values[name] = val
			}
		}
	}

	logger.Debug("HCL loading complete.", "attributes", len(sheet.Attributes), "values", len(sheet.Values))
	return sheet, nil
}

// FindSheetFiles expands paths into a sorted, de-duplicated list of .hcl
// files. Directories are searched recursively; missing paths are an error.
func FindSheetFiles(paths ...string) ([]string, error) {
	return fsutil.CollectFiles(".hcl", paths...)
}
