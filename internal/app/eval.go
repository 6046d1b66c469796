package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/attrgrid/internal/server"
)

// Eval writes the store in the configured output format.
func (a *App) Eval(w io.Writer) error {
	if a.config.Output == "hcl" {
		return a.evalHCL(w)
	}
	return a.evalJSON(w)
}

// evalJSON writes every entry with its state and value as a JSON array.
func (a *App) evalJSON(w io.Writer) error {
	names, statuses := a.store.Entries()
	views := make([]server.AttributeView, 0, len(names))
	for _, name := range names {
		view, err := server.NewAttributeView(name, statuses[name])
		if err != nil {
			return err
		}
		views = append(views, view)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

// evalHCL writes the present values as a sheet `values` block, so the
// output can be loaded again next to the sheets it came from.
func (a *App) evalHCL(w io.Writer) error {
	names, statuses := a.store.Entries()

	f := hclwrite.NewEmptyFile()
	body := f.Body().AppendNewBlock("values", nil).Body()
	for _, name := range names {
		st := statuses[name]
		if !st.IsPresent() {
			continue
		}
		if !hclsyntax.ValidIdentifier(name) {
			return fmt.Errorf("attribute '%s' cannot be written as an HCL attribute name", name)
		}
		body.SetAttributeValue(name, st.Value)
	}

	_, err := w.Write(f.Bytes())
	return err
}

// Order prints the recalculation order for seeds, one name per line.
// Every seed must be known to the store.
func (a *App) Order(w io.Writer, seeds ...string) error {
	if len(seeds) == 0 {
		return errors.New("at least one seed is required")
	}
	for _, seed := range seeds {
		if _, err := a.store.Status(seed); err != nil {
			return err
		}
	}

	for _, name := range a.store.RecalcOrder(seeds...) {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
