package config

import (
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Sheet is the unified representation of every loaded source file.
type Sheet struct {
	Attributes map[string]*Attribute
	// Values are the initial assignments, applied as one batch.
	Values map[string]cty.Value
}

// NewSheet returns an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{
		Attributes: make(map[string]*Attribute),
		Values:     make(map[string]cty.Value),
	}
}

// Names returns the attribute names in ascending order.
func (s *Sheet) Names() []string {
	return slices.Sorted(maps.Keys(s.Attributes))
}

// Attribute is the format-agnostic representation of an `attribute` block.
type Attribute struct {
	Name        string
	Description string
	// Type is the declared value type. cty.DynamicPseudoType means any.
	Type  cty.Type
	Steps []*Step
	// DeclRange points at the definition in its source file.
	DeclRange hcl.Range
}

// Step is one declared transformation of an attribute.
type Step struct {
	// Function names a function in the registry.
	Function  string
	DependsOn []string
	// Args are static arguments passed after the dependency values.
	Args []cty.Value
}
