package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Attributes []*attributeBlock `hcl:"attribute,block"`
	Values     []*valuesBlock    `hcl:"values,block"`
}

// attributeBlock is the HCL schema of an `attribute "name" { ... }` block.
type attributeBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Type        hcl.Expression `hcl:"type,optional"`
	Steps       []*stepBlock   `hcl:"step,block"`
	DeclRange   hcl.Range      `hcl:",def_range"`
}

// stepBlock is the HCL schema of a `step "function" { ... }` block.
type stepBlock struct {
	Function  string         `hcl:"function,label"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Args      hcl.Expression `hcl:"args,optional"`
}

// valuesBlock holds initial assignments as plain attributes.
type valuesBlock struct {
	Assignments hcl.Attributes `hcl:",remain"`
}
