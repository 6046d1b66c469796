// Package registry provides the glue between sheets and Go code.
//
// The Registry maps the function names used in sheet step declarations
// (e.g. "concat", "is_between") to cty functions contributed by modules. At
// startup every module registers its functions, the sheet is validated
// against the registry, and each attribute's declared steps are resolved
// into step.Step values ready for the store.
package registry
