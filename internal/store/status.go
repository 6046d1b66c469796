package store

import (
	"github.com/vk/attrgrid/internal/step"
	"github.com/zclconf/go-cty/cty"
)

// State is the lifecycle state of a store entry.
type State int

const (
	// StateUnset marks a described attribute that holds no value yet.
	StateUnset State = iota
	// StateUndescribed marks a name that other definitions depend on but that
	// has no definition of its own.
	StateUndescribed
	// StatePresent marks an attribute holding a value.
	StatePresent
)

func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateUndescribed:
		return "undescribed"
	case StatePresent:
		return "present"
	default:
		return "unknown"
	}
}

// Status is the state of an entry plus its value when present.
type Status struct {
	State State
	Value cty.Value
}

// IsPresent reports whether the status carries a value.
func (s Status) IsPresent() bool {
	return s.State == StatePresent
}

// Definition is the transformation chain of a described attribute.
type Definition struct {
	Name  string
	Steps []step.Step
}

// Dependencies returns the distinct names the definition's steps read.
func (d Definition) Dependencies() []string {
	return step.Dependencies(d.Steps...)
}

type entry struct {
	status Status
	// def is nil for undescribed placeholders.
	def *Definition
}
