package store

import (
	"maps"
	"slices"

	"github.com/vk/attrgrid/internal/attrerr"
	"github.com/zclconf/go-cty/cty"
)

// Names returns every key of the store in ascending order, placeholders
// included.
func (s *Store) Names() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

// Status returns the status of name.
func (s *Store) Status(name string) (Status, error) {
	e, ok := s.entries[name]
	if !ok {
		return Status{}, attrerr.NotExist(name)
	}
	return e.status, nil
}

// Definition returns a copy of the definition of name. The second result is
// false for unknown names and placeholders.
func (s *Store) Definition(name string) (Definition, bool) {
	e, ok := s.entries[name]
	if !ok || e.def == nil {
		return Definition{}, false
	}
	return Definition{Name: e.def.Name, Steps: slices.Clone(e.def.Steps)}, true
}

// Graph returns the current dependency graph as name -> sorted dependents.
func (s *Store) Graph() map[string][]string {
	return s.graph.Edges()
}

// RecalcOrder returns the order in which a Set of names would visit
// attributes.
func (s *Store) RecalcOrder(names ...string) []string {
	return s.graph.RecalcOrder(names...)
}

// Snapshot captures the statuses of all described attributes.
type Snapshot struct {
	statuses map[string]Status
}

// Snapshot records the current statuses so they can be put back with Restore.
func (s *Store) Snapshot() Snapshot {
	statuses := make(map[string]Status, len(s.entries))
	for name, e := range s.entries {
		if e.def != nil {
			statuses[name] = e.status
		}
	}
	return Snapshot{statuses: statuses}
}

// Restore puts back the statuses recorded by Snapshot. Definitions are not
// touched: attributes described after the snapshot become unset, and
// recorded names that are no longer described are ignored.
func (s *Store) Restore(snap Snapshot) {
	for name, e := range s.entries {
		if e.def == nil {
			continue
		}
		if st, ok := snap.statuses[name]; ok {
			e.status = st
		} else {
			e.status = Status{State: StateUnset}
		}
	}
	s.logger.Debug("Statuses restored from snapshot", "attributes", len(snap.statuses))
}

// SetAtomic is Set with all-or-nothing semantics: when the batch fails every
// status is put back to what it was before the call.
func (s *Store) SetAtomic(assignments map[string]cty.Value) error {
	snap := s.Snapshot()
	if err := s.Set(assignments); err != nil {
		s.Restore(snap)
		return err
	}
	return nil
}
