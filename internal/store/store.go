// Package store implements the reactive attribute store: named values, some
// of them derived from others through declared transformation chains, where
// writing a value recomputes everything downstream of it in a deterministic
// order.
//
// A Store is not safe for concurrent use; wrap it in Synchronized when it is
// shared between goroutines.
package store

import (
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/vk/attrgrid/internal/attrerr"
	"github.com/vk/attrgrid/internal/depgraph"
	"github.com/vk/attrgrid/internal/step"
	"github.com/zclconf/go-cty/cty"
)

// Store holds attribute definitions, their statuses and the dependency graph
// derived from the definitions.
type Store struct {
	logger   *slog.Logger
	observer Observer
	reserved map[string]struct{}

	entries map[string]*entry
	graph   *depgraph.Graph
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		logger:   discardLogger(),
		observer: NopObserver{},
		reserved: make(map[string]struct{}, len(DefaultReserved)),
		entries:  make(map[string]*entry),
		graph:    depgraph.New(),
	}
	for _, n := range DefaultReserved {
		s.reserved[n] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Describe installs or replaces the definition of name. Without steps the
// attribute gets a single identity step. The attribute is left unset even
// when an identical definition was already present.
func (s *Store) Describe(name string, steps ...step.Step) error {
	if _, ok := s.reserved[name]; ok {
		return attrerr.Reserved(name)
	}
	if len(steps) == 0 {
		steps = []step.Step{step.Identity()}
	}
	def := &Definition{Name: name, Steps: slices.Clone(steps)}

	deps := s.declared()
	deps[name] = def.Dependencies()
	g, err := s.rebuild(name, deps)
	if err != nil {
		return err
	}

	s.entries[name] = &entry{status: Status{State: StateUnset}, def: def}
	s.install(g)

	s.logger.Debug("Attribute described", "attribute", name, "steps", len(steps), "dependsOn", deps[name])
	s.observer.Described(name)
	return nil
}

// Remove deletes the definition and value of name. Attributes that depend on
// it keep their definitions and values; the name itself stays in the graph as
// an undescribed placeholder while anything still refers to it.
func (s *Store) Remove(name string) error {
	e, ok := s.entries[name]
	if !ok || e.def == nil {
		return attrerr.NotExist(name)
	}

	deps := s.declared()
	delete(deps, name)
	g, err := s.rebuild(name, deps)
	if err != nil {
		return err
	}

	delete(s.entries, name)
	s.install(g)

	s.logger.Debug("Attribute removed", "attribute", name, "stillReferenced", g.Has(name))
	s.observer.Removed(name)
	return nil
}

// Get returns the value of a present attribute.
func (s *Store) Get(name string) (cty.Value, error) {
	e, ok := s.entries[name]
	switch {
	case !ok:
		return cty.NilVal, attrerr.NotExist(name)
	case e.status.State == StateUndescribed:
		return cty.NilVal, attrerr.NotDescribed(name)
	case e.status.State == StateUnset:
		return cty.NilVal, attrerr.NotSet(name)
	}
	return e.status.Value, nil
}

// Set assigns values and recomputes every attribute downstream of them.
//
// Attributes are visited in recalculation order. Assigned attributes run
// their chain on the new value, present ones on their current value. An
// unset attribute that was not assigned is skipped, unless every dependency
// it declares is present. Then its chain is derived from a null seed: steps
// that wait for a value are skipped until one produces a non-null value, and
// the result is stored when it is not null. Assigned nulls run the whole
// chain.
//
// The first error stops the batch. Attributes written before the failure keep
// their new values; use Snapshot and Restore for all-or-nothing updates.
func (s *Store) Set(assignments map[string]cty.Value) (err error) {
	start := time.Now()
	defer func() {
		s.observer.SetCompleted(len(assignments), time.Since(start), err)
	}()

	if len(assignments) == 0 {
		return nil
	}

	names := make([]string, 0, len(assignments))
	for name := range assignments {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !s.graph.Has(name) {
			return attrerr.NotExist(name)
		}
		if !assignments[name].IsWhollyKnown() {
			return &attrerr.Error{Kind: attrerr.ErrInvalidValue, Attribute: name, Reason: "value must be known"}
		}
	}

	order := s.graph.RecalcOrder(names...)
	s.logger.Debug("Recalculating", "assigned", names, "order", order)

	for _, name := range order {
		e := s.entries[name]
		if e.def == nil {
			return attrerr.NotDescribed(name)
		}

		seed, assigned := assignments[name]
		derived := false
		if !assigned {
			switch {
			case e.status.IsPresent():
				seed = e.status.Value
			case s.derivable(e.def):
				seed = cty.NullVal(cty.DynamicPseudoType)
				derived = true
			default:
				s.skip(name, "unset")
				continue
			}
		}

		value, err := s.apply(name, e.def, seed, derived)
		if err != nil {
			return err
		}
		if derived && value.IsNull() {
			s.skip(name, "chain produced no value")
			continue
		}

		e.status = Status{State: StatePresent, Value: value}
		s.logger.Debug("Attribute recalculated", "attribute", name, "type", value.Type().FriendlyName())
		s.observer.Recalculated(name)
	}
	return nil
}

// derivable reports whether def reads at least one attribute and every
// attribute it reads holds a value.
func (s *Store) derivable(def *Definition) bool {
	deps := def.Dependencies()
	if len(deps) == 0 {
		return false
	}
	for _, dep := range deps {
		e, ok := s.entries[dep]
		if !ok || !e.status.IsPresent() {
			return false
		}
	}
	return true
}

func (s *Store) skip(name, reason string) {
	s.logger.Debug("Attribute skipped", "attribute", name, "reason", reason)
	s.observer.Skipped(name)
}

// apply runs def's chain starting from value. While derived and value is
// still null, steps waiting for a value are passed over.
func (s *Store) apply(name string, def *Definition, value cty.Value, derived bool) (cty.Value, error) {
	for i, st := range def.Steps {
		if derived && value.IsNull() && st.WaitsForValue() {
			continue
		}
		deps := make(map[string]cty.Value, len(st.DependsOn))
		for _, dep := range st.DependsOn {
			e, ok := s.entries[dep]
			switch {
			case !ok || e.def == nil:
				return cty.NilVal, attrerr.ParentNotDescribed(name, dep)
			case !e.status.IsPresent():
				return cty.NilVal, attrerr.ParentNotSet(name, dep)
			}
			deps[dep] = e.status.Value
		}

		out, err := st.Apply(value, deps)
		if err != nil {
			return cty.NilVal, stepError(name, i, st, err)
		}
		value = out
	}
	return value, nil
}

// stepError attributes a step failure to name. Errors from the attrerr
// taxonomy keep their kind; anything else is wrapped.
func stepError(name string, index int, st step.Step, err error) error {
	if aerr, ok := err.(*attrerr.Error); ok {
		if aerr.Attribute != "" {
			return aerr
		}
		cp := *aerr
		cp.Attribute = name
		return &cp
	}
	return &StepError{Attribute: name, Index: index, Step: st.Name, Err: err}
}

// declared returns the dependency lists of all current definitions.
func (s *Store) declared() map[string][]string {
	deps := make(map[string][]string, len(s.entries))
	for name, e := range s.entries {
		if e.def != nil {
			deps[name] = e.def.Dependencies()
		}
	}
	return deps
}

// rebuild builds the graph for a candidate set of definitions and rejects it
// when it is cyclic. The store is not modified.
func (s *Store) rebuild(name string, deps map[string][]string) (*depgraph.Graph, error) {
	g := depgraph.Build(deps)
	if err := g.CheckCycles(); err != nil {
		var cerr *depgraph.CycleError
		if errors.As(err, &cerr) {
			s.logger.Debug("Rejected cyclic definition", "attribute", name, "cycle", cerr.Nodes)
			return nil, attrerr.Loop(name, cerr.Nodes)
		}
		return nil, err
	}
	return g, nil
}

// install replaces the graph and reconciles placeholders with it: every graph
// node gets an entry, and placeholders the graph no longer has are dropped.
func (s *Store) install(g *depgraph.Graph) {
	s.graph = g
	for _, name := range g.Keys() {
		if _, ok := s.entries[name]; !ok {
			s.entries[name] = &entry{status: Status{State: StateUndescribed}}
		}
	}
	for name, e := range s.entries {
		if e.def == nil && !g.Has(name) {
			delete(s.entries, name)
		}
	}
	s.logger.Debug("Dependency graph rebuilt", "nodes", g.Len())
	s.observer.GraphRebuilt(g.Len())
}
