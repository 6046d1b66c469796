// Package depgraph holds the dependency graph of an attribute store: for
// every attribute name, the set of names that must be recomputed when it
// changes ("parent -> children" edges).
//
// The graph is derived data. It is never patched in place; the store
// rebuilds it wholesale from the declared dependencies whenever the set of
// definitions changes, then asks it to prove it is still acyclic.
//
// Ordering is deterministic. Both RecalcOrder and CheckCycles peel the graph
// in passes, removing every node that no remaining node points at, and emit
// the nodes of one pass in ascending lexicographic order.
package depgraph
