package depgraph

import (
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		children: make(map[string]map[string]struct{}),
	}
}

// Build constructs a graph from declared dependencies. deps maps each
// defined name to every dependency name its steps consume, in any order and
// possibly with repeats. Every defined name and every dependency name becomes
// a node; each dependency gets an edge to the name that consumes it.
//
// Self-dependencies are kept as self-edges so that CheckCycles rejects them.
func Build(deps map[string][]string) *Graph {
	g := New()
	for name, parents := range deps {
		g.AddNode(name)
		for _, parent := range parents {
			g.AddEdge(parent, name)
		}
	}
	return g
}

// AddNode adds a node with no dependents. Adding an existing node does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.children[id]; ok {
		return
	}
	g.children[id] = make(map[string]struct{})
}

// AddEdge records that child must be recomputed when parent changes.
// Missing endpoints are added as nodes.
func (g *Graph) AddEdge(parent, child string) {
	g.AddNode(parent)
	g.AddNode(child)
	g.children[parent][child] = struct{}{}
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.children[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.children)
}

// Keys returns all nodes in ascending order.
func (g *Graph) Keys() []string {
	keys := make([]string, 0, len(g.children))
	for id := range g.children {
		keys = append(keys, id)
	}
	slices.Sort(keys)
	return keys
}

// Children returns the direct dependents of id in ascending order, or nil if
// id is not a node.
func (g *Graph) Children(id string) []string {
	set, ok := g.children[id]
	if !ok {
		return nil
	}
	return sortedSet(set)
}

// Edges returns a copy of the adjacency as node -> sorted dependents. Nodes
// without dependents map to an empty, non-nil slice.
func (g *Graph) Edges() map[string][]string {
	edges := make(map[string][]string, len(g.children))
	for id, set := range g.children {
		edges[id] = sortedSet(set)
	}
	return edges
}

// Subtree returns the subgraph reachable from the seeds by following
// dependent edges, seeds included. Each reached node keeps its full set of
// dependents, all of which are reached too. Seeds that are not nodes of g are
// ignored. The walk uses an explicit stack and visits each node once, so
// diamonds and long chains are both cheap.
func (g *Graph) Subtree(seeds ...string) *Graph {
	sub := New()
	stack := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if g.Has(seed) {
			stack = append(stack, seed)
		}
	}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if sub.Has(current) {
			continue
		}
		set := make(map[string]struct{}, len(g.children[current]))
		for child := range g.children[current] {
			set[child] = struct{}{}
			if !sub.Has(child) {
				stack = append(stack, child)
			}
		}
		sub.children[current] = set
	}

	return sub
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
