package depgraph

// Graph maps each node to the set of nodes that depend on it.
// A Graph is not safe for concurrent use; the owning store serializes access.
type Graph struct {
	// children holds, per node, the set of its dependents (successors).
	// Every node referenced anywhere is present as a key.
	children map[string]map[string]struct{}
}

// CycleError is returned by CheckCycles when part of the graph cannot be
// ordered.
type CycleError struct {
	// Nodes are the nodes left over after peeling, in ascending order.
	Nodes []string
}

func (e *CycleError) Error() string {
	return "cycle detected among nodes " + quoteAll(e.Nodes)
}
