package depgraph

import (
	"slices"
	"strconv"
	"strings"
)

// RecalcOrder returns the nodes reachable from the seeds in an order where
// every node follows all of its parents that are also reachable. Nodes that
// are not ordered relative to each other appear in ascending lexicographic
// order within the pass that releases them.
//
// Parents outside the reachable set are not considered; a node whose only
// pending inputs live outside the subtree is emitted in the first pass.
// On a cyclic subtree the nodes on or behind the cycle are omitted; callers
// guard against that with CheckCycles.
func (g *Graph) RecalcOrder(seeds ...string) []string {
	order, _ := peel(g.Subtree(seeds...).children)
	return order
}

// CheckCycles peels the whole graph and returns a *CycleError listing every
// node that could not be ordered. It returns nil for an acyclic graph.
func (g *Graph) CheckCycles() error {
	_, remaining := peel(g.children)
	if len(remaining) > 0 {
		return &CycleError{Nodes: remaining}
	}
	return nil
}

// peel repeatedly removes, in one pass, every node of work that is not a
// dependent of another node still in work. It returns the removed nodes in
// pass order and, when it gets stuck, the sorted nodes it could not remove.
// work is not modified.
func peel(work map[string]map[string]struct{}) (order []string, remaining []string) {
	alive := make(map[string]struct{}, len(work))
	for id := range work {
		alive[id] = struct{}{}
	}
	order = make([]string, 0, len(work))

	for len(alive) > 0 {
		blocked := make(map[string]struct{}, len(alive))
		for id := range alive {
			for child := range work[id] {
				blocked[child] = struct{}{}
			}
		}

		var pass []string
		for id := range alive {
			if _, ok := blocked[id]; !ok {
				pass = append(pass, id)
			}
		}
		if len(pass) == 0 {
			break
		}
		slices.Sort(pass)
		for _, id := range pass {
			delete(alive, id)
		}
		order = append(order, pass...)
	}

	if len(alive) > 0 {
		remaining = make([]string, 0, len(alive))
		for id := range alive {
			remaining = append(remaining, id)
		}
		slices.Sort(remaining)
	}
	return order, remaining
}

func quoteAll(ids []string) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
