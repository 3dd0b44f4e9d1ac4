// Package ancestry checks the single-parent forest invariant: a
// re-parenting is rejected if it would place a descriptor below one of its
// own descendants. Grounded on the teacher's internal/graphcycle.Detect, a
// general graph cycle detector keyed by a visit-state map over an arbitrary
// node type — simplified here to a direct linear walk, since the type
// system's inheritance relation is single-parent (a forest, never a general
// graph), so there is only ever one path to check, not a visited-state
// traversal over branching edges.
package ancestry

// IsAncestor reports whether candidate lies somewhere on node's ancestor
// chain (its parent, its parent's parent, and so on to the root). parent
// returns the immediate parent of t and whether t has one at all.
func IsAncestor[T comparable](node, candidate T, parent func(T) (T, bool)) bool {
	cur := node
	for {
		p, ok := parent(cur)
		if !ok {
			return false
		}
		if p == candidate {
			return true
		}
		cur = p
	}
}
