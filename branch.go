package graft

// branchNode is one speculative branch record: the variable it
// watches, an optional pending replacement value, the generation
// snapshot taken when the branch was opened, and the branches that
// were opened (and left unmerged) inside its body, in opening order.
type branchNode struct {
	variable   string
	delta      Value
	hasDelta   bool
	generation int
	children   []int
}

// branchArena stores every branch opened during a run as a flat slice
// of records linked by child indices. Keeping the tree in an arena
// instead of recursive ownership makes the merge walk an explicit
// loop, immune to stack growth on pathologically deep nesting, and
// leaves the full merge order auditable after the fact.
type branchArena struct {
	nodes []branchNode
}

// open appends a fresh branch record and returns its index
func (a *branchArena) open(variable string, generation int) int {
	a.nodes = append(a.nodes, branchNode{
		variable:   variable,
		generation: generation,
	})
	return len(a.nodes) - 1
}

// node returns the record at id
func (a *branchArena) node(id int) *branchNode {
	return &a.nodes[id]
}

// setDelta stages a pending replacement value on the branch at id
func (a *branchArena) setDelta(id int, value Value) {
	a.nodes[id].delta = value
	a.nodes[id].hasDelta = true
}

// merge runs the commit protocol for the branch at id and its
// subtree, in preorder. Per branch, independently:
//
//  1. If the watched variable's generation no longer matches the
//     snapshot, the branch is stale: it and its entire subtree are
//     discarded silently, leaving the World untouched.
//  2. Otherwise the pending delta, if any, overwrites the binding.
//  3. The variable's generation advances unconditionally, so even a
//     no-op branch counts as a commit event.
//  4. Children merge in their original opening order, each subject to
//     its own staleness check; a child watching a different variable
//     is unaffected by anything its siblings commit.
func (a *branchArena) merge(id int, world *World, logger *Logger) {
	stack := []int{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &a.nodes[cur]
		current := world.Generation(n.variable)
		if current != n.generation {
			logger.Debug("merge: branch on %q is stale (opened at generation %d, now %d); discarding it and %d nested branch(es)",
				n.variable, n.generation, current, len(n.children))
			continue
		}
		if n.hasDelta {
			world.Set(n.variable, n.delta)
		}
		world.AdvanceGeneration(n.variable)
		logger.Debug("merge: committed branch on %q (delta: %v), generation now %d",
			n.variable, n.hasDelta, world.Generation(n.variable))

		// push in reverse so children pop in opening order
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}
