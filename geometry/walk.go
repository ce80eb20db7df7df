package geometry

// WalkFunc is called for every node of a walk, once on entry (leaving false) and once on
// exit (leaving true). Returning false stops the walk.
type WalkFunc func(g Geometry, leaving bool) bool

// Walk visits root and all of its descendants depth-first in insertion order.
//
// The walk is iterative: it follows the circular part lists and parent back references
// instead of recursing, so arbitrarily nested collections cannot exhaust the call stack.
// Walk returns false if fn stopped it early.
func Walk(root Geometry, fn WalkFunc) bool {
	if root.IsNil() {
		return true
	}

	a := root.a
	cur := root.h
	for {
		if !fn(Geometry{a: a, h: cur}, false) {
			return false
		}

		if n := a.nodes[cur]; n.kind.IsContainer() && n.last != Nil {
			cur = a.nodes[n.last].next
			continue
		}

		// Leave finished nodes until one has a next sibling to enter.
		for {
			if !fn(Geometry{a: a, h: cur}, true) {
				return false
			}
			if cur == root.h {
				return true
			}

			n := a.nodes[cur]
			parent := a.nodes[n.parent]
			if parent.last != cur {
				cur = n.next
				break
			}
			cur = n.parent
		}
	}
}

// Depth returns the number of container levels from root down to its deepest node.
// A leaf or an empty container has depth 0.
func Depth(root Geometry) int {
	depth, maxDepth := 0, 0
	Walk(root, func(g Geometry, leaving bool) bool {
		if g.PartCount() == 0 {
			return true
		}
		if leaving {
			depth--
		} else {
			depth++
			maxDepth = max(maxDepth, depth)
		}

		return true
	})

	return maxDepth
}
