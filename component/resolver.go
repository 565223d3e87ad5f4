package component

// wouldCycle reports whether installing the implicit edge from->to (from
// looked up to) would close a cycle. It runs a breadth-first search over
// dependsOnIt — the reverse-edge direction — starting at from: if to is
// reachable, the proposed edge would complete a loop back to from.
//
// This mirrors the teacher's own findCircularDependencies BFS-over-parents
// approach, adapted from a batch pass over a reflection-built snapshot
// into an incremental check run synchronously at edge-insertion time
// against the live edge sets — the container mutex must be held across
// both this check and the edge insertion, or two factories could race to
// close the same cycle.
//
// On a cycle, the returned path starts at from (so the log reads as "this
// lookup would create: from -> to -> ... -> from").
func (c *Context) wouldCycle(from, to string) (path []string, cyclic bool) {
	if from == to {
		return []string{from, to, from}, true
	}

	parent := map[string]string{from: from}
	queue := FIFOQueue[string]{}
	queue.Push(from)

	for !queue.IsEmpty() {
		cur, _ := queue.Pop()
		c.infos[cur].ForEachDependsOnIt(func(neighbor string) {
			if _, seen := parent[neighbor]; !seen {
				parent[neighbor] = cur
				queue.Push(neighbor)
			}
		})
	}

	if _, reached := parent[to]; !reached {
		return nil, false
	}

	// Walk parent pointers from `to` back to `from`. Each step (n,
	// parent[n]) is a real edge n->parent[n] already on record (n depends
	// on parent[n]), so trail itself reads, in order, as the existing
	// chain "to -> ... -> from". Prepending from gives the full loop the
	// proposed from->to edge would close: from -> to -> ... -> from.
	var trail []string
	for n := to; ; n = parent[n] {
		trail = append(trail, n)
		if n == from {
			break
		}
	}

	path = make([]string, 0, len(trail)+1)
	path = append(path, from)
	path = append(path, trail...)
	return path, true
}
