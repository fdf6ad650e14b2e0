package reactive

import "time"

// refresh brings a Computed node up to date. A Clean node returns
// immediately; a Dirty node that was evaluated before first checks
// whether any dependency actually moved and only runs its function if one
// did.
func (rt *Runtime) refresh(n *node) {
	if n.disposed {
		panic(disposedError(n))
	}
	if n.onStack {
		panic(rt.cycleError(n))
	}
	if n.state == StateClean {
		return
	}
	if n.evaluated && !n.failed && !rt.dependenciesChanged(n) {
		n.state = StateClean
		rt.observe(Event{Kind: EventReuse, Node: n.id, NodeKind: n.kind, Name: n.name, Start: time.Now()})
		return
	}
	rt.recompute(n)
}

// dependenciesChanged walks n's dependencies in recorded order, refreshing
// Computed producers, and reports whether any version differs from the
// one recorded at n's last evaluation. It stops at the first change, so
// producers behind a branch that is no longer taken are never refreshed.
func (rt *Runtime) dependenciesChanged(n *node) (changed bool) {
	f := rt.push(n, true)
	n.state = StateChecking
	defer func() {
		rt.pop(f)
		if r := recover(); r != nil {
			n.state = StateDirty
			panic(r)
		}
	}()

	for _, e := range n.deps {
		p := rt.lookup(e.id)
		if p == nil {
			return true
		}
		if p.kind == KindComputed {
			rt.refresh(p)
		}
		if p.version != e.version {
			return true
		}
	}
	// A write during the check re-marked n.
	return n.state == StateDirty
}

// recompute runs a Computed's function under a fresh frame and installs
// the dependencies it read. On failure the cached value is untouched and
// the node stays Dirty so the next read retries.
func (rt *Runtime) recompute(n *node) {
	f := rt.push(n, false)
	n.state = StateChecking
	start := time.Now()
	changed := false

	defer func() {
		rt.pop(f)
		rt.replaceDeps(n, f.deps)
		if r := recover(); r != nil {
			n.state = StateDirty
			n.failed = true
			err := wrapFailure(n, r)
			rt.observe(Event{Kind: EventEvaluate, Node: n.id, NodeKind: n.kind, Name: n.name,
				Start: start, Duration: time.Since(start), Err: err})
			panic(err)
		}
		rt.observe(Event{Kind: EventEvaluate, Node: n.id, NodeKind: n.kind, Name: n.name,
			Start: start, Duration: time.Since(start), Changed: changed})
	}()

	changed = n.evaluate()
	n.evaluated = true
	n.failed = false
	if changed {
		n.version++
	}
	// A node written to during its own evaluation stays Dirty.
	if n.state == StateChecking {
		n.state = StateClean
	}
}
