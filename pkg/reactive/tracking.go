package reactive

// frame is one entry of the evaluation stack.
type frame struct {
	node *node

	// deps collects the producers read while this frame is on top.
	deps []edge
	seen map[NodeID]struct{}

	// untrackDepth > 0 suppresses edge recording for this frame.
	untrackDepth int

	// checking frames only verify dependency versions; no user code runs
	// directly under them, so they never record edges.
	checking bool
}

func (rt *Runtime) push(n *node, checking bool) *frame {
	f := &frame{node: n, checking: checking}
	n.onStack = true
	rt.stack = append(rt.stack, f)
	return f
}

func (rt *Runtime) pop(f *frame) {
	top := len(rt.stack) - 1
	if top < 0 || rt.stack[top] != f {
		panic("reactive: evaluation stack corrupted")
	}
	rt.stack[top] = nil
	rt.stack = rt.stack[:top]
	f.node.onStack = false
}

func (rt *Runtime) top() *frame {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// track records an edge from the current consumer to producer.
// The observer link is installed immediately so writes made later in the
// same evaluation still reach the consumer.
func (rt *Runtime) track(producer *node) {
	f := rt.top()
	if f == nil || f.checking || f.untrackDepth > 0 || f.node.disposed {
		return
	}
	if f.seen == nil {
		f.seen = make(map[NodeID]struct{})
	}
	if _, ok := f.seen[producer.id]; ok {
		return
	}
	f.seen[producer.id] = struct{}{}
	f.deps = append(f.deps, edge{id: producer.id, version: producer.version})
	producer.addObserver(f.node.id)
}

// suspendTracking bumps the untrack counter of the current frame (or of
// the runtime when nothing is evaluating) and returns the matching undo.
func (rt *Runtime) suspendTracking() (resume func()) {
	depth := &rt.untrackDepth
	if f := rt.top(); f != nil {
		depth = &f.untrackDepth
	}
	*depth++
	return func() { *depth-- }
}

// IsTracking reports whether a read made now would record a dependency.
func (rt *Runtime) IsTracking() bool {
	f := rt.top()
	return f != nil && !f.checking && f.untrackDepth == 0
}

// ActiveStack returns the ids of the nodes currently evaluating or
// checking, outermost first.
func (rt *Runtime) ActiveStack() []NodeID {
	ids := make([]NodeID, len(rt.stack))
	for i, f := range rt.stack {
		ids[i] = f.node.id
	}
	return ids
}

// Untrack runs fn without recording any of its reads as dependencies of
// the current consumer and returns fn's result. Calls nest: tracking
// resumes only when the outermost Untrack returns.
//
// Example:
//
//	mixed := reactive.NewComputed(rt, func() int {
//	    return tracked.Get() + reactive.Untrack(rt, untracked.Get)
//	})
func Untrack[R any](rt *Runtime, fn func() R) R {
	resume := rt.suspendTracking()
	defer resume()
	return fn()
}

// Untracked runs fn without tracking, for callers that need no result.
func (rt *Runtime) Untracked(fn func()) {
	resume := rt.suspendTracking()
	defer resume()
	fn()
}
