package reactive

import (
	"errors"
	"time"
)

// propagate marks everything reachable from a changed producer. The walk
// is breadth-first over observer sets. A Computed that is already Dirty
// ends its branch, since everything below it was marked when it became
// Dirty. Effects and watchers are queued at most once.
func (rt *Runtime) propagate(source *node) {
	work := source.observerIDs()
	for i := 0; i < len(work); i++ {
		n := rt.lookup(work[i])
		if n == nil {
			continue
		}
		switch n.kind {
		case KindComputed:
			if n.state == StateDirty {
				continue
			}
			n.state = StateDirty
			work = append(work, n.observerIDs()...)
		case KindEffect:
			// An effect marked while running is queued again and re-runs
			// after the current run ends.
			n.state = StateDirty
			rt.enqueue(n)
		case KindWatcher:
			if n.armed {
				rt.enqueue(n)
			}
		}
	}
}

// enqueue appends a root observer to the pending queue.
// The queue is FIFO in the order nodes were first marked.
func (rt *Runtime) enqueue(n *node) {
	if n.queued || n.disposed {
		return
	}
	if n.kind == KindWatcher {
		n.armed = false
	}
	n.queued = true
	rt.queue = append(rt.queue, n)
}

// settle flushes the queue unless a batch, an evaluation or another
// flush is in progress; the outermost of those flushes instead.
func (rt *Runtime) settle() {
	if rt.flushing || rt.batchDepth > 0 || len(rt.stack) > 0 || len(rt.queue) == 0 {
		return
	}
	rt.flush()
}

// flush drains the queue. Writes made by effects append to the same
// queue and are drained in the same loop. A failing effect or watcher
// does not strand the rest of the queue: every entry runs, then the
// failures are raised together.
func (rt *Runtime) flush() {
	rt.flushing = true
	defer func() { rt.flushing = false }()
	rt.budget.reset()

	var errs []error
	for len(rt.queue) > 0 {
		n := rt.queue[0]
		rt.queue[0] = nil
		rt.queue = rt.queue[1:]
		n.queued = false
		if n.disposed {
			continue
		}

		if !rt.budget.allow() {
			err := rt.budget.exceeded()
			rt.dropQueue()
			rt.logger.Warn("reactive: effect storm", "runtime", rt.name, "runs", rt.budget.runs, "node", uint64(n.id))
			rt.observe(Event{Kind: EventStorm, Node: n.id, NodeKind: n.kind, Name: n.name, Start: time.Now(), Err: err})
			errs = append(errs, err)
			break
		}

		if err := capture(n, n.run); err != nil {
			errs = append(errs, err)
		}
	}

	switch len(errs) {
	case 0:
	case 1:
		panic(errs[0])
	default:
		panic(errors.Join(errs...))
	}
}

func (rt *Runtime) dropQueue() {
	for _, q := range rt.queue {
		q.queued = false
	}
	rt.queue = nil
}

// Pending returns the ids of the effects and watchers waiting to be
// notified, in notification order.
func (rt *Runtime) Pending() []NodeID {
	ids := make([]NodeID, len(rt.queue))
	for i, n := range rt.queue {
		ids[i] = n.id
	}
	return ids
}
