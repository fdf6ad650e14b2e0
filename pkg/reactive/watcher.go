package reactive

import (
	"time"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

// Watcher is the low-level notification primitive. It calls notify when a
// watched node changes (a State is written, a Computed becomes dirty) and
// does nothing else: it never reads or re-runs anything itself.
//
// A Watcher fires at most once until it is re-armed, and any call to Watch
// re-arms it, so a notify callback that wants to hear about the next
// change ends with w.Watch(). Because propagation stops at nodes that are
// already dirty, a watched Computed re-notifies only after it has been
// read (pulled clean) again.
//
// notify runs synchronously at the end of the write that triggered it. It
// may read nodes; those reads are never tracked.
type Watcher struct {
	rt       *Runtime
	n        *node
	notify   func()
	watched  *linkedhashset.Set
	notified int
}

// NewWatcher creates an armed watcher with nothing watched.
func (rt *Runtime) NewWatcher(notify func(), opts ...Option) *Watcher {
	o := applyOptions(opts)
	w := &Watcher{
		rt:      rt,
		notify:  notify,
		watched: linkedhashset.New(),
	}
	w.n = rt.newNode(KindWatcher, o.name)
	w.n.armed = true
	w.n.run = w.run
	return w
}

// Watch adds nodes to the watched set and re-arms the watcher.
// On a disposed watcher it does nothing.
func (w *Watcher) Watch(nodes ...Node) {
	if w.n.disposed {
		w.rt.logger.Debug("reactive: watch on disposed watcher", "runtime", w.rt.name, "node", uint64(w.n.id))
		return
	}
	for _, h := range nodes {
		p := w.rt.resolve(h)
		if p.disposed || w.watched.Contains(h) {
			continue
		}
		w.watched.Add(h)
		w.n.deps = append(w.n.deps, edge{id: p.id, version: p.version})
		p.addObserver(w.n.id)
	}
	w.n.armed = true
}

// Unwatch removes nodes from the watched set. Writes to them no longer
// reach the watcher. On a disposed watcher it does nothing.
func (w *Watcher) Unwatch(nodes ...Node) {
	if w.n.disposed {
		w.rt.logger.Debug("reactive: unwatch on disposed watcher", "runtime", w.rt.name, "node", uint64(w.n.id))
		return
	}
	for _, h := range nodes {
		p := w.rt.resolve(h)
		if !w.watched.Contains(h) {
			continue
		}
		w.watched.Remove(h)
		p.removeObserver(w.n.id)
		for i, e := range w.n.deps {
			if e.id == p.id {
				w.n.deps = append(w.n.deps[:i], w.n.deps[i+1:]...)
				break
			}
		}
	}
}

// Watched returns the watched nodes in the order they were added.
func (w *Watcher) Watched() []Node {
	values := w.watched.Values()
	nodes := make([]Node, 0, len(values))
	for _, v := range values {
		h := v.(Node)
		if !h.graphNode().disposed {
			nodes = append(nodes, h)
		}
	}
	return nodes
}

// Pending returns the watched Computed nodes that are currently dirty and
// would recompute on their next read.
func (w *Watcher) Pending() []Node {
	var nodes []Node
	for _, h := range w.Watched() {
		n := h.graphNode()
		if n.kind == KindComputed && n.state != StateClean {
			nodes = append(nodes, h)
		}
	}
	return nodes
}

// Armed reports whether the next change will call notify.
func (w *Watcher) Armed() bool { return w.n.armed && !w.n.disposed }

// Notifications returns how many times notify has been called.
func (w *Watcher) Notifications() int { return w.notified }

// Dispose unwatches everything. The watcher is never notified again and
// later Watch calls are ignored.
func (w *Watcher) Dispose() {
	if w.n.disposed {
		return
	}
	w.watched.Clear()
	w.n.armed = false
	w.rt.release(w.n)
}

// ID returns the node id.
func (w *Watcher) ID() NodeID { return w.n.id }

// Kind returns KindWatcher.
func (w *Watcher) Kind() NodeKind { return KindWatcher }

func (w *Watcher) run() {
	if w.n.disposed {
		return
	}
	w.notified++
	start := time.Now()
	defer func() {
		rt := w.rt
		ev := Event{Kind: EventNotify, Node: w.n.id, NodeKind: KindWatcher, Name: w.n.name,
			Start: start, Duration: time.Since(start)}
		if r := recover(); r != nil {
			ev.Err = wrapFailure(w.n, r)
			rt.observe(ev)
			panic(ev.Err)
		}
		rt.observe(ev)
	}()
	w.notify()
}

func (w *Watcher) graphNode() *node { return w.n }
