package reactive

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

// Runtime is one evaluation context: the arena of graph nodes, the
// dependency-tracking stack and the pending-notification queue.
//
// Independent Runtimes never share state, so separate graphs can be built
// and tested in isolation. A Runtime is not safe for concurrent use.
type Runtime struct {
	name   string
	nodes  map[NodeID]*node
	lastID NodeID

	// stack holds the frames of the nodes currently being evaluated,
	// innermost last.
	stack []*frame

	// untrackDepth suppresses tracking for Untrack calls made while the
	// stack is empty. Nested frames carry their own counter.
	untrackDepth int

	batchDepth int
	queue      []*node
	flushing   bool

	owner *Owner

	budget budget
	logger *slog.Logger
	probes []Probe
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithName labels the runtime in logs and snapshots.
func WithName(name string) RuntimeOption {
	return func(rt *Runtime) {
		rt.name = name
	}
}

// WithLogger sets the logger used for debug records.
// By default records are discarded.
func WithLogger(logger *slog.Logger) RuntimeOption {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithProbe registers a probe that observes graph events.
// Multiple probes may be registered; they are called in order.
func WithProbe(p Probe) RuntimeOption {
	return func(rt *Runtime) {
		if p != nil {
			rt.probes = append(rt.probes, p)
		}
	}
}

// WithMaxEffectRuns bounds the number of effect and watcher runs a single
// flush may perform before it gives up with ErrEffectStorm.
// Zero or a negative value disables the limit.
func WithMaxEffectRuns(n int) RuntimeOption {
	return func(rt *Runtime) {
		rt.budget.maxRuns = n
	}
}

// NewRuntime creates an empty runtime.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		name:   "default",
		nodes:  make(map[NodeID]*node),
		budget: budget{maxRuns: DefaultMaxEffectRuns},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Name returns the runtime's label.
func (rt *Runtime) Name() string {
	return rt.name
}

// Len returns the number of live nodes in the arena.
func (rt *Runtime) Len() int {
	return len(rt.nodes)
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

func (rt *Runtime) newNode(kind NodeKind, name string) *node {
	rt.lastID++
	n := &node{
		rt:        rt,
		id:        rt.lastID,
		kind:      kind,
		name:      name,
		observers: linkedhashset.New(),
	}
	rt.nodes[n.id] = n
	return n
}

func (rt *Runtime) lookup(id NodeID) *node {
	return rt.nodes[id]
}

// resolve returns the arena entry behind a Node handle, rejecting handles
// that belong to another runtime.
func (rt *Runtime) resolve(h Node) *node {
	n := h.graphNode()
	if n.rt != rt {
		panic(ErrForeignNode)
	}
	return n
}

// replaceDeps installs the edges recorded during an evaluation, dropping
// the observer links of producers that were not read this time.
func (rt *Runtime) replaceDeps(n *node, next []edge) {
	if n.disposed {
		for _, e := range next {
			rt.unlink(e.id, n.id)
		}
		n.deps = nil
		return
	}

	keep := make(map[NodeID]struct{}, len(next))
	for _, e := range next {
		keep[e.id] = struct{}{}
	}
	for _, e := range n.deps {
		if _, ok := keep[e.id]; !ok {
			rt.unlink(e.id, n.id)
		}
	}
	n.deps = next
}

func (rt *Runtime) unlink(producer, consumer NodeID) {
	if p := rt.lookup(producer); p != nil {
		p.removeObserver(consumer)
	}
}

// release detaches a node from every producer and removes it from the
// arena. Consumers that still list it see the missing id as a change.
func (rt *Runtime) release(n *node) {
	n.disposed = true
	for _, e := range n.deps {
		rt.unlink(e.id, n.id)
	}
	n.deps = nil
	n.observers.Clear()
	delete(rt.nodes, n.id)
	rt.observe(Event{Kind: EventDispose, Node: n.id, NodeKind: n.kind, Name: n.name, Start: time.Now()})
}

// observe fans an event out to the registered probes and the debug log.
func (rt *Runtime) observe(ev Event) {
	for _, p := range rt.probes {
		p.Observe(ev)
	}
	if !rt.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{"runtime", rt.name, "node", uint64(ev.Node), "kind", ev.NodeKind.String()}
	if ev.Name != "" {
		attrs = append(attrs, "name", ev.Name)
	}
	if ev.Duration > 0 {
		attrs = append(attrs, "duration", ev.Duration)
	}
	if ev.Err != nil {
		attrs = append(attrs, "error", ev.Err)
	}
	rt.logger.Debug("reactive: "+ev.Kind.String(), attrs...)
}
