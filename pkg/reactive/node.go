package reactive

import (
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// NodeID identifies a node within its Runtime. IDs are assigned in creation
// order and never reused.
type NodeID uint64

// NodeKind distinguishes the roles a node can play in the graph.
type NodeKind uint8

const (
	KindState NodeKind = iota + 1
	KindComputed
	KindEffect
	KindWatcher
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindComputed:
		return "computed"
	case KindEffect:
		return "effect"
	case KindWatcher:
		return "watcher"
	default:
		return "unknown"
	}
}

// NodeState is the freshness of a node's cached value.
type NodeState uint8

const (
	// StateClean means the cached value is valid for the current versions
	// of all dependencies.
	StateClean NodeState = iota

	// StateDirty means the cached value is known stale.
	StateDirty

	// StateChecking means the node is on the evaluation stack, either
	// verifying its dependencies or running its function.
	StateChecking
)

// String returns a human-readable name for the node state.
func (s NodeState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateChecking:
		return "checking"
	default:
		return "unknown"
	}
}

// Node is implemented by every graph value a Watcher can watch.
type Node interface {
	// ID returns the node's identifier within its Runtime.
	ID() NodeID

	// Kind returns the node's role in the graph.
	Kind() NodeKind

	graphNode() *node
}

// edge is a recorded dependency on a producer, stamped with the producer's
// version at the time it was read.
type edge struct {
	id      NodeID
	version uint64
}

// node is the arena entry shared by every kind of graph value.
// All references to other nodes are ids resolved through the Runtime.
type node struct {
	rt   *Runtime
	id   NodeID
	kind NodeKind
	name string

	state   NodeState
	version uint64

	// evaluated is false until the node's function first completed.
	evaluated bool

	// failed is set when the last evaluation panicked; the cached value
	// then predates the current dependency versions.
	failed bool

	// deps are the producers read during the most recent evaluation,
	// in first-read order.
	deps []edge

	// observers holds the ids of consumers that read this node,
	// in the order the edges were first recorded.
	observers *linkedhashset.Set

	// onStack is true while the node is evaluating or checking.
	onStack bool

	// queued is true while the node sits in the scheduler queue.
	queued bool

	// armed gates watcher notifications; unused for other kinds.
	armed bool

	disposed bool

	// evaluate runs the user function of a Computed and reports whether
	// the cached value changed.
	evaluate func() bool

	// run is invoked by the scheduler for Effect and Watcher nodes.
	run func()
}

func (n *node) addObserver(id NodeID) {
	n.observers.Add(id)
}

func (n *node) removeObserver(id NodeID) {
	n.observers.Remove(id)
}

// observerIDs returns a copy of the observer set in insertion order.
func (n *node) observerIDs() []NodeID {
	values := n.observers.Values()
	ids := make([]NodeID, len(values))
	for i, v := range values {
		ids[i] = v.(NodeID)
	}
	return ids
}

func (n *node) depIDs() []NodeID {
	ids := make([]NodeID, len(n.deps))
	for i, e := range n.deps {
		ids[i] = e.id
	}
	return ids
}

// label is used in logs and error messages.
func (n *node) label() string {
	if n.name != "" {
		return n.name
	}
	return n.kind.String()
}
