package reactive

import "sort"

// NodeInfo is the read-only view of one node in a Snapshot.
type NodeInfo struct {
	ID        NodeID   `json:"id"`
	Kind      string   `json:"kind"`
	Name      string   `json:"name,omitempty"`
	State     string   `json:"state"`
	Version   uint64   `json:"version"`
	Deps      []NodeID `json:"deps,omitempty"`
	Observers []NodeID `json:"observers,omitempty"`
	Queued    bool     `json:"queued,omitempty"`
}

// Snapshot is a point-in-time dump of a runtime's graph.
type Snapshot struct {
	Runtime string     `json:"runtime"`
	Nodes   []NodeInfo `json:"nodes"`
	Queue   []NodeID   `json:"queue,omitempty"`
	Stack   []NodeID   `json:"stack,omitempty"`
}

// Snapshot returns the current graph with nodes ordered by id.
func (rt *Runtime) Snapshot() Snapshot {
	s := Snapshot{
		Runtime: rt.name,
		Nodes:   make([]NodeInfo, 0, len(rt.nodes)),
		Queue:   rt.Pending(),
		Stack:   rt.ActiveStack(),
	}
	for _, n := range rt.nodes {
		s.Nodes = append(s.Nodes, NodeInfo{
			ID:        n.id,
			Kind:      n.kind.String(),
			Name:      n.name,
			State:     n.state.String(),
			Version:   n.version,
			Deps:      n.depIDs(),
			Observers: n.observerIDs(),
			Queued:    n.queued,
		})
	}
	sort.Slice(s.Nodes, func(i, j int) bool { return s.Nodes[i].ID < s.Nodes[j].ID })
	return s
}
