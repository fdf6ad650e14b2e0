package reactive

import (
	"fmt"
	"time"
)

// EventKind identifies what happened in the graph.
type EventKind uint8

const (
	// EventWrite is a State write that changed the value.
	EventWrite EventKind = iota + 1

	// EventEvaluate is a Computed running its function.
	EventEvaluate

	// EventReuse is a dirty Computed found unchanged by its dependency
	// check, without running its function.
	EventReuse

	// EventEffectRun is an Effect body run.
	EventEffectRun

	// EventNotify is a Watcher callback.
	EventNotify

	// EventDispose is a node leaving the arena.
	EventDispose

	// EventStorm is a flush aborted by the effect run budget.
	EventStorm
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventWrite:
		return "write"
	case EventEvaluate:
		return "evaluate"
	case EventReuse:
		return "reuse"
	case EventEffectRun:
		return "effect_run"
	case EventNotify:
		return "notify"
	case EventDispose:
		return "dispose"
	case EventStorm:
		return "storm"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *EventKind) UnmarshalText(text []byte) error {
	for c := EventWrite; c <= EventStorm; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("reactive: unknown event kind %q", text)
}

// Event describes one observable step of the engine.
type Event struct {
	Kind     EventKind
	Node     NodeID
	NodeKind NodeKind
	Name     string

	// Start is when the step began. Duration is zero for instantaneous
	// events (writes, reuses, disposals).
	Start    time.Time
	Duration time.Duration

	// Changed reports, for evaluations, whether the value changed.
	Changed bool

	// Err is set when the step failed.
	Err error
}

// Probe observes engine events. Probes are called synchronously on the
// runtime's thread and must not call back into the runtime.
type Probe interface {
	Observe(Event)
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func(Event)

// Observe calls f(ev).
func (f ProbeFunc) Observe(ev Event) {
	f(ev)
}
