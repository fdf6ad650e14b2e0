package reactive

import "time"

// State is an externally settable value and a source of the graph.
// Reading it while a Computed or Effect evaluates records a dependency;
// writing it marks every dependent dirty and runs affected effects before
// Set returns.
type State[T any] struct {
	rt    *Runtime
	n     *node
	value T

	// equal decides whether a write changes the value. nil uses defaultEquals.
	equal func(a, b T) bool
}

// NewState creates a state cell holding initial.
func NewState[T any](rt *Runtime, initial T, opts ...Option) *State[T] {
	o := applyOptions(opts)
	return &State[T]{
		rt:    rt,
		n:     rt.newNode(KindState, o.name),
		value: initial,
	}
}

// Get returns the current value and records a dependency of the current
// consumer, if any.
func (s *State[T]) Get() T {
	s.rt.track(s.n)
	return s.value
}

// Peek returns the current value without recording a dependency.
func (s *State[T]) Peek() T {
	return s.value
}

// Set stores value. When it equals the current value nothing happens;
// otherwise the version is bumped, dependents are marked dirty and the
// scheduler is flushed unless a batch or an evaluation is in progress.
//
// A failure raised by an effect or watcher notified by this write panics
// out of Set; use TrySet to receive it as an error.
func (s *State[T]) Set(value T) {
	if s.equals(s.value, value) {
		return
	}
	s.value = value
	s.n.version++
	s.rt.observe(Event{Kind: EventWrite, Node: s.n.id, NodeKind: KindState, Name: s.n.name, Start: time.Now(), Changed: true})
	s.rt.propagate(s.n)
	s.rt.settle()
}

// TrySet is Set returning cascaded failures instead of panicking.
func (s *State[T]) TrySet(value T) (err error) {
	defer recoverError(&err)
	s.Set(value)
	return nil
}

// Update replaces the value with fn applied to the current value.
func (s *State[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// WithEquals configures the equality used to detect changes.
func (s *State[T]) WithEquals(fn func(a, b T) bool) *State[T] {
	s.equal = fn
	return s
}

// ID returns the node id.
func (s *State[T]) ID() NodeID { return s.n.id }

// Kind returns KindState.
func (s *State[T]) Kind() NodeKind { return KindState }

// Name returns the label given with the Name option.
func (s *State[T]) Name() string { return s.n.name }

// Version returns the number of effective writes so far.
func (s *State[T]) Version() uint64 { return s.n.version }

func (s *State[T]) graphNode() *node { return s.n }

func (s *State[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}
