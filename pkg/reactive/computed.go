package reactive

// Computed is a lazily evaluated derived value. Its function runs on the
// first read and afterwards only when a read finds it dirty and at least
// one dependency actually changed. Writes upstream never run it directly.
//
// The function must be pure apart from reading other nodes. A panic inside
// it propagates to the reader; the previous value is kept and the next
// read retries.
type Computed[T any] struct {
	rt    *Runtime
	n     *node
	fn    func() T
	value T
	equal func(a, b T) bool
}

// NewComputed creates a derived value. fn is not called until the first Get.
func NewComputed[T any](rt *Runtime, fn func() T, opts ...Option) *Computed[T] {
	o := applyOptions(opts)
	c := &Computed[T]{rt: rt, fn: fn}
	c.n = rt.newNode(KindComputed, o.name)
	c.n.state = StateDirty
	c.n.evaluate = c.evaluate
	return c
}

// Get returns the up-to-date value, recomputing if necessary, and records
// a dependency of the current consumer.
//
// Reading a Computed from inside its own evaluation, directly or through
// other nodes, panics with a *CycleError.
func (c *Computed[T]) Get() T {
	c.rt.refresh(c.n)
	c.rt.track(c.n)
	if len(c.rt.stack) == 0 {
		c.rt.settle()
	}
	return c.value
}

// Peek returns the up-to-date value without recording a dependency.
func (c *Computed[T]) Peek() T {
	c.rt.refresh(c.n)
	if len(c.rt.stack) == 0 {
		c.rt.settle()
	}
	return c.value
}

// TryGet is Get returning cycle and compute failures as errors.
func (c *Computed[T]) TryGet() (value T, err error) {
	defer recoverError(&err)
	return c.Get(), nil
}

// WithEquals configures the equality used to decide whether a
// recomputation changed the value. Dependents of a Computed whose value
// did not change skip their own recomputation.
func (c *Computed[T]) WithEquals(fn func(a, b T) bool) *Computed[T] {
	c.equal = fn
	return c
}

// Dispose detaches the node from the graph. Dependents that read it again
// panic with ErrDisposed.
func (c *Computed[T]) Dispose() {
	if c.n.disposed {
		return
	}
	c.rt.release(c.n)
}

// ID returns the node id.
func (c *Computed[T]) ID() NodeID { return c.n.id }

// Kind returns KindComputed.
func (c *Computed[T]) Kind() NodeKind { return KindComputed }

// Name returns the label given with the Name option.
func (c *Computed[T]) Name() string { return c.n.name }

// State returns the node's freshness without refreshing it.
func (c *Computed[T]) State() NodeState { return c.n.state }

// Version returns the number of evaluations that produced a new value.
func (c *Computed[T]) Version() uint64 { return c.n.version }

func (c *Computed[T]) graphNode() *node { return c.n }

// evaluate runs fn and stores the result. The cached value is only
// replaced when it differs, so an equal result keeps its identity.
func (c *Computed[T]) evaluate() bool {
	v := c.fn()
	if c.n.evaluated && c.equals(c.value, v) {
		return false
	}
	c.value = v
	return true
}

func (c *Computed[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}
