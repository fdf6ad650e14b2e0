package reactive

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is matched by every *CycleError.
var ErrCycle = errors.New("reactive: cyclic dependency")

// ErrDisposed is returned when a disposed node is read.
var ErrDisposed = errors.New("reactive: node disposed")

// ErrForeignNode is raised when a node created by one Runtime is handed to
// another.
var ErrForeignNode = errors.New("reactive: node belongs to another runtime")

// ErrEffectStorm is returned when a single flush exceeds the runtime's
// effect run budget, which usually means effects keep re-triggering each
// other.
var ErrEffectStorm = errors.New("reactive: effect storm budget exceeded")

// CycleError reports a node that was read while it was already on the
// evaluation stack. Path lists the stack from the outermost node to the
// re-entered one.
type CycleError struct {
	Path  []NodeID
	Names []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		if i < len(e.Names) && e.Names[i] != "" {
			parts[i] = fmt.Sprintf("%s#%d", e.Names[i], id)
		} else {
			parts[i] = fmt.Sprintf("#%d", id)
		}
	}
	return ErrCycle.Error() + ": " + strings.Join(parts, " -> ")
}

// Is reports whether target is ErrCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

func (rt *Runtime) cycleError(n *node) *CycleError {
	start := 0
	for i, f := range rt.stack {
		if f.node == n {
			start = i
			break
		}
	}
	e := &CycleError{}
	for _, f := range rt.stack[start:] {
		e.Path = append(e.Path, f.node.id)
		e.Names = append(e.Names, f.node.name)
	}
	e.Path = append(e.Path, n.id)
	e.Names = append(e.Names, n.name)
	return e
}

// ComputeError wraps a panic raised by a user function: a Computed's
// compute function, an Effect body or cleanup, or a Watcher callback.
// Node identifies the innermost node whose function failed.
type ComputeError struct {
	Node  NodeID
	Kind  NodeKind
	Name  string
	Value any
}

// Error implements the error interface.
func (e *ComputeError) Error() string {
	name := e.Name
	if name == "" {
		name = e.Kind.String()
	}
	return fmt.Sprintf("reactive: %s#%d failed: %v", name, e.Node, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *ComputeError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// wrapFailure attributes a recovered panic value to n. Values that are
// already attributed pass through unchanged.
func wrapFailure(n *node, r any) error {
	switch err := r.(type) {
	case *CycleError:
		return err
	case *ComputeError:
		return err
	case error:
		var ce *ComputeError
		if errors.As(err, &ce) || errors.Is(err, ErrCycle) || errors.Is(err, ErrEffectStorm) {
			return err
		}
	}
	return &ComputeError{Node: n.id, Kind: n.kind, Name: n.name, Value: r}
}

func disposedError(n *node) error {
	return fmt.Errorf("%w: %s#%d", ErrDisposed, n.label(), n.id)
}

// recoverError converts a panic into an error for the Try* variants.
// It must be deferred directly.
func recoverError(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := r.(error); ok {
		*errp = err
		return
	}
	*errp = &ComputeError{Value: r}
}

// capture runs fn, converting a panic into an error attributed to n.
func capture(n *node, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = wrapFailure(n, r)
		}
	}()
	fn()
	return nil
}
