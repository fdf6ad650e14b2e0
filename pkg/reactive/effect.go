package reactive

import (
	"errors"
	"time"
)

// Cleanup is returned by an effect body. It runs before the body re-runs
// and once when the effect is disposed.
type Cleanup func()

// Dispose tears an effect down. It is safe to call more than once.
type Dispose func()

// effectPhase is the lifecycle of an Effect.
//
//	idle -> running -> idle | failed
//	idle | failed -> disposed
//
// The previous cleanup runs on every transition into running and into
// disposed.
type effectPhase uint8

const (
	effectIdle effectPhase = iota
	effectRunning
	effectFailed
	effectDisposed
)

func (p effectPhase) String() string {
	switch p {
	case effectIdle:
		return "idle"
	case effectRunning:
		return "running"
	case effectFailed:
		return "failed"
	case effectDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Effect is a side effect that re-runs whenever something it read during
// its previous run changes. It is a terminal consumer: nothing can depend
// on it.
type Effect struct {
	rt      *Runtime
	n       *node
	body    func() Cleanup
	cleanup Cleanup
	phase   effectPhase
	owner   *Owner
	runs    int
}

// EffectOption configures an Effect.
type EffectOption func(*Effect)

// EffectName labels the effect in logs, errors, probes and snapshots.
func EffectName(name string) EffectOption {
	return func(e *Effect) {
		e.n.name = name
	}
}

// Effect creates an effect, runs body once synchronously and returns the
// function that disposes it. If the first run fails the effect is
// disposed and the failure panics; use CreateEffect to keep the effect and
// receive the error.
//
// Example:
//
//	stop := rt.Effect(func() reactive.Cleanup {
//	    msg := message.Get()
//	    fmt.Println("setting up", msg)
//	    return func() { fmt.Println("cleaning up", msg) }
//	})
//	defer stop()
func (rt *Runtime) Effect(body func() Cleanup, opts ...EffectOption) Dispose {
	e, err := rt.CreateEffect(body, opts...)
	if err != nil {
		if e.phase == effectFailed {
			e.Dispose()
		}
		panic(err)
	}
	return e.Dispose
}

// TryEffect is Effect returning failures instead of panicking. When the
// first run itself failed the effect is already disposed.
func (rt *Runtime) TryEffect(body func() Cleanup, opts ...EffectOption) (Dispose, error) {
	e, err := rt.CreateEffect(body, opts...)
	if err != nil && e.phase == effectFailed {
		e.Dispose()
	}
	return e.Dispose, err
}

// CreateEffect creates an effect and runs body once synchronously. The
// effect is returned even when the first run fails; it re-runs when
// anything it read before failing changes.
//
// Effects created while an Owner is current are disposed with it.
func (rt *Runtime) CreateEffect(body func() Cleanup, opts ...EffectOption) (*Effect, error) {
	e := &Effect{
		rt:    rt,
		body:  body,
		owner: rt.owner,
	}
	e.n = rt.newNode(KindEffect, "")
	e.n.run = e.run
	for _, opt := range opts {
		opt(e)
	}
	if e.owner != nil {
		e.owner.registerEffect(e)
	}

	err := capture(e.n, e.execute)
	if len(rt.stack) == 0 {
		// Writes made by the first run are flushed here.
		if flushErr := capture(e.n, rt.settle); flushErr != nil {
			err = errors.Join(err, flushErr)
		}
	}
	return e, err
}

// ID returns the node id.
func (e *Effect) ID() NodeID { return e.n.id }

// Kind returns KindEffect.
func (e *Effect) Kind() NodeKind { return KindEffect }

// Name returns the label given with EffectName.
func (e *Effect) Name() string { return e.n.name }

// Runs returns how many times the body has been started.
func (e *Effect) Runs() int { return e.runs }

// Disposed reports whether the effect has been torn down.
func (e *Effect) Disposed() bool { return e.phase == effectDisposed }

// Dispose runs the last cleanup, detaches the effect from every producer
// and removes it from the runtime. Later writes never reach it.
func (e *Effect) Dispose() {
	if e.phase == effectDisposed {
		return
	}
	e.phase = effectDisposed
	cleanup := e.cleanup
	e.cleanup = nil
	e.rt.release(e.n)
	if e.owner != nil {
		e.owner.unregisterEffect(e)
	}
	if cleanup != nil {
		cleanup()
	}
}

// run is the scheduler entry point for a notified effect. An effect that
// was notified but whose dependencies all ended up unchanged (for example
// a Computed that recomputed to an equal value) skips its body.
func (e *Effect) run() {
	if e.phase == effectDisposed {
		return
	}
	if e.phase != effectFailed && e.n.evaluated && !e.rt.dependenciesChanged(e.n) {
		e.n.state = StateClean
		return
	}
	e.execute()
}

// execute performs one run: previous cleanup, then the body under a fresh
// frame. A failing body leaves no cleanup installed.
func (e *Effect) execute() {
	rt, n := e.rt, e.n
	if cleanup := e.cleanup; cleanup != nil {
		e.cleanup = nil
		cleanup()
	}

	f := rt.push(n, false)
	n.state = StateChecking
	e.phase = effectRunning
	e.runs++
	start := time.Now()

	defer func() {
		rt.pop(f)
		rt.replaceDeps(n, f.deps)
		if r := recover(); r != nil {
			if e.phase != effectDisposed {
				e.phase = effectFailed
			}
			n.state = StateDirty
			err := wrapFailure(n, r)
			rt.observe(Event{Kind: EventEffectRun, Node: n.id, NodeKind: n.kind, Name: n.name,
				Start: start, Duration: time.Since(start), Err: err})
			panic(err)
		}
		rt.observe(Event{Kind: EventEffectRun, Node: n.id, NodeKind: n.kind, Name: n.name,
			Start: start, Duration: time.Since(start)})
	}()

	cleanup := e.body()
	n.evaluated = true
	if n.state == StateChecking {
		n.state = StateClean
	}
	if e.phase == effectDisposed {
		// The body disposed its own effect; nothing will call this later.
		if cleanup != nil {
			cleanup()
		}
		return
	}
	e.phase = effectIdle
	e.cleanup = cleanup
}

func (e *Effect) graphNode() *node { return e.n }
