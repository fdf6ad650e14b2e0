// Package reactive provides an incremental-evaluation runtime: mutable
// state cells, lazily recomputed derived values, and side-effect
// subscriptions wired together by automatic dependency tracking.
//
// # Core Types
//
// A Runtime owns one dependency graph. Every node is created against a
// Runtime and only ever interacts with nodes of the same Runtime:
//
//	rt := reactive.NewRuntime()
//
// State[T] holds an externally settable value:
//
//	count := reactive.NewState(rt, 0)
//	count.Get()   // read (tracks the current consumer)
//	count.Set(5)  // write (marks dependents dirty, runs effects)
//
// Computed[T] derives a value from whatever it reads. It is lazy: the
// function runs on the first Get and again only after a dependency
// changed:
//
//	doubled := reactive.NewComputed(rt, func() int { return count.Get() * 2 })
//	doubled.Get()
//
// Effects re-run eagerly when a dependency changes and may return a
// Cleanup that runs before the next run and on disposal:
//
//	stop := rt.Effect(func() reactive.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return func() { fmt.Println("cleanup") }
//	})
//	defer stop()
//
// Watcher is the low-level primitive: it calls its notify callback when a
// watched node becomes dirty, and does nothing else. It fires at most once
// until re-armed by a call to Watch.
//
// # Consistency
//
// Writes propagate synchronously: when Set returns, every dependent node is
// marked dirty and every affected effect and watcher has been notified.
// Derived values are pulled, never pushed, so a diamond-shaped graph never
// exposes a mix of old and new inputs to a Computed.
//
// # Threading
//
// A Runtime is single-threaded. It performs no locking; callers that share
// a Runtime across goroutines must serialize access to it.
package reactive
