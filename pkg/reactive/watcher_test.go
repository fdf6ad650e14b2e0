package reactive

import (
	"errors"
	"testing"
)

func TestWatcherFiresOnceUntilRearmed(t *testing.T) {
	rt := NewRuntime()
	count := NewState(rt, 0)
	w := rt.NewWatcher(func() {})
	w.Watch(count)

	count.Set(1)
	count.Set(2)
	if w.Notifications() != 1 {
		t.Errorf("expected 1 notification before re-arm, got %d", w.Notifications())
	}
	if w.Armed() {
		t.Error("expected watcher disarmed after notifying")
	}

	w.Watch()
	count.Set(3)
	if w.Notifications() != 2 {
		t.Errorf("expected 2 notifications after re-arm, got %d", w.Notifications())
	}
}

func TestWatcherRearmFromCallback(t *testing.T) {
	rt := NewRuntime()
	count := NewState(rt, 0)
	var seen []int
	var w *Watcher
	w = rt.NewWatcher(func() {
		seen = append(seen, count.Get())
		w.Watch()
	})
	w.Watch(count)

	count.Set(1)
	count.Set(2)
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("expected [1 2], got %v", seen)
	}
	if count.n.observers.Size() != 1 {
		t.Errorf("reads inside notify should not be tracked, got %d observers", count.n.observers.Size())
	}
}

func TestWatcherComputedRenotifiesAfterPull(t *testing.T) {
	rt := NewRuntime()
	count := NewState(rt, 0)
	double := NewComputed(rt, func() int { return count.Get() * 2 })
	double.Get()

	w := rt.NewWatcher(func() {})
	w.Watch(double)

	count.Set(1)
	if w.Notifications() != 1 {
		t.Fatalf("expected 1 notification, got %d", w.Notifications())
	}
	if len(w.Pending()) != 1 {
		t.Errorf("expected double pending, got %d nodes", len(w.Pending()))
	}

	w.Watch()
	count.Set(2)
	if w.Notifications() != 1 {
		t.Errorf("a dirty computed should not re-notify before it is read, got %d", w.Notifications())
	}

	if double.Get() != 4 {
		t.Errorf("expected 4, got %d", double.Get())
	}
	if len(w.Pending()) != 0 {
		t.Errorf("expected nothing pending after pull, got %d nodes", len(w.Pending()))
	}
	count.Set(3)
	if w.Notifications() != 2 {
		t.Errorf("expected 2 notifications, got %d", w.Notifications())
	}
}

func TestWatcherDoesNotEvaluateUnreadComputed(t *testing.T) {
	rt := NewRuntime()
	count := NewState(rt, 0)
	evals := 0
	double := NewComputed(rt, func() int {
		evals++
		return count.Get() * 2
	})

	w := rt.NewWatcher(func() {})
	w.Watch(double)
	count.Set(1)

	if evals != 0 {
		t.Errorf("watching should not evaluate, got %d evaluations", evals)
	}
	if w.Notifications() != 0 {
		t.Errorf("unread computed is not reachable from its producers, got %d notifications", w.Notifications())
	}
}

func TestWatcherBatchesSeveralNodes(t *testing.T) {
	rt := NewRuntime()
	a := NewState(rt, 0)
	b := NewState(rt, 0)
	w := rt.NewWatcher(func() {})
	w.Watch(a, b, a)

	if len(w.Watched()) != 2 {
		t.Errorf("expected 2 watched nodes, got %d", len(w.Watched()))
	}

	rt.Batch(func() {
		a.Set(1)
		b.Set(1)
	})
	if w.Notifications() != 1 {
		t.Errorf("expected 1 notification, got %d", w.Notifications())
	}
}

func TestWatcherUnwatch(t *testing.T) {
	rt := NewRuntime()
	a := NewState(rt, 0)
	w := rt.NewWatcher(func() {})
	w.Watch(a)
	w.Unwatch(a)

	a.Set(1)
	if w.Notifications() != 0 {
		t.Errorf("unwatched node should not notify, got %d", w.Notifications())
	}
	if len(w.Watched()) != 0 {
		t.Errorf("expected nothing watched, got %d", len(w.Watched()))
	}
}

func TestWatcherDispose(t *testing.T) {
	rt := NewRuntime()
	a := NewState(rt, 0)
	w := rt.NewWatcher(func() {})
	w.Watch(a)
	w.Dispose()
	w.Dispose()

	w.Watch(a)
	a.Set(1)
	if w.Notifications() != 0 {
		t.Errorf("disposed watcher should never notify, got %d", w.Notifications())
	}
	if w.Armed() {
		t.Error("disposed watcher should not be armed")
	}
	if a.n.observers.Size() != 0 {
		t.Errorf("expected no observers, got %d", a.n.observers.Size())
	}
}

func TestWatcherNotifyFailure(t *testing.T) {
	rt := NewRuntime()
	errNotify := errors.New("notify")
	a := NewState(rt, 0)
	w := rt.NewWatcher(func() { panic(errNotify) })
	w.Watch(a)

	err := a.TrySet(1)
	if !errors.Is(err, errNotify) {
		t.Errorf("expected errNotify, got %v", err)
	}
	var ce *ComputeError
	if !errors.As(err, &ce) || ce.Kind != KindWatcher {
		t.Errorf("expected ComputeError for the watcher, got %v", err)
	}
}

func TestWatchForeignNodePanics(t *testing.T) {
	rt := NewRuntime()
	other := NewRuntime()
	foreign := NewState(other, 0)
	w := rt.NewWatcher(func() {})

	r := mustPanic(t, func() { w.Watch(foreign) })
	if err, ok := r.(error); !ok || !errors.Is(err, ErrForeignNode) {
		t.Errorf("expected ErrForeignNode, got %v", r)
	}
}
