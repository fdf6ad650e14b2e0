package reactive

import "testing"

func TestUntrackIsolation(t *testing.T) {
	rt := NewRuntime()
	tracked := NewState(rt, 1)
	untracked := NewState(rt, 10)
	evals := 0
	mixed := NewComputed(rt, func() int {
		evals++
		return tracked.Get() + Untrack(rt, untracked.Get)
	})

	if mixed.Get() != 11 {
		t.Errorf("expected 11, got %d", mixed.Get())
	}

	untracked.Set(20)
	if mixed.State() != StateClean {
		t.Errorf("untracked write should not dirty the computed, got %s", mixed.State())
	}
	if mixed.Get() != 11 {
		t.Errorf("expected stale 11, got %d", mixed.Get())
	}

	tracked.Set(2)
	if mixed.Get() != 22 {
		t.Errorf("expected 22, got %d", mixed.Get())
	}
	if evals != 2 {
		t.Errorf("expected 2 evaluations, got %d", evals)
	}
}

func TestUntrackNests(t *testing.T) {
	rt := NewRuntime()
	x := NewState(rt, 1)
	y := NewState(rt, 2)
	z := NewState(rt, 3)
	sum := NewComputed(rt, func() int {
		v := 0
		rt.Untracked(func() {
			rt.Untracked(func() {
				v += x.Get()
			})
			// Still inside the outer Untrack.
			v += y.Get()
		})
		return v + z.Get()
	})

	if sum.Get() != 6 {
		t.Errorf("expected 6, got %d", sum.Get())
	}
	if !equalIDs(sum.n.depIDs(), []NodeID{z.ID()}) {
		t.Errorf("expected only z as dependency, got %v", sum.n.depIDs())
	}

	x.Set(10)
	y.Set(20)
	if sum.State() != StateClean {
		t.Errorf("untracked writes should not dirty the computed, got %s", sum.State())
	}
	z.Set(30)
	if sum.State() != StateDirty {
		t.Errorf("tracked write should dirty the computed, got %s", sum.State())
	}
}

func TestUntrackDoesNotLeakIntoLazyComputed(t *testing.T) {
	rt := NewRuntime()
	source := NewState(rt, 1)
	inner := NewComputed(rt, func() int { return source.Get() * 2 })
	outer := NewComputed(rt, func() int { return Untrack(rt, inner.Get) })

	if outer.Get() != 2 {
		t.Errorf("expected 2, got %d", outer.Get())
	}
	if !equalIDs(inner.n.depIDs(), []NodeID{source.ID()}) {
		t.Errorf("inner computed should track its own reads, got %v", inner.n.depIDs())
	}
	if len(outer.n.deps) != 0 {
		t.Errorf("outer computed should not depend on inner, got %v", outer.n.depIDs())
	}

	source.Set(2)
	if inner.State() != StateDirty {
		t.Errorf("expected inner dirty, got %s", inner.State())
	}
	if outer.State() != StateClean {
		t.Errorf("expected outer clean, got %s", outer.State())
	}
}

func TestUntrackRestoresAfterPanic(t *testing.T) {
	rt := NewRuntime()
	source := NewState(rt, 1)
	c := NewComputed(rt, func() int {
		func() {
			defer func() { _ = recover() }()
			rt.Untracked(func() { panic("inside untrack") })
		}()
		return source.Get()
	})

	c.Get()
	source.Set(2)
	if c.State() != StateDirty {
		t.Errorf("tracking should resume after a panicking Untrack, got %s", c.State())
	}
}

func TestIsTrackingAndActiveStack(t *testing.T) {
	rt := NewRuntime()
	if rt.IsTracking() {
		t.Error("expected no tracking outside evaluation")
	}

	var stack []NodeID
	var tracking, untracked bool
	inner := NewComputed(rt, func() int {
		stack = rt.ActiveStack()
		tracking = rt.IsTracking()
		rt.Untracked(func() { untracked = rt.IsTracking() })
		return 0
	})
	outer := NewComputed(rt, func() int { return inner.Get() })
	outer.Get()

	if !equalIDs(stack, []NodeID{outer.ID(), inner.ID()}) {
		t.Errorf("expected stack [%d %d], got %v", outer.ID(), inner.ID(), stack)
	}
	if !tracking {
		t.Error("expected tracking inside evaluation")
	}
	if untracked {
		t.Error("expected no tracking inside Untracked")
	}
	if len(rt.ActiveStack()) != 0 {
		t.Errorf("expected empty stack, got %v", rt.ActiveStack())
	}
}

func TestReadsAreDeduplicated(t *testing.T) {
	rt := NewRuntime()
	s := NewState(rt, 1)
	c := NewComputed(rt, func() int { return s.Get() + s.Get() + s.Get() })

	c.Get()
	if len(c.n.deps) != 1 {
		t.Errorf("expected 1 edge, got %d", len(c.n.deps))
	}
}
