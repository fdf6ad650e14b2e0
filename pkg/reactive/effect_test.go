package reactive

import (
	"errors"
	"fmt"
	"testing"
)

func TestEffectRunsImmediatelyAndOnChange(t *testing.T) {
	rt := NewRuntime()
	count := NewState(rt, 0)
	var seen []int
	rt.Effect(func() Cleanup {
		seen = append(seen, count.Get())
		return nil
	})

	if len(seen) != 1 || seen[0] != 0 {
		t.Fatalf("effect should run once on creation, got %v", seen)
	}

	count.Set(1)
	count.Set(2)
	if len(seen) != 3 || seen[2] != 2 {
		t.Errorf("expected [0 1 2], got %v", seen)
	}
}

func TestEffectCleanupOrder(t *testing.T) {
	rt := NewRuntime()
	message := NewState(rt, "A")
	var log []string
	stop := rt.Effect(func() Cleanup {
		msg := message.Get()
		log = append(log, "setup "+msg)
		return func() { log = append(log, "cleanup "+msg) }
	})

	message.Set("B")
	stop()
	stop()
	message.Set("C")

	want := []string{"setup A", "cleanup A", "setup B", "cleanup B"}
	if !equalStrings(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}
	if rt.Len() != 1 {
		t.Errorf("disposed effect should leave the arena, got %d nodes", rt.Len())
	}
}

func TestEffectSkipsWhenDependencyUnchanged(t *testing.T) {
	rt := NewRuntime()
	x := NewState(rt, 1)
	parity := NewComputed(rt, func() int { return x.Get() % 2 })
	e, err := rt.CreateEffect(func() Cleanup {
		parity.Get()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x.Set(3)
	if e.Runs() != 1 {
		t.Errorf("effect should skip when its computed is unchanged, got %d runs", e.Runs())
	}

	x.Set(4)
	if e.Runs() != 2 {
		t.Errorf("expected 2 runs, got %d", e.Runs())
	}
}

func TestEffectFailureRunsPreviousCleanupOnly(t *testing.T) {
	rt := NewRuntime()
	errBoom := errors.New("boom")
	input := NewState(rt, 1)
	var log []string
	e, err := rt.CreateEffect(func() Cleanup {
		v := input.Get()
		if v == 2 {
			panic(errBoom)
		}
		log = append(log, fmt.Sprintf("setup %d", v))
		return func() { log = append(log, fmt.Sprintf("cleanup %d", v)) }
	}, EffectName("fragile"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = input.TrySet(2)
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	var ce *ComputeError
	if !errors.As(err, &ce) || ce.Node != e.ID() || ce.Kind != KindEffect {
		t.Errorf("expected ComputeError for the effect, got %v", err)
	}

	if err := input.TrySet(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Dispose()

	want := []string{"setup 1", "cleanup 1", "setup 3", "cleanup 3"}
	if !equalStrings(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}
}

func TestEffectFirstRunFailure(t *testing.T) {
	rt := NewRuntime()
	input := NewState(rt, 0)
	runs := 0
	body := func() Cleanup {
		runs++
		input.Get()
		panic("first run")
	}

	r := mustPanic(t, func() { rt.Effect(body) })
	if _, ok := r.(*ComputeError); !ok {
		t.Errorf("expected *ComputeError, got %T", r)
	}

	stop, err := rt.TryEffect(body)
	if err == nil {
		t.Fatal("expected error from TryEffect")
	}
	stop()

	input.Set(1)
	if runs != 2 {
		t.Errorf("failed effects should be disposed, got %d runs", runs)
	}
	if rt.Len() != 1 {
		t.Errorf("expected only the state in the arena, got %d nodes", rt.Len())
	}
}

func TestCreateEffectKeepsFailedEffect(t *testing.T) {
	rt := NewRuntime()
	input := NewState(rt, 0)
	e, err := rt.CreateEffect(func() Cleanup {
		if input.Get() == 0 {
			panic("not ready")
		}
		return nil
	})
	if err == nil {
		t.Fatal("expected error from the first run")
	}

	if err := input.TrySet(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Runs() != 2 {
		t.Errorf("failed effect should re-run on change, got %d runs", e.Runs())
	}
}

func TestEffectDisposedInsideBody(t *testing.T) {
	rt := NewRuntime()
	input := NewState(rt, 1)
	var log []string
	var e *Effect
	e, _ = rt.CreateEffect(func() Cleanup {
		v := input.Get()
		if v == 2 {
			e.Dispose()
		}
		return func() { log = append(log, fmt.Sprintf("cleanup %d", v)) }
	})

	input.Set(2)
	input.Set(3)

	want := []string{"cleanup 1", "cleanup 2"}
	if !equalStrings(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}
	if !e.Disposed() {
		t.Error("expected effect disposed")
	}
	if e.Runs() != 2 {
		t.Errorf("expected 2 runs, got %d", e.Runs())
	}
}

func TestEffectWritesAreFlushed(t *testing.T) {
	rt := NewRuntime()
	a := NewState(rt, 1)
	b := NewState(rt, 0)
	rt.Effect(func() Cleanup {
		b.Set(a.Get() * 2)
		return nil
	})
	var seen []int
	rt.Effect(func() Cleanup {
		seen = append(seen, b.Get())
		return nil
	})

	a.Set(2)
	if len(seen) != 2 || seen[0] != 2 || seen[1] != 4 {
		t.Errorf("expected [2 4], got %v", seen)
	}
}

func TestEffectDependenciesAreReplaced(t *testing.T) {
	rt := NewRuntime()
	useA := NewState(rt, true)
	a := NewState(rt, 0)
	b := NewState(rt, 0)
	e, _ := rt.CreateEffect(func() Cleanup {
		if useA.Get() {
			a.Get()
		} else {
			b.Get()
		}
		return nil
	})

	useA.Set(false)
	a.Set(1)
	if e.Runs() != 2 {
		t.Errorf("dropped dependency should not re-run the effect, got %d runs", e.Runs())
	}
	b.Set(1)
	if e.Runs() != 3 {
		t.Errorf("expected 3 runs, got %d", e.Runs())
	}
}
