package reactive

import "testing"

func TestBatchCoalescesEffects(t *testing.T) {
	rt := NewRuntime()
	first := NewState(rt, "John")
	last := NewState(rt, "Doe")
	full := NewComputed(rt, func() string { return first.Get() + " " + last.Get() })
	var seen []string
	rt.Effect(func() Cleanup {
		seen = append(seen, full.Get())
		return nil
	})

	rt.Batch(func() {
		first.Set("Jane")
		last.Set("Smith")
	})

	want := []string{"John Doe", "Jane Smith"}
	if !equalStrings(seen, want) {
		t.Errorf("expected %v, got %v", want, seen)
	}
}

func TestNestedBatchFlushesOnceAtOutermost(t *testing.T) {
	rt := NewRuntime()
	count := NewState(rt, 0)
	runs := 0
	rt.Effect(func() Cleanup {
		count.Get()
		runs++
		return nil
	})

	rt.Batch(func() {
		rt.Batch(func() {
			count.Set(1)
		})
		if runs != 1 {
			t.Errorf("inner batch should not flush, got %d runs", runs)
		}
		count.Set(2)
	})
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestBatchReadsAreFresh(t *testing.T) {
	rt := NewRuntime()
	count := NewState(rt, 1)
	double := NewComputed(rt, func() int { return count.Get() * 2 })
	double.Get()

	rt.Batch(func() {
		count.Set(5)
		if double.Get() != 10 {
			t.Errorf("expected 10 inside batch, got %d", double.Get())
		}
	})
}

func TestBatchPanicLeavesQueuePending(t *testing.T) {
	rt := NewRuntime()
	count := NewState(rt, 0)
	runs := 0
	rt.Effect(func() Cleanup {
		count.Get()
		runs++
		return nil
	})

	mustPanic(t, func() {
		rt.Batch(func() {
			count.Set(1)
			panic("abort")
		})
	})
	if runs != 1 {
		t.Errorf("aborted batch should not flush, got %d runs", runs)
	}
	if len(rt.Pending()) != 1 {
		t.Errorf("expected 1 pending effect, got %d", len(rt.Pending()))
	}

	rt.Flush()
	if runs != 2 {
		t.Errorf("expected 2 runs after flush, got %d", runs)
	}
}

func TestTryBatch(t *testing.T) {
	rt := NewRuntime()
	count := NewState(rt, 0)
	rt.Effect(func() Cleanup {
		if count.Get() > 0 {
			panic("effect failed")
		}
		return nil
	})

	if err := rt.TryBatch(func() { count.Set(1) }); err == nil {
		t.Error("expected error from the flushed effect")
	}
}
