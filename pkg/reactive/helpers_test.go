package reactive

import "testing"

// mustPanic runs fn and returns the recovered value, failing the test if
// fn returned normally.
func mustPanic(t *testing.T, fn func()) (r any) {
	t.Helper()
	defer func() {
		r = recover()
		if r == nil {
			t.Fatal("expected panic, got none")
		}
	}()
	fn()
	return nil
}

// collect records probe events in order.
type collect struct {
	events []Event
}

func (c *collect) Observe(ev Event) {
	c.events = append(c.events, ev)
}

func (c *collect) kinds() []EventKind {
	kinds := make([]EventKind, len(c.events))
	for i, ev := range c.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func (c *collect) count(kind EventKind, id NodeID) int {
	n := 0
	for _, ev := range c.events {
		if ev.Kind == kind && ev.Node == id {
			n++
		}
	}
	return n
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalIDs(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
