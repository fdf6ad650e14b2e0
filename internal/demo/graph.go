package demo

import (
	"log/slog"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Graph is the long-lived counter graph driven by `reactive inspect`.
// Its effect logs every parity change.
type Graph struct {
	Counter *reactive.State[int]
	IsEven  *reactive.Computed[bool]
	Parity  *reactive.Computed[string]
	Watcher *reactive.Watcher

	owner   *reactive.Owner
	changes int
}

// NewGraph builds the graph on rt. Close releases its effect and watcher.
func NewGraph(rt *reactive.Runtime, logger *slog.Logger) *Graph {
	g := &Graph{owner: rt.NewOwner(nil)}
	g.Counter = reactive.NewState(rt, 0, reactive.Name("counter"))
	g.IsEven = reactive.NewComputed(rt, func() bool { return g.Counter.Get()%2 == 0 }, reactive.Name("isEven"))
	g.Parity = reactive.NewComputed(rt, func() string {
		if g.IsEven.Get() {
			return "even"
		}
		return "odd"
	}, reactive.Name("parity"))

	rt.WithOwner(g.owner, func() {
		rt.Effect(func() reactive.Cleanup {
			logger.Info("parity changed", "parity", g.Parity.Get(), "counter", g.Counter.Peek())
			return nil
		}, reactive.EffectName("logParity"))
	})

	g.Watcher = rt.NewWatcher(func() {
		g.changes++
		g.Watcher.Watch()
	}, reactive.Name("counterWatcher"))
	g.Watcher.Watch(g.Counter)
	g.owner.OnCleanup(g.Watcher.Dispose)
	return g
}

// Tick increments the counter.
func (g *Graph) Tick() {
	g.Counter.Update(func(n int) int { return n + 1 })
}

// Changes returns how many counter writes the watcher has seen.
func (g *Graph) Changes() int {
	return g.changes
}

// Close disposes the effect and the watcher.
func (g *Graph) Close() {
	g.owner.Dispose()
}
