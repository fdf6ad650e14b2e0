// Package demo holds the sample scenarios run by `reactive demo`.
//
// Each scenario builds its own graph on a fresh Runtime and writes a
// transcript to an io.Writer, so the output is deterministic.
package demo

import (
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// Scenario is one named sample.
type Scenario struct {
	Name  string
	Icon  string
	Title string
	Run   func(w io.Writer, rt *reactive.Runtime)
}

var scenarios = []Scenario{
	{Name: "counter", Icon: "📊", Title: "Basic Counter", Run: BasicCounter},
	{Name: "tracking", Icon: "🔗", Title: "Auto-tracking", Run: AutoTracking},
	{Name: "conditional", Icon: "⚡", Title: "Conditional Dependencies", Run: ConditionalDependencies},
	{Name: "effects", Icon: "🔄", Title: "Effects", Run: Effects},
	{Name: "cleanup", Icon: "🧹", Title: "Effect with Cleanup", Run: EffectCleanup},
	{Name: "untrack", Icon: "🔓", Title: "Untrack", Run: Untrack},
	{Name: "memo", Icon: "💾", Title: "Caching/Memoization", Run: Memoization},
	{Name: "watcher", Icon: "🔍", Title: "Low-level Watcher API", Run: LowLevelWatcher},
}

// Scenarios returns every scenario in run order.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// Lookup finds a scenario by name.
func Lookup(name string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Run runs the named scenarios, or all of them when names is empty.
// Every scenario gets a new Runtime built with opts. Names are checked
// before anything runs.
func Run(w io.Writer, names []string, opts ...reactive.RuntimeOption) error {
	selected := scenarios
	if len(names) > 0 {
		selected = make([]Scenario, 0, len(names))
		for _, name := range names {
			s, ok := Lookup(name)
			if !ok {
				return errors.New(errors.CodeUnknownDemo).
					WithCause(name).
					WithDetail("Available scenarios: " + strings.Join(scenarioNames(), ", "))
			}
			selected = append(selected, s)
		}
	}

	for i, s := range selected {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", s.Icon, s.Title)
		rt := reactive.NewRuntime(append([]reactive.RuntimeOption{reactive.WithName(s.Name)}, opts...)...)
		s.Run(w, rt)
	}
	return nil
}

func scenarioNames() []string {
	out := make([]string, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.Name
	}
	return out
}

// BasicCounter derives a parity label from a counter through isEven.
func BasicCounter(w io.Writer, rt *reactive.Runtime) {
	counter := reactive.NewState(rt, 0, reactive.Name("counter"))
	isEven := reactive.NewComputed(rt, func() bool { return counter.Get()&1 == 0 }, reactive.Name("isEven"))
	parity := reactive.NewComputed(rt, func() string {
		if isEven.Get() {
			return "even"
		}
		return "odd"
	}, reactive.Name("parity"))

	fmt.Fprintf(w, "Initial: %d is %s\n", counter.Get(), parity.Get())

	counter.Set(1)
	fmt.Fprintf(w, "After set(1): %d is %s\n", counter.Get(), parity.Get())

	counter.Set(4)
	fmt.Fprintf(w, "After set(4): %d is %s\n", counter.Get(), parity.Get())
}

// AutoTracking joins two names without declaring dependencies.
func AutoTracking(w io.Writer, rt *reactive.Runtime) {
	firstName := reactive.NewState(rt, "John", reactive.Name("firstName"))
	lastName := reactive.NewState(rt, "Doe", reactive.Name("lastName"))
	fullName := reactive.NewComputed(rt, func() string {
		return firstName.Get() + " " + lastName.Get()
	}, reactive.Name("fullName"))

	fmt.Fprintf(w, "Full name: %s\n", fullName.Get())

	firstName.Set("Jane")
	fmt.Fprintf(w, "After changing first name: %s\n", fullName.Get())

	lastName.Set("Smith")
	fmt.Fprintf(w, "After changing last name: %s\n", fullName.Get())
}

// ConditionalDependencies shows a branch that stops depending on the
// cell it no longer reads.
func ConditionalDependencies(w io.Writer, rt *reactive.Runtime) {
	firstName := reactive.NewState(rt, "Jane", reactive.Name("firstName"))
	lastName := reactive.NewState(rt, "Smith", reactive.Name("lastName"))
	useFirstName := reactive.NewState(rt, true, reactive.Name("useFirstName"))
	evaluations := 0
	displayName := reactive.NewComputed(rt, func() string {
		evaluations++
		if useFirstName.Get() {
			return firstName.Get()
		}
		return lastName.Get()
	}, reactive.Name("displayName"))

	fmt.Fprintf(w, "Display name (using first): %s\n", displayName.Get())

	useFirstName.Set(false)
	fmt.Fprintf(w, "Display name (using last): %s\n", displayName.Get())

	firstName.Set("Bob")
	fmt.Fprintf(w, "After changing firstName: %s\n", displayName.Get())
	fmt.Fprintf(w, "Evaluations: %d\n", evaluations)
}

// Effects prints a temperature in two units on every change.
func Effects(w io.Writer, rt *reactive.Runtime) {
	temperature := reactive.NewState(rt, 20.0, reactive.Name("temperature"))
	temperatureF := reactive.NewComputed(rt, func() float64 {
		return temperature.Get()*9/5 + 32
	}, reactive.Name("temperatureF"))

	stop := rt.Effect(func() reactive.Cleanup {
		fmt.Fprintf(w, "Temperature: %g°C (%g°F)\n", temperature.Get(), temperatureF.Get())
		return nil
	}, reactive.EffectName("printer"))
	defer stop()

	fmt.Fprintln(w, "Changing temperature...")
	temperature.Set(25)
	temperature.Set(30)
}

// EffectCleanup shows each run's cleanup running before the next run and
// when the effect is stopped.
func EffectCleanup(w io.Writer, rt *reactive.Runtime) {
	message := reactive.NewState(rt, "Hello", reactive.Name("message"))

	stop := rt.Effect(func() reactive.Cleanup {
		msg := message.Get()
		fmt.Fprintf(w, "Setting up timer for: %q\n", msg)
		return func() {
			fmt.Fprintf(w, "Cleaning up timer for: %q\n", msg)
		}
	}, reactive.EffectName("timer"))

	message.Set("World")
	message.Set("Signals")
	stop()
}

// Untrack reads one cell without subscribing to it.
func Untrack(w io.Writer, rt *reactive.Runtime) {
	tracked := reactive.NewState(rt, 0, reactive.Name("tracked"))
	untracked := reactive.NewState(rt, 100, reactive.Name("untracked"))
	mixed := reactive.NewComputed(rt, func() int {
		return tracked.Get() + reactive.Untrack(rt, untracked.Get)
	}, reactive.Name("mixed"))

	fmt.Fprintf(w, "Mixed value: %d\n", mixed.Get())

	fmt.Fprintln(w, "Changing tracked value...")
	tracked.Set(5)
	fmt.Fprintf(w, "Mixed value after tracked change: %d\n", mixed.Get())

	fmt.Fprintln(w, "Changing untracked value...")
	untracked.Set(200)
	fmt.Fprintf(w, "Mixed value after untracked change: %d\n", mixed.Get())
}

// Memoization counts evaluations of a computed read several times.
func Memoization(w io.Writer, rt *reactive.Runtime) {
	counter := reactive.NewState(rt, 4, reactive.Name("counter"))
	computeCount := 0
	expensive := reactive.NewComputed(rt, func() int {
		computeCount++
		fmt.Fprintf(w, "  Computing expensive operation #%d\n", computeCount)
		return counter.Get() * counter.Get()
	}, reactive.Name("expensive"))

	fmt.Fprintf(w, "First access: %d\n", expensive.Get())
	fmt.Fprintf(w, "Second access: %d\n", expensive.Get())
	fmt.Fprintf(w, "Third access: %d\n", expensive.Get())

	fmt.Fprintln(w, "Changing counter...")
	counter.Set(5)
	fmt.Fprintf(w, "After change: %d\n", expensive.Get())
}

// LowLevelWatcher watches a cell and an unread computed. The watcher
// fires once and stays quiet until re-armed.
func LowLevelWatcher(w io.Writer, rt *reactive.Runtime) {
	watchedState := reactive.NewState(rt, "initial", reactive.Name("watchedState"))
	watchedComputed := reactive.NewComputed(rt, func() string {
		return "Computed: " + watchedState.Get()
	}, reactive.Name("watchedComputed"))

	notifications := 0
	watcher := rt.NewWatcher(func() {
		notifications++
		fmt.Fprintf(w, "  Watcher notification #%d\n", notifications)
	}, reactive.Name("watcher"))

	watcher.Watch(watchedState)
	watcher.Watch(watchedComputed)

	fmt.Fprintln(w, "Changing watched state...")
	watchedState.Set("changed")

	fmt.Fprintln(w, "Changing watched state again...")
	watchedState.Set("final")

	fmt.Fprintf(w, "Total notifications: %d\n", notifications)

	watcher.Unwatch(watchedState)
	watcher.Unwatch(watchedComputed)
}
