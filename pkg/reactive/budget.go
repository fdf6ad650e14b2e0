package reactive

import "fmt"

// DefaultMaxEffectRuns is the per-flush effect run budget of a new Runtime.
const DefaultMaxEffectRuns = 10000

// budget protects a flush against amplification loops where effects keep
// writing state that re-triggers effects. It counts runs per flush rather
// than per time window; a flush is the unit of work on a single thread.
type budget struct {
	maxRuns int
	runs    int
}

func (b *budget) reset() {
	b.runs = 0
}

// allow records one run and reports whether it fits in the budget.
func (b *budget) allow() bool {
	if b.maxRuns <= 0 {
		return true
	}
	if b.runs >= b.maxRuns {
		return false
	}
	b.runs++
	return true
}

func (b *budget) exceeded() error {
	return fmt.Errorf("%w: %d runs in one flush", ErrEffectStorm, b.maxRuns)
}
