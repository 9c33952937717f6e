package outline

import (
	"time"
)

// Budget tracks the wall-clock allowance of a single extraction call.
// It is a cooperative mechanism: stages consult Remaining between page and
// span iterations and stop early on their own, there is no preemption.
//
// A Budget is scoped to one call and never shared, which keeps the engine
// itself free of mutable timing state.
type Budget struct {
	max   time.Duration
	start time.Time
	now   func() time.Time
}

// StartBudget begins a new budget with the given allowance
func StartBudget(max time.Duration) *Budget {
	return &Budget{
		max:   max,
		start: time.Now(),
		now:   time.Now,
	}
}

// startBudgetAt begins a budget on an injected clock, for tests
func startBudgetAt(max time.Duration, now func() time.Time) *Budget {
	return &Budget{
		max:   max,
		start: now(),
		now:   now,
	}
}

// Elapsed returns the time consumed since the budget started
func (b *Budget) Elapsed() time.Duration {
	return b.now().Sub(b.start)
}

// Remaining returns the allowance left. It goes negative once the budget
// is exhausted.
func (b *Budget) Remaining() time.Duration {
	return b.max - b.Elapsed()
}

// Max returns the total allowance of this budget
func (b *Budget) Max() time.Duration {
	return b.max
}
