// Package scheduler defines the cooperative scheduling contract between
// the work loop and its host. The reconciler never sleeps or polls on its
// own; it asks a Budget whether to yield between units of work and hands
// the continuation back to a Scheduler. The yield point is an injection
// seam: tests drive the loop with Manual and deterministic budgets, the
// demo runs on Loop with real time slices.
package scheduler

import (
	"sync"
	"time"

	"github.com/go-didact/didact/pkg/errors"
)

// Budget answers the "time remaining" query a host idle facility
// provides. It is polled between units of work, never within one.
type Budget interface {
	// ShouldYield reports whether the current turn's slice is exhausted.
	ShouldYield() bool
}

// BudgetFunc adapts a function to the Budget interface.
type BudgetFunc func() bool

func (f BudgetFunc) ShouldYield() bool { return f() }

// NeverYield grants an unbounded slice. Work runs to completion in one
// turn.
var NeverYield Budget = BudgetFunc(func() bool { return false })

// AlwaysYield grants a zero slice. Each turn performs at most one unit of
// work before yielding.
var AlwaysYield Budget = BudgetFunc(func() bool { return true })

// YieldAfter returns a budget that permits n units of work per turn.
func YieldAfter(n int) Budget {
	remaining := n
	return BudgetFunc(func() bool {
		if remaining <= 0 {
			return true
		}
		remaining--
		return false
	})
}

// Deadline returns a budget that yields once the wall clock passes t.
func Deadline(t time.Time) Budget {
	return BudgetFunc(func() bool {
		return !time.Now().Before(t)
	})
}

// Turn is one scheduling turn of a work loop. The loop processes units
// of work until the budget tells it to yield, then reschedules itself if
// work remains.
type Turn func(Budget)

// Scheduler grants processing time to turns. Each Schedule call is one
// opportunity for the host to run the loop; scheduling is on demand, the
// scheduler idles when nothing is pending.
type Scheduler interface {
	Schedule(turn Turn)
}

// Immediate runs every turn synchronously with an unbounded budget.
// Useful for bootstrap code and tests that want render-to-commit in one
// call.
type Immediate struct{}

func (Immediate) Schedule(turn Turn) {
	turn(NeverYield)
}

// DefaultSlice is the time slice Loop grants to each turn.
const DefaultSlice = 5 * time.Millisecond

// Loop is a production scheduler: a single goroutine that runs turns in
// order, each with a fixed time slice. All turns run on the loop
// goroutine, so everything scheduled through one Loop shares a single
// logical thread.
type Loop struct {
	slice time.Duration
	wake  chan struct{}
	stop  chan struct{}
	done  chan struct{}

	mu      sync.Mutex
	pending []Turn
	stopped bool
}

// NewLoop creates a loop with the given slice, or DefaultSlice if zero.
// Call Start to begin running turns and Stop to shut down.
func NewLoop(slice time.Duration) *Loop {
	if slice <= 0 {
		slice = DefaultSlice
	}
	return &Loop{
		slice: slice,
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start launches the loop goroutine.
func (l *Loop) Start() {
	go l.run()
}

// Stop shuts the loop down and waits for the goroutine to exit. Pending
// turns are dropped.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.stopped = true
	l.mu.Unlock()
	close(l.stop)
	<-l.done
}

// Schedule enqueues a turn. Safe to call from any goroutine, including
// from within a running turn.
func (l *Loop) Schedule(turn Turn) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.pending = append(l.pending, turn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			return
		case <-l.wake:
		}
		for {
			l.mu.Lock()
			if len(l.pending) == 0 {
				l.mu.Unlock()
				break
			}
			turn := l.pending[0]
			l.pending = l.pending[1:]
			l.mu.Unlock()

			l.runTurn(turn)

			select {
			case <-l.stop:
				return
			default:
			}
		}
	}
}

func (l *Loop) runTurn(turn Turn) {
	defer errors.Recover("scheduler.Loop")
	turn(Deadline(time.Now().Add(l.slice)))
}

// Manual is a test scheduler. Turns accumulate until the test steps them
// explicitly, so every interleaving of work and yield is reproducible.
type Manual struct {
	pending []Turn
}

// Schedule enqueues a turn without running it.
func (m *Manual) Schedule(turn Turn) {
	m.pending = append(m.pending, turn)
}

// Pending returns the number of scheduled turns not yet run.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Step runs the oldest pending turn with the given budget. Returns false
// if nothing was pending.
func (m *Manual) Step(budget Budget) bool {
	if len(m.pending) == 0 {
		return false
	}
	turn := m.pending[0]
	m.pending = m.pending[1:]
	turn(budget)
	return true
}

// Drain steps until no turns are pending, giving each turn the budget
// produced by next. Returns the number of turns run.
func (m *Manual) Drain(next func() Budget) int {
	turns := 0
	for m.Step(next()) {
		turns++
	}
	return turns
}
