// Package clock abstracts wall-clock reads, blocking sleeps and timers so
// cooldowns and pacing delays can be driven deterministically in tests.
package clock

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the time source used by cooldowns, timers and input pacing.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
	NewTimer(d time.Duration) clockwork.Timer
	NewTicker(d time.Duration) clockwork.Ticker
}

// New returns the system clock.
func New() Clock {
	return clockwork.NewRealClock()
}

// Mock is a controllable clock. Unlike a plain fake clock, Sleep advances
// virtual time instead of blocking, so code that paces itself with Sleep
// runs to completion on a single goroutine.
type Mock struct {
	*clockwork.FakeClock

	mu    sync.Mutex
	slept time.Duration
}

// NewMock returns a mock clock starting at start.
func NewMock(start time.Time) *Mock {
	return &Mock{FakeClock: clockwork.NewFakeClockAt(start)}
}

// Sleep advances the clock by d and records it. Timers that expire on the
// way fire.
func (m *Mock) Sleep(d time.Duration) {
	m.mu.Lock()
	m.slept += d
	m.mu.Unlock()
	m.Advance(d)
}

// Slept returns the total duration passed to Sleep.
func (m *Mock) Slept() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slept
}
