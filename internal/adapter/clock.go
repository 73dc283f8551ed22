package adapter

import "time"

// Clock abstracts the wall clock so time-dependent behavior stays testable.
// Timestamps on rides and coverage events, sweep cadence and latency
// measurements all flow through it.
//
//go:generate mockgen -source=clock.go -destination=../mocks/clock.go -package=mocks -mock_names=Clock=MockClock
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// Since returns the time elapsed since t
	Since(t time.Time) time.Duration
	// After waits for the duration to elapse and then delivers the time
	After(d time.Duration) <-chan time.Time
}

// RealClock is the production Clock backed by the time package
type RealClock struct{}

// NewClock returns a Clock backed by the system time
func NewClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
