package utils

import (
	"sync"
	"time"
)

// Clock is the time source for status derivation and dashboard periods.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

var (
	clockMu sync.RWMutex
	clock   Clock = systemClock{}
)

// SetClock swaps the process clock and returns a func restoring the previous one.
func SetClock(c Clock) (restore func()) {
	clockMu.Lock()
	prev := clock
	clock = c
	clockMu.Unlock()
	return func() {
		clockMu.Lock()
		clock = prev
		clockMu.Unlock()
	}
}

func Now() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock.Now()
}

// Today is the start of the current day in the clock's location.
func Today() time.Time {
	return StartOfDay(Now())
}
