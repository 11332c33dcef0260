package schedule

import "time"

// CancelFunc stops a scheduled run that has not fired yet. Calling it after
// the run has started has no effect.
type CancelFunc func()

// Scheduler runs a function once after a delay. Deferred channel teardown
// goes through this interface so tests can trigger the delete path without
// a wall-clock wait.
type Scheduler interface {
	After(delay time.Duration, fn func()) CancelFunc
}

// TimerScheduler schedules on real timers.
type TimerScheduler struct{}

// NewTimerScheduler returns the production scheduler.
func NewTimerScheduler() TimerScheduler {
	return TimerScheduler{}
}

// After runs fn on its own goroutine once delay elapses.
func (TimerScheduler) After(delay time.Duration, fn func()) CancelFunc {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}
