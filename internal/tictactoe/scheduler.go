package tictactoe

import "time"

// Task is a deferred call that can be cancelled before it fires.
type Task interface {
	Stop() bool
}

// Scheduler defers the computer move. The delay is cosmetic.
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func()) Task
}

type timerScheduler struct{}

// NewTimerScheduler runs deferred calls on time.AfterFunc.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(delay time.Duration, fn func()) Task {
	return time.AfterFunc(delay, fn)
}
