package sandbox

import (
	"context"
	"sync"
	"time"
)

// idleWatchdog watches the output heartbeat channel and
// cancels the process context if no line arrives within the
// idle window. This catches wedged processes without
// penalizing legitimately long-running ones: a tool that
// grinds through work for an hour is fine as long as it keeps
// printing, but one that goes silent past the window is
// considered stuck and killed.
type idleWatchdog struct {
	beats  <-chan struct{}
	window time.Duration
	cancel context.CancelFunc
}

// startWatchdog starts the watchdog goroutine. It returns a
// stop function that must be called when the run completes, to
// prevent goroutine leaks, and a channel that is closed if the
// watchdog fires. When the window is zero or there is no
// cancel function, watching is disabled and a no-op stop is
// returned.
func startWatchdog(
	beats <-chan struct{},
	window time.Duration,
	cancel context.CancelFunc,
) (stop func(), stuck <-chan struct{}) {
	if window <= 0 || cancel == nil {
		return func() {}, nil
	}

	w := &idleWatchdog{
		beats:  beats,
		window: window,
		cancel: cancel,
	}

	stopCh := make(chan struct{})
	stuckCh := make(chan struct{})

	go w.run(stopCh, stuckCh)

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
	}, stuckCh
}

// run is the watchdog loop: every heartbeat resets the idle
// timer; if the timer fires first, the process is stuck.
func (w *idleWatchdog) run(
	stopCh <-chan struct{},
	stuckCh chan<- struct{},
) {
	timer := time.NewTimer(w.window)
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			// Run completed normally; stop watching.
			return

		case <-w.beats:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.window)

		case <-timer.C:
			// Silent past the window: kill the process.
			close(stuckCh)
			w.cancel()
			return
		}
	}
}
