// Package timer implements the free running CHIP-8 delay timer.
package timer

import (
	"sync"
	"time"
)

// DefaultInterval is the time between two decrements, 60 Hz.
const DefaultInterval = time.Second / 60

// Timer is a countdown that decrements its value once per interval until it
// reaches zero. The countdown runs in a background goroutine, reading the
// value never blocks on it.
type Timer struct {
	interval time.Duration

	mu    sync.Mutex
	value uint8
	stop  chan struct{} // closed to cancel the running countdown
}

// New returns a stopped timer with the value 0. A non positive interval
// selects DefaultInterval.
func New(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{
		interval: interval,
	}
}

// Set makes n the current value and starts counting down from it.
// A countdown that is still running from a previous call is replaced.
func (t *Timer) Set(n uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancel()
	t.value = n
	if n == 0 {
		return
	}

	stop := make(chan struct{})
	t.stop = stop
	go t.countdown(stop)
}

// Get returns the current value.
func (t *Timer) Get() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Stop cancels a running countdown, the value is kept.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancel()
}

// cancel stops the running countdown. The caller must hold the lock.
func (t *Timer) cancel() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) countdown(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		if !t.decrement(stop) {
			return
		}
	}
}

// decrement lowers the value by one if the countdown identified by stop is
// still the current one. It returns whether the countdown should continue.
func (t *Timer) decrement(stop chan struct{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != stop {
		return false // superseded by a newer Set
	}
	if t.value > 0 {
		t.value--
	}
	if t.value == 0 {
		t.stop = nil
		return false
	}
	return true
}
