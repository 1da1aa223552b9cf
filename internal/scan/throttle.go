package scan

import (
	"sync"
	"time"
)

// throttle enforces a minimum interval between successive operations.
// Operations attempted too early are dropped rather than delayed.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{interval: interval}
}

// allow reports whether an operation may run now and, if so, reserves the
// next slot.
func (t *throttle) allow() bool {
	if t == nil || t.interval <= 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	if now.Before(t.next) {
		return false
	}
	t.next = now.Add(t.interval)
	return true
}
