package service

import (
	"fmt"
	"sync"
	"time"
)

// circuitBreaker opens after max consecutive failures and lets one call
// through again once cooldown has passed. Other callers are refused until
// that call is recorded.
type circuitBreaker struct {
	mu       sync.Mutex
	failures int
	trial    bool
	max      int
	cooldown time.Duration
	openedAt time.Time
	now      func() time.Time
}

func newCircuitBreaker(max int, cooldown time.Duration) *circuitBreaker {
	return &circuitBreaker{max: max, cooldown: cooldown, now: time.Now}
}

func (b *circuitBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures < b.max {
		return nil
	}
	if !b.trial && b.now().Sub(b.openedAt) >= b.cooldown {
		b.trial = true
		return nil
	}
	return fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", b.failures)
}

func (b *circuitBreaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trial = false
	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.max {
		b.openedAt = b.now()
	}
}

func (b *circuitBreaker) status() (consecutiveErrors int, isOpen bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures, b.failures >= b.max
}
