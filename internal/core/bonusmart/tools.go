package bonusmart

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	errServiceUnavailable = errors.New("service unavailable")
	// errRejected marks a failure caused by the request itself. It leaves the
	// breaker closed.
	errRejected = errors.New("request rejected by remote")
)

type circuitBreakerState int

const (
	cbOpen circuitBreakerState = iota
	cbClose
	cbHalfOpen
)

// circuitBreaker stops calls to a failing remote for a cooldown. While
// half-open a single probe request is let through.
type circuitBreaker struct {
	mu        *sync.Mutex
	now       func() time.Time
	openUntil time.Time
	cooldown  time.Duration
	state     circuitBreakerState
}

func newCircuitBreaker(cooldown time.Duration) *circuitBreaker {
	return &circuitBreaker{
		mu:       &sync.Mutex{},
		now:      time.Now,
		cooldown: cooldown,
		state:    cbClose,
	}
}

// execute runs request unless the breaker is open. A positive delay returned
// by request keeps the breaker open for that long.
func (cb *circuitBreaker) execute(request func() (time.Duration, error)) error {
	cb.mu.Lock()
	switch cb.state {
	case cbOpen:
		if cb.now().Before(cb.openUntil) {
			cb.mu.Unlock()
			return errServiceUnavailable
		}
		cb.state = cbHalfOpen
	case cbHalfOpen:
		cb.mu.Unlock()
		return errServiceUnavailable
	default:
	}
	cb.mu.Unlock()

	delay, err := request()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil && delay <= 0 {
		cb.state = cbClose
		return nil
	}
	if errors.Is(err, errRejected) {
		cb.state = cbClose
		return fmt.Errorf("request error: %w", err)
	}

	if delay <= 0 {
		delay = cb.cooldown
	}
	cb.state = cbOpen
	cb.openUntil = cb.now().Add(delay)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}

	return nil
}
