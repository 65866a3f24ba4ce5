package cache

import (
	"sync"
	"time"
)

// CircuitState represents the current state of the circuit breaker.
type CircuitState int

const (
	// CircuitClosed means Redis calls flow through.
	CircuitClosed CircuitState = iota
	// CircuitOpen means Redis has failed repeatedly and calls are skipped.
	CircuitOpen
	// CircuitHalfOpen means one trial call is testing whether Redis recovered.
	CircuitHalfOpen
)

// String returns a human-readable string for the circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds configuration for the cache circuit breaker.
type BreakerConfig struct {
	// Threshold is the number of consecutive failures before the circuit trips.
	Threshold int
	// ResetAfter is how long the circuit stays open before a trial call is allowed.
	ResetAfter time.Duration
}

// DefaultBreakerConfig trips after 5 consecutive failures and tries Redis again
// after 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Threshold:  5,
		ResetAfter: 30 * time.Second,
	}
}

// circuitBreaker stops a dead Redis from adding a network timeout to every
// prediction.
type circuitBreaker struct {
	mu               sync.Mutex
	consecutiveFails int
	threshold        int
	resetAfter       time.Duration
	lastFailure      time.Time
	state            CircuitState
	now              func() time.Time
}

func newCircuitBreaker(cfg BreakerConfig) *circuitBreaker {
	if cfg.Threshold <= 0 {
		cfg = DefaultBreakerConfig()
	}
	return &circuitBreaker{
		threshold:  cfg.Threshold,
		resetAfter: cfg.ResetAfter,
		state:      CircuitClosed,
		now:        time.Now,
	}
}

// allow reports whether a Redis call may proceed. An open circuit moves to
// half-open once resetAfter has passed and lets exactly one call through.
func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailure) > cb.resetAfter {
			cb.state = CircuitHalfOpen
			return true
		}
		return false
	default:
		return false
	}
}

// recordSuccess closes the circuit. It returns the previous state.
func (cb *circuitBreaker) recordSuccess() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	prev := cb.state
	cb.consecutiveFails = 0
	cb.state = CircuitClosed
	return prev
}

// recordFailure counts a failure and trips the circuit at the threshold.
// It returns the new state.
func (cb *circuitBreaker) recordFailure() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFails++
	cb.lastFailure = cb.now()

	if cb.state == CircuitHalfOpen || cb.consecutiveFails >= cb.threshold {
		cb.state = CircuitOpen
	}
	return cb.state
}

func (cb *circuitBreaker) currentState() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
