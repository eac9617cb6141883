package driver

import "sync"

// ReprobeBudget bounds how many times a probe may defer while waiting
// for the proxy target device to appear. The budget may be shared
// across driver instances to preserve a single process-wide ceiling;
// it is safe for concurrent use, though probe attempts themselves are
// serialized by the host.
type ReprobeBudget struct {
	mu        sync.Mutex
	max       int
	attempts  int
	exhausted bool
}

// NewReprobeBudget creates a budget allowing max deferred attempts.
func NewReprobeBudget(max int) *ReprobeBudget {
	return &ReprobeBudget{max: max}
}

// TrySpend consumes one deferred attempt. It returns true while budget
// remains; once the ceiling is reached it returns false, permanently,
// without counting further attempts.
func (b *ReprobeBudget) TrySpend() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.exhausted {
		return false
	}
	if b.attempts < b.max {
		b.attempts++
		return true
	}
	b.exhausted = true
	return false
}

// Attempts returns the number of deferred attempts consumed so far.
func (b *ReprobeBudget) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// Exhausted reports whether the ceiling has been reached.
func (b *ReprobeBudget) Exhausted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exhausted
}
