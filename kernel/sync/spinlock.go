// Package sync provides the synchronization primitives used while mutating
// shared kernel state.
package sync

import "sync/atomic"

var (
	// yieldFn is invoked between acquisition attempts. It is nil on bare
	// metal (single hardware thread, busy-wait) and swapped by tests.
	yieldFn func()
)

// Spinlock implements a lock where the caller busy-waits until the lock
// becomes available.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock is held by the caller. Re-acquiring a lock
// already held by the current flow of execution deadlocks.
func (l *Spinlock) Acquire() {
	for !l.TryToAcquire() {
		if yieldFn != nil {
			yieldFn()
		}
	}
}

// TryToAcquire attempts to acquire the lock and returns true on success.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release relinquishes a held lock. Releasing a free lock has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}
