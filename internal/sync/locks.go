package sync

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultLockTimeout bounds how long an acquisition waits before the
// current holder is considered stale and force-released.
const DefaultLockTimeout = 30 * time.Second

// ErrLockCancelled is returned when the acquiring context ends first.
var ErrLockCancelled = errors.New("lock acquisition cancelled")

// ReleaseFunc releases one acquisition. Calling it more than once is safe.
type ReleaseFunc func()

// LockRegistry serializes mutating operations per sync identifier:
// at most one in-flight mutation per key, full parallelism across keys.
//
// A registry is an explicit, injectable object owned by the service —
// never process-global — so tests construct isolated instances.
type LockRegistry struct {
	timeout time.Duration
	clock   Clock
	logger  Logger

	mu   sync.Mutex
	held map[string]*lockEntry
}

type lockEntry struct {
	acquiredAt time.Time
	released   chan struct{}
	closeOnce  sync.Once
}

func (e *lockEntry) close() {
	e.closeOnce.Do(func() { close(e.released) })
}

// NewLockRegistry creates a registry with the given stale-lock timeout.
// A non-positive timeout selects DefaultLockTimeout.
func NewLockRegistry(timeout time.Duration, clock Clock, logger Logger) *LockRegistry {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &LockRegistry{
		timeout: timeout,
		clock:   clock,
		logger:  logger,
		held:    make(map[string]*lockEntry),
	}
}

// Acquire blocks until key is free, cooperatively waiting on the holder's
// release signal. If the holder is older than the timeout it is
// force-released with a warning and acquisition proceeds.
func (r *LockRegistry) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	for {
		r.mu.Lock()
		entry, ok := r.held[key]
		if !ok {
			mine := &lockEntry{acquiredAt: r.clock.Now(), released: make(chan struct{})}
			r.held[key] = mine
			r.mu.Unlock()
			return func() { r.release(key, mine) }, nil
		}

		age := r.clock.Now().Sub(entry.acquiredAt)
		if age >= r.timeout {
			r.logger.Warn("force-releasing stale sync lock", "key", key, "heldFor", age)
			delete(r.held, key)
			entry.close()
			r.mu.Unlock()
			continue
		}
		wait := r.timeout - age
		released := entry.released
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-released:
			timer.Stop()
		case <-timer.C:
			// The holder is now stale; the next pass force-releases it.
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(ErrLockCancelled, ctx.Err())
		}
	}
}

// Release frees whatever acquisition currently holds key. It is idempotent
// and safe to call on an unheld key.
func (r *LockRegistry) Release(key string) {
	r.mu.Lock()
	entry, ok := r.held[key]
	if ok {
		delete(r.held, key)
	}
	r.mu.Unlock()
	if ok {
		entry.close()
	}
}

// release frees key only if mine is still the current holder, so a
// force-released acquisition cannot free its successor's lock.
func (r *LockRegistry) release(key string, mine *lockEntry) {
	r.mu.Lock()
	if r.held[key] == mine {
		delete(r.held, key)
	}
	r.mu.Unlock()
	mine.close()
}

// WithLock runs fn while holding the key's lock.
func (r *LockRegistry) WithLock(ctx context.Context, key string, fn func() error) error {
	release, err := r.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}
