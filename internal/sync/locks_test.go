package sync_test

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"mls-go/internal/sync"
	"mls-go/internal/testutil"
)

func TestLockRegistry_Acquire(t *testing.T) {
	t.Run("different keys do not block each other", func(t *testing.T) {
		r := sync.NewLockRegistry(time.Minute, nil, nil)
		ctx := context.Background()

		rel1, err := r.Acquire(ctx, "mal:anime:1")
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		defer rel1()

		done := make(chan struct{})
		go func() {
			rel2, err := r.Acquire(ctx, "mal:anime:2")
			if err == nil {
				rel2()
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("second key blocked behind unrelated lock")
		}
	})

	t.Run("same key serializes", func(t *testing.T) {
		r := sync.NewLockRegistry(time.Minute, nil, nil)
		ctx := context.Background()

		var mu stdsync.Mutex
		inCritical := 0
		maxInCritical := 0

		var wg stdsync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := r.WithLock(ctx, "mal:anime:1", func() error {
					mu.Lock()
					inCritical++
					if inCritical > maxInCritical {
						maxInCritical = inCritical
					}
					mu.Unlock()

					time.Sleep(5 * time.Millisecond)

					mu.Lock()
					inCritical--
					mu.Unlock()
					return nil
				})
				if err != nil {
					t.Errorf("WithLock() error = %v", err)
				}
			}()
		}
		wg.Wait()

		if maxInCritical != 1 {
			t.Errorf("max concurrent holders = %d, want 1", maxInCritical)
		}
	})

	t.Run("release makes the key reacquirable", func(t *testing.T) {
		r := sync.NewLockRegistry(time.Minute, nil, nil)
		ctx := context.Background()

		rel, err := r.Acquire(ctx, "k")
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		rel()
		rel() // second call is a no-op

		rel2, err := r.Acquire(ctx, "k")
		if err != nil {
			t.Fatalf("reacquire error = %v", err)
		}
		rel2()
	})

	t.Run("cancelled context aborts the wait", func(t *testing.T) {
		r := sync.NewLockRegistry(time.Minute, nil, nil)

		rel, err := r.Acquire(context.Background(), "k")
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		defer rel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = r.Acquire(ctx, "k")
		if !errors.Is(err, sync.ErrLockCancelled) {
			t.Errorf("Acquire() error = %v, want ErrLockCancelled", err)
		}
	})
}

func TestLockRegistry_StaleLocks(t *testing.T) {
	t.Run("force-releases a holder past the timeout", func(t *testing.T) {
		clock := testutil.NewFixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		logger := &testutil.CaptureLogger{}
		r := sync.NewLockRegistry(30*time.Second, clock, logger)
		ctx := context.Background()

		if _, err := r.Acquire(ctx, "k"); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		// Holder never releases. Move past the timeout.
		clock.Advance(31 * time.Second)

		rel, err := r.Acquire(ctx, "k")
		if err != nil {
			t.Fatalf("Acquire() after timeout error = %v", err)
		}
		rel()

		if !logger.Contains("force-releasing stale sync lock") {
			t.Error("expected a stale-lock warning to be logged")
		}
	})

	t.Run("stale holder cannot release its successor", func(t *testing.T) {
		clock := testutil.NewFixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		r := sync.NewLockRegistry(30*time.Second, clock, nil)
		ctx := context.Background()

		relStale, err := r.Acquire(ctx, "k")
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		clock.Advance(31 * time.Second)

		relNew, err := r.Acquire(ctx, "k")
		if err != nil {
			t.Fatalf("Acquire() after timeout error = %v", err)
		}

		// The evicted holder's release must not free the new acquisition.
		relStale()

		acquired := make(chan struct{})
		go func() {
			rel, err := r.Acquire(ctx, "k")
			if err == nil {
				rel()
			}
			close(acquired)
		}()

		select {
		case <-acquired:
			t.Fatal("lock was freed by the evicted holder")
		case <-time.After(50 * time.Millisecond):
		}

		relNew()
		select {
		case <-acquired:
		case <-time.After(time.Second):
			t.Fatal("lock was not freed by the current holder")
		}
	})
}
