package utils

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2, 0)

	var running, peak int64
	for i := 0; i < 10; i++ {
		pool.Submit(func() error {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&running, -1)
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak > 2 {
		t.Errorf("peak concurrency: got %d, want <= 2", peak)
	}
}

func TestWorkerPoolCollectsErrors(t *testing.T) {
	pool := NewWorkerPool(3, 0)
	first := errors.New("first")
	second := errors.New("second")

	pool.Submit(func() error { return first })
	pool.Submit(func() error { return nil })
	pool.Submit(func() error { return second })

	err := pool.Wait()
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
}

func TestWorkerPoolInterval(t *testing.T) {
	interval := 50 * time.Millisecond
	pool := NewWorkerPool(1, interval)

	var mu sync.Mutex
	var starts []time.Time
	for i := 0; i < 3; i++ {
		pool.Submit(func() error {
			mu.Lock()
			starts = append(starts, time.Now())
			mu.Unlock()
			return nil
		})
	}
	_ = pool.Wait()

	// scheduling jitter between the pool's clock read and the job's
	slack := 5 * time.Millisecond
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < interval-slack {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, interval)
		}
	}
}
