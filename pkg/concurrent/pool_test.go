package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestParallelMapPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	results, err := ParallelMap(context.Background(), items, func(n int) (int, error) {
		return n * n, nil
	}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{1, 4, 9, 16, 25}
	for i, w := range want {
		if results[i] != w {
			t.Errorf("index %d: got %d, want %d", i, results[i], w)
		}
	}
}

func TestParallelMapPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := ParallelMap(context.Background(), []int{1, 2, 3}, func(n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	}, 3)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom error, got %v", err)
	}
}

func TestParallelForEachRunsEveryItem(t *testing.T) {
	var count atomic.Int64
	err := ParallelForEach(context.Background(), make([]struct{}, 10), func(struct{}) error {
		count.Add(1)
		return nil
	}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count.Load() != 10 {
		t.Errorf("expected 10 invocations, got %d", count.Load())
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(1)
	var running atomic.Int64
	var maxSeen atomic.Int64

	err := ParallelForEach(context.Background(), make([]struct{}, 5), func(struct{}) error {
		return pool.Do(context.Background(), func() error {
			n := running.Add(1)
			defer running.Add(-1)
			for {
				cur := maxSeen.Load()
				if n <= cur || maxSeen.CompareAndSwap(cur, n) {
					break
				}
			}
			return nil
		})
	}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if maxSeen.Load() > 1 {
		t.Errorf("WorkerPool(1) allowed %d concurrent operations", maxSeen.Load())
	}
}
