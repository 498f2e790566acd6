package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversEveryIndex(t *testing.T) {
	for _, tc := range []struct {
		items, workers int
	}{
		{1, 0}, {7, 3}, {100, 8}, {5, 50},
	} {
		seen := make([]int32, tc.items)
		Parallelize(tc.items, tc.workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, n := range seen {
			if n != 1 {
				t.Errorf("items=%d workers=%d: index %d visited %d times", tc.items, tc.workers, i, n)
			}
		}
	}
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	var calls int32
	ParallelizeWithThreshold(10, 100, 4, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		if start != 0 || end != 10 {
			t.Errorf("expected single range [0,10), got [%d,%d)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}

	calls = 0
	ParallelizeWithThreshold(0, 100, 4, func(start, end int) {
		atomic.AddInt32(&calls, 1)
	})
	if calls != 0 {
		t.Errorf("expected no call for empty input, got %d", calls)
	}
}
