package analyzer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_RunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	var counter int64
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}
	pool.Wait()

	if got := atomic.LoadInt64(&counter); got != 100 {
		t.Errorf("Expected 100 jobs to run, got %d", got)
	}
}

func TestWorkerPool_SingleWorkerIsSequential(t *testing.T) {
	pool := NewWorkerPool(1)
	pool.Start()
	defer pool.Close()

	order := make([]int, 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		pool.Submit(func() {
			order = append(order, i)
		})
	}
	pool.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("Expected sequential execution, got %v", order)
		}
	}
}

func TestWorkerPool_DefaultsToCPUCount(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.Workers() < 1 {
		t.Errorf("Expected at least one worker, got %d", pool.Workers())
	}
}

func TestWorkerPool_IndexedSlotsPreserveOrder(t *testing.T) {
	pool := NewWorkerPool(8)
	pool.Start()
	defer pool.Close()

	results := make([]int, 50)
	for i := 0; i < 50; i++ {
		i := i
		pool.Submit(func() {
			time.Sleep(time.Duration(50-i) * time.Microsecond)
			results[i] = i + 1
		})
	}
	pool.Wait()

	for i, v := range results {
		if v != i+1 {
			t.Fatalf("Slot %d holds %d, want %d", i, v, i+1)
		}
	}
}
