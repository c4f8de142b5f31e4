package analyzer

import (
	"runtime"
	"sync"
)

// WorkerPool bounds concurrency for batch screenshot analysis. A pool of one
// worker gives the strictly sequential processing of the reference design;
// larger pools trade the resource ceiling for throughput while callers keep
// result ordering by writing into index-addressed slots.
type WorkerPool struct {
	workers   int
	jobQueue  chan func()
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// NewWorkerPool creates a worker pool. workers <= 0 means one per CPU.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Start launches the workers. Safe to call more than once.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
		wp.wg.Done()
	}
}

// Submit queues a job. Blocks when the queue is full.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Close shuts down the worker pool. Pending jobs are drained first.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.jobQueue)
	})
}
