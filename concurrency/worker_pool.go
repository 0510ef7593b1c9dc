package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ByteMirror/swarmgrep/log"
)

// SearchFunc is invoked by a worker for each path it claims from the queue.
// The worker holds no queue lock while the function runs, so file I/O in one
// worker never serializes queue access for the others. workerID is an opaque
// 1-based index used only for display.
type SearchFunc func(workerID int, path string)

// Worker represents a single worker in the pool.
type Worker struct {
	id             int
	itemsProcessed atomic.Uint64
}

// ID returns the worker's 1-based display index.
func (w *Worker) ID() int {
	return w.id
}

// ItemsProcessed returns the number of paths this worker has searched.
func (w *Worker) ItemsProcessed() uint64 {
	return w.itemsProcessed.Load()
}

// WorkerPoolConfig contains configuration options for the worker pool.
type WorkerPoolConfig struct {
	// Workers is the fixed number of concurrent workers (default: NumCPU).
	Workers int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with default values.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		Workers: runtime.NumCPU(),
	}
}

// WorkerPool runs a fixed set of workers that drain a TaskQueue. Each worker
// loops: block in Pop, run the search function on the claimed path, repeat;
// it exits when Pop reports that the queue is empty and production is done.
type WorkerPool struct {
	workers []*Worker
	wg      sync.WaitGroup
	started atomic.Bool
}

// NewWorkerPool creates a new worker pool with the given configuration.
// The pool size is fixed for the lifetime of the pool.
func NewWorkerPool(config WorkerPoolConfig) *WorkerPool {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		workers: make([]*Worker, config.Workers),
	}
	for i := range wp.workers {
		wp.workers[i] = &Worker{id: i + 1}
	}
	return wp
}

// Size returns the fixed number of workers in the pool.
func (wp *WorkerPool) Size() int {
	return len(wp.workers)
}

// Workers returns all workers in the pool. Their processed counts are only
// stable after Wait has returned.
func (wp *WorkerPool) Workers() []*Worker {
	out := make([]*Worker, len(wp.workers))
	copy(out, wp.workers)
	return out
}

// Start launches every worker against the given queue. It must be called at
// most once. Start returns immediately; use Wait to join the workers.
func (wp *WorkerPool) Start(queue *TaskQueue, fn SearchFunc) {
	if !wp.started.CompareAndSwap(false, true) {
		panic("concurrency: worker pool started twice")
	}

	log.DebugLog.Printf("starting %d search workers", len(wp.workers))

	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go wp.workerLoop(worker, queue, fn)
	}
}

// Wait blocks until every worker has exited. There is no timeout: workers
// are guaranteed to exit once the producer calls Done and the queue drains,
// so a hang here is a correctness bug, not a condition to recover from.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Run is the blocking form of Start + Wait.
func (wp *WorkerPool) Run(queue *TaskQueue, fn SearchFunc) {
	wp.Start(queue, fn)
	wp.Wait()
}

// workerLoop is the main loop for a worker goroutine.
func (wp *WorkerPool) workerLoop(worker *Worker, queue *TaskQueue, fn SearchFunc) {
	defer wp.wg.Done()

	for {
		path, ok := queue.Pop()
		if !ok {
			log.DebugLog.Printf("worker %d exiting after %d items",
				worker.id, worker.itemsProcessed.Load())
			return
		}

		// Pop released the queue lock before returning; the search runs
		// with no lock held.
		fn(worker.id, path)
		worker.itemsProcessed.Add(1)
	}
}
