// Package concurrency implements the producer-consumer engine behind
// swarmgrep: a growable blocking task queue, a fixed-size worker pool, and
// the shared run counters.
//
// # Core Components
//
// TaskQueue - growable FIFO ring buffer with a blocking Pop and a one-way
// end-of-production signal
//
//	queue := NewTaskQueue(TaskQueueConfig{})
//	queue.Push(path)
//	queue.Done()
//
// WorkerPool - fixed set of workers draining a queue until it reports done
//
//	pool := NewWorkerPool(WorkerPoolConfig{Workers: 8})
//	pool.Start(queue, searchFn)
//	pool.Wait()
//
// SearchStats - run-wide counters passed by reference, no globals
//
//	stats := &SearchStats{}
//	stats.AddScanned()
//	fmt.Println(stats.Snapshot())
//
// # Synchronization discipline
//
// The queue's internal mutex is the only lock in this package and is never
// held while a worker runs its search function. Counters are independent
// atomics. No code path ever holds two locks at once, so there is no lock
// ordering to get wrong.
package concurrency
