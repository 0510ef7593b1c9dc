package concurrency

import (
	"sync"
)

// DefaultInitialCapacity is the starting size of the queue's ring buffer.
// The buffer doubles whenever it fills, so this only bounds the first growth.
const DefaultInitialCapacity = 1024

// TaskQueue is a dynamically growing FIFO of file paths connecting one
// producer to many consumers. Push never blocks; Pop blocks until an item
// is available or the producer has signalled that no more work is coming.
//
// All state is guarded by a single mutex. The condition variable carries
// two facts: "an item arrived" (Signal, from Push) and "no more items will
// ever arrive" (Broadcast, from Done). Waiters re-check the predicate in a
// loop, so spurious wakeups are harmless.
type TaskQueue struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf   []string
	head  int // index of the next item to pop
	tail  int // index of the next free slot
	count int // number of live items
	done  bool
}

// TaskQueueConfig holds configuration for the task queue.
type TaskQueueConfig struct {
	// InitialCapacity is the starting ring buffer size (default 1024).
	InitialCapacity int
}

// NewTaskQueue creates an empty queue with the given configuration.
func NewTaskQueue(config TaskQueueConfig) *TaskQueue {
	if config.InitialCapacity <= 0 {
		config.InitialCapacity = DefaultInitialCapacity
	}

	tq := &TaskQueue{
		buf: make([]string, config.InitialCapacity),
	}
	tq.cond = sync.NewCond(&tq.mu)
	return tq
}

// Push appends a path to the tail of the queue, growing the buffer if it is
// full, and wakes one waiting consumer. It never blocks the producer.
// Push panics if called after Done: the terminal flag is one-way and
// consumers may already have exited on the strength of it.
func (tq *TaskQueue) Push(path string) {
	tq.mu.Lock()
	defer tq.mu.Unlock()

	if tq.done {
		panic("concurrency: Push after Done")
	}

	if tq.count == len(tq.buf) {
		tq.grow()
	}

	tq.buf[tq.tail] = path
	tq.tail = (tq.tail + 1) % len(tq.buf)
	tq.count++

	tq.cond.Signal()
}

// grow doubles the buffer, re-linearizing live items to index 0 in FIFO
// order. Caller must hold tq.mu.
func (tq *TaskQueue) grow() {
	newBuf := make([]string, len(tq.buf)*2)
	for i := 0; i < tq.count; i++ {
		newBuf[i] = tq.buf[(tq.head+i)%len(tq.buf)]
	}
	tq.buf = newBuf
	tq.head = 0
	tq.tail = tq.count
}

// Pop removes and returns the item at the head of the queue. It blocks while
// the queue is empty and the producer is still running. Once the queue is
// empty and Done has been called, Pop returns ok == false immediately; that
// is the consumer's signal to exit.
func (tq *TaskQueue) Pop() (path string, ok bool) {
	tq.mu.Lock()
	defer tq.mu.Unlock()

	for tq.count == 0 && !tq.done {
		tq.cond.Wait()
	}

	if tq.count == 0 {
		// done is set and nothing is left to drain.
		return "", false
	}

	path = tq.buf[tq.head]
	tq.buf[tq.head] = ""
	tq.head = (tq.head + 1) % len(tq.buf)
	tq.count--

	return path, true
}

// Done marks the end of production and wakes every waiting consumer. Each
// one must observe the new condition independently, so this is a broadcast:
// a single signal could leave parked consumers blocked forever, since no
// further Push will ever arrive to wake them.
func (tq *TaskQueue) Done() {
	tq.mu.Lock()
	defer tq.mu.Unlock()

	tq.done = true
	tq.cond.Broadcast()
}

// Drain removes and returns any residual items, leaving the queue empty.
// Safe at any point, on zero or more items; used on error paths where
// consumers never claimed the remaining work.
func (tq *TaskQueue) Drain() []string {
	tq.mu.Lock()
	defer tq.mu.Unlock()

	out := make([]string, 0, tq.count)
	for tq.count > 0 {
		out = append(out, tq.buf[tq.head])
		tq.buf[tq.head] = ""
		tq.head = (tq.head + 1) % len(tq.buf)
		tq.count--
	}
	tq.head = 0
	tq.tail = 0
	return out
}

// Len returns the number of items currently queued.
func (tq *TaskQueue) Len() int {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	return tq.count
}

// Cap returns the current ring buffer capacity.
func (tq *TaskQueue) Cap() int {
	tq.mu.Lock()
	defer tq.mu.Unlock()
	return len(tq.buf)
}
