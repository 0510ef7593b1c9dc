package concurrency

import (
	"fmt"
	"sync/atomic"
)

// SearchStats tracks the run-wide counters. The two counters are updated
// independently (no cross-counter invariant), so each is its own exclusion
// domain. A SearchStats is created by the coordinator and passed by
// reference into the producer and the worker pool; there are no package
// globals.
type SearchStats struct {
	scanned atomic.Int64 // eligible files enqueued by the producer
	matched atomic.Int64 // files in which at least one line matched
}

// AddScanned records one eligible file handed to the queue. Called by the
// producer at enqueue time, so the final count always equals the number of
// items pushed.
func (s *SearchStats) AddScanned() {
	s.scanned.Add(1)
}

// AddMatched records one file containing the keyword. Called at most once
// per file, by the worker that searched it.
func (s *SearchStats) AddMatched() {
	s.matched.Add(1)
}

// Scanned returns the number of eligible files enqueued so far.
func (s *SearchStats) Scanned() int64 {
	return s.scanned.Load()
}

// Matched returns the number of matching files found so far.
func (s *SearchStats) Matched() int64 {
	return s.matched.Load()
}

// StatsSnapshot is a point-in-time copy of both counters.
type StatsSnapshot struct {
	Scanned int64
	Matched int64
}

// Snapshot returns the current counter values. The two loads are not atomic
// with respect to each other, which is fine: callers take snapshots after
// the worker pool has been joined.
func (s *SearchStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Scanned: s.scanned.Load(),
		Matched: s.matched.Load(),
	}
}

// String returns a formatted string representation of the counters.
func (s *SearchStats) String() string {
	return fmt.Sprintf("%d files scanned, %d files matched", s.Scanned(), s.Matched())
}
