// Package app wires the producer, queue, worker pool and searcher together
// for a single run.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ByteMirror/swarmgrep/concurrency"
	"github.com/ByteMirror/swarmgrep/config"
	"github.com/ByteMirror/swarmgrep/scan"
	"github.com/ByteMirror/swarmgrep/search"
)

// Options configures a run.
type Options struct {
	// Root is the directory to search.
	Root string
	// Keyword is the case-sensitive substring to search for.
	Keyword string
	// Workers is the pool size; zero selects the default.
	Workers int
	// Extensions lists the eligible file extensions. Empty selects
	// config.DefaultExtensions.
	Extensions []string
	// Color enables highlighted output.
	Color bool
	// Quiet suppresses per-file reports.
	Quiet bool
	// Out receives match reports. Defaults to os.Stdout.
	Out io.Writer
}

// Summary is the result of a completed run.
type Summary struct {
	Scanned int64
	Matched int64
	Workers int
	Elapsed time.Duration
}

// Run is the main entrypoint into the application. It performs one complete
// search: spawn the worker pool, walk the tree on the calling goroutine
// (the producer and the coordinator are the same thread), signal completion,
// join every worker, and report totals. Run blocks until the last worker
// has exited; there is no early-stop path.
func Run(opts Options) (Summary, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return Summary{}, fmt.Errorf("cannot access search path %q: %w", opts.Root, err)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("search path %q is not a directory", opts.Root)
	}
	if opts.Keyword == "" {
		return Summary{}, fmt.Errorf("keyword must not be empty")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = config.DefaultExtensions
	}

	stats := &concurrency.SearchStats{}
	queue := concurrency.NewTaskQueue(concurrency.TaskQueueConfig{})
	pool := concurrency.NewWorkerPool(concurrency.WorkerPoolConfig{Workers: opts.Workers})

	searcher := search.NewSearcher(search.Options{
		Keyword: opts.Keyword,
		Sink:    search.NewSink(opts.Out),
		Stats:   stats,
		Quiet:   opts.Quiet,
		Color:   opts.Color,
	})
	scanner := scan.NewScanner(queue, stats, scan.NewExtensionPolicy(opts.Extensions))

	start := time.Now()

	pool.Start(queue, searcher.Search)
	scanner.Scan(opts.Root)
	queue.Done()
	pool.Wait()

	snap := stats.Snapshot()
	return Summary{
		Scanned: snap.Scanned,
		Matched: snap.Matched,
		Workers: pool.Size(),
		Elapsed: time.Since(start),
	}, nil
}
