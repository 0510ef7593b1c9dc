// Package scan implements the producer side of the search: a recursive
// directory walk that feeds eligible file paths into the task queue.
package scan

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ByteMirror/swarmgrep/concurrency"
	"github.com/ByteMirror/swarmgrep/log"
)

// ExtensionPolicy decides which directory entries are eligible for search,
// by file extension, case-insensitively.
type ExtensionPolicy struct {
	exts map[string]struct{}
}

// NewExtensionPolicy builds a policy from a list of extensions. Entries are
// normalized to a leading dot and lower case, so "Go", ".go" and "go" are
// equivalent.
func NewExtensionPolicy(extensions []string) ExtensionPolicy {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = struct{}{}
	}
	return ExtensionPolicy{exts: exts}
}

// Eligible reports whether a file name passes the policy.
func (p ExtensionPolicy) Eligible(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	_, ok := p.exts[ext]
	return ok
}

// Scanner walks a directory tree and enqueues every eligible regular file.
// It is the single producer for a run; the caller signals the queue's Done
// after Scan returns, so every push strictly precedes the terminal signal.
type Scanner struct {
	queue     *concurrency.TaskQueue
	stats     *concurrency.SearchStats
	policy    ExtensionPolicy
	warnEvery *log.Every
}

// NewScanner creates a Scanner feeding the given queue and counters.
func NewScanner(queue *concurrency.TaskQueue, stats *concurrency.SearchStats, policy ExtensionPolicy) *Scanner {
	return &Scanner{
		queue:     queue,
		stats:     stats,
		policy:    policy,
		warnEvery: log.NewEvery(5 * time.Second),
	}
}

// Scan recursively walks root. Unreadable directories are skipped with a
// throttled warning; they never abort the walk. Symlinks are not followed.
// The scanned counter is incremented at enqueue time, so it always equals
// the number of items handed to the queue.
func (s *Scanner) Scan(root string) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if s.warnEvery.ShouldLog() {
			log.WarningLog.Printf("cannot read directory %s: %v", root, err)
		}
		return
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			s.Scan(path)
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if !s.policy.Eligible(entry.Name()) {
			continue
		}

		s.stats.AddScanned()
		s.queue.Push(path)
	}
}
