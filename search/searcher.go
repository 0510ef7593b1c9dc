package search

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ByteMirror/swarmgrep/concurrency"
	"github.com/ByteMirror/swarmgrep/log"
)

// maxLineBytes bounds the line buffer of the per-file scanner. Files with
// longer lines stop scanning at the over-long line.
const maxLineBytes = 1 << 20

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	matchStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Options configures a Searcher.
type Options struct {
	// Keyword is the case-sensitive substring to search for.
	Keyword string
	// Sink receives one report block per matching file.
	Sink *Sink
	// Stats receives the matched-file count.
	Stats *concurrency.SearchStats
	// Quiet suppresses report blocks; counters are still updated.
	Quiet bool
	// Color enables keyword highlighting and styled headers.
	Color bool
}

// Searcher scans individual files for a keyword and reports matches. It is
// the per-item collaborator invoked by pool workers; Search is safe for
// concurrent use because every call works on its own file handle and builds
// its report block locally before touching the sink.
type Searcher struct {
	opts Options
}

// NewSearcher creates a Searcher for a single run's keyword and sinks.
func NewSearcher(opts Options) *Searcher {
	return &Searcher{opts: opts}
}

// Search scans one file. Unreadable files count as "no match": the error is
// local, logged at debug level, and never disturbs queue or pool state.
// Line numbers are 1-based; a file increments the matched counter at most
// once no matter how many of its lines match.
func (s *Searcher) Search(workerID int, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.DebugLog.Printf("worker %d: skipping %s: %v", workerID, path, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.DebugLog.Printf("worker %d: stat %s: %v", workerID, path, err)
		return
	}

	var report strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNum := 0
	found := false
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if !strings.Contains(line, s.opts.Keyword) {
			continue
		}

		if !found {
			found = true
			s.opts.Stats.AddMatched()
			s.writeHeader(&report, workerID, path, info)
		}

		fmt.Fprintf(&report, "  %4d: %s\n", lineNum, s.highlight(line))
	}
	if err := scanner.Err(); err != nil {
		log.DebugLog.Printf("worker %d: scan %s stopped at line %d: %v",
			workerID, path, lineNum, err)
	}

	if found && !s.opts.Quiet {
		s.opts.Sink.WriteBlock(report.String())
	}
}

func (s *Searcher) writeHeader(report *strings.Builder, workerID int, path string, info os.FileInfo) {
	header := fmt.Sprintf("[worker %d] match: %s", workerID, path)
	meta := fmt.Sprintf("  size: %d bytes\n  modified: %s",
		info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))
	if s.opts.Color {
		header = headerStyle.Render(header)
		meta = metaStyle.Render(meta)
	}
	fmt.Fprintf(report, "\n%s\n%s\n", header, meta)
}

// highlight marks every occurrence of the keyword in line. With color off
// the line passes through untouched.
func (s *Searcher) highlight(line string) string {
	if !s.opts.Color {
		return line
	}
	return strings.ReplaceAll(line, s.opts.Keyword, matchStyle.Render(s.opts.Keyword))
}
