package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByteMirror/swarmgrep/concurrency"
	"github.com/ByteMirror/swarmgrep/log"
)

// TestMain runs before all tests to set up the test environment
func TestMain(m *testing.M) {
	log.Initialize()
	defer log.Close()

	os.Exit(m.Run())
}

// syncBuffer collects sink output for assertions.
type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (sb *syncBuffer) Write(p []byte) (int, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.b.Write(p)
}

func (sb *syncBuffer) String() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.b.String()
}

func newTestSearcher(out *syncBuffer, stats *concurrency.SearchStats, keyword string) *Searcher {
	return NewSearcher(Options{
		Keyword: keyword,
		Sink:    NewSink(out),
		Stats:   stats,
		Color:   false,
	})
}

func TestSearcher(t *testing.T) {
	t.Run("reports matching lines with 1-based numbers", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path,
			[]byte("first line\nTODO one\nthird line\nTODO two\n"), 0644))

		out := &syncBuffer{}
		stats := &concurrency.SearchStats{}
		s := newTestSearcher(out, stats, "TODO")

		s.Search(3, path)

		got := out.String()
		assert.Contains(t, got, "[worker 3] match: "+path)
		assert.Contains(t, got, "     2: TODO one")
		assert.Contains(t, got, "     4: TODO two")
		assert.NotContains(t, got, "first line")
		assert.EqualValues(t, 1, stats.Matched(), "matched counts files, not lines")
	})

	t.Run("no match produces no output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "clean.txt")
		require.NoError(t, os.WriteFile(path, []byte("nothing here\n"), 0644))

		out := &syncBuffer{}
		stats := &concurrency.SearchStats{}
		s := newTestSearcher(out, stats, "TODO")

		s.Search(1, path)

		assert.Empty(t, out.String())
		assert.Zero(t, stats.Matched())
	})

	t.Run("unreadable file counts as no match", func(t *testing.T) {
		out := &syncBuffer{}
		stats := &concurrency.SearchStats{}
		s := newTestSearcher(out, stats, "TODO")

		s.Search(1, filepath.Join(t.TempDir(), "missing.txt"))

		assert.Empty(t, out.String())
		assert.Zero(t, stats.Matched())
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "case.txt")
		require.NoError(t, os.WriteFile(path, []byte("todo lower\n"), 0644))

		out := &syncBuffer{}
		stats := &concurrency.SearchStats{}
		s := newTestSearcher(out, stats, "TODO")

		s.Search(1, path)

		assert.Zero(t, stats.Matched())
	})

	t.Run("quiet mode updates counters but emits nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "quiet.txt")
		require.NoError(t, os.WriteFile(path, []byte("TODO\n"), 0644))

		out := &syncBuffer{}
		stats := &concurrency.SearchStats{}
		s := NewSearcher(Options{
			Keyword: "TODO",
			Sink:    NewSink(out),
			Stats:   stats,
			Quiet:   true,
		})

		s.Search(1, path)

		assert.Empty(t, out.String())
		assert.EqualValues(t, 1, stats.Matched())
	})

	t.Run("over-long line stops the scan, earlier matches survive", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "long.txt")
		content := "TODO before the monster line\n" +
			strings.Repeat("x", maxLineBytes+10) + "\n" +
			"TODO never reached\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		out := &syncBuffer{}
		stats := &concurrency.SearchStats{}
		s := newTestSearcher(out, stats, "TODO")

		s.Search(1, path)

		got := out.String()
		assert.Contains(t, got, "     1: TODO before the monster line")
		assert.NotContains(t, got, "TODO never reached")
		assert.EqualValues(t, 1, stats.Matched(), "file counts once despite the aborted scan")
	})

	t.Run("color highlights without altering the text", func(t *testing.T) {
		lipgloss.SetColorProfile(termenv.TrueColor)
		defer lipgloss.SetColorProfile(termenv.Ascii)

		path := filepath.Join(t.TempDir(), "color.txt")
		require.NoError(t, os.WriteFile(path, []byte("TODO and TODO again\n"), 0644))

		out := &syncBuffer{}
		stats := &concurrency.SearchStats{}
		s := NewSearcher(Options{
			Keyword: "TODO",
			Sink:    NewSink(out),
			Stats:   stats,
			Color:   true,
		})

		s.Search(1, path)

		got := out.String()
		assert.Contains(t, got, "\x1b[", "expected ANSI styling in colored output")
		assert.Equal(t, 2, strings.Count(got, "TODO"), "every occurrence survives highlighting")
	})

	t.Run("multiple keyword occurrences on one line report once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dup.txt")
		require.NoError(t, os.WriteFile(path, []byte("TODO and TODO again\n"), 0644))

		out := &syncBuffer{}
		stats := &concurrency.SearchStats{}
		s := newTestSearcher(out, stats, "TODO")

		s.Search(1, path)

		assert.Equal(t, 1, strings.Count(out.String(), "     1: "))
	})
}

func TestSink_BlocksNeverInterleave(t *testing.T) {
	out := &syncBuffer{}
	sink := NewSink(out)

	const writers = 8
	const blocksPerWriter = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < blocksPerWriter; i++ {
				block := fmt.Sprintf("begin %d-%d\nmiddle %d-%d\nend %d-%d\n",
					w, i, w, i, w, i)
				sink.WriteBlock(block)
			}
		}(w)
	}
	wg.Wait()

	// Every block must appear as three consecutive lines with the same tag.
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Equal(t, writers*blocksPerWriter*3, len(lines))
	for i := 0; i < len(lines); i += 3 {
		tag := strings.TrimPrefix(lines[i], "begin ")
		assert.Equal(t, "begin "+tag, lines[i])
		assert.Equal(t, "middle "+tag, lines[i+1])
		assert.Equal(t, "end "+tag, lines[i+2])
	}
}
