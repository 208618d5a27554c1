package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nacara/nacara/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
	assert.Equal(t, "unknown", EventType(99).String())
}

func TestDebouncerGroupsAndDeduplicates(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.start(ctx)

	d.Add(ChangeEvent{Type: EventTypeCreated, Path: "b.md"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "a.md"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "b.md"})

	select {
	case events := <-d.Output():
		require.Len(t, events, 2)
		assert.Equal(t, "a.md", events[0].Path)
		assert.Equal(t, "b.md", events[1].Path)
		assert.Equal(t, EventTypeModified, events[1].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no debounced batch")
	}

	select {
	case events := <-d.Output():
		t.Fatalf("unexpected second batch: %v", events)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestFilters(t *testing.T) {
	assert.False(t, NoGitFilter("docs/.git/HEAD"))
	assert.True(t, NoGitFilter("docs/guide.md"))

	assert.False(t, NoEditorFilter("docs/guide.md~"))
	assert.False(t, NoEditorFilter("docs/.guide.md.swp"))
	assert.False(t, NoEditorFilter("docs/.#guide.md"))
	assert.True(t, NoEditorFilter("docs/guide.md"))

	ignore := IgnoreFilter([]string{"node_modules", "*.tmp"})
	assert.False(t, ignore("docs/node_modules/x.js"))
	assert.False(t, ignore("docs/draft.tmp"))
	assert.True(t, ignore("docs/index.md"))

	dir := t.TempDir()
	noOutput := NoOutputFilter(filepath.Join(dir, "_site"))
	assert.False(t, noOutput(filepath.Join(dir, "_site")))
	assert.False(t, noOutput(filepath.Join(dir, "_site", "index.html")))
	assert.True(t, noOutput(filepath.Join(dir, "_site2", "index.html")))
	assert.True(t, noOutput(filepath.Join(dir, "docs", "index.md")))
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	got, err := validatePath(dir + string(filepath.Separator))
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), got)

	_, err = validatePath("")
	assert.Error(t, err)
	_, err = validatePath(file)
	assert.Error(t, err)
	_, err = validatePath(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestFileWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "guide"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	fw, err := NewFileWatcher(30*time.Millisecond, logging.Discard())
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(NoGitFilter)
	require.NoError(t, fw.AddRecursive(dir))

	var (
		mu     sync.Mutex
		paths  []string
		called int
	)
	fw.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		called++
		for _, event := range events {
			paths = append(paths, event.Path)
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	target := filepath.Join(dir, "guide", "setup.md")
	require.NoError(t, os.WriteFile(target, []byte("# Setup\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return called > 0
	}, 3*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, paths, target)
	for _, p := range paths {
		assert.NotContains(t, p, ".git")
	}
}

func TestForSourceRequiresDirectory(t *testing.T) {
	_, err := ForSource(filepath.Join(t.TempDir(), "missing"), "_site", nil, logging.Discard())
	assert.Error(t, err)
}

func TestForSourceSkipsOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "_site")
	require.NoError(t, os.MkdirAll(output, 0o755))

	fw, err := ForSource(dir, output, []string{"drafts"}, logging.Discard())
	require.NoError(t, err)
	defer fw.Stop()

	assert.False(t, fw.accepts(filepath.Join(output, "index.html")))
	assert.False(t, fw.accepts(filepath.Join(dir, "drafts", "wip.md")))
	assert.True(t, fw.accepts(filepath.Join(dir, "index.md")))
}
