package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 20 * time.Millisecond

// startWatch runs Run in the background and returns the change channel.
func startWatch(t *testing.T, dir string) <-chan struct{} {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, dir, func() { changes <- struct{}{} }, Options{Debounce: testDebounce})
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return changes
}

// touchUntilChange rewrites path until a change is reported. The watcher
// may not be registered yet when the first write happens.
func touchUntilChange(t *testing.T, changes <-chan struct{}, path string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, os.WriteFile(path, []byte("- [ ] task\n"), 0o644))
		select {
		case <-changes:
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatalf("no change reported for %s", path)
		}
	}
}

func drain(changes <-chan struct{}) {
	for {
		select {
		case <-changes:
		case <-time.After(5 * testDebounce):
			return
		}
	}
}

func TestRunReportsMarkdownChanges(t *testing.T) {
	dir := t.TempDir()
	changes := startWatch(t, dir)

	touchUntilChange(t, changes, filepath.Join(dir, "todo.md"))
	drain(changes)

	require.NoError(t, os.Remove(filepath.Join(dir, "todo.md")))
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for removal")
	}
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	changes := startWatch(t, dir)
	touchUntilChange(t, changes, filepath.Join(dir, "todo.md"))
	drain(changes)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-changes:
		t.Fatal("change reported for a non-markdown file")
	case <-time.After(10 * testDebounce):
	}
}

func TestRunDebounces(t *testing.T) {
	dir := t.TempDir()
	changes := startWatch(t, dir)
	path := filepath.Join(dir, "todo.md")
	touchUntilChange(t, changes, path)
	drain(changes)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("- [ ] again\n"), 0o644))
	}
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case <-changes:
		t.Fatal("burst produced more than one change")
	case <-time.After(10 * testDebounce):
	}
}

func TestRunWatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	changes := startWatch(t, dir)
	touchUntilChange(t, changes, filepath.Join(dir, "todo.md"))
	drain(changes)

	sub := filepath.Join(dir, "projects")
	require.NoError(t, os.Mkdir(sub, 0o755))
	drain(changes)
	touchUntilChange(t, changes, filepath.Join(sub, "work.md"))
}

func TestRunMissingDirectory(t *testing.T) {
	err := Run(context.Background(), filepath.Join(t.TempDir(), "missing"), func() {}, Options{})
	require.Error(t, err)
}

func TestHidden(t *testing.T) {
	assert.True(t, hidden("/tmp/x/.git"))
	assert.False(t, hidden("."))
	assert.False(t, hidden(".."))
	assert.False(t, hidden("/tmp/x/notes"))
}
