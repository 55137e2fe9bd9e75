package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glance/internal/pubsub"
	"github.com/zjrosen/glance/internal/watcher"
)

func startWatcher(t *testing.T, path string) <-chan pubsub.Event[watcher.WatcherEvent] {
	t.Helper()
	w, err := watcher.New(watcher.Config{Path: path, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	onChange := w.Broker().Subscribe(t.Context())
	require.NoError(t, w.Start())
	return onChange
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))

	onChange := startWatcher(t, path)

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("test%d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ev := <-onChange:
		require.Equal(t, watcher.FileChanged, ev.Payload.Type)
		require.Equal(t, path, ev.Payload.Path)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))

	onChange := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0o644))

	select {
	case <-onChange:
		t.Fatal("unexpected notification for sibling file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_SeesReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	onChange := startWatcher(t, path)

	tmp := filepath.Join(dir, ".notes.md.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("v2"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification after rename over the file")
	}
}

func TestWatcher_RelativePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("notes.md", []byte("v1"), 0o644))

	onChange := startWatcher(t, "notes.md")
	require.NoError(t, os.WriteFile("notes.md", []byte("v2"), 0o644))

	select {
	case <-onChange:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for relative path")
	}
}

func TestWatcher_Stop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("test"), 0o644))

	w, err := watcher.New(watcher.DefaultConfig(path))
	require.NoError(t, err)
	events := w.Broker().Subscribe(t.Context())
	require.NoError(t, w.Start())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "second stop is a no-op")

	_, open := <-events
	require.False(t, open, "stop closes subscriptions")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := watcher.New(watcher.DefaultConfig(filepath.Join(t.TempDir(), "gone", "notes.md")))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	err = w.Start()
	require.Error(t, err)
	require.Contains(t, err.Error(), "watching directory")
}

func TestWatcher_PathIsAbsolute(t *testing.T) {
	t.Chdir(t.TempDir())
	w, err := watcher.New(watcher.DefaultConfig("notes.md"))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	require.True(t, filepath.IsAbs(w.Path()))
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/tmp/notes.md")
	require.Equal(t, "/tmp/notes.md", cfg.Path)
	require.Equal(t, 250*time.Millisecond, cfg.DebounceDur)
}
