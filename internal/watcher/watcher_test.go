package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/mergefield/internal/watcher"
)

func startWatcher(t *testing.T, files ...string) <-chan struct{} {
	t.Helper()
	w, err := watcher.New(watcher.Config{Files: files, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ch, err := w.Start()
	require.NoError(t, err)
	return ch
}

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("placeholders: []"), 0o644))
	onChange := startWatcher(t, path)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("# %d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(time.Second):
		t.Fatal("expected notification")
	}

	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	onChange := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-onChange:
		t.Fatal("unexpected notification for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_AtomicSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	onChange := startWatcher(t, path)

	tmp := filepath.Join(dir, ".catalog.yaml.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("placeholders: []"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-onChange:
	case <-time.After(time.Second):
		t.Fatal("expected notification after rename")
	}
}

func TestWatcher_WaitCmd(t *testing.T) {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	require.Equal(t, watcher.ChangedMsg{}, watcher.WaitCmd(ch)())

	close(ch)
	require.Nil(t, watcher.WaitCmd(ch)())
}

func TestNew_RequiresFiles(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("a.yaml")
	require.Equal(t, []string{"a.yaml"}, cfg.Files)
	require.Equal(t, 250*time.Millisecond, cfg.DebounceDur)
}
