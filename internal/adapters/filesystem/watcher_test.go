package filesystem

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"icane/internal/logger"
)

func TestWatcherReportsPayloadChanges(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	changes := make(chan []string, 4)
	w.OnChange(func(files []string) { changes <- files })
	w.Start()
	t.Cleanup(func() { _ = w.Stop() })

	path := filepath.Join(root, "section.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ignored.txt"), []byte("x"), 0o644))

	select {
	case files := <-changes:
		assert.Equal(t, []string{path}, files)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherMissingRoot(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWatcherLogsUnwatchablePath(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Logger = prev })

	root := t.TempDir()
	w, err := NewWatcher(root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	gone := filepath.Join(root, "vanished")
	w.handle(fsnotify.Event{Name: gone, Op: fsnotify.Create})

	entries := logs.FilterMessage("Mirror watcher could not watch new path").All()
	require.Len(t, entries, 1)
	assert.Equal(t, gone, entries[0].ContextMap()[logger.FieldPath])
	assert.Contains(t, entries[0].ContextMap(), logger.FieldError)
}
