package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, opts Options) *atomic.Int32 {
	t.Helper()
	var fired atomic.Int32
	w, err := New(opts, func(context.Context, Batch) { fired.Add(1) })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	// Give Run time to register the tree.
	time.Sleep(100 * time.Millisecond)
	return &fired
}

func TestWatcher_MarkdownChangesTrigger(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "guide"), 0o755))

	fired := startWatcher(t, Options{Root: root, Debounce: 20 * time.Millisecond})

	require.NoError(t, os.WriteFile(filepath.Join(root, "guide", "setup.md"), []byte("# s\n"), 0o644))
	require.Eventually(t, func() bool { return fired.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	root := t.TempDir()
	fired := startWatcher(t, Options{Root: root, Debounce: 20 * time.Millisecond})

	require.NoError(t, os.MkdirAll(filepath.Join(root, "api"), 0o755))
	require.Eventually(t, func() bool { return fired.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
	before := fired.Load()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "api", "index.md"), []byte("# api\n"), 0o644))
	require.Eventually(t, func() bool { return fired.Load() > before }, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoredChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".vitepress", "generated"), 0o755))
	output := filepath.Join(root, "site.md")

	fired := startWatcher(t, Options{
		Root:     root,
		Exclude:  []string{".*"},
		Ignore:   []string{output},
		Debounce: 20 * time.Millisecond,
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, ".vitepress", "generated", "x.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "image.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(output, []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestWatcher_MissingRoot(t *testing.T) {
	w, err := New(Options{Root: filepath.Join(t.TempDir(), "missing")}, func(context.Context, Batch) {})
	require.NoError(t, err)
	require.Error(t, w.Run(context.Background()))
}
