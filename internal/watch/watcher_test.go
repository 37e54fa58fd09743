package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fetchlist/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, baseURL string) {
	t.Helper()
	data := "endpoint:\n  base_url: " + baseURL + "\n  resource: hiring.json\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestWatcherReloadsConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "http://first.test/")

	reloaded := make(chan *config.Config, 4)
	w, err := New(path, func(cfg *config.Config) { reloaded <- cfg }, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start(), "second start fails")

	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)

	// Other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0644))

	writeConfig(t, path, "http://second.test/")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "http://second.test/", cfg.Endpoint.BaseURL)
		u, err := cfg.ListURL()
		require.NoError(t, err)
		assert.Equal(t, "http://second.test/hiring.json", u)
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for reload")
	}
}

func TestWatcherInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "http://first.test/")

	reloaded := make(chan *config.Config, 4)
	failed := make(chan error, 4)
	w, err := New(path,
		func(cfg *config.Config) { reloaded <- cfg },
		WithDebounce(50*time.Millisecond),
		WithErrorHandler(func(err error) { failed <- err }),
	)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	writeConfig(t, path, "ftp://nope.test/")

	select {
	case err := <-failed:
		assert.Contains(t, err.Error(), "invalid configuration")
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for load failure")
	}
	assert.Empty(t, reloaded)
}

func TestWatcherStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	w, err := New(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())

	require.NoError(t, w.Start())
	w.Stop()
	assert.False(t, w.IsRunning())
	w.Stop()
}

func TestWatcherMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.yaml")
	w, err := New(path, nil)
	require.NoError(t, err)
	assert.Error(t, w.Start())
	assert.False(t, w.IsRunning())

	// The failed start released the fsnotify watcher
	assert.True(t, w.closed)
	assert.Error(t, w.fsWatcher.Add(t.TempDir()))

	err = w.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watcher closed")
	w.Stop()
}
