package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRelevant(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tree", "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tree", ".git"), 0o755))
	single := filepath.Join(dir, "single.yaml")
	require.NoError(t, os.WriteFile(single, nil, 0o644))

	w, err := newWatcher([]string{filepath.Join(dir, "tree"), single}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer w.Close()

	assert.ElementsMatch(t, []string{dir, filepath.Join(dir, "tree"), filepath.Join(dir, "tree", "sub")}, w.fs.WatchList())
	tests := []struct {
		path string
		want bool
	}{
		{single, true},
		{filepath.Join(dir, "other.yaml"), false},
		{filepath.Join(dir, "tree", "a.yaml"), true},
		{filepath.Join(dir, "tree", "sub", "b.graphql"), true},
		{filepath.Join(dir, "tree", "notes.txt"), false},
		{filepath.Join(dir, "tree", ".a.yaml"), false},
		{filepath.Join(dir, "tree", "a.yaml.swp"), false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(fsnotify.Event{Name: tt.path, Op: fsnotify.Write}))
		})
	}

	_, err = newWatcher([]string{filepath.Join(dir, "missing")}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestWatcherRun(t *testing.T) {
	dir := t.TempDir()
	w, err := newWatcher([]string{dir}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer w.Close()
	w.delay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	runs := make(chan struct{}, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx, func(context.Context) { runs <- struct{}{} })
	}()

	wait := func(t *testing.T) {
		t.Helper()
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatal("no run after a schema change")
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("entities: []\n"), 0o644))
	wait(t)

	// Files in new directories are picked up.
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool {
		for _, p := range w.fs.WatchList() {
			if p == sub {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	for len(runs) > 0 {
		<-runs
	}
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.json"), []byte("{}"), 0o644))
	wait(t)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
