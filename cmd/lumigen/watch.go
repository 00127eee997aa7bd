package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/luminiadev/lumigen/compiler/load"
)

// debounce is the quiet period after the last change before a run starts.
// Editors often save a file in several operations.
const debounce = 150 * time.Millisecond

// watcher reports changes of schema files. Directories are watched
// recursively. For a file, its directory is watched, since many editors
// replace files instead of writing them in place.
type watcher struct {
	fs    *fsnotify.Watcher
	files map[string]bool // files named explicitly
	dirs  map[string]bool // directories watched recursively
	delay time.Duration
	log   *slog.Logger
}

func newWatcher(paths []string, log *slog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &watcher{fs: fw, files: make(map[string]bool), dirs: make(map[string]bool), delay: debounce, log: log}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: %w", err)
		}
		if fi.IsDir() {
			err = w.addTree(p)
		} else {
			w.files[filepath.Clean(p)] = true
			err = fw.Add(filepath.Dir(p))
		}
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
	}
	return w, nil
}

// addTree watches root and its non-hidden subdirectories.
func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return err
		}
		w.dirs[filepath.Clean(path)] = true
		return nil
	})
}

// Close stops watching.
func (w *watcher) Close() error {
	return w.fs.Close()
}

// relevant reports whether the event touches a schema file.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	name := filepath.Clean(ev.Name)
	if w.files[name] {
		return true
	}
	if !w.dirs[filepath.Dir(name)] || strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	_, err := load.FormatOf(name)
	return err == nil
}

// Run calls fn after every burst of schema changes until ctx is done.
func (w *watcher) Run(ctx context.Context, fn func(context.Context)) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) && w.dirs[filepath.Dir(filepath.Clean(ev.Name))] {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !strings.HasPrefix(fi.Name(), ".") {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Warn("watch directory", "path", ev.Name, "error", err)
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("schema changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			fn(ctx)
		}
	}
}
