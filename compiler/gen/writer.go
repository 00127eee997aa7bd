package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer writes generated units under an output directory with parallel
// execution. Files whose content did not change are left untouched.
type Writer struct {
	outDir  string
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks writing performance.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	TotalBytes     int64
	FormatTime     int64 // nanoseconds
	WriteTime      int64 // nanoseconds
}

// NewWriter creates a writer rooted at outDir.
func NewWriter(outDir string) *Writer {
	return &Writer{
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the writing metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// Write writes all units in parallel. It stops at the first error.
func (w *Writer) Write(ctx context.Context, units []*GeneratedUnit) error {
	if w.outDir == "" {
		return NewConfigError("Target", nil, "missing target directory")
	}
	// Ensure output directory exists
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, u := range units {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeUnit(u)
			}
		})
	}
	return eg.Wait()
}

// FilePath returns the file path of a unit under the output directory.
// Absolute paths and paths escaping the directory are rejected.
func (w *Writer) FilePath(u *GeneratedUnit) (string, error) {
	clean := path.Clean(u.Path)
	switch {
	case u.Path == "" || clean == ".":
		return "", fmt.Errorf("unit %s has an empty path", u.Entity)
	case path.IsAbs(clean) || filepath.IsAbs(u.Path):
		return "", fmt.Errorf("unit %s has an absolute path %q", u.Entity, u.Path)
	case clean == ".." || strings.HasPrefix(clean, "../"):
		return "", fmt.Errorf("unit %s path %q escapes the output directory", u.Entity, u.Path)
	}
	return filepath.Join(w.outDir, filepath.FromSlash(clean)), nil
}

// writeUnit writes a single unit.
func (w *Writer) writeUnit(u *GeneratedUnit) error {
	// 1. Resolve path
	fullPath, err := w.FilePath(u)
	if err != nil {
		return err
	}
	content := []byte(u.Source)

	// 2. Format Go sources using goimports
	if strings.HasSuffix(fullPath, ".go") {
		start := time.Now()
		formatted, err := imports.Process(fullPath, content, nil)
		if err != nil {
			return fmt.Errorf("format %s: %w", u.Path, err)
		}
		content = formatted
		w.record(func(m *WriterMetrics) { m.FormatTime += int64(time.Since(start)) })
	}

	// 3. Skip unchanged files
	if prev, err := os.ReadFile(fullPath); err == nil && bytes.Equal(prev, content) {
		w.record(func(m *WriterMetrics) { m.FilesUnchanged++ })
		return nil
	}

	// 4. Ensure directory exists
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", u.Path, err)
	}

	// 5. Write file
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", u.Path, err)
	}

	// Update metrics
	w.record(func(m *WriterMetrics) {
		m.FilesWritten++
		m.TotalBytes += int64(len(content))
		m.WriteTime += int64(time.Since(start))
	})
	return nil
}

func (w *Writer) record(fn func(*WriterMetrics)) {
	w.mu.Lock()
	fn(w.metrics)
	w.mu.Unlock()
}
