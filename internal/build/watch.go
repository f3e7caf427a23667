package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before watch mode rebuilds.
const DefaultDebounce = 300 * time.Millisecond

// Watch builds once and then rebuilds whenever a source file under
// opts.BaseDir changes, until ctx is cancelled. Each report is written to
// out. Build errors are logged and do not stop watching.
func Watch(ctx context.Context, opts Options, out io.Writer) error {
	opts.setDefaults()
	log := opts.Log

	f, err := newFilter(opts.Include, opts.Exclude)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(opts.BaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", opts.BaseDir, err)
	}
	outDir, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", opts.OutDir, err)
	}

	w := &watcher{root: root, outDir: outDir, filter: f, opts: opts}
	w.fw, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.fw.Close()

	w.rebuild(ctx, out)
	if err := w.addRecursive(root); err != nil {
		return err
	}
	log.Info("watching for changes", "basedir", opts.BaseDir, "debounce", opts.Debounce)

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info("stopped watching")
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				timer = time.After(opts.Debounce)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)

		case <-timer:
			timer = nil
			w.rebuild(ctx, out)
		}
	}
}

type watcher struct {
	fw     *fsnotify.Watcher
	root   string
	outDir string
	filter *filter
	opts   Options
}

// addRecursive watches dir and every directory below it that is not pruned.
func (w *watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != w.root && (w.filter.skipDir(info.Name()) || path == w.outDir) {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			w.opts.Log.Warn("cannot watch directory", "path", path, "error", err)
			return nil
		}
		w.opts.Log.Debug("watching", "path", path)
		return nil
	})
}

// handle reacts to one event and reports whether a rebuild is needed.
func (w *watcher) handle(event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || rel == "." {
		return false
	}
	if isWithin(w.outDir, event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.filter.prunedDir(rel) {
				if err := w.addRecursive(event.Name); err != nil {
					w.opts.Log.Warn("cannot watch new directory", "path", event.Name, "error", err)
				}
			}
			return false
		}
	}

	if !w.filter.keepPath(rel) {
		return false
	}
	w.opts.Log.Debug("source changed", "path", rel, "op", event.Op.String())
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *watcher) rebuild(ctx context.Context, out io.Writer) {
	report, err := Run(ctx, w.opts)
	switch {
	case errors.Is(err, context.Canceled):
		return
	case errors.Is(err, ErrStale):
		FormatReport(out, report)
		FormatStale(out, report.Stale)
	case err != nil:
		w.opts.Log.Error("build failed", "error", err)
	default:
		FormatReport(out, report)
	}
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
