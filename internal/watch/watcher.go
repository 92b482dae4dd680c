// Package watch triggers full rebuilds when project inputs change.
package watch

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

	"git.home.luguber.info/inful/doxybuild/internal/logfields"
)

// DefaultDebounce coalesces bursts of editor writes into one rebuild.
const DefaultDebounce = 2 * time.Second

// RebuildFunc runs one complete build. Errors are logged; watching continues.
type RebuildFunc func(ctx context.Context) error

// Watcher monitors input directories and runs rebuilds one at a time.
type Watcher struct {
	dirs     []string
	ignore   []string // path prefixes whose events are dropped
	ignored  map[string]struct{}
	debounce time.Duration
	rebuild  RebuildFunc
	fsw      *fsnotify.Watcher
}

// Options configures a Watcher.
type Options struct {
	// Dirs are the directories watched recursively. Missing ones are skipped.
	Dirs []string
	// IgnoreDirs are trees the build itself writes to (output, style).
	IgnoreDirs []string
	// IgnoreFiles are individual files written by the build (transient config, report, history).
	IgnoreFiles []string
	Debounce    time.Duration
}

// New creates a watcher. At least one of opts.Dirs must exist.
func New(opts Options, rebuild RebuildFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		debounce: opts.Debounce,
		rebuild:  rebuild,
		fsw:      fsw,
		ignored:  make(map[string]struct{}, len(opts.IgnoreFiles)),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	for _, d := range opts.IgnoreDirs {
		w.ignore = append(w.ignore, filepath.Clean(d))
	}
	for _, f := range opts.IgnoreFiles {
		if f != "" {
			w.ignored[filepath.Clean(f)] = struct{}{}
		}
	}

	for _, dir := range opts.Dirs {
		if _, err := os.Stat(dir); err != nil {
			slog.Warn("Skipping missing watch directory", logfields.Path(dir))
			continue
		}
		if err := w.addRecursive(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
		w.dirs = append(w.dirs, dir)
	}
	if len(w.dirs) == 0 {
		_ = fsw.Close()
		return nil, fmt.Errorf("no input directories to watch")
	}
	return w, nil
}

// Dirs returns the watched root directories.
func (w *Watcher) Dirs() []string { return append([]string(nil), w.dirs...) }

// Close releases the underlying watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }

// Run blocks until ctx is done, running a rebuild after each debounced burst of
// relevant changes. Rebuilds never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Input change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))

		case <-fire:
			fire = nil
			slog.Info("Inputs changed, rebuilding documentation")
			if err := w.rebuild(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// relevant filters out attribute-only changes and paths written by the build.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if _, ok := w.ignored[name]; ok {
		return false
	}
	base := filepath.Base(name)
	for f := range w.ignored {
		// Temporary siblings written before an atomic rename.
		if filepath.Dir(f) == filepath.Dir(name) && strings.HasPrefix(base, "."+filepath.Base(f)+".") {
			return false
		}
		if strings.HasPrefix(name, f+".") && strings.HasSuffix(name, ".tmp") {
			return false
		}
	}
	for _, dir := range w.ignore {
		if name == dir || strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return false
		}
	}
	return true
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		for _, ig := range w.ignore {
			if filepath.Clean(path) == ig {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
