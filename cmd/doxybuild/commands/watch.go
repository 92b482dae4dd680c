package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/doxybuild/internal/logfields"
	"git.home.luguber.info/inful/doxybuild/internal/watch"
)

// WatchCmd implements the 'watch' command: an initial build, then a full
// rebuild after each debounced batch of input changes.
type WatchCmd struct {
	BuildCmd `embed:""`
	Debounce time.Duration `help:"Quiet period before a rebuild starts" default:"2s"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, layout, err := root.LoadProject(w.override)
	if err != nil {
		return err
	}

	session, err := newBuildSession(cfg, layout, g.stdout())
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	ctx := g.context()
	rebuild := func(ctx context.Context) error {
		_, err := session.run(ctx)
		return err
	}
	if err := rebuild(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		slog.Warn("Initial build failed; watching for changes", logfields.Error(err))
	}

	dirs := make([]string, 0, len(cfg.Input.Directories))
	for _, d := range cfg.Input.Directories {
		dirs = append(dirs, layout.ResolveArtifact(d))
	}

	ignoreFiles := append([]string{layout.ConfigFile}, session.artifacts()...)
	if root.Config != "" {
		if abs, err := filepath.Abs(root.Config); err == nil {
			ignoreFiles = append(ignoreFiles, abs)
		}
	}

	watcher, err := watch.New(watch.Options{
		Dirs:        dirs,
		IgnoreDirs:  []string{layout.OutputDir, layout.StyleDir},
		IgnoreFiles: ignoreFiles,
		Debounce:    w.Debounce,
	}, rebuild)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	_, _ = fmt.Fprintf(g.stdout(), "Watching %d directories for changes (Ctrl+C to stop)\n", len(watcher.Dirs()))
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
