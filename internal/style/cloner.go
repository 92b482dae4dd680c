package style

import (
	"context"
	"log/slog"
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuild/internal/logfields"
)

// ShallowDepth is the history depth fetched for the style repository.
const ShallowDepth = 1

// Source identifies the upstream style repository.
type Source struct {
	URL   string
	Ref   string // branch or tag; empty selects the remote HEAD
	Depth int
}

// Cloner fetches src into dir. dir does not exist when Clone is called.
type Cloner interface {
	Clone(ctx context.Context, src Source, dir string) error
	Name() string
}

// Ensure clones src into dir unless dir already exists. It reports whether a clone happened.
func Ensure(ctx context.Context, cloner Cloner, src Source, dir string) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		slog.Info("Style folder already exists, skipping clone", logfields.Path(dir))
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to inspect style directory").
			Fatal().
			WithContext("path", dir).
			Build()
	}

	if src.Depth <= 0 {
		src.Depth = ShallowDepth
	}
	slog.Info("Style folder not found, cloning",
		logfields.URL(src.URL),
		logfields.Ref(src.Ref),
		logfields.Path(dir),
		logfields.Backend(cloner.Name()))

	t0 := time.Now()
	if err := cloner.Clone(ctx, src, dir); err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryGit, "failed to clone style repository").
			WithCategory(cloneCategory(err)).
			Fatal().
			WithContext("url", src.URL).
			WithContext("path", dir).
			WithContext("backend", cloner.Name()).
			Build()
	}
	slog.Info("Style repository cloned", logfields.Path(dir), logfields.Duration(time.Since(t0)))
	return true, nil
}
