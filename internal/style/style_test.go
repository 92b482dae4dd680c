package style

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
)

// fakeCloner records calls and optionally creates the target directory.
type fakeCloner struct {
	calls   int
	lastSrc Source
	err     error
}

func (f *fakeCloner) Name() string { return "fake" }

func (f *fakeCloner) Clone(_ context.Context, src Source, dir string) error {
	f.calls++
	f.lastSrc = src
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "doxygen-awesome.css"), []byte("/* css */"), 0o644)
}

func TestEnsure_ExistingDirectorySkipsClone(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "style")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	cloner := &fakeCloner{}

	cloned, err := Ensure(context.Background(), cloner, Source{URL: "https://example.invalid/style.git"}, dir)
	require.NoError(t, err)
	require.False(t, cloned)
	require.Zero(t, cloner.calls, "clone must not run when the directory exists")
}

func TestEnsure_EmptyExistingDirectoryIsStillPresent(t *testing.T) {
	// A partially cloned or stale directory is accepted as-is.
	dir := t.TempDir()
	cloner := &fakeCloner{}
	cloned, err := Ensure(context.Background(), cloner, Source{URL: "u"}, dir)
	require.NoError(t, err)
	require.False(t, cloned)
	require.Zero(t, cloner.calls)
}

func TestEnsure_MissingDirectoryIsCloned(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs", "doxygen", "style")
	require.NoError(t, os.MkdirAll(filepath.Dir(dir), 0o755))
	cloner := &fakeCloner{}

	cloned, err := Ensure(context.Background(), cloner, Source{URL: "https://example.invalid/style.git"}, dir)
	require.NoError(t, err)
	require.True(t, cloned)
	require.Equal(t, 1, cloner.calls)
	require.Equal(t, ShallowDepth, cloner.lastSrc.Depth)
	require.FileExists(t, filepath.Join(dir, "doxygen-awesome.css"))
}

func TestEnsure_CloneFailureIsClassified(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "style")
	netErr := errors.New("dial tcp: lookup github.com: no such host")
	cloner := &fakeCloner{err: netErr}

	cloned, err := Ensure(context.Background(), cloner, Source{URL: "https://github.com/x/y.git"}, dir)
	require.Error(t, err)
	require.False(t, cloned)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryGit))
	require.ErrorIs(t, err, netErr)

	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	url, _ := classified.Context().GetString("url")
	require.Equal(t, "https://github.com/x/y.git", url)
}

func TestEnsure_TypedCloneErrorsSetExitCode(t *testing.T) {
	tests := []struct {
		msg      string
		category ferrors.ErrorCategory
		exitCode int
	}{
		{"authentication required", ferrors.CategoryAuth, 5},
		{"repository not found", ferrors.CategoryNotFound, 8},
		{"dial tcp: lookup github.com: no such host", ferrors.CategoryNetwork, 8},
		{"object missing", ferrors.CategoryGit, 8},
	}
	adapter := ferrors.NewCLIErrorAdapter(false, nil)
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			url := "https://github.com/x/y.git"
			cloner := &fakeCloner{err: classifyCloneError(url, errors.New(tt.msg))}

			_, err := Ensure(context.Background(), cloner, Source{URL: url}, filepath.Join(t.TempDir(), "style"))
			require.Error(t, err)
			require.True(t, ferrors.HasCategory(err, tt.category))
			require.Equal(t, tt.exitCode, adapter.ExitCodeFor(err))
		})
	}
}

func TestEnsure_UninspectablePathFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("ENOTDIR semantics differ on windows")
	}
	file := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.WriteFile(file, []byte("not a dir"), 0o644))
	cloner := &fakeCloner{}

	_, err := Ensure(context.Background(), cloner, Source{URL: "u"}, filepath.Join(file, "style"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	require.Zero(t, cloner.calls)
}

func TestClassifyCloneError(t *testing.T) {
	tests := []struct {
		msg    string
		target any
	}{
		{"authentication required", new(*AuthError)},
		{"repository not found", new(*NotFoundError)},
		{"dial tcp: i/o timeout", new(*NetworkError)},
		{"dial tcp 127.0.0.1:443: connect: connection refused", new(*NetworkError)},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := classifyCloneError("https://example.invalid/x.git", errors.New(tt.msg))
			require.ErrorAs(t, err, tt.target)
		})
	}

	plain := classifyCloneError("u", errors.New("object missing"))
	require.Contains(t, plain.Error(), "failed to clone repository u")
}
