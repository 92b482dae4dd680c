package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxybuild/internal/config"
	"git.home.luguber.info/inful/doxybuild/internal/generator"
	"git.home.luguber.info/inful/doxybuild/internal/style"
)

func writeExecutable(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

// TestRun_WithSubprocesses drives the real subprocess backends against shell
// script stand-ins for git and the generator.
func TestRun_WithSubprocesses(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	bin := t.TempDir()
	git := writeExecutable(t, bin, "git", `for last; do :; done
mkdir -p "$last"
touch "$last/doxygen-awesome.css" "$last/doxygen-awesome-sidebar-only.css"
`)
	doxygen := writeExecutable(t, bin, "doxygen", `test -f "$1" || exit 3
grep -q '^OUTPUT_DIRECTORY *= ./docs/doxygen$' "$1" || exit 4
mkdir -p docs/doxygen/html
echo "<html></html>" > docs/doxygen/html/index.html
`)

	root := t.TempDir()
	cfg := config.Defaults()
	cfg.Style.CloneBackend = config.CloneBackendExec
	cfg.Generator.Executable = doxygen
	layout, err := cfg.Layout(root)
	require.NoError(t, err)

	var out bytes.Buffer
	p := New(cfg, layout,
		WithCloner(&style.ExecCloner{Binary: git}),
		WithRunner(&generator.BinaryRunner{Stdout: &out, Stderr: &out}),
		WithOutput(&out),
	)

	report, err := p.Run(context.Background())
	require.NoError(t, err, out.String())
	require.True(t, report.StyleCloned)
	require.FileExists(t, filepath.Join(layout.StyleDir, "doxygen-awesome.css"))
	require.FileExists(t, filepath.Join(layout.OutputDir, "html", "index.html"))
	require.NoFileExists(t, layout.ConfigFile)
	require.Equal(t, 0, report.GeneratorExitCode)
}

func TestRun_WithFailingGeneratorScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a POSIX shell")
	}
	doxygen := writeExecutable(t, t.TempDir(), "doxygen", "exit 2\n")

	root := t.TempDir()
	cfg := config.Defaults()
	cfg.Generator.Executable = doxygen
	layout, err := cfg.Layout(root)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(layout.StyleDir, 0o755))

	var out bytes.Buffer
	p := New(cfg, layout,
		WithRunner(&generator.BinaryRunner{Stdout: &out, Stderr: &out}),
		WithOutput(&out),
		WithVersionDetector(func(context.Context, string, string) string { return "" }),
	)

	report, err := p.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, 2, report.GeneratorExitCode)
	require.FileExists(t, layout.ConfigFile)
	require.Contains(t, out.String(), "Error: Command failed with code 2")
}
