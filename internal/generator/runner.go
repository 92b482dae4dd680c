// Package generator invokes the external documentation generator.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/doxybuild/internal/logfields"
)

// Invocation describes a single generator run.
type Invocation struct {
	Executable string
	// ConfigFile is passed as the sole argument, relative to Dir.
	ConfigFile string
	// Dir is the working directory of the process.
	Dir string
}

// Runner abstracts how the generator is executed so orchestration can be
// tested without the real binary.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// BinaryRunner executes the generator as a child process and waits for it.
type BinaryRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts `<executable> <config>` in inv.Dir. Output streams straight
// through to the configured writers.
func (r *BinaryRunner) Run(ctx context.Context, inv Invocation) error {
	path, err := ResolveExecutable(inv.Executable, inv.Dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutableNotFound, err)
	}

	// #nosec G204 -- executable and config file come from the project configuration
	cmd := exec.CommandContext(ctx, path, inv.ConfigFile)
	cmd.Dir = inv.Dir
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	slog.Debug("Invoking generator",
		logfields.Executable(path),
		logfields.Path(inv.Dir),
		slog.String("config", inv.ConfigFile))

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Executable: inv.Executable, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	return nil
}

// ResolveExecutable locates exe. A bare name is searched in PATH; a relative
// path such as "./tools/doxygen" is taken relative to dir, not the process
// working directory.
func ResolveExecutable(exe, dir string) (string, error) {
	if dir != "" && !filepath.IsAbs(exe) && strings.ContainsAny(exe, `/\`) {
		exe = filepath.Join(dir, exe)
	}
	return exec.LookPath(exe)
}
