package style

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/doxybuild/internal/logfields"
)

// ExecCloner runs the git binary as a subprocess.
type ExecCloner struct {
	// Binary is the git executable; empty means "git" from PATH.
	Binary string
}

// Name identifies the backend in logs and errors.
func (c *ExecCloner) Name() string { return "git" }

// Clone runs `git clone --depth N [--branch ref] URL dir`.
func (c *ExecCloner) Clone(ctx context.Context, src Source, dir string) error {
	bin := c.Binary
	if bin == "" {
		bin = "git"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("git is required but not found: %w", err)
	}

	args := cloneArgs(src, dir)
	slog.Info("Running command", logfields.Executable(bin), slog.String("args", strings.Join(args, " ")))

	// #nosec G204 -- arguments come from the project configuration
	cmd := exec.CommandContext(ctx, bin, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return classifyCloneError(src.URL, &ExitError{Args: args, Code: exitErr.ExitCode(), Output: string(output)})
		}
		return fmt.Errorf("run git clone: %w", err)
	}
	return nil
}

func cloneArgs(src Source, dir string) []string {
	depth := src.Depth
	if depth <= 0 {
		depth = ShallowDepth
	}
	args := []string{"clone", "--depth", strconv.Itoa(depth)}
	if src.Ref != "" {
		args = append(args, "--branch", src.Ref)
	}
	return append(args, src.URL, dir)
}
