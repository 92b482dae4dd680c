package generator

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
)

var versionPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// DetectVersion runs `<executable> --version` in dir and returns the semantic
// version, or an empty string when the binary is unavailable or the output
// cannot be parsed.
func DetectVersion(ctx context.Context, executable, dir string) string {
	path, err := ResolveExecutable(executable, dir)
	if err != nil {
		return ""
	}

	// #nosec G204 -- path is from exec.LookPath
	cmd := exec.CommandContext(ctx, path, "--version")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return parseVersion(string(output))
}

// parseVersion extracts the numeric version, e.g. "1.9.8" from
// "1.9.8 (c2d2c9c2a3d1fe3f0f8bbd3dd1b6ec8edf5bdc28)".
func parseVersion(output string) string {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(output))
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
