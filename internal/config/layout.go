package config

import (
	"fmt"
	"path/filepath"
)

// Layout holds every filesystem location a build touches. All paths are absolute and
// derived from Root only, so nothing depends on the process working directory.
type Layout struct {
	Root       string
	OutputDir  string
	StyleDir   string
	ConfigFile string
}

// Layout resolves the build locations for root (absolute or relative to the working directory).
func (c *Config) Layout(root string) (Layout, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve project root: %w", err)
	}
	return Layout{
		Root:       abs,
		OutputDir:  c.resolve(abs, c.Output.Directory),
		StyleDir:   c.resolve(abs, c.Style.Directory),
		ConfigFile: filepath.Join(abs, c.Generator.ConfigFile),
	}, nil
}

// Rel returns p relative to the root in the "./a/b" form the generator configuration uses.
func (l Layout) Rel(p string) string {
	rel, err := filepath.Rel(l.Root, p)
	if err != nil || rel == "." {
		return "."
	}
	return "./" + filepath.ToSlash(rel)
}

// ResolveArtifact resolves an optional build artifact path against the root; empty stays empty.
func (l Layout) ResolveArtifact(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.Root, p)
}

// ProjectName returns the configured name or, when unset, the root directory name.
func (c *Config) ProjectName(l Layout) string {
	if c.Project.Name != "" {
		return c.Project.Name
	}
	return filepath.Base(l.Root)
}

func (c *Config) resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
