package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doxybuild/internal/config"
)

// Global carries process-wide state into commands.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
	Stdout io.Writer
}

func (g *Global) context() context.Context {
	if g == nil || g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"doxybuild.yaml"`
	Root    string           `short:"r" help:"Project root (overrides the root in the configuration file)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" default:"withargs" help:"Generate the documentation (default command)"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	Render  RenderCmd  `cmd:"" help:"Print the generated generator configuration without building"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild the documentation whenever inputs change"`
	History HistoryCmd `cmd:"" help:"List recorded builds"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadProject loads the configuration, applies overrides and resolves the layout.
// The default configuration file is optional; an explicit one must exist.
func (c *CLI) LoadProject(override func(*config.Config)) (*config.Config, config.Layout, error) {
	optional := filepath.Clean(c.Config) == config.DefaultConfigFile
	cfg, err := config.Load(c.Config, optional)
	if err != nil {
		return nil, config.Layout{}, err
	}
	cfg.Root = ResolveRoot(c.Root, cfg)
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, config.Layout{}, err
	}
	layout, err := cfg.Layout(cfg.Root)
	if err != nil {
		return nil, config.Layout{}, err
	}
	slog.Debug("Project resolved",
		slog.String("root", layout.Root),
		slog.String("output", layout.OutputDir),
		slog.String("style", layout.StyleDir))
	return cfg, layout, nil
}

// ResolveRoot determines the project root.
// Priority: --root flag > config root (relative to the config file) > working directory.
func ResolveRoot(flagRoot string, cfg *config.Config) string {
	if flagRoot != "" {
		return flagRoot
	}
	if cfg.Root != "" {
		return cfg.Root
	}
	return "."
}
