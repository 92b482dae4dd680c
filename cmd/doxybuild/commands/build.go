package commands

import (
	"git.home.luguber.info/inful/doxybuild/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Report       string `help:"Write the JSON build report to this path" type:"path"`
	MetricsFile  string `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path" type:"path"`
	HistoryDB    string `name:"history-db" help:"Record build events in this SQLite database" type:"path"`
	CloneBackend string `name:"clone-backend" help:"Style clone backend (go-git or git)"`
	Generator    string `help:"Generator executable (defaults to the configured one)"`
}

func (b *BuildCmd) override(cfg *config.Config) {
	if b.Report != "" {
		cfg.Build.ReportFile = b.Report
	}
	if b.MetricsFile != "" {
		cfg.Build.MetricsFile = b.MetricsFile
	}
	if b.HistoryDB != "" {
		cfg.Build.HistoryDB = b.HistoryDB
	}
	if b.CloneBackend != "" {
		cfg.Style.CloneBackend = config.NormalizeCloneBackend(b.CloneBackend)
	}
	if b.Generator != "" {
		cfg.Generator.Executable = b.Generator
	}
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, layout, err := root.LoadProject(b.override)
	if err != nil {
		return err
	}

	session, err := newBuildSession(cfg, layout, g.stdout())
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	_, err = session.run(g.context())
	return err
}
