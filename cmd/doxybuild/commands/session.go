package commands

import (
	"context"
	"io"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doxybuild/internal/config"
	"git.home.luguber.info/inful/doxybuild/internal/eventstore"
	"git.home.luguber.info/inful/doxybuild/internal/generator"
	"git.home.luguber.info/inful/doxybuild/internal/logfields"
	"git.home.luguber.info/inful/doxybuild/internal/metrics"
	"git.home.luguber.info/inful/doxybuild/internal/pipeline"
)

// buildSession wires the pipeline to its optional artifacts: report file,
// metrics textfile and history database. One session serves every build of a
// watch loop so metrics and history accumulate.
type buildSession struct {
	cfg         *config.Config
	layout      config.Layout
	out         io.Writer
	registry    *prom.Registry
	recorder    *metrics.PrometheusRecorder
	store       *eventstore.SQLiteStore
	reportPath  string
	metricsPath string
}

func newBuildSession(cfg *config.Config, layout config.Layout, out io.Writer) (*buildSession, error) {
	s := &buildSession{
		cfg:         cfg,
		layout:      layout,
		out:         out,
		reportPath:  layout.ResolveArtifact(cfg.Build.ReportFile),
		metricsPath: layout.ResolveArtifact(cfg.Build.MetricsFile),
	}
	if s.metricsPath != "" {
		s.registry = prom.NewRegistry()
		s.recorder = metrics.NewPrometheusRecorder(s.registry)
	}
	if dbPath := layout.ResolveArtifact(cfg.Build.HistoryDB); dbPath != "" {
		store, err := eventstore.NewSQLiteStore(dbPath)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	return s, nil
}

// artifacts lists files the session writes, so a watcher can ignore them.
func (s *buildSession) artifacts() []string {
	files := []string{s.reportPath, s.metricsPath}
	if db := s.layout.ResolveArtifact(s.cfg.Build.HistoryDB); db != "" {
		files = append(files, db, db+"-journal", db+"-wal", db+"-shm")
	}
	return files
}

func (s *buildSession) run(ctx context.Context) (*pipeline.BuildReport, error) {
	opts := []pipeline.Option{
		pipeline.WithOutput(s.out),
		pipeline.WithRunner(&generator.BinaryRunner{Stdout: s.out}),
	}
	if s.recorder != nil {
		opts = append(opts, pipeline.WithRecorder(s.recorder))
	}
	if s.store != nil {
		opts = append(opts, pipeline.WithObserver(eventstore.NewBuildRecorder(s.store)))
	}

	report, err := pipeline.New(s.cfg, s.layout, opts...).Run(ctx)
	s.persist(report)
	return report, err
}

// persist writes the report and metrics. Failures are warnings: the build
// outcome is already decided.
func (s *buildSession) persist(report *pipeline.BuildReport) {
	if s.reportPath != "" {
		if err := report.Persist(s.reportPath); err != nil {
			slog.Warn("Failed to write build report", logfields.Path(s.reportPath), logfields.Error(err))
		} else {
			slog.Debug("Build report written", logfields.Path(s.reportPath))
		}
	}
	if s.registry != nil {
		if err := metrics.WriteTextfile(s.registry, s.metricsPath); err != nil {
			slog.Warn("Failed to write metrics", logfields.Path(s.metricsPath), logfields.Error(err))
		}
	}
	slog.Info(report.Summary())
}

func (s *buildSession) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
