package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/doxybuild/internal/config"
	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
	"git.home.luguber.info/inful/doxybuild/internal/generator"
	"git.home.luguber.info/inful/doxybuild/internal/logfields"
	"git.home.luguber.info/inful/doxybuild/internal/metrics"
	"git.home.luguber.info/inful/doxybuild/internal/style"
)

// Pipeline runs documentation builds for one project layout. It is not safe
// for concurrent use; at most one build may run against a root at a time.
type Pipeline struct {
	cfg      *config.Config
	layout   config.Layout
	cloner   style.Cloner
	runner   generator.Runner
	recorder metrics.Recorder
	observer observers
	out      io.Writer
	remove   func(string) error
	version  func(ctx context.Context, executable, dir string) string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithCloner overrides the style cloner selected from the configuration.
func WithCloner(c style.Cloner) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.cloner = c
		}
	}
}

// WithRunner overrides the generator runner.
func WithRunner(r generator.Runner) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.runner = r
		}
	}
}

// WithRecorder enables metrics collection.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithObserver registers an additional build observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = append(p.observer, o)
		}
	}
}

// WithOutput sets where console progress lines are written.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		if w != nil {
			p.out = w
		}
	}
}

// WithVersionDetector replaces generator version detection.
func WithVersionDetector(fn func(ctx context.Context, executable, dir string) string) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.version = fn
		}
	}
}

// withRemover replaces file deletion; tests use it to simulate locked files.
func withRemover(fn func(string) error) Option {
	return func(p *Pipeline) { p.remove = fn }
}

// New builds a pipeline for cfg rooted at layout.
func New(cfg *config.Config, layout config.Layout, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		layout:   layout,
		cloner:   NewCloner(cfg.Style.CloneBackend),
		runner:   &generator.BinaryRunner{},
		recorder: metrics.NoopRecorder{},
		out:      os.Stdout,
		remove:   os.Remove,
		version:  generator.DetectVersion,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.observer = append(observers{recorderObserver{rec: p.recorder}}, p.observer...)
	return p
}

// NewCloner returns the cloner implementing backend.
func NewCloner(backend config.CloneBackend) style.Cloner {
	if backend == config.CloneBackendExec {
		return &style.ExecCloner{}
	}
	return &style.GoGitCloner{}
}

// Stages returns the ordered stage definitions.
func (p *Pipeline) Stages() []StageDef {
	return []StageDef{
		{Name: StagePrepareDirs, State: StatePreparingDirs, Title: "Checking directories", Fn: stagePrepareDirs},
		{Name: StageAcquireStyle, State: StateAcquiringAssets, Title: "Checking style folder", Fn: stageAcquireStyle},
		{Name: StageGenerateConfig, State: StateGeneratingConfig, Title: "Generating generator config file", Fn: stageGenerateConfig},
		{Name: StageRunGenerator, State: StateRunningGenerator, Title: "Running generator", Fn: stageRunGenerator},
		{Name: StageCleanup, State: StateCleaningUp, Title: "Cleaning up", Fn: stageCleanup},
	}
}

// Run executes one build. The returned report is always non-nil. The error is
// the aborting *StageError, or nil when the build reached the done state.
func (p *Pipeline) Run(ctx context.Context) (*BuildReport, error) {
	bs := newBuildState(p)
	logger := slog.With(logfields.BuildID(bs.Report.BuildID))
	logger.Info("Starting documentation build", logfields.Path(p.layout.Root))
	p.observer.OnBuildStart(bs.Report)

	err := p.runStages(ctx, bs, p.Stages())
	if err != nil {
		_ = bs.machine.transition(StateFailed)
		p.releaseAfterAbort(bs)
	}

	bs.Report.State = bs.machine.current
	bs.Report.StateHistory = bs.History()
	bs.Report.Finish()
	bs.Report.DeriveOutcome()
	p.observer.OnBuildComplete(bs.Report)

	if err != nil {
		logger.Error("Documentation build failed",
			logfields.Stage(string(bs.Report.FailedStage)),
			logfields.Outcome(string(bs.Report.Outcome)),
			logfields.Duration(bs.Report.Duration()),
			logfields.Error(err))
		return bs.Report, err
	}
	logger.Info("Documentation build completed",
		logfields.Outcome(string(bs.Report.Outcome)),
		logfields.Duration(bs.Report.Duration()))
	p.printf("All done!\n")
	return bs.Report, nil
}

// runStages executes stages in order, recording timing and stopping on the first abort.
func (p *Pipeline) runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for i, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, canceledError(ctx))
			p.recordOutcome(bs, StageOutcome{Stage: st.Name, Error: se, Result: StageResultCanceled, Abort: true})
			p.observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			p.printf("Build canceled before step %d (%s)\n", i+1, st.Name)
			return se
		default:
		}

		if err := bs.machine.transition(st.State); err != nil {
			return newFatalStageError(st.Name, ferrors.WrapError(err, ferrors.CategoryInternal, "pipeline state").Build())
		}
		bs.Report.State = st.State
		p.printf("=== Step %d: %s ===\n", i+1, st.Title)
		p.observer.OnStageStart(st.Name)

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[string(st.Name)] = dur

		out := classifyStageResult(st.Name, err)
		p.recordOutcome(bs, out)
		p.observer.OnStageComplete(st.Name, dur, out.Result)

		slog.Debug("Stage complete",
			logfields.BuildID(bs.Report.BuildID),
			logfields.Stage(string(st.Name)),
			logfields.State(string(st.State)),
			logfields.Result(string(out.Result)),
			logfields.Duration(dur))

		if out.Abort {
			p.printf("Failed at step %d (%s): %v\n", i+1, st.Name, out.Error.Err)
			return out.Error
		}
	}
	return bs.machine.transition(StateDone)
}

func (p *Pipeline) recordOutcome(bs *BuildState, out StageOutcome) {
	bs.Report.StageResults[out.Stage] = out.Result
	if out.Error == nil {
		return
	}
	switch out.Result {
	case StageResultWarning:
		bs.Report.Warnings = append(bs.Report.Warnings, out.Error)
		slog.Warn("Stage completed with warning",
			logfields.Stage(string(out.Stage)),
			logfields.Error(out.Error.Err))
	default:
		bs.Report.Errors = append(bs.Report.Errors, out.Error)
		bs.Report.FailedStage = out.Stage
	}
}

// releaseAfterAbort removes a written configuration file unless the generator
// failed or was interrupted, which keeps it for inspection.
func (p *Pipeline) releaseAfterAbort(bs *BuildState) {
	if !bs.configWritten {
		return
	}
	if bs.preserveConfig {
		bs.Report.ConfigRetained = true
		p.printf("Generator config kept for inspection: %s\n", p.layout.ConfigFile)
		slog.Info("Keeping generator config for inspection", logfields.Path(p.layout.ConfigFile))
		return
	}
	if err := p.removeConfig(bs); err != nil {
		bs.Report.Warnings = append(bs.Report.Warnings, newWarnStageError(StageCleanup, err))
		p.printf("Failed to delete generator config file: %v\n", err)
	}
}

// removeConfig deletes the transient configuration file if it exists.
func (p *Pipeline) removeConfig(bs *BuildState) error {
	path := p.layout.ConfigFile
	if err := p.remove(path); err != nil {
		if os.IsNotExist(err) {
			bs.configWritten = false
			return nil
		}
		bs.Report.ConfigRetained = true
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to delete generator config").
			Warning().
			WithContext("path", path).
			Build()
	}
	bs.configWritten = false
	bs.Report.ConfigRetained = false
	p.printf("Deleted temporary generator config file: %s\n", path)
	return nil
}

func (p *Pipeline) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func canceledError(ctx context.Context) error {
	return ferrors.WrapError(ctx.Err(), ferrors.CategoryCanceled, "build canceled").Build()
}
