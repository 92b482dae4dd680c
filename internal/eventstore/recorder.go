package eventstore

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/doxybuild/internal/logfields"
	"git.home.luguber.info/inful/doxybuild/internal/pipeline"
)

// BuildRecorder is a pipeline.Observer that appends build events to a Store.
// History is auxiliary: append failures are logged and never affect the build.
type BuildRecorder struct {
	pipeline.NoopObserver
	store   Store
	timeout time.Duration
	buildID string
	errs    int
}

var _ pipeline.Observer = (*BuildRecorder)(nil)

// NewBuildRecorder returns an observer writing to store.
func NewBuildRecorder(store Store) *BuildRecorder {
	return &BuildRecorder{store: store, timeout: 5 * time.Second}
}

// Failures returns how many events could not be stored.
func (r *BuildRecorder) Failures() int { return r.errs }

func (r *BuildRecorder) OnBuildStart(report *pipeline.BuildReport) {
	r.buildID = report.BuildID
	e, err := NewBuildStarted(report.BuildID, BuildStartedPayload{
		Root:      report.Root,
		StartedAt: report.Start,
		Version:   report.DoxybuildVersion,
	})
	r.append(e, err)
}

func (r *BuildRecorder) OnStageComplete(stage pipeline.StageName, d time.Duration, res pipeline.StageResult) {
	e, err := NewStageCompleted(r.buildID, StageCompletedPayload{
		Stage:      string(stage),
		Result:     string(res),
		DurationMS: float64(d.Microseconds()) / 1000.0,
	})
	r.append(e, err)
}

func (r *BuildRecorder) OnBuildComplete(report *pipeline.BuildReport) {
	p := BuildCompletedPayload{
		Outcome:           string(report.Outcome),
		State:             string(report.State),
		FailedStage:       string(report.FailedStage),
		Warnings:          len(report.Warnings),
		StyleCloned:       report.StyleCloned,
		ConfigRetained:    report.ConfigRetained,
		GeneratorExitCode: report.GeneratorExitCode,
		GeneratorVersion:  report.GeneratorVersion,
		DurationMS:        float64(report.Duration().Microseconds()) / 1000.0,
	}
	if len(report.Errors) > 0 {
		p.Error = report.Errors[0].Error()
	}
	e, err := NewBuildCompleted(report.BuildID, p)
	r.append(e, err)
}

func (r *BuildRecorder) append(e *BaseEvent, err error) {
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		err = AppendEvent(ctx, r.store, e)
	}
	if err != nil {
		r.errs++
		slog.Warn("Failed to record build history", logfields.BuildID(r.buildID), logfields.Error(err))
	}
}
