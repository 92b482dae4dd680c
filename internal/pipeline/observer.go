package pipeline

import (
	"time"

	"git.home.luguber.info/inful/doxybuild/internal/metrics"
)

// Observer receives callbacks around stage execution and build lifecycle.
type Observer interface {
	OnBuildStart(report *BuildReport)
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnBuildStart(*BuildReport)                             {}
func (NoopObserver) OnStageStart(StageName)                                {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult) {}
func (NoopObserver) OnBuildComplete(*BuildReport)                          {}

// recorderObserver adapts metrics.Recorder into an Observer.
type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnBuildStart(*BuildReport) {}
func (r recorderObserver) OnStageStart(StageName)    {}

func (r recorderObserver) OnStageComplete(stage StageName, d time.Duration, res StageResult) {
	r.rec.ObserveStageDuration(string(stage), d)
	r.rec.IncStageResult(string(stage), metrics.ResultLabel(res))
}

func (r recorderObserver) OnBuildComplete(report *BuildReport) {
	r.rec.ObserveBuildDuration(report.Duration())
	r.rec.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
	if report.GeneratorExitCode >= 0 {
		r.rec.SetGeneratorExitCode(report.GeneratorExitCode)
	}
}

// observers fans callbacks out in registration order.
type observers []Observer

func (o observers) OnBuildStart(report *BuildReport) {
	for _, ob := range o {
		ob.OnBuildStart(report)
	}
}

func (o observers) OnStageStart(stage StageName) {
	for _, ob := range o {
		ob.OnStageStart(stage)
	}
}

func (o observers) OnStageComplete(stage StageName, d time.Duration, res StageResult) {
	for _, ob := range o {
		ob.OnStageComplete(stage, d, res)
	}
}

func (o observers) OnBuildComplete(report *BuildReport) {
	for _, ob := range o {
		ob.OnBuildComplete(report)
	}
}
