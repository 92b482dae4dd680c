package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final build status: success|warning|failed|canceled.
type BuildOutcomeLabel string

// Recorder defines observability hooks for build and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	ObserveStyleClone(backend string, d time.Duration, success bool)
	SetGeneratorExitCode(code int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)    {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)            {}
func (NoopRecorder) IncStageResult(string, ResultLabel)            {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)             {}
func (NoopRecorder) ObserveStyleClone(string, time.Duration, bool) {}
func (NoopRecorder) SetGeneratorExitCode(int)                      {}
