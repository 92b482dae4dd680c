package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names.
const (
	StagePrepareDirs    StageName = "prepare_dirs"
	StageAcquireStyle   StageName = "acquire_style"
	StageGenerateConfig StageName = "generate_config"
	StageRunGenerator   StageName = "run_generator"
	StageCleanup        StageName = "cleanup"
)

// Stage is a discrete unit of work in the build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageDef pairs a stage name with its function, the state entered while it
// runs and the banner printed to the console.
type StageDef struct {
	Name  StageName
	State State
	Title string
	Fn    Stage
}

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the failing stage and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// StageResult enumerates per-stage classification outcomes.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// StageOutcome is the normalized result of a stage execution.
type StageOutcome struct {
	Stage  StageName
	Error  *StageError
	Result StageResult
	Abort  bool
}

// classifyStageResult converts a raw error from a stage into a StageOutcome.
// Errors that are not StageErrors are treated as fatal.
func classifyStageResult(stage StageName, err error) StageOutcome {
	if err == nil {
		return StageOutcome{Stage: stage, Result: StageResultSuccess}
	}

	var se *StageError
	if !errors.As(err, &se) {
		se = newFatalStageError(stage, err)
	}

	switch se.Kind {
	case StageErrorWarning:
		return StageOutcome{Stage: stage, Error: se, Result: StageResultWarning}
	case StageErrorCanceled:
		return StageOutcome{Stage: stage, Error: se, Result: StageResultCanceled, Abort: true}
	default:
		return StageOutcome{Stage: stage, Error: se, Result: StageResultFatal, Abort: true}
	}
}
