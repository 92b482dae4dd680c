package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/doxybuild/internal/version"
)

// reportSchemaVersion is bumped when the JSON layout changes incompatibly.
const reportSchemaVersion = 1

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures what a single build did.
type BuildReport struct {
	SchemaVersion int
	BuildID       string
	Root          string
	Start         time.Time
	End           time.Time
	State         State
	// StateHistory lists every state entered, starting with idle.
	StateHistory []State
	Outcome      BuildOutcome
	// FailedStage names the stage that aborted the build; empty otherwise.
	FailedStage    StageName
	Errors         []error // fatal or canceled stage errors (at most one)
	Warnings       []error
	StageDurations map[string]time.Duration
	StageResults   map[StageName]StageResult
	// StyleCloned is true when the style repository was fetched during this build.
	StyleCloned bool
	// ConfigFile is the transient configuration path, set once it was written.
	ConfigFile string
	// ConfigRetained is true when the configuration file was left on disk.
	ConfigRetained bool
	// GeneratorExitCode is -1 until the generator process has exited.
	GeneratorExitCode int
	GeneratorVersion  string
	DoxybuildVersion  string
}

func newBuildReport(root string) *BuildReport {
	return &BuildReport{
		SchemaVersion:     reportSchemaVersion,
		BuildID:           uuid.NewString(),
		Root:              root,
		Start:             time.Now(),
		State:             StateIdle,
		StageDurations:    make(map[string]time.Duration),
		StageResults:      make(map[StageName]StageResult),
		GeneratorExitCode: -1,
		DoxybuildVersion:  version.Version,
	}
}

// Finish sets the end time of the report.
func (r *BuildReport) Finish() { r.End = time.Now() }

// Duration is the wall time between start and finish.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// DeriveOutcome sets Outcome from recorded errors and warnings.
func (r *BuildReport) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Succeeded reports whether the build reached the done state. Warnings do not
// count as failure.
func (r *BuildReport) Succeeded() bool {
	return r.State == StateDone
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("build=%s outcome=%s state=%s duration=%s stages=%d warnings=%d style_cloned=%t config_retained=%t exit_code=%d",
		r.BuildID, r.Outcome, r.State, r.Duration().Truncate(time.Millisecond), len(r.StageResults),
		len(r.Warnings), r.StyleCloned, r.ConfigRetained, r.GeneratorExitCode)
}

// Persist writes the report as JSON to path via a temporary sibling and rename.
func (r *BuildReport) Persist(path string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("ensure directory for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, jb, 0o600); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename json: %w", err)
	}
	return nil
}

// SanitizedCopy converts the report into its JSON form with errors as strings.
func (r *BuildReport) SanitizedCopy() *BuildReportSerializable {
	results := make(map[string]string, len(r.StageResults))
	for k, v := range r.StageResults {
		results[string(k)] = string(v)
	}
	durations := make(map[string]float64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[k] = float64(v.Microseconds()) / 1000.0
	}
	states := make([]string, 0, len(r.StateHistory))
	for _, st := range r.StateHistory {
		states = append(states, string(st))
	}
	s := &BuildReportSerializable{
		SchemaVersion:     r.SchemaVersion,
		BuildID:           r.BuildID,
		Root:              r.Root,
		Start:             r.Start,
		End:               r.End,
		State:             string(r.State),
		StateHistory:      states,
		Outcome:           string(r.Outcome),
		FailedStage:       string(r.FailedStage),
		Errors:            make([]string, len(r.Errors)),
		Warnings:          make([]string, len(r.Warnings)),
		StageDurationsMS:  durations,
		StageResults:      results,
		StyleCloned:       r.StyleCloned,
		ConfigFile:        r.ConfigFile,
		ConfigRetained:    r.ConfigRetained,
		GeneratorExitCode: r.GeneratorExitCode,
		GeneratorVersion:  r.GeneratorVersion,
		DoxybuildVersion:  r.DoxybuildVersion,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// BuildReportSerializable mirrors BuildReport with JSON-friendly fields.
type BuildReportSerializable struct {
	SchemaVersion     int                `json:"schema_version"`
	BuildID           string             `json:"build_id"`
	Root              string             `json:"root"`
	Start             time.Time          `json:"start"`
	End               time.Time          `json:"end"`
	State             string             `json:"state"`
	StateHistory      []string           `json:"state_history"`
	Outcome           string             `json:"outcome"`
	FailedStage       string             `json:"failed_stage,omitempty"`
	Errors            []string           `json:"errors"`
	Warnings          []string           `json:"warnings"`
	StageDurationsMS  map[string]float64 `json:"stage_durations_ms"`
	StageResults      map[string]string  `json:"stage_results"`
	StyleCloned       bool               `json:"style_cloned"`
	ConfigFile        string             `json:"config_file,omitempty"`
	ConfigRetained    bool               `json:"config_retained"`
	GeneratorExitCode int                `json:"generator_exit_code"`
	GeneratorVersion  string             `json:"generator_version,omitempty"`
	DoxybuildVersion  string             `json:"doxybuild_version,omitempty"`
}
