package eventstore

import (
	"encoding/json"
	"time"

	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
)

// Event type names.
const (
	TypeBuildStarted   = "BuildStarted"
	TypeStageCompleted = "StageCompleted"
	TypeBuildCompleted = "BuildCompleted"
)

// BuildStartedPayload is recorded when a build begins.
type BuildStartedPayload struct {
	Root      string    `json:"root"`
	StartedAt time.Time `json:"started_at"`
	Version   string    `json:"version,omitempty"`
}

// StageCompletedPayload is recorded after each stage.
type StageCompletedPayload struct {
	Stage      string  `json:"stage"`
	Result     string  `json:"result"`
	DurationMS float64 `json:"duration_ms"`
	Error      string  `json:"error,omitempty"`
}

// BuildCompletedPayload is recorded once the build reached a terminal state.
type BuildCompletedPayload struct {
	Outcome           string  `json:"outcome"`
	State             string  `json:"state"`
	FailedStage       string  `json:"failed_stage,omitempty"`
	Error             string  `json:"error,omitempty"`
	Warnings          int     `json:"warnings"`
	StyleCloned       bool    `json:"style_cloned"`
	ConfigRetained    bool    `json:"config_retained"`
	GeneratorExitCode int     `json:"generator_exit_code"`
	GeneratorVersion  string  `json:"generator_version,omitempty"`
	DurationMS        float64 `json:"duration_ms"`
}

// NewBuildStarted creates a BuildStarted event.
func NewBuildStarted(buildID string, p BuildStartedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildStarted, p)
}

// NewStageCompleted creates a StageCompleted event.
func NewStageCompleted(buildID string, p StageCompletedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeStageCompleted, p)
}

// NewBuildCompleted creates a BuildCompleted event.
func NewBuildCompleted(buildID string, p BuildCompletedPayload) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildCompleted, p)
}

func newEvent(buildID, eventType string, payload any) (*BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "failed to marshal event payload").
			WithContext("build_id", buildID).
			WithContext("event_type", eventType).
			Build()
	}
	return &BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   data,
	}, nil
}
