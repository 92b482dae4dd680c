package eventstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

const buildStatusRunning = "running"

// BuildSummary is a read model of one build reconstructed from its events.
type BuildSummary struct {
	BuildID           string         `json:"build_id"`
	Root              string         `json:"root,omitempty"`
	Status            string         `json:"status"` // running, or the build outcome
	StartedAt         time.Time      `json:"started_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
	Duration          time.Duration  `json:"duration,omitempty"`
	Stages            []StageSummary `json:"stages,omitempty"`
	FailedStage       string         `json:"failed_stage,omitempty"`
	ErrorMessage      string         `json:"error_message,omitempty"`
	StyleCloned       bool           `json:"style_cloned"`
	ConfigRetained    bool           `json:"config_retained"`
	GeneratorExitCode int            `json:"generator_exit_code"`
}

// StageSummary is the recorded result of one stage.
type StageSummary struct {
	Stage    string        `json:"stage"`
	Result   string        `json:"result"`
	Duration time.Duration `json:"duration"`
}

// BuildHistoryProjection maintains an in-memory view of build history
// reconstructed from the event store.
type BuildHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	builds  map[string]*BuildSummary
	history []*BuildSummary // completed builds, newest first
	maxSize int
}

// NewBuildHistoryProjection creates a projection backed by store keeping at most
// maxHistorySize completed builds.
func NewBuildHistoryProjection(store Store, maxHistorySize int) *BuildHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 100
	}
	return &BuildHistoryProjection{
		store:   store,
		builds:  make(map[string]*BuildSummary),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from all stored events.
func (p *BuildHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.builds = make(map[string]*BuildSummary)
	p.history = nil
	for _, event := range events {
		p.applyEventLocked(event)
	}
	sort.SliceStable(p.history, func(i, j int) bool {
		return p.history[i].StartedAt.After(p.history[j].StartedAt)
	})
	if len(p.history) > p.maxSize {
		p.history = p.history[:p.maxSize]
	}
	return nil
}

// Apply processes a single event.
func (p *BuildHistoryProjection) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyEventLocked(event)
}

func (p *BuildHistoryProjection) applyEventLocked(event Event) {
	buildID := event.BuildID()
	if buildID == "" {
		return
	}

	summary, exists := p.builds[buildID]
	if !exists {
		summary = &BuildSummary{
			BuildID:           buildID,
			Status:            buildStatusRunning,
			StartedAt:         event.Timestamp(),
			GeneratorExitCode: -1,
		}
		p.builds[buildID] = summary
	}

	switch event.Type() {
	case TypeBuildStarted:
		var payload BuildStartedPayload
		if decodePayload(event, &payload) {
			summary.Root = payload.Root
			if !payload.StartedAt.IsZero() {
				summary.StartedAt = payload.StartedAt
			}
		}

	case TypeStageCompleted:
		var payload StageCompletedPayload
		if decodePayload(event, &payload) {
			summary.Stages = append(summary.Stages, StageSummary{
				Stage:    payload.Stage,
				Result:   payload.Result,
				Duration: time.Duration(payload.DurationMS * float64(time.Millisecond)),
			})
		}

	case TypeBuildCompleted:
		completed := event.Timestamp()
		summary.CompletedAt = &completed
		summary.Duration = completed.Sub(summary.StartedAt)
		var payload BuildCompletedPayload
		if decodePayload(event, &payload) {
			summary.Status = payload.Outcome
			summary.FailedStage = payload.FailedStage
			summary.ErrorMessage = payload.Error
			summary.StyleCloned = payload.StyleCloned
			summary.ConfigRetained = payload.ConfigRetained
			summary.GeneratorExitCode = payload.GeneratorExitCode
			if payload.DurationMS > 0 {
				summary.Duration = time.Duration(payload.DurationMS * float64(time.Millisecond))
			}
		}
		p.addToHistoryLocked(summary)
	}
}

func (p *BuildHistoryProjection) addToHistoryLocked(summary *BuildSummary) {
	for _, h := range p.history {
		if h.BuildID == summary.BuildID {
			return
		}
	}
	p.history = append([]*BuildSummary{summary}, p.history...)
	if len(p.history) > p.maxSize {
		p.history = p.history[:p.maxSize]
	}
	p.pruneBuildsLocked()
}

// pruneBuildsLocked drops completed builds that fell out of the bounded history.
func (p *BuildHistoryProjection) pruneBuildsLocked() {
	keep := make(map[string]struct{}, len(p.history))
	for _, h := range p.history {
		keep[h.BuildID] = struct{}{}
	}
	for id, summary := range p.builds {
		if summary.Status == buildStatusRunning {
			continue
		}
		if _, ok := keep[id]; !ok {
			delete(p.builds, id)
		}
	}
}

// GetHistory returns completed builds, newest first.
func (p *BuildHistoryProjection) GetHistory() []*BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*BuildSummary, len(p.history))
	copy(result, p.history)
	return result
}

// GetBuild returns a copy of the summary for buildID.
func (p *BuildHistoryProjection) GetBuild(buildID string) (*BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	summary, ok := p.builds[buildID]
	if !ok {
		return nil, false
	}
	cp := *summary
	return &cp, true
}

// GetLastCompletedBuild returns the most recently completed build, or nil.
func (p *BuildHistoryProjection) GetLastCompletedBuild() *BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.history) == 0 {
		return nil
	}
	cp := *p.history[0]
	return &cp
}
