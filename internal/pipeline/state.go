package pipeline

import "fmt"

// State is the lifecycle position of a build.
type State string

const (
	StateIdle             State = "idle"
	StatePreparingDirs    State = "preparing_dirs"
	StateAcquiringAssets  State = "acquiring_assets"
	StateGeneratingConfig State = "generating_config"
	StateRunningGenerator State = "running_generator"
	StateCleaningUp       State = "cleaning_up"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateIdle:             {StatePreparingDirs, StateFailed},
	StatePreparingDirs:    {StateAcquiringAssets, StateFailed},
	StateAcquiringAssets:  {StateGeneratingConfig, StateFailed},
	StateGeneratingConfig: {StateRunningGenerator, StateFailed},
	StateRunningGenerator: {StateCleaningUp, StateFailed},
	StateCleaningUp:       {StateDone},
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// CanTransition reports whether moving from s to next is allowed.
func (s State) CanTransition(next State) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// stateMachine tracks the current state and the ordered history of states.
type stateMachine struct {
	current State
	history []State
}

func newStateMachine() *stateMachine {
	return &stateMachine{current: StateIdle, history: []State{StateIdle}}
}

func (m *stateMachine) transition(next State) error {
	if !m.current.CanTransition(next) {
		return fmt.Errorf("invalid state transition %s -> %s", m.current, next)
	}
	m.current = next
	m.history = append(m.history, next)
	return nil
}
