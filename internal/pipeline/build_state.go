package pipeline

// BuildState carries mutable state across the stages of one build.
type BuildState struct {
	p       *Pipeline
	Report  *BuildReport
	machine *stateMachine

	// configWritten arms the transient config guard; cleared once the file is gone.
	configWritten bool
	// preserveConfig is set when the generator fails so the config survives.
	preserveConfig bool
}

func newBuildState(p *Pipeline) *BuildState {
	return &BuildState{
		p:       p,
		Report:  newBuildReport(p.layout.Root),
		machine: newStateMachine(),
	}
}

// History returns the states visited so far, starting with idle.
func (bs *BuildState) History() []State {
	return append([]State(nil), bs.machine.history...)
}
