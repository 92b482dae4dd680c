package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrExecutableNotFound indicates the generator executable could not be located.
	ErrExecutableNotFound = errors.New("generator executable not found")
	// ErrLaunchFailed indicates the process could not be started.
	ErrLaunchFailed = errors.New("generator launch failed")
	// ErrExecutionFailed indicates the generator returned a non-zero exit status.
	ErrExecutionFailed = errors.New("generator execution failed")
)

// ExitError reports a generator run that terminated with a non-zero status.
type ExitError struct {
	Executable string
	Code       int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Executable, e.Code)
}

// Is lets callers match on ErrExecutionFailed.
func (e *ExitError) Is(target error) bool { return target == ErrExecutionFailed }

// ExitCode extracts the generator exit status from err, or -1 when err carries none.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
