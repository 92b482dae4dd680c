package style

import (
	"errors"
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
)

// Typed clone errors enabling classification without string parsing upstream.
type AuthError struct {
	URL string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("clone auth error for %s: %v", e.URL, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	URL string
	Err error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("clone not found %s: %v", e.URL, e.Err) }
func (e *NotFoundError) Unwrap() error { return e.Err }

type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("clone network error for %s: %v", e.URL, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ExitError reports a git subprocess that exited with a non-zero status.
type ExitError struct {
	Args   []string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("git %s exited with code %d", strings.Join(e.Args, " "), e.Code)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// classifyCloneError wraps underlying clone errors into typed failures.
func classifyCloneError(url string, err error) error {
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "invalid username or password"):
		return &AuthError{URL: url, Err: err}
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return &NotFoundError{URL: url, Err: err}
	case strings.Contains(l, "timeout") || strings.Contains(l, "no such host") || strings.Contains(l, "connection refused") || strings.Contains(l, "network is unreachable"):
		return &NetworkError{URL: url, Err: err}
	default:
		return fmt.Errorf("failed to clone repository %s: %w", url, err)
	}
}

// cloneCategory refines the error category from the typed clone failures.
func cloneCategory(err error) ferrors.ErrorCategory {
	switch {
	case errors.As(err, new(*AuthError)):
		return ferrors.CategoryAuth
	case errors.As(err, new(*NotFoundError)):
		return ferrors.CategoryNotFound
	case errors.As(err, new(*NetworkError)):
		return ferrors.CategoryNetwork
	default:
		return ferrors.CategoryGit
	}
}
