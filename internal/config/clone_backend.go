package config

import "strings"

// CloneBackend selects how the style repository is fetched.
type CloneBackend string

const (
	CloneBackendGoGit CloneBackend = "go-git" // in-process clone
	CloneBackendExec  CloneBackend = "git"    // git binary subprocess
)

// NormalizeCloneBackend canonicalizes user input. Empty input selects go-git;
// unknown input is returned lowercased so Validate can reject it.
func NormalizeCloneBackend(raw string) CloneBackend {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "", "go-git", "gogit":
		return CloneBackendGoGit
	case "git", "exec":
		return CloneBackendExec
	default:
		return CloneBackend(v)
	}
}
