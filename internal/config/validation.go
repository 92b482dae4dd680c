package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
)

// Validate checks the values the build cannot run without.
func (c *Config) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"project.number", c.Project.Number},
		{"output.directory", c.Output.Directory},
		{"output.html_output", c.Output.HTMLOutput},
		{"style.url", c.Style.URL},
		{"style.directory", c.Style.Directory},
		{"generator.executable", c.Generator.Executable},
		{"generator.config_file", c.Generator.ConfigFile},
		{"input.encoding", c.Input.Encoding},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return ferrors.ConfigError(r.field + " must not be empty").WithContext("field", r.field).Build()
		}
	}
	if len(c.Input.Directories) == 0 {
		return ferrors.ConfigError("input.directories must list at least one directory").WithContext("field", "input.directories").Build()
	}
	if len(c.Input.FilePatterns) == 0 {
		return ferrors.ConfigError("input.file_patterns must list at least one pattern").WithContext("field", "input.file_patterns").Build()
	}
	switch c.Style.CloneBackend {
	case CloneBackendGoGit, CloneBackendExec:
	default:
		return ferrors.ConfigError("unsupported style.clone_backend: " + string(c.Style.CloneBackend)).
			WithContext("field", "style.clone_backend").
			Build()
	}
	if name := strings.TrimSpace(c.Generator.ConfigFile); name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ferrors.ConfigError("generator.config_file must be a file name at the project root").
			WithContext("field", "generator.config_file").
			Build()
	}
	return nil
}
