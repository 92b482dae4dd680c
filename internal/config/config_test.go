package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
)

func TestDefaultsMatchBuiltInTemplateValues(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, []string{"include", "src", "docs"}, cfg.Input.Directories)
	require.Equal(t, []string{"*.c", "*.h", "*.md"}, cfg.Input.FilePatterns)
	require.Equal(t, "docs/doxygen", cfg.Output.Directory)
	require.Equal(t, "docs/doxygen/style", cfg.Style.Directory)
	require.Equal(t, "https://github.com/jothepro/doxygen-awesome-css.git", cfg.Style.URL)
	require.Equal(t, "doxygen", cfg.Generator.Executable)
	require.Equal(t, "Doxygen", cfg.Generator.ConfigFile)
	require.Equal(t, CloneBackendGoGit, cfg.Style.CloneBackend)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingOptionalFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, DefaultConfigFile), true)
	require.NoError(t, err)
	require.Equal(t, Defaults().Output, cfg.Output)
	require.Equal(t, ".", cfg.Root)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "custom.yaml"), false)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_OverridesAndEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOXYBUILD_TEST_VERSION=1.2.3\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("DOXYBUILD_TEST_VERSION") })

	content := `
root: project
project:
  name: clox
  number: ${DOXYBUILD_TEST_VERSION}
style:
  clone_backend: GIT
generator:
  executable: /opt/doxygen/bin/doxygen
`
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, "clox", cfg.Project.Name)
	require.Equal(t, "1.2.3", cfg.Project.Number)
	require.Equal(t, CloneBackendExec, cfg.Style.CloneBackend)
	require.Equal(t, "/opt/doxygen/bin/doxygen", cfg.Generator.Executable)
	require.Equal(t, filepath.Join(dir, "project"), cfg.Root)
	// untouched sections keep their defaults
	require.Equal(t, Defaults().Input, cfg.Input)
}

func TestLoad_EnvFileDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOXYBUILD_TEST_NAME", "from-process")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOXYBUILD_TEST_NAME=from-file\n"), 0o644))
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("project:\n  name: ${DOXYBUILD_TEST_NAME}\n"), 0o644))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, "from-process", cfg.Project.Name)
	require.Equal(t, dir, cfg.Root)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("project: [unterminated"), 0o644))
	_, err := Load(path, false)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty executable", func(c *Config) { c.Generator.Executable = " " }, "generator.executable"},
		{"no inputs", func(c *Config) { c.Input.Directories = nil }, "input.directories"},
		{"no patterns", func(c *Config) { c.Input.FilePatterns = nil }, "input.file_patterns"},
		{"unknown backend", func(c *Config) { c.Style.CloneBackend = "svn" }, "style.clone_backend"},
		{"config file with directory", func(c *Config) { c.Generator.ConfigFile = "build/Doxyfile" }, "generator.config_file"},
		{"config file is root", func(c *Config) { c.Generator.ConfigFile = "." }, "generator.config_file"},
		{"config file is parent", func(c *Config) { c.Generator.ConfigFile = ".." }, "generator.config_file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			classified, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			field, _ := classified.Context().GetString("field")
			require.Equal(t, tt.field, field)
		})
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFile)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path, false)
	require.NoError(t, err)
	require.Equal(t, "my-project", cfg.Project.Name)
	require.NoError(t, cfg.Validate())

	err = Init(path, false)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	require.NoError(t, Init(path, true))
}

func TestNormalizeCloneBackend(t *testing.T) {
	require.Equal(t, CloneBackendGoGit, NormalizeCloneBackend(""))
	require.Equal(t, CloneBackendGoGit, NormalizeCloneBackend(" Go-Git "))
	require.Equal(t, CloneBackendExec, NormalizeCloneBackend("exec"))
	require.Equal(t, CloneBackend("svn"), NormalizeCloneBackend("SVN"))
}
