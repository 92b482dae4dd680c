package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/doxybuild/internal/foundation/errors"
)

// DefaultConfigFile is the configuration file looked up when --config is not given.
const DefaultConfigFile = "doxybuild.yaml"

// Config represents the doxybuild configuration.
type Config struct {
	Project   ProjectConfig   `yaml:"project"`
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Style     StyleConfig     `yaml:"style"`
	Generator GeneratorConfig `yaml:"generator"`
	Graphs    GraphConfig     `yaml:"graphs"`
	Build     BuildConfig     `yaml:"build"`

	// Root is the project root. Relative values are resolved against the directory
	// holding the configuration file.
	Root string `yaml:"root,omitempty"`
}

// ProjectConfig holds project metadata written into the generator configuration.
type ProjectConfig struct {
	Name       string   `yaml:"name,omitempty"`
	Number     string   `yaml:"number"`
	Logo       string   `yaml:"logo,omitempty"`
	MainPage   string   `yaml:"main_page,omitempty"`
	ExtraFiles []string `yaml:"extra_files,omitempty"`
}

// InputConfig selects the sources scanned by the generator.
type InputConfig struct {
	Directories  []string `yaml:"directories"`
	FilePatterns []string `yaml:"file_patterns"`
	Encoding     string   `yaml:"encoding"`
	Recursive    bool     `yaml:"recursive"`
}

// OutputConfig represents the generator output location, relative to the root.
type OutputConfig struct {
	Directory  string `yaml:"directory"`
	HTMLOutput string `yaml:"html_output"`
}

// StyleConfig describes the third-party stylesheet repository.
type StyleConfig struct {
	URL          string       `yaml:"url"`
	Ref          string       `yaml:"ref,omitempty"`
	Directory    string       `yaml:"directory"`
	Stylesheets  []string     `yaml:"stylesheets"`
	CloneBackend CloneBackend `yaml:"clone_backend,omitempty"`
}

// GeneratorConfig identifies the external documentation generator.
type GeneratorConfig struct {
	Executable string `yaml:"executable"`
	ConfigFile string `yaml:"config_file"`
}

// GraphConfig toggles dependency graph generation.
type GraphConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ImageFormat string `yaml:"image_format"`
	FontName    string `yaml:"font_name"`
}

// BuildConfig holds optional build artifact destinations. Relative paths are resolved against the root.
type BuildConfig struct {
	ReportFile  string `yaml:"report_file,omitempty"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
	HistoryDB   string `yaml:"history_db,omitempty"`
}

// Defaults returns the built-in configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		Project: ProjectConfig{
			Number:     "0.0.1",
			Logo:       "docs/asset/logo.png",
			MainPage:   "docs/README.md",
			ExtraFiles: []string{"docs/asset/*"},
		},
		Input: InputConfig{
			Directories:  []string{"include", "src", "docs"},
			FilePatterns: []string{"*.c", "*.h", "*.md"},
			Encoding:     "UTF-8",
			Recursive:    true,
		},
		Output: OutputConfig{
			Directory:  "docs/doxygen",
			HTMLOutput: "html",
		},
		Style: StyleConfig{
			URL:          "https://github.com/jothepro/doxygen-awesome-css.git",
			Directory:    "docs/doxygen/style",
			Stylesheets:  []string{"doxygen-awesome.css", "doxygen-awesome-sidebar-only.css"},
			CloneBackend: CloneBackendGoGit,
		},
		Generator: GeneratorConfig{
			Executable: "doxygen",
			ConfigFile: "Doxygen",
		},
		Graphs: GraphConfig{
			Enabled:     true,
			ImageFormat: "svg",
			FontName:    "Helvetica",
		},
	}
}

// Load reads configuration from configPath on top of Defaults.
// When optional is true a missing file yields the defaults instead of an error.
func Load(configPath string, optional bool) (*Config, error) {
	cfg := Defaults()
	baseDir := filepath.Dir(configPath)

	if err := loadEnvFile(baseDir); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err) && optional:
		cfg.Root = "."
		return cfg, nil
	case os.IsNotExist(err):
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", configPath).
			Build()
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	if cfg.Root == "" {
		cfg.Root = baseDir
	} else if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(baseDir, cfg.Root)
	}
	cfg.Style.CloneBackend = NormalizeCloneBackend(string(cfg.Style.CloneBackend))
	return cfg, nil
}

// Init creates a new configuration file with the default content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	example := Defaults()
	example.Project.Name = "my-project"
	example.Build.ReportFile = "docs/doxygen/build-report.json"

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Fatal().Build()
	}
	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create config directory").Fatal().Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return nil
}
