package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// DefaultPath is the configuration file used when none is given on the command line.
const DefaultPath = "docnav.yaml"

// Config represents the application configuration.
type Config struct {
	Docs     DocsConfig     `yaml:"docs"`
	Nav      NavConfig      `yaml:"nav"`
	Sidebar  SidebarConfig  `yaml:"sidebar"`
	Output   OutputConfig   `yaml:"output"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Diagram  DiagramConfig  `yaml:"diagram"`
	Server   ServerConfig   `yaml:"server"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DocsConfig describes the markdown tree that is scanned.
type DocsConfig struct {
	Root        string   `yaml:"root"`
	Index       string   `yaml:"index"`
	Extensions  []string `yaml:"extensions"`
	Exclude     []string `yaml:"exclude"`
	MaxDepth    int      `yaml:"max_depth"`
	Concurrency int      `yaml:"concurrency"`
}

// NavConfig controls the top navigation bar.
type NavConfig struct {
	HomeLabel string `yaml:"home_label"`
	HomeLink  string `yaml:"home_link"`
}

// SidebarConfig controls sidebar labelling.
type SidebarConfig struct {
	OverviewLabel     string        `yaml:"overview_label"`
	OverviewStyle     OverviewStyle `yaml:"overview_style"`
	RootGroupLabel    string        `yaml:"root_group_label"`
	Collapsed         bool          `yaml:"collapsed"`
	FrontmatterTitles bool          `yaml:"frontmatter_titles"`
}

// OutputConfig controls where the generated site configuration is written.
type OutputConfig struct {
	Path   string       `yaml:"path"`
	Format OutputFormat `yaml:"format"`
}

// MarkdownConfig configures the fenced block adapter.
type MarkdownConfig struct {
	DiagramTag       string `yaml:"diagram_tag"`
	DiagramComponent string `yaml:"diagram_component"`
	RegexpLanguage   string `yaml:"regexp_language"`
}

// DiagramConfig configures the diagram engine and render cache.
type DiagramConfig struct {
	Command    string         `yaml:"command"`
	Args       []string       `yaml:"args,omitempty"`
	AutoDecode bool           `yaml:"auto_decode"`
	Timeout    time.Duration  `yaml:"timeout"`
	Engine     map[string]any `yaml:"engine,omitempty"`
}

// ServerConfig configures the HTTP surface of `docnav serve`.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Metrics bool   `yaml:"metrics"`
}

// WatchConfig configures regeneration on change.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	// Interval enables periodic regeneration for trees where file events are unreliable (network mounts).
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load loads configuration from the specified file. Environment files are
// loaded first so ${VAR} references in the YAML can use them.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = applyDefaults(cfg)
	return cfg
}

// Init writes a default configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	cfg := Default()
	cfg.Diagram.Engine = map[string]any{"theme": "default", "startOnLoad": false}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
