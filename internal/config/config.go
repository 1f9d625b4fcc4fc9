package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

// DefaultOutputPath is where the bundle is written when nothing overrides it.
const DefaultOutputPath = "./dist/bundle.js"

// DefaultExtensions are probed, in order, when a specifier has no matching file.
var DefaultExtensions = []string{".js", ".mjs", ".json"}

// Config represents the bundler configuration.
type Config struct {
	Entry   string         `yaml:"entry" toml:"entry"`
	Output  OutputConfig   `yaml:"output" toml:"output"`
	Module  ModuleConfig   `yaml:"module" toml:"module"`
	Resolve ResolveConfig  `yaml:"resolve" toml:"resolve"`
	Plugins []PluginConfig `yaml:"plugins,omitempty" toml:"plugins,omitempty"`
	Logging LoggingConfig  `yaml:"logging" toml:"logging"`

	// BaseDir anchors relative entry and output paths. Load sets it to the
	// directory holding the configuration file.
	BaseDir string `yaml:"-" toml:"-"`
}

// OutputConfig controls where and how the bundle is written.
type OutputConfig struct {
	Path   string `yaml:"path" toml:"path"`
	Banner string `yaml:"banner,omitempty" toml:"banner,omitempty"`
}

// ModuleConfig holds the loader rules.
type ModuleConfig struct {
	Rules []RuleConfig `yaml:"rules,omitempty" toml:"rules,omitempty"`
}

// RuleConfig binds a path pattern to an ordered list of loader names.
// Loaders listed in Use run last to first.
type RuleConfig struct {
	Test string   `yaml:"test" toml:"test"`
	Use  []string `yaml:"use" toml:"use"`
}

// ResolveConfig controls specifier resolution and asset deduplication.
type ResolveConfig struct {
	Extensions []string   `yaml:"extensions,omitempty" toml:"extensions,omitempty"`
	Dedupe     DedupeMode `yaml:"dedupe" toml:"dedupe"`
	MaxAssets  int        `yaml:"max_assets,omitempty" toml:"max_assets,omitempty"`
}

// PluginConfig names a registered plugin and passes it options.
type PluginConfig struct {
	Name    string         `yaml:"name" toml:"name"`
	Options map[string]any `yaml:"options,omitempty" toml:"options,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level" toml:"level"`
	Format LogFormat `yaml:"format" toml:"format"`
}

// DedupeMode selects how repeated references to the same file are handled.
type DedupeMode string

const (
	DedupePath   DedupeMode = "path"
	DedupeReject DedupeMode = "reject"
	DedupeNone   DedupeMode = "none"
)

// DedupeModes lists every accepted dedupe mode.
var DedupeModes = []DedupeMode{DedupePath, DedupeReject, DedupeNone}

// Default returns a configuration with every default applied and no entry.
func Default() *Config {
	cfg := &Config{}
	_ = NewDefaultApplier().ApplyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file. The format is chosen by
// extension: .toml uses TOML, anything else YAML. Environment variables are
// expanded after .env files next to the config have been loaded.
func Load(configPath string) (*Config, error) {
	dir := filepath.Dir(configPath)
	if envPath, err := loadEnvFile(dir); err != nil {
		slog.Warn("Could not load .env file", "path", envPath, "error", err)
	} else if envPath != "" {
		slog.Debug("Loaded environment variables", "path", envPath)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", configPath).
			Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := unmarshal(configPath, expanded, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}
	cfg.BaseDir = absDir

	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Entry:  "./src/main.js",
		Output: OutputConfig{Path: DefaultOutputPath},
		Module: ModuleConfig{Rules: []RuleConfig{
			{Test: `\.json$`, Use: []string{"json"}},
			{Test: `\.md$`, Use: []string{"markdown"}},
		}},
		Resolve: ResolveConfig{
			Extensions: append([]string(nil), DefaultExtensions...),
			Dedupe:     DedupePath,
		},
		Plugins: []PluginConfig{
			{Name: "manifest"},
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := marshal(configPath, &example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create config directory").
				WithContext("path", dir).
				Build()
		}
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}

	return nil
}

// ResolvePath anchors a relative path at BaseDir.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// EntryPath returns the entry module path anchored at BaseDir.
func (c *Config) EntryPath() string { return c.ResolvePath(c.Entry) }

// OutputPath returns the default bundle path anchored at BaseDir.
func (c *Config) OutputPath() string { return c.ResolvePath(c.Output.Path) }

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

func marshal(path string, cfg *Config) ([]byte, error) {
	if isTOML(path) {
		return toml.Marshal(cfg)
	}
	return yaml.Marshal(cfg)
}
