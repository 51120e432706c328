// Package config handles the pubx global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/pubx/config.yml.
type GlobalConfig struct {
	TopAuthors   int    `yaml:"top_authors,omitempty"`
	ExportFormat string `yaml:"export_format,omitempty"`
	Human        bool   `yaml:"human,omitempty"`
	LogJSON      bool   `yaml:"log_json,omitempty"`
	ChartTitle   string `yaml:"chart_title,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "pubx"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// ConfigPathEnv overrides the config file location.
	ConfigPathEnv = "PUBX_CONFIG"

	DefaultTopAuthors   = 10
	DefaultExportFormat = "csv"
	DefaultChartTitle   = "Publication Overview"
)

// Environment variables that override file values.
const (
	EnvTopAuthors   = "PUBX_TOP_AUTHORS"
	EnvExportFormat = "PUBX_EXPORT_FORMAT"
	EnvHuman        = "PUBX_HUMAN"
)

// ValidExportFormats lists the accepted export_format values.
var ValidExportFormats = []string{"csv", "jsonl", "bibtex"}

// ErrUnknownKey is returned by Get and Set for keys that are not configurable.
var ErrUnknownKey = errors.New("unknown configuration key")

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// PUBX_CONFIG wins; otherwise XDG_CONFIG_HOME, defaulting to ~/.config.
func GlobalConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return ExpandTilde(p)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// Defaults returns a config with every default filled in.
func Defaults() *GlobalConfig {
	return &GlobalConfig{
		TopAuthors:   DefaultTopAuthors,
		ExportFormat: DefaultExportFormat,
		ChartTitle:   DefaultChartTitle,
	}
}

// ReadGlobalConfig reads the config file at path, without environment overrides.
// Returns defaults (not an error) if the file doesn't exist.
func ReadGlobalConfig(path string) (*GlobalConfig, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// LoadGlobalConfig loads the global configuration file and applies
// environment overrides. The result is cached.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg, err := ReadGlobalConfig(GlobalConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfigCache = cfg
	return cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetConfigValue returns the environment variable if set, otherwise configValue.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

func (c *GlobalConfig) fillDefaults() {
	if c.TopAuthors == 0 {
		c.TopAuthors = DefaultTopAuthors
	}
	if c.ExportFormat == "" {
		c.ExportFormat = DefaultExportFormat
	}
	if c.ChartTitle == "" {
		c.ChartTitle = DefaultChartTitle
	}
}

func (c *GlobalConfig) applyEnv() error {
	overrides := []struct {
		env string
		key string
	}{
		{EnvTopAuthors, "top_authors"},
		{EnvExportFormat, "export_format"},
		{EnvHuman, "human"},
	}
	for _, o := range overrides {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		if err := c.Set(o.key, v); err != nil {
			return fmt.Errorf("%s: %w", o.env, err)
		}
	}
	return nil
}

// Validate checks value ranges.
func (c *GlobalConfig) Validate() error {
	if c.TopAuthors <= 0 {
		return fmt.Errorf("top_authors must be positive, got %d", c.TopAuthors)
	}
	if !isValidExportFormat(c.ExportFormat) {
		return fmt.Errorf("invalid export_format %q (valid: %s)",
			c.ExportFormat, strings.Join(ValidExportFormats, ", "))
	}
	return nil
}

func isValidExportFormat(f string) bool {
	for _, v := range ValidExportFormats {
		if f == v {
			return true
		}
	}
	return false
}

// Keys returns the configurable keys in sorted order.
func Keys() []string {
	keys := []string{"top_authors", "export_format", "human", "log_json", "chart_title"}
	sort.Strings(keys)
	return keys
}

// NormalizeKey accepts both dash and underscore spellings.
func NormalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// Get returns the string form of a config value.
func (c *GlobalConfig) Get(key string) (string, error) {
	switch NormalizeKey(key) {
	case "top_authors":
		return strconv.Itoa(c.TopAuthors), nil
	case "export_format":
		return c.ExportFormat, nil
	case "human":
		return strconv.FormatBool(c.Human), nil
	case "log_json":
		return strconv.FormatBool(c.LogJSON), nil
	case "chart_title":
		return c.ChartTitle, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set parses value and stores it under key.
func (c *GlobalConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch NormalizeKey(key) {
	case "top_authors":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("top_authors must be an integer: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("top_authors must be positive, got %d", n)
		}
		c.TopAuthors = n
	case "export_format":
		f := strings.ToLower(value)
		if !isValidExportFormat(f) {
			return fmt.Errorf("invalid export_format %q (valid: %s)",
				value, strings.Join(ValidExportFormats, ", "))
		}
		c.ExportFormat = f
	case "human":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("human must be true or false: %w", err)
		}
		c.Human = b
	case "log_json":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("log_json must be true or false: %w", err)
		}
		c.LogJSON = b
	case "chart_title":
		c.ChartTitle = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// Save writes the config to path as YAML, creating the directory if needed.
func (c *GlobalConfig) Save(path string) error {
	if path == "" {
		return errors.New("no config path")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ExpandTilde replaces a leading ~ with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// HelpfulConfigMessage describes where the config file lives and how to edit it.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`pubx reads defaults from %s

Set a value with:
  pubx config top_authors 20
  pubx config export_format jsonl

Environment overrides: %s, %s, %s`,
		configPath, EnvTopAuthors, EnvExportFormat, EnvHuman)
}
