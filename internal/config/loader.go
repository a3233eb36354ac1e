package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults applied by WithDefaults when the corresponding field is unset.
const (
	DefaultLogLevel        = "info"
	DefaultPrompt          = "OHAI"
	DefaultFilterPrompt    = "BABY"
	DefaultTolerance       = 1
	DefaultQuitSeconds     = 9
	DefaultQuitStepSeconds = 3
)

// Config holds runtime parameters for the chat session.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	AdminAddr       string   `json:"admin_addr" yaml:"admin_addr" toml:"admin_addr"`
	LogLevel        string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	Prompt          string   `json:"prompt" yaml:"prompt" toml:"prompt"`
	FilterPrompt    string   `json:"filter_prompt" yaml:"filter_prompt" toml:"filter_prompt"`
	NoFilter        bool     `json:"no_filter" yaml:"no_filter" toml:"no_filter"`
	Verbose         bool     `json:"verbose" yaml:"verbose" toml:"verbose"`
	Tolerance       int      `json:"tolerance" yaml:"tolerance" toml:"tolerance"`
	QuitSeconds     int      `json:"quit_seconds" yaml:"quit_seconds" toml:"quit_seconds"`
	QuitStepSeconds int      `json:"quit_step_seconds" yaml:"quit_step_seconds" toml:"quit_step_seconds"`
	CORSOrigins     []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension. A leading "~" is
// expanded to the home directory.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	path, err := expandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.FilterPrompt == "" {
		c.FilterPrompt = DefaultFilterPrompt
	}
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.QuitSeconds <= 0 {
		c.QuitSeconds = DefaultQuitSeconds
	}
	if c.QuitStepSeconds <= 0 {
		c.QuitStepSeconds = DefaultQuitStepSeconds
	}
	return c
}

// Merge overlays the set fields of o onto c. Booleans are sticky: once true
// in either they stay true.
func (c Config) Merge(o Config) Config {
	if o.AdminAddr != "" {
		c.AdminAddr = o.AdminAddr
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Prompt != "" {
		c.Prompt = o.Prompt
	}
	if o.FilterPrompt != "" {
		c.FilterPrompt = o.FilterPrompt
	}
	c.NoFilter = c.NoFilter || o.NoFilter
	c.Verbose = c.Verbose || o.Verbose
	if o.Tolerance > 0 {
		c.Tolerance = o.Tolerance
	}
	if o.QuitSeconds > 0 {
		c.QuitSeconds = o.QuitSeconds
	}
	if o.QuitStepSeconds > 0 {
		c.QuitStepSeconds = o.QuitStepSeconds
	}
	if len(o.CORSOrigins) > 0 {
		c.CORSOrigins = append([]string(nil), o.CORSOrigins...)
	}
	return c
}

// FromEnv returns the settings provided through EVENTIST_* variables.
func FromEnv() Config {
	return Config{
		AdminAddr: os.Getenv("EVENTIST_ADMIN_ADDR"),
		LogLevel:  os.Getenv("EVENTIST_LOG_LEVEL"),
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
}
