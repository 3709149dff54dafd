// Package config loads process configuration from a YAML file with
// environment-variable overrides on top.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is tried when no config file is given explicitly.
const DefaultPath = "config.yaml"

// Config is the top-level process configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	Limits LimitsConfig `yaml:"limits"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig controls the HTTP server and its database.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	DatabasePath string `yaml:"database"`
}

// LLMConfig selects and parameterizes the live generation backend.
type LLMConfig struct {
	Provider       string  `yaml:"provider"` // anthropic | openai | google
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"api_key"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	MaxTokens      int      `yaml:"max_tokens"`
	Temperature    *float64 `yaml:"temperature"` // nil applies the default; 0 is a valid setting
}

// LimitsConfig bounds input and output sizes, in characters.
type LimitsConfig struct {
	MaxInputChars  int `yaml:"max_input_chars"`
	MaxOutputChars int `yaml:"max_output_chars"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

// Load reads the YAML file at path, fills in defaults, and applies
// environment overrides. When path is empty, DefaultPath is tried and its
// absence is not an error; an explicitly named file must exist.
func Load(path string) (Config, error) {
	var c Config

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file; defaults and environment take over.
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	c.applyEnv()
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.DatabasePath == "" {
		c.Server.DatabasePath = "data/reports.db"
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.LLM.Temperature == nil || *c.LLM.Temperature < 0 {
		t := 0.4
		c.LLM.Temperature = &t
	}
	if c.Limits.MaxInputChars <= 0 {
		c.Limits.MaxInputChars = 10000
	}
	if c.Limits.MaxOutputChars <= 0 {
		c.Limits.MaxOutputChars = 20000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("ASSISTANT_DB"); v != "" {
		c.Server.DatabasePath = v
	}
	if v := os.Getenv("ASSISTANT_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("ASSISTANT_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("ASSISTANT_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Timeout returns the live-call deadline as a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveProvider returns the provider to use: the configured one, or the
// first provider whose API key is present in the environment.
func (c LLMConfig) ResolveProvider() string {
	if c.Provider != "" {
		return c.Provider
	}
	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		return "anthropic"
	case os.Getenv("OPENAI_API_KEY") != "":
		return "openai"
	case os.Getenv("GOOGLE_API_KEY") != "":
		return "google"
	}
	return "anthropic"
}

// IsLLMConfigured reports whether a live backend can be reached: an API key
// in the config, or the resolved provider's key in the environment.
func (c Config) IsLLMConfigured() bool {
	if c.LLM.APIKey != "" {
		return true
	}
	switch c.LLM.ResolveProvider() {
	case "openai":
		return os.Getenv("OPENAI_API_KEY") != ""
	case "google", "gemini":
		return os.Getenv("GOOGLE_API_KEY") != ""
	default:
		return os.Getenv("ANTHROPIC_API_KEY") != ""
	}
}

// SlogLevel maps the configured level name onto a slog.Level. Unknown names
// fall back to Info.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
