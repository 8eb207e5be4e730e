// ============================================================================
// mIDE - Front-end for a small teaching language
// ============================================================================
//
// Package:     config
// Description: Application configuration from TOML or YAML files
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mideerror "github.com/msto63/mIDE/pkg/core/error"
	midelog "github.com/msto63/mIDE/pkg/core/logging"
)

// EnvConfigPath names the environment variable that points at the config file
const EnvConfigPath = "MIDE_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General   GeneralConfig   `toml:"general" yaml:"general"`
	Output    OutputConfig    `toml:"output" yaml:"output"`
	Store     StoreConfig     `toml:"store" yaml:"store"`
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Inspector InspectorConfig `toml:"inspector" yaml:"inspector"`
}

// GeneralConfig holds logging settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// OutputConfig controls the result files and formats of the command line
type OutputConfig struct {
	TokenFile string `toml:"token_file" yaml:"token_file"`
	ASTFormat string `toml:"ast_format" yaml:"ast_format"`
}

// StoreConfig holds the analysis history database settings
type StoreConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// ServerConfig holds the live analysis endpoint settings
type ServerConfig struct {
	Host         string   `toml:"host" yaml:"host"`
	Port         int      `toml:"port" yaml:"port"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`
	CacheSize    int      `toml:"cache_size" yaml:"cache_size"` // analysis results kept for unchanged buffers
	CacheTTL     Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// Address returns host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// InspectorConfig holds terminal inspector settings
type InspectorConfig struct {
	Watch    bool     `toml:"watch" yaml:"watch"`
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration is a wrapper for time.Duration that supports text unmarshaling
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a configuration file. Files ending in .yaml or .yml are read
// as YAML, everything else as TOML.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, mideerror.Newf("config file not found: %s", path).
			WithCode(mideerror.CodeConfigError).
			WithOperation("config.Load")
	}

	var cfg Config
	switch detectFormat(path) {
	case "yaml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, mideerror.Wrap(err, "failed to read config").WithCode(mideerror.CodeIOError)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, mideerror.Wrap(err, "failed to parse config").
				WithCode(mideerror.CodeConfigError).
				WithDetail("path", path)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, mideerror.Wrap(err, "failed to parse config").
				WithCode(mideerror.CodeConfigError).
				WithDetail("path", path)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by MIDE_CONFIG or the first file found in
// the default locations. Without any file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./configs/config.toml",
		"./config.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mide", "config.toml"))
	}
	return paths
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

func (c *Config) applyDefaults() {
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	if c.Output.ASTFormat == "" {
		c.Output.ASTFormat = "text"
	}

	if c.Store.Path == "" {
		c.Store.Path = "${HOME}/.local/share/mide/history.db"
	}

	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8470
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = 256
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 10 * time.Minute
	}

	if c.Inspector.Debounce.Duration == 0 {
		c.Inspector.Debounce.Duration = 150 * time.Millisecond
	}
}

func (c *Config) expandEnvVars() {
	c.Store.Path = os.ExpandEnv(c.Store.Path)
	c.Output.TokenFile = os.ExpandEnv(c.Output.TokenFile)
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}) error {
		return mideerror.Newf("invalid value for %s: %v", field, value).
			WithCode(mideerror.CodeConfigError).
			WithOperation("config.Validate").
			WithDetail("field", field)
	}

	if _, err := midelog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel)
	}
	if _, err := midelog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat)
	}
	switch c.Output.ASTFormat {
	case "text", "json", "yaml":
	default:
		return invalid("output.ast_format", c.Output.ASTFormat)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port)
	}
	if c.Server.CacheSize < 0 {
		return invalid("server.cache_size", c.Server.CacheSize)
	}
	if c.Inspector.Debounce.Duration < 0 {
		return invalid("inspector.debounce", c.Inspector.Debounce)
	}
	return nil
}
