// Package config handles loading configuration from .lessonrc files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/leonardomso/lessonblocks/internal/output"
	"github.com/leonardomso/lessonblocks/internal/parser"
	"github.com/leonardomso/lessonblocks/internal/render"
)

// DefaultConfigFileName is the default configuration file name.
const DefaultConfigFileName = ".lessonrc.yaml"

// EnvConfigPath names the environment variable that points at a config file.
// It may be set in a .env file.
const EnvConfigPath = "LESSONBLOCKS_CONFIG"

// FileNames are the config file names searched in each directory, in order.
var FileNames = []string{DefaultConfigFileName, ".lessonrc.yml", ".lessonrc.toml"}

// Config represents the complete configuration structure.
type Config struct {
	// Types restricts scanning to these section file types (e.g. "md", "json").
	Types  []string     `yaml:"types" toml:"types"`
	Scan   ScanConfig   `yaml:"scan" toml:"scan"`
	Parse  ParseConfig  `yaml:"parse" toml:"parse"`
	Render RenderConfig `yaml:"render" toml:"render"`
	Output OutputConfig `yaml:"output" toml:"output"`
	Server ServerConfig `yaml:"server" toml:"server"`
	Log    LogConfig    `yaml:"log" toml:"log"`

	// Path is the file the config was loaded from, empty when none was found.
	Path string `yaml:"-" toml:"-"`
}

// ScanConfig holds glob filters applied to paths relative to the scan root.
type ScanConfig struct {
	Include []string `yaml:"include" toml:"include"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
}

// ParseConfig holds parser settings.
type ParseConfig struct {
	// FencePolicy is "skip" (default) or "duplicate".
	FencePolicy string `yaml:"fence_policy" toml:"fence_policy"`
	// Concurrency bounds how many files are parsed at once. 0 means GOMAXPROCS.
	Concurrency int `yaml:"concurrency" toml:"concurrency"`
	// Strict makes unreadable section files fatal instead of skipped.
	Strict bool `yaml:"strict" toml:"strict"`
}

// RenderConfig holds presentation settings.
type RenderConfig struct {
	Renderer string `yaml:"renderer" toml:"renderer"`
	Width    int    `yaml:"width" toml:"width"`
	FontSize string `yaml:"font_size" toml:"font_size"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// LogConfig holds structured logging settings for long-running commands.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Parse.Validate(); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// Validate validates the parse configuration.
func (c *ParseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FencePolicy, validation.By(func(value any) error {
			s, _ := value.(string)
			if _, ok := parser.ParseFencePolicy(s); !ok {
				return errors.New("must be skip or duplicate")
			}
			return nil
		})),
		validation.Field(&c.Concurrency, validation.Min(0), validation.Max(1024)),
	)
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	names := make([]any, 0, len(render.Names()))
	for _, n := range render.Names() {
		names = append(names, n)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Renderer, validation.In(names...)),
		validation.Field(&c.Width, validation.Min(0)),
		validation.Field(&c.FontSize, validation.By(func(value any) error {
			s, _ := value.(string)
			_, err := render.ParseFontSize(s)
			return err
		})),
	)
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.By(func(value any) error {
			s, _ := value.(string)
			if s != "" && !output.IsValidFormat(s) {
				return fmt.Errorf("must be one of %s", strings.Join(output.ValidFormats(), ", "))
			}
			return nil
		})),
	)
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.By(func(value any) error {
			s, _ := value.(string)
			if s == "" {
				return nil
			}
			_, _, err := net.SplitHostPort(s)
			return err
		})),
	)
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.In("text", "json")),
	)
}

// SlogLevel maps the configured level to a slog.Level, defaulting to info.
func (c *LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads configuration from .lessonrc.yaml in the current directory.
// Returns an empty config if the file doesn't exist (not an error).
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFileName)
}

// LoadFrom reads configuration from a specific path. Files ending in .toml
// are decoded as TOML, anything else as YAML. Environment variables in the
// file are expanded before decoding.
// Returns an empty config if the file doesn't exist (not an error).
// Returns an error if the file exists but cannot be parsed or is invalid.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		// File not found is not an error - just return empty config
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal([]byte(expanded), cfg)
	} else {
		err = yaml.Unmarshal([]byte(expanded), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.Path = path
	return cfg, nil
}

// FindAndLoad searches for a config file starting from the given directory
// and walking up to parent directories until it finds one or reaches root.
func FindAndLoad(startDir string) (*Config, error) {
	dir := startDir

	for {
		for _, name := range FileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return LoadFrom(configPath)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// Resolve loads the file named by LESSONBLOCKS_CONFIG when set, and falls
// back to FindAndLoad otherwise. A configured path that does not exist is
// an error.
func Resolve(startDir string) (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvConfigPath, err)
		}
		return LoadFrom(path)
	}
	return FindAndLoad(startDir)
}

// IsEmpty returns true if the config sets nothing.
func (c *Config) IsEmpty() bool {
	return len(c.Types) == 0 &&
		len(c.Scan.Include) == 0 &&
		len(c.Scan.Exclude) == 0 &&
		c.Parse == ParseConfig{} &&
		c.Render == RenderConfig{} &&
		c.Output == OutputConfig{} &&
		c.Server == ServerConfig{} &&
		c.Log == LogConfig{}
}

// Merge combines another config into this one. Lists are appended and
// scalar values set in other replace those in c.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	c.Types = append(c.Types, other.Types...)
	c.Scan.Include = append(c.Scan.Include, other.Scan.Include...)
	c.Scan.Exclude = append(c.Scan.Exclude, other.Scan.Exclude...)

	setString(&c.Parse.FencePolicy, other.Parse.FencePolicy)
	setInt(&c.Parse.Concurrency, other.Parse.Concurrency)
	c.Parse.Strict = c.Parse.Strict || other.Parse.Strict

	setString(&c.Render.Renderer, other.Render.Renderer)
	setInt(&c.Render.Width, other.Render.Width)
	setString(&c.Render.FontSize, other.Render.FontSize)

	setString(&c.Output.Format, other.Output.Format)
	setString(&c.Server.Addr, other.Server.Addr)
	setString(&c.Log.Level, other.Log.Level)
	setString(&c.Log.Format, other.Log.Format)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
