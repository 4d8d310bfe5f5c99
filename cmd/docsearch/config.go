package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds settings read from the optional YAML config file.
type Config struct {
	// Concurrency bounds parallel extraction in grep. Zero means GOMAXPROCS.
	Concurrency int `yaml:"concurrency"`

	// LogLevel is one of debug, info, warn or error. Defaults to warn.
	LogLevel string `yaml:"log_level"`

	// EPUBMarkdown renders EPUB chapters as Markdown instead of plain text.
	EPUBMarkdown bool `yaml:"epub_markdown"`

	// IncludeHidden makes grep descend into dot files and directories.
	IncludeHidden bool `yaml:"include_hidden"`
}

// LoadConfig reads the config file at path. A missing file yields the
// defaults; a file that does not parse is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{LogLevel: "warn"}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("invalid config %q: concurrency must not be negative", path)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid config %q: unknown log_level %q", path, cfg.LogLevel)
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func defaultConfigPath() string {
	if path := os.Getenv("DOCSEARCH_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docsearch", "config.yaml")
}
