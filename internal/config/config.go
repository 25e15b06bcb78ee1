// Package config loads YAML configuration for the mdnav CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrInputTooLarge  = errors.New("config exceeds maximum size")
)

// Field length limits.
const (
	MaxTitleLength = 100  // outline caption
	MaxAddrLength  = 64   // listen address
	maxConfigBytes = 1 << 20
)

// Config holds all configuration for document navigation.
type Config struct {
	Outline OutlineConfig `yaml:"outline"`
	Tracker TrackerConfig `yaml:"tracker"`
	Serve   ServeConfig   `yaml:"serve"`
}

// OutlineConfig defines outline building and rendering options.
type OutlineConfig struct {
	MaxDepth    int    `yaml:"maxDepth"`    // deepest heading level rendered (0 = all six)
	MinHeadings int    `yaml:"minHeadings"` // below this count the outline is suppressed (0 = default 2)
	Numbered    bool   `yaml:"numbered"`
	Title       string `yaml:"title"` // optional outline caption
}

// TrackerConfig defines scroll tracking options.
type TrackerConfig struct {
	ThresholdRatio float64 `yaml:"thresholdRatio"` // look-ahead as a fraction of viewport height (0 = default 0.30)
	ScrollOffsetPx int     `yaml:"scrollOffsetPx"` // click-to-scroll alignment offset from viewport top
}

// ServeConfig defines preview server options.
type ServeConfig struct {
	Addr  string `yaml:"addr"`  // listen address (default ":7717")
	Watch bool   `yaml:"watch"` // rebuild on source file change
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Serve: ServeConfig{Addr: ":7717"},
	}
}

// Load reads and validates a config file. A missing file is an error;
// callers decide whether a config file is optional.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}
	if len(data) > maxConfigBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), maxConfigBytes)
	}

	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field bounds. Zero values always pass; they mean
// "use the default".
func (c *Config) Validate() error {
	if len(c.Outline.Title) > MaxTitleLength {
		return fmt.Errorf("%w: outline.title (%d chars, max %d)", ErrFieldTooLong, len(c.Outline.Title), MaxTitleLength)
	}
	if len(c.Serve.Addr) > MaxAddrLength {
		return fmt.Errorf("%w: serve.addr (%d chars, max %d)", ErrFieldTooLong, len(c.Serve.Addr), MaxAddrLength)
	}
	if c.Outline.MaxDepth < 0 || c.Outline.MaxDepth > 6 {
		return fmt.Errorf("outline.maxDepth must be between 0 and 6, got %d", c.Outline.MaxDepth)
	}
	if c.Outline.MinHeadings < 0 {
		return fmt.Errorf("outline.minHeadings must not be negative, got %d", c.Outline.MinHeadings)
	}
	if c.Tracker.ThresholdRatio < 0 || c.Tracker.ThresholdRatio > 1 {
		return fmt.Errorf("tracker.thresholdRatio must be between 0 and 1, got %g", c.Tracker.ThresholdRatio)
	}
	if c.Tracker.ScrollOffsetPx < 0 {
		return fmt.Errorf("tracker.scrollOffsetPx must not be negative, got %d", c.Tracker.ScrollOffsetPx)
	}
	return nil
}
