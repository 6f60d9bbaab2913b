// Package config provides configuration management for evconsole.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (EVC_*)
// 3. Project config (.evconsole/config.yaml in cwd)
// 4. Home config (~/.evconsole/config.yaml)
// 5. Defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all evconsole configuration.
type Config struct {
	// BaseURL is the API server the console talks to.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Output controls the default output format (table, json, yaml).
	Output string `yaml:"output" json:"output"`

	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// TimeoutSeconds is the HTTP request timeout.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`

	// Review settings
	Review ReviewConfig `yaml:"review" json:"review"`

	// Monitor settings
	Monitor MonitorConfig `yaml:"monitor" json:"monitor"`

	// Artifacts settings
	Artifacts ArtifactsConfig `yaml:"artifacts" json:"artifacts"`
}

// ReviewConfig holds review-session settings.
type ReviewConfig struct {
	// Actor is submitted with lifecycle actions when none is given.
	// Default: "operator-ui".
	Actor string `yaml:"actor" json:"actor"`

	// ActionsLimit caps the recent-actions listing.
	// Default: 20.
	ActionsLimit int `yaml:"actions_limit" json:"actions_limit"`
}

// MonitorConfig holds monitor-loop settings.
type MonitorConfig struct {
	// IntervalSeconds is the polling interval; 0 disables polling.
	IntervalSeconds int `yaml:"interval_seconds" json:"interval_seconds"`
}

// ArtifactsConfig holds manifest-classification thresholds. The cut-offs
// mirror the backend's typical artifact set, so they are configurable
// rather than hardcoded.
type ArtifactsConfig struct {
	// MinimalThreshold is the artifact count at which a bundle stops
	// being "thin". Default: 3.
	MinimalThreshold int `yaml:"minimal_threshold" json:"minimal_threshold"`

	// RichThreshold is the artifact count at which a bundle becomes
	// "rich". Default: 6.
	RichThreshold int `yaml:"rich_threshold" json:"rich_threshold"`
}

// Default config values (used in resolution and validation).
const (
	defaultBaseURL = "http://localhost:8000"
	defaultOutput  = "table"
	defaultActor   = "operator-ui"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL:        defaultBaseURL,
		Output:         defaultOutput,
		Verbose:        false,
		TimeoutSeconds: 30,
		Review: ReviewConfig{
			Actor:        defaultActor,
			ActionsLimit: 20,
		},
		Monitor: MonitorConfig{
			IntervalSeconds: 0,
		},
		Artifacts: ArtifactsConfig{
			MinimalThreshold: 3,
			RichThreshold:    6,
		},
	}
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
//
// The implicit config locations are optional: a missing or unreadable
// file there is skipped. A file named explicitly via EVC_CONFIG (or the
// --config flag, which sets it) must load, so a typoed path fails loudly
// instead of silently running on defaults.
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	homeConfig, _ := loadFromPath(homeConfigPath())
	if homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	projectConfig, err := loadFromPath(projectConfigPath())
	if err != nil && explicitConfigPath() != "" {
		return nil, fmt.Errorf("load config %s: %w", projectConfigPath(), err)
	}
	if projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".evconsole", "config.yaml")
}

// explicitConfigPath returns the operator-named config file, or "".
func explicitConfigPath() string {
	return strings.TrimSpace(os.Getenv("EVC_CONFIG"))
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := explicitConfigPath(); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".evconsole", "config.yaml")
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("EVC_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("EVC_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("EVC_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("EVC_ACTOR"); v != "" {
		cfg.Review.Actor = v
	}
	if v := os.Getenv("EVC_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
	return cfg
}

// merge overlays src onto dst. Zero values in src leave dst untouched,
// mirroring "unset" semantics for partial config files.
func merge(dst, src *Config) *Config {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Output != "" {
		dst.Output = src.Output
	}
	if src.Verbose {
		dst.Verbose = true
	}
	if src.TimeoutSeconds > 0 {
		dst.TimeoutSeconds = src.TimeoutSeconds
	}
	if src.Review.Actor != "" {
		dst.Review.Actor = src.Review.Actor
	}
	if src.Review.ActionsLimit > 0 {
		dst.Review.ActionsLimit = src.Review.ActionsLimit
	}
	if src.Monitor.IntervalSeconds > 0 {
		dst.Monitor.IntervalSeconds = src.Monitor.IntervalSeconds
	}
	if src.Artifacts.MinimalThreshold > 0 {
		dst.Artifacts.MinimalThreshold = src.Artifacts.MinimalThreshold
	}
	if src.Artifacts.RichThreshold > 0 {
		dst.Artifacts.RichThreshold = src.Artifacts.RichThreshold
	}
	return dst
}
