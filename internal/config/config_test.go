package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("Default BaseURL = %q, want %q", cfg.BaseURL, "http://localhost:8000")
	}
	if cfg.Output != "table" {
		t.Errorf("Default Output = %q, want %q", cfg.Output, "table")
	}
	if cfg.Verbose {
		t.Error("Default Verbose = true, want false")
	}
	if cfg.Review.Actor != "operator-ui" {
		t.Errorf("Default Review.Actor = %q, want %q", cfg.Review.Actor, "operator-ui")
	}
	if cfg.Review.ActionsLimit != 20 {
		t.Errorf("Default Review.ActionsLimit = %d, want 20", cfg.Review.ActionsLimit)
	}
	if cfg.Monitor.IntervalSeconds != 0 {
		t.Errorf("Default Monitor.IntervalSeconds = %d, want 0", cfg.Monitor.IntervalSeconds)
	}
	if cfg.Artifacts.MinimalThreshold != 3 || cfg.Artifacts.RichThreshold != 6 {
		t.Errorf("Default Artifacts thresholds = %d/%d, want 3/6",
			cfg.Artifacts.MinimalThreshold, cfg.Artifacts.RichThreshold)
	}
}

func TestMerge(t *testing.T) {
	dst := Default()
	src := &Config{
		BaseURL: "http://ops.internal:9000",
		Output:  "json",
		Review:  ReviewConfig{Actor: "alice"},
	}

	result := merge(dst, src)

	if result.BaseURL != "http://ops.internal:9000" {
		t.Errorf("merge BaseURL = %q", result.BaseURL)
	}
	if result.Output != "json" {
		t.Errorf("merge Output = %q, want json", result.Output)
	}
	if result.Review.Actor != "alice" {
		t.Errorf("merge Review.Actor = %q, want alice", result.Review.Actor)
	}
	// Defaults should be preserved when not overridden
	if result.TimeoutSeconds != 30 {
		t.Errorf("merge preserved TimeoutSeconds = %d, want 30", result.TimeoutSeconds)
	}
	if result.Artifacts.RichThreshold != 6 {
		t.Errorf("merge preserved RichThreshold = %d, want 6", result.Artifacts.RichThreshold)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("EVC_BASE_URL", "http://env.example:8000")
	t.Setenv("EVC_ACTOR", "bot-reviewer")
	t.Setenv("EVC_TIMEOUT_SECONDS", "5")

	cfg := applyEnv(Default())

	if cfg.BaseURL != "http://env.example:8000" {
		t.Errorf("env BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Review.Actor != "bot-reviewer" {
		t.Errorf("env Review.Actor = %q", cfg.Review.Actor)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Errorf("env TimeoutSeconds = %d, want 5", cfg.TimeoutSeconds)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("base_url: http://file.example:8000\nartifacts:\n  rich_threshold: 8\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "http://file.example:8000" {
		t.Errorf("file BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Artifacts.RichThreshold != 8 {
		t.Errorf("file RichThreshold = %d, want 8", cfg.Artifacts.RichThreshold)
	}

	merged := merge(Default(), cfg)
	if merged.Artifacts.MinimalThreshold != 3 {
		t.Errorf("merge dropped MinimalThreshold default: %d", merged.Artifacts.MinimalThreshold)
	}
}

func TestLoadExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ops.yaml")
	data := []byte("base_url: http://explicit.example:8000\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EVC_CONFIG", path)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "http://explicit.example:8000" {
		t.Errorf("explicit config BaseURL = %q", cfg.BaseURL)
	}
}

func TestLoadExplicitConfigFailsLoudly(t *testing.T) {
	t.Setenv("EVC_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(nil); err == nil {
		t.Fatal("Load with a missing explicit config returned nil error")
	}

	// Malformed YAML in an explicit file is also an error, not a
	// fall-through to defaults.
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("base_url: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EVC_CONFIG", bad)
	if _, err := Load(nil); err == nil {
		t.Fatal("Load with a malformed explicit config returned nil error")
	}
}
