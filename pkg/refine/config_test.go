package refine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	opts := cfg.Options()
	if err := opts.Validate(); err != nil {
		t.Errorf("default options invalid: %v", err)
	}
	if opts.DiffThreshold != 0.1 {
		t.Errorf("DiffThreshold = %g, want 0.1", opts.DiffThreshold)
	}
	if opts.MaxIteration != 100 {
		t.Errorf("MaxIteration = %d, want 100", opts.MaxIteration)
	}
	if opts.WeightByLength {
		t.Error("WeightByLength should default to false")
	}
}

func TestConfigSetOverrides(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("refine.diff_threshold", 0.25)
	cfg.Set("refine.max_iteration", 7)
	cfg.Set("refine.weight_by_length", true)

	opts := cfg.Options()
	if opts.DiffThreshold != 0.25 || opts.MaxIteration != 7 || !opts.WeightByLength {
		t.Errorf("overrides not applied: %+v", opts)
	}
}

func TestConfigLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "refine:\n  diff_threshold: 0.4\n  max_iteration: 25\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := NewConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.DiffThreshold() != 0.4 {
		t.Errorf("DiffThreshold = %g, want 0.4", cfg.DiffThreshold())
	}
	if cfg.MaxIteration() != 25 {
		t.Errorf("MaxIteration = %d, want 25", cfg.MaxIteration())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel())
	}
}
