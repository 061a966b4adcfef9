package configloader

import (
	"testing"

	"github.com/yaklabco/fmtlift/pkg/config"
)

// These tests use t.Setenv, so they must not be parallel.

func TestLoadFromEnv_AppliesValues(t *testing.T) {
	t.Setenv("FMTLIFT_FORMAT", "diff")
	t.Setenv("FMTLIFT_JOBS", "6")
	t.Setenv("FMTLIFT_MAX_PASSES", "4")
	t.Setenv("FMTLIFT_IGNORE", "target/**, benches/**")
	t.Setenv("FMTLIFT_EXTENSIONS", ".rs,.rs.in")
	t.Setenv("FMTLIFT_CHECK", "true")
	t.Setenv("FMTLIFT_NO_CACHE", "1")
	t.Setenv("FMTLIFT_BACKUPS_ENABLED", "true")
	t.Setenv("FMTLIFT_BACKUPS_MODE", "none")

	cfg := config.NewConfig()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Format != config.FormatDiff {
		t.Errorf("expected format diff, got %q", cfg.Format)
	}
	if cfg.Jobs != 6 {
		t.Errorf("expected jobs 6, got %d", cfg.Jobs)
	}
	if cfg.MaxPasses != 4 {
		t.Errorf("expected max_passes 4, got %d", cfg.MaxPasses)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "target/**" || cfg.Ignore[1] != "benches/**" {
		t.Errorf("expected trimmed ignore list, got %v", cfg.Ignore)
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[1] != ".rs.in" {
		t.Errorf("expected extensions [.rs .rs.in], got %v", cfg.Extensions)
	}
	if !cfg.Check {
		t.Error("expected check true")
	}
	if !cfg.NoCache {
		t.Error("expected no_cache true")
	}
	if !cfg.Backups.Enabled {
		t.Error("expected backups.enabled true")
	}
	if cfg.Backups.Mode != "none" {
		t.Errorf("expected backups.mode none, got %q", cfg.Backups.Mode)
	}
}

func TestLoadFromEnv_EmptyValuesIgnored(t *testing.T) {
	t.Setenv("FMTLIFT_JOBS", "")

	cfg := config.NewConfig()
	cfg.Jobs = 3
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Jobs != 3 {
		t.Errorf("expected jobs 3 (empty env ignored), got %d", cfg.Jobs)
	}
}

func TestLoadFromEnv_InvalidInteger(t *testing.T) {
	t.Setenv("FMTLIFT_JOBS", "many")

	cfg := config.NewConfig()
	err := LoadFromEnv(cfg)
	if err == nil {
		t.Fatal("expected error for invalid integer")
	}
}

func TestLoadFromEnv_InvalidBoolean(t *testing.T) {
	t.Setenv("FMTLIFT_DRY_RUN", "maybe")

	cfg := config.NewConfig()
	err := LoadFromEnv(cfg)
	if err == nil {
		t.Fatal("expected error for invalid boolean")
	}
}

func TestLoadFromEnv_NilConfig(t *testing.T) {
	if err := LoadFromEnv(nil); err != nil {
		t.Errorf("LoadFromEnv(nil) error = %v", err)
	}
}

func TestGetEnvVarName(t *testing.T) {
	t.Parallel()

	if got := GetEnvVarName("jobs"); got != "FMTLIFT_JOBS" {
		t.Errorf("expected FMTLIFT_JOBS, got %q", got)
	}
	if got := GetEnvVarName("backups.mode"); got != "FMTLIFT_BACKUPS_MODE" {
		t.Errorf("expected FMTLIFT_BACKUPS_MODE, got %q", got)
	}
	if got := GetEnvVarName("nonexistent"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestListEnvVars_CoversMappings(t *testing.T) {
	t.Parallel()

	listed := ListEnvVars()
	for suffix := range envMappings {
		if _, ok := listed[envVarPrefix+suffix]; !ok {
			t.Errorf("mapping %s missing from ListEnvVars()", envVarPrefix+suffix)
		}
	}
}
