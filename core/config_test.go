package core

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.DefaultTimeLimitMs != 1000 {
		t.Errorf("DefaultTimeLimitMs = %d, want 1000", cfg.DefaultTimeLimitMs)
	}
	if cfg.DefaultMemoryLimit != 128*1024*1024 {
		t.Errorf("DefaultMemoryLimit = %d, want 128MiB", cfg.DefaultMemoryLimit)
	}
	if !cfg.JudgeFailFast {
		t.Error("JudgeFailFast default should be true")
	}
	if cfg.JudgeUnsafeMode || cfg.JudgeNoStartupLimits {
		t.Error("JudgeUnsafeMode/JudgeNoStartupLimits should default to false")
	}
	if cfg.CompileTimeLimitMs != 5000 {
		t.Errorf("CompileTimeLimitMs = %d, want 5000", cfg.CompileTimeLimitMs)
	}
}

func TestIntFromEnvOverride(t *testing.T) {
	t.Setenv("JUDGE_DEFAULT_TIME_LIMIT_MS", "2500")
	cfg := Load()
	if cfg.DefaultTimeLimitMs != 2500 {
		t.Errorf("DefaultTimeLimitMs = %d, want 2500 after override", cfg.DefaultTimeLimitMs)
	}
}

func TestBoolFromEnvInvalidFallsBackToDefault(t *testing.T) {
	t.Setenv("JUDGE_FAIL_FAST", "not-a-bool")
	cfg := Load()
	if !cfg.JudgeFailFast {
		t.Error("invalid JUDGE_FAIL_FAST should fall back to default true")
	}
}
