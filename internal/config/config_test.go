package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Binary != "claude" {
		t.Fatalf("expected default binary, got %q", cfg.LLM.Binary)
	}
	if cfg.Plan.DirName != "g3-plan" {
		t.Fatalf("expected default plan dir name, got %q", cfg.Plan.DirName)
	}
}

func TestLoadReadsYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := "llm:\n  binary: my-llm\n  model: haiku\nplan:\n  dir_name: plans\n"
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Binary != "my-llm" || cfg.LLM.Model != "haiku" {
		t.Fatalf("unexpected LLM config: %+v", cfg.LLM)
	}
	if cfg.Plan.DirName != "plans" {
		t.Fatalf("expected overridden plan dir name, got %q", cfg.Plan.DirName)
	}
	if cfg.PlanDir(dir) != filepath.Join(dir, "plans") {
		t.Fatalf("unexpected PlanDir: %s", cfg.PlanDir(dir))
	}
}
