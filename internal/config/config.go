// Package config loads the operator's per-repository settings: which LLM
// CLI to shell out to, where background-process logs and the plan
// directory live, and which git status lines to ignore when warning about
// a dirty working tree.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the operator-facing configuration for one codepath.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Git     GitConfig     `mapstructure:"git"`
	Process ProcessConfig `mapstructure:"process"`
	Plan    PlanConfig    `mapstructure:"plan"`
}

// LLMConfig selects and configures the backend CLI the planner shells out
// to.
type LLMConfig struct {
	Backend      string   `mapstructure:"backend"`
	Binary       string   `mapstructure:"binary"`
	Model        string   `mapstructure:"model"`
	AllowedTools []string `mapstructure:"allowed_tools"`
}

// GitConfig holds git-related overrides.
type GitConfig struct {
	IgnorePattern string `mapstructure:"ignore_pattern"`
}

// ProcessConfig configures the background process supervisor.
type ProcessConfig struct {
	LogDir string `mapstructure:"log_dir"`
}

// PlanConfig configures the plan directory's location.
type PlanConfig struct {
	DirName string `mapstructure:"dir_name"`
}

const configFileName = "g3.yaml"

// Load reads <codepath>/g3.yaml if present, applies defaults for missing
// fields, loads a sibling .env file (if any) into the process environment,
// and lets G3_-prefixed environment variables override any field.
func Load(codepath string) (*Config, error) {
	envPath := filepath.Join(codepath, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("G3")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper already knows about, so bind every
	// field's key explicitly for the environment override to apply to it.
	for _, key := range []string{
		"llm.backend", "llm.binary", "llm.model", "llm.allowed_tools",
		"git.ignore_pattern", "process.log_dir", "plan.dir_name",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	configPath := filepath.Join(codepath, configFileName)
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", configFileName, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFileName, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Backend: "claude-cli",
			Binary:  "claude",
			Model:   "sonnet",
			AllowedTools: []string{
				"Read", "Write", "Edit", "Bash", "Glob", "Grep",
			},
		},
		Git: GitConfig{
			IgnorePattern: "",
		},
		Process: ProcessConfig{
			LogDir: "g3-plan/logs",
		},
		Plan: PlanConfig{
			DirName: "g3-plan",
		},
	}
}

func applyDefaults(cfg *Config) {
	d := DefaultConfig()
	if cfg.LLM.Backend == "" {
		cfg.LLM.Backend = d.LLM.Backend
	}
	if cfg.LLM.Binary == "" {
		cfg.LLM.Binary = d.LLM.Binary
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = d.LLM.Model
	}
	if len(cfg.LLM.AllowedTools) == 0 {
		cfg.LLM.AllowedTools = d.LLM.AllowedTools
	}
	if cfg.Process.LogDir == "" {
		cfg.Process.LogDir = d.Process.LogDir
	}
	if cfg.Plan.DirName == "" {
		cfg.Plan.DirName = d.Plan.DirName
	}
}

// PlanDir resolves the absolute plan directory path for codepath.
func (c *Config) PlanDir(codepath string) string {
	return filepath.Join(codepath, c.Plan.DirName)
}

// ProcessLogDir resolves the absolute background-process log directory.
func (c *Config) ProcessLogDir(codepath string) string {
	return filepath.Join(codepath, c.Process.LogDir)
}
