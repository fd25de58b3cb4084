// Package config loads service settings from config/grantfinder.yaml, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"grant_finder/pkg/core/llm"
	"grant_finder/pkg/models"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "config/grantfinder.yaml"

// Config is the full service configuration.
type Config struct {
	Addr            string       `yaml:"addr"`
	Provider        string       `yaml:"provider"`     // "gemini" or "fixture"
	FixturePath     string       `yaml:"fixture_path"` // used by the fixture provider
	Model           string       `yaml:"model"`
	ThinkingBudget  int32        `yaml:"thinking_budget"`
	DefaultLanguage string       `yaml:"default_language"`
	PromptDir       string       `yaml:"prompt_dir"`  // optional prompt overrides
	SecretsDir      string       `yaml:"secrets_dir"` // holds gemini-api-key
	LogLevel        string       `yaml:"log_level"`
	Export          ExportConfig `yaml:"export"`

	// APIKey comes from the environment only, never from the YAML file.
	APIKey string `yaml:"-"`
}

// ExportConfig controls PDF export.
type ExportConfig struct {
	ChromeBin     string  `yaml:"chrome_bin"` // empty lets rod download or find a browser
	Scale         float64 `yaml:"scale"`
	ViewportWidth int     `yaml:"viewport_width"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:            ":8080",
		Provider:        "gemini",
		Model:           llm.DefaultGeminiModel,
		ThinkingBudget:  10000,
		DefaultLanguage: string(models.DefaultLanguage),
		SecretsDir:      ".secrets",
		LogLevel:        "info",
		Export: ExportConfig{
			Scale:         2,
			ViewportWidth: 1200,
		},
	}
}

// Language returns the configured default language.
func (c Config) Language() models.Language {
	return models.ParseLanguage(c.DefaultLanguage)
}

// Load reads path (DefaultPath when empty) over the defaults, then applies
// environment overrides. A missing file is fine; a malformed one is not.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.APIKey = os.Getenv("GEMINI_API_KEY")
	if c.APIKey == "" {
		c.APIKey = os.Getenv("API_KEY")
	}
	if v := os.Getenv("GRANTFINDER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("GRANTFINDER_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("GRANTFINDER_FIXTURE"); v != "" {
		c.FixturePath = v
	}
	if v := os.Getenv("GRANTFINDER_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("GRANTFINDER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GRANTFINDER_THINKING_BUDGET"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("GRANTFINDER_THINKING_BUDGET: %w", err)
		}
		c.ThinkingBudget = int32(n)
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
	case "fixture":
		if c.FixturePath == "" {
			return fmt.Errorf("provider fixture needs fixture_path")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.ThinkingBudget < 0 {
		return fmt.Errorf("thinking_budget must not be negative")
	}
	if c.Export.Scale <= 0 {
		return fmt.Errorf("export.scale must be positive")
	}
	return nil
}
