package narrator

import (
	"os"
	"strconv"
	"time"
)

// LLMConfig configures the OpenAI-compatible completion client.
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	Temperature float64       `yaml:"temperature"`
}

// DefaultLLMConfig returns production defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4o-mini",
		Timeout:     15 * time.Second,
		MaxRetries:  1,
		Temperature: 0.3,
	}
}

// Enabled reports whether the client has credentials.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// LoadLLMConfigFromEnv applies OPENAI_* environment overrides on top of the defaults.
func LoadLLMConfigFromEnv() LLMConfig {
	return ApplyEnv(DefaultLLMConfig())
}

// ApplyEnv overlays OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_MODEL,
// OPENAI_TIMEOUT and OPENAI_MAX_RETRIES onto cfg.
func ApplyEnv(cfg LLMConfig) LLMConfig {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("OPENAI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("OPENAI_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	return cfg
}
