// Package config loads the admitcheck process configuration from an optional
// YAML file, ADMITCHECK_* environment variables and built-in defaults, in
// increasing order of precedence: defaults < file < environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/admitcheck/pkg/narrator"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ADMITCHECK_"

// Session store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Server  ServerConfig       `yaml:"server"`
	Log     LogConfig          `yaml:"log"`
	Session SessionConfig      `yaml:"session"`
	LLM     narrator.LLMConfig `yaml:"llm"`

	// Rules is the rule source (.xlsx or .yaml). Empty serves with empty rules.
	Rules string `yaml:"rules"`
	// Catalog is a YAML catalog file or a directory of Markdown questions.
	// Empty uses the embedded default catalog.
	Catalog string `yaml:"catalog"`
	// Journal is the interaction log (.csv, .db). Empty disables it.
	Journal string `yaml:"journal"`
}

type ServerConfig struct {
	Port         int `yaml:"port"`
	MaxInputSize int `yaml:"max_input_size"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SessionConfig struct {
	Store         string        `yaml:"store"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	Redis         RedisConfig   `yaml:"redis"`

	// EncryptionKeys are comma-separated base64 AES-256 keys. When set,
	// sessions are stored encrypted; the first key is active, the rest
	// only decrypt.
	EncryptionKeys string `yaml:"encryption_keys"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			MaxInputSize: 4096,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Session: SessionConfig{
			Store:         StoreMemory,
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "admitcheck:session:",
			},
		},
		LLM:     narrator.DefaultLLMConfig(),
		Journal: "interactions.csv",
	}
}

// Load reads path (optional) and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg = ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays ADMITCHECK_* variables and the OPENAI_* narrator
// variables onto cfg. Unparsable values are ignored.
func ApplyEnv(cfg Config) Config {
	cfg.Server.Port = envInt("PORT", cfg.Server.Port)
	cfg.Server.MaxInputSize = envInt("MAX_INPUT_SIZE", cfg.Server.MaxInputSize)
	cfg.Log.Level = envStr("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envStr("LOG_FORMAT", cfg.Log.Format)
	cfg.Rules = envStr("RULES", cfg.Rules)
	cfg.Catalog = envStr("CATALOG", cfg.Catalog)
	cfg.Journal = envStr("JOURNAL", cfg.Journal)
	cfg.Session.Store = envStr("SESSION_STORE", cfg.Session.Store)
	cfg.Session.TTL = envDuration("SESSION_TTL", cfg.Session.TTL)
	cfg.Session.SweepInterval = envDuration("SESSION_SWEEP_INTERVAL", cfg.Session.SweepInterval)
	cfg.Session.EncryptionKeys = envStr("SESSION_ENCRYPTION_KEYS", cfg.Session.EncryptionKeys)
	cfg.Session.Redis.Addr = envStr("REDIS_ADDR", cfg.Session.Redis.Addr)
	cfg.Session.Redis.Password = envStr("REDIS_PASSWORD", cfg.Session.Redis.Password)
	cfg.Session.Redis.DB = envInt("REDIS_DB", cfg.Session.Redis.DB)
	cfg.Session.Redis.Prefix = envStr("REDIS_PREFIX", cfg.Session.Redis.Prefix)
	cfg.LLM = narrator.ApplyEnv(cfg.LLM)
	return cfg
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MaxInputSize < 1 {
		errs = append(errs, fmt.Errorf("server.max_input_size must be positive, got %d", c.Server.MaxInputSize))
	}
	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("session.store must be %q or %q, got %q", StoreMemory, StoreRedis, c.Session.Store))
	}
	if c.Session.TTL < 0 {
		errs = append(errs, fmt.Errorf("session.ttl must not be negative, got %s", c.Session.TTL))
	}
	if c.Session.Store == StoreRedis && c.Session.Redis.Addr == "" {
		errs = append(errs, errors.New("session.redis.addr is required for the redis store"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
