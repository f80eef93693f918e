// Package config loads server configuration from defaults, an optional
// YAML file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config represents the complete application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Session   SessionConfig   `mapstructure:"session"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects and configures the credential store backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"` // SQLite file
	URL    string `mapstructure:"url"`  // Postgres connection URL
}

// AuthConfig holds password hashing and cookie settings.
type AuthConfig struct {
	JWTSecret    string `mapstructure:"jwt_secret"`
	BcryptCost   int    `mapstructure:"bcrypt_cost"`
	CookieSecure bool   `mapstructure:"cookie_secure"`
}

// SessionConfig selects the session store and session lifetime.
type SessionConfig struct {
	Store    string        `mapstructure:"store"`
	TTL      time.Duration `mapstructure:"ttl"`
	RedisURL string        `mapstructure:"redis_url"`
}

// AssistantConfig configures the delegated LLM provider. The API key is
// only ever read from the environment or a config file.
type AssistantConfig struct {
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig throttles login and registration attempts per client IP.
type RateLimitConfig struct {
	Rate  float64 `mapstructure:"rate"`  // tokens per second
	Burst float64 `mapstructure:"burst"` // bucket capacity
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"database.driver":         "DATABASE_DRIVER",
	"database.path":           "DATABASE_PATH",
	"database.url":            "DATABASE_URL",
	"auth.jwt_secret":         "JWT_SECRET",
	"auth.bcrypt_cost":        "BCRYPT_COST",
	"auth.cookie_secure":      "COOKIE_SECURE",
	"session.store":           "SESSION_STORE",
	"session.ttl":             "SESSION_TTL",
	"session.redis_url":       "REDIS_URL",
	"assistant.provider":      "ASSISTANT_PROVIDER",
	"assistant.api_key":       "ASSISTANT_API_KEY",
	"assistant.model":         "ASSISTANT_MODEL",
	"assistant.base_url":      "ASSISTANT_BASE_URL",
	"assistant.timeout":       "ASSISTANT_TIMEOUT",
	"rate_limit.rate":         "LOGIN_RATE",
	"rate_limit.burst":        "LOGIN_BURST",
	"log.level":               "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "ekaksh.db")

	v.SetDefault("auth.bcrypt_cost", 12)
	// Default to secure cookies; disable only for local development.
	v.SetDefault("auth.cookie_secure", true)

	v.SetDefault("session.store", SessionStoreMemory)
	v.SetDefault("session.ttl", 24*time.Hour)

	v.SetDefault("assistant.provider", ProviderGroq)
	v.SetDefault("assistant.timeout", 0)

	v.SetDefault("rate_limit.rate", 0.2)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("log.level", "info")
}

// Load reads configuration. configPath may be empty, in which case only
// defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration needed to serve requests.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.Auth.BcryptCost))
	}

	errs = append(errs, c.Database.validate())

	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Session.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when SESSION_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session store %q", c.Session.Store))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	switch c.Assistant.Provider {
	case ProviderGroq, ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("unknown assistant provider %q", c.Assistant.Provider))
	}
	if c.Assistant.APIKey == "" {
		errs = append(errs, errors.New("ASSISTANT_API_KEY is required"))
	}
	if c.Assistant.Timeout < 0 {
		errs = append(errs, errors.New("ASSISTANT_TIMEOUT must not be negative"))
	}

	if c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("LOGIN_BURST must be at least 1"))
	}

	return errors.Join(errs...)
}

func (c DatabaseConfig) validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return errors.New("DATABASE_PATH is required when DATABASE_DRIVER=sqlite")
		}
	case DriverPostgres:
		if c.URL == "" {
			return errors.New("DATABASE_URL is required when DATABASE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Driver)
	}
	return nil
}

// ValidateDatabase checks only the database settings, for commands that
// do not serve HTTP.
func (c *Config) ValidateDatabase() error {
	return c.Database.validate()
}

// SlogLevel maps the configured level name to a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
