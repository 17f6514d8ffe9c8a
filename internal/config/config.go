package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage and cache backends
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

// Config is the service configuration: YAML file first, environment on top
type Config struct {
	HTTPPort string `yaml:"http_port"`

	StoreBackend string `yaml:"store_backend"` // memory | mongo
	MongoURI     string `yaml:"mongo_uri"`
	MongoDB      string `yaml:"mongo_db"`

	CacheBackend string `yaml:"cache_backend"` // memory | redis
	RedisURI     string `yaml:"redis_uri"`

	JWTSecret         string `yaml:"jwt_secret"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`

	CORSAllowedOrigins string `yaml:"cors_allowed_origins"`
	CORSAllowedMethods string `yaml:"cors_allowed_methods"`
	CORSAllowedHeaders string `yaml:"cors_allowed_headers"`

	// Standard 5-field cron expression; empty disables periodic refresh
	MetricRefreshSchedule string `yaml:"metric_refresh_schedule"`
	MetricTTLMinutes      int    `yaml:"metric_ttl_minutes"`

	PollCompletionDelayMS int `yaml:"poll_completion_delay_ms"`

	SlackWebhookURL string `yaml:"slack_webhook_url"`

	LogLevel string `yaml:"log_level"`
	LogDev   bool   `yaml:"log_dev"`

	AI AIConfig `yaml:"ai"`
}

// Default returns a configuration that runs fully in memory
func Default() *Config {
	return &Config{
		HTTPPort:              "8080",
		StoreBackend:          BackendMemory,
		MongoDB:               "vozgestora",
		CacheBackend:          BackendMemory,
		JWTSecret:             "change-me-in-production",
		SessionTTLMinutes:     8 * 60,
		CORSAllowedOrigins:    "*",
		CORSAllowedMethods:    "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		CORSAllowedHeaders:    "Content-Type, Authorization",
		MetricRefreshSchedule: "*/15 * * * *",
		MetricTTLMinutes:      60,
		PollCompletionDelayMS: 2000,
		LogLevel:              "info",
		AI:                    DefaultAIConfig(),
	}
}

// Load reads the YAML file at path (missing file is fine) and applies env overrides.
// An empty path falls back to CONFIG_PATH, then config.yaml.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = "config.yaml"
		if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
			path = envPath
		}
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	envOverride(&c.HTTPPort, "PORT")
	envOverride(&c.StoreBackend, "STORE_BACKEND")
	envOverride(&c.MongoURI, "MONGO_URI")
	envOverride(&c.MongoDB, "MONGO_DB")
	envOverride(&c.CacheBackend, "CACHE_BACKEND")
	envOverride(&c.RedisURI, "REDIS_URI")
	envOverride(&c.JWTSecret, "JWT_SECRET")
	envOverrideInt(&c.SessionTTLMinutes, "SESSION_TTL_MINUTES")
	envOverride(&c.CORSAllowedOrigins, "CORS_ALLOWED_ORIGINS")
	envOverride(&c.CORSAllowedMethods, "CORS_ALLOWED_METHODS")
	envOverride(&c.CORSAllowedHeaders, "CORS_ALLOWED_HEADERS")
	envOverrideAllowEmpty(&c.MetricRefreshSchedule, "METRIC_REFRESH_SCHEDULE")
	envOverrideInt(&c.MetricTTLMinutes, "METRIC_TTL_MINUTES")
	envOverrideInt(&c.PollCompletionDelayMS, "POLL_COMPLETION_DELAY_MS")
	envOverride(&c.SlackWebhookURL, "SLACK_WEBHOOK_URL")
	envOverride(&c.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("LOG_DEV"); v != "" {
		c.LogDev = v == "1" || strings.EqualFold(v, "true")
	}
	c.AI.applyEnvOverrides()

	// Remove redis:// prefix if present
	c.RedisURI = strings.TrimPrefix(c.RedisURI, "redis://")
}

// Validate rejects backend combinations that cannot start
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoURI == "" {
			return errors.New("store_backend mongo requires mongo_uri")
		}
	default:
		return fmt.Errorf("unknown store_backend %q", c.StoreBackend)
	}
	switch c.CacheBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURI == "" {
			return errors.New("cache_backend redis requires redis_uri")
		}
	default:
		return fmt.Errorf("unknown cache_backend %q", c.CacheBackend)
	}
	switch c.AI.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}
	return nil
}

// SessionTTL is how long an idle session lives
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// MetricTTL is how long a generated metric snapshot is kept
func (c *Config) MetricTTL() time.Duration {
	return time.Duration(c.MetricTTLMinutes) * time.Minute
}

// PollCompletionDelay is the pause between SUCCESS and the completion callback
func (c *Config) PollCompletionDelay() time.Duration {
	return time.Duration(c.PollCompletionDelayMS) * time.Millisecond
}

func envOverride(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func envOverrideAllowEmpty(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*target = strings.TrimSpace(v)
	}
}

func envOverrideInt(target *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
