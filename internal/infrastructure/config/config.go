package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Notify    NotifyConfig
	Policy    PolicyConfig
	Telemetry TelemetryConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=plans_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// NotifyConfig controls notification delivery. Workers == 0 writes
// notifications synchronously on the request path.
type NotifyConfig struct {
	Workers  int           `env:"NOTIFY_WORKERS,   default=4"`
	DedupTTL time.Duration `env:"NOTIFY_DEDUP_TTL, default=24h"`
}

type PolicyConfig struct {
	CommentRequiresApproval bool `env:"COMMENT_REQUIRES_APPROVAL, default=true"`
}

type TelemetryConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED,  default=false"`
	Endpoint string `env:"OTEL_ENDPOINT"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" && !cfg.IsDevelopment() {
		return nil, fmt.Errorf("config: JWT_SECRET is required outside development")
	}
	if cfg.Notify.Workers < 0 {
		return nil, fmt.Errorf("config: NOTIFY_WORKERS must not be negative")
	}
	return &cfg, nil
}
