package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envProduction = "production"

type Config struct {
	Port      string `env:"PORT,       default=5000"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	ClientURL string `env:"CLIENT_URL, default=http://localhost:3000"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Social SocialConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=twitter-db"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	LockTTL  time.Duration `env:"FOLLOW_LOCK_TTL, default=5s"`
}

// SocialConfig tunes the social graph and the notification pipeline.
type SocialConfig struct {
	NotifyWorkers int `env:"NOTIFY_WORKERS, default=4"`
	SuggestPool   int `env:"SUGGEST_POOL,   default=10"`
	SuggestLimit  int `env:"SUGGEST_LIMIT,  default=4"`
}

// Production reports whether the service runs with ENV=production.
func (c *Config) Production() bool {
	return c.Env == envProduction
}

// Secure reports whether session cookies must carry the Secure attribute.
func (c *Config) Secure() bool {
	return c.Production()
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	if cfg.Social.SuggestLimit > cfg.Social.SuggestPool {
		return nil, fmt.Errorf("SUGGEST_LIMIT (%d) must not exceed SUGGEST_POOL (%d)",
			cfg.Social.SuggestLimit, cfg.Social.SuggestPool)
	}
	return &cfg, nil
}
