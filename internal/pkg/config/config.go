package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=5001"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	ClientURL string `env:"CLIENT_URL, default=http://localhost:5173"`
	// TrustProxy reads the client IP from proxy headers; enable only behind a
	// reverse proxy that sets them.
	TrustProxy bool `env:"TRUST_PROXY, default=false"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `env:"JWT_ACCESS_TTL,  default=168h"`
	RefreshTokenTTL  time.Duration `env:"JWT_REFRESH_TTL, default=720h"`
	BcryptCost       int           `env:"BCRYPT_COST,     default=10"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=chat_app"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type RateLimitConfig struct {
	// Store selects the window store: "memory" (per process) or "redis" (shared).
	Store         string        `env:"RATE_LIMIT_STORE,          default=memory"`
	SweepInterval time.Duration `env:"RATE_LIMIT_SWEEP_INTERVAL, default=5m"`
}

type StorageConfig struct {
	Bucket        string        `env:"S3_BUCKET,     default=chat-uploads"`
	Region        string        `env:"S3_REGION,     default=us-east-1"`
	Endpoint      string        `env:"S3_ENDPOINT"`
	AccessKey     string        `env:"S3_ACCESS_KEY"`
	SecretKey     string        `env:"S3_SECRET_KEY"`
	PublicURL     string        `env:"S3_PUBLIC_URL"`
	UploadTimeout time.Duration `env:"UPLOAD_TIMEOUT, default=30s"`
}

// IsDevelopment reports whether the server runs outside production; cookies
// are not marked Secure in development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom resolves the configuration against an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTRefreshSecret == "" {
		cfg.Auth.JWTRefreshSecret = cfg.Auth.JWTSecret + ".refresh"
	}
	switch cfg.RateLimit.Store {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("RATE_LIMIT_STORE: unsupported value %q", cfg.RateLimit.Store)
	}
	return &cfg, nil
}
