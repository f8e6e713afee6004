package config

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-envconfig"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds runtime configuration for the API service.
type Config struct {
	Addr            string        `env:"ADDR,default=:8080"`
	DBDSN           string        `env:"DB_DSN,required"`
	JWTSigningKey   string        `env:"JWT_SIGNING_KEY,required"`
	JWTRefreshKey   string        `env:"JWT_REFRESH_KEY,required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,default=2m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL,default=72h"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	CookieDomain    string        `env:"COOKIE_DOMAIN"`
	CookieSecure    bool          `env:"COOKIE_SECURE,default=false"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.JWTSigningKey == cfg.JWTRefreshKey {
		// Distinct secrets keep access and refresh tokens from being
		// replayed in each other's place.
		return Config{}, errors.New("JWT_SIGNING_KEY and JWT_REFRESH_KEY must differ")
	}
	return cfg, nil
}
