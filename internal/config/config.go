package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string `env:"PORT" envDefault:"5000"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
	GinMode       string `env:"GIN_MODE" envDefault:"release"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// пустой DATABASE_URL отключает архив партий
	DatabaseURL string `env:"DATABASE_URL"`

	// пустой REDIS_ADDR - лимитер считает в памяти
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	RateLimit       int           `env:"RATE_LIMIT" envDefault:"120"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	CoinSeed        int64         `env:"COIN_SEED" envDefault:"0"`
	EventBuffer     int           `env:"EVENT_BUFFER" envDefault:"256"`
	StrictTurns     bool          `env:"STRICT_TURNS" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// JSONLogs - формат логов для прода
func (c Config) JSONLogs() bool {
	return c.LogFormat == "json"
}

// Load читает .env (если есть) и переменные окружения
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AppPort == "" {
		return Config{}, errors.New("PORT must not be empty")
	}
	if cfg.EventBuffer < 0 {
		return Config{}, fmt.Errorf("EVENT_BUFFER must be >= 0, got %d", cfg.EventBuffer)
	}
	return cfg, nil
}
